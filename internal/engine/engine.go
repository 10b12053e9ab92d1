// Package engine runs the full chart pipeline: time correction, pillars,
// strength, interactions, special structures, useful elements and luck.
package engine

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/f3rmion/bazi/internal/bazi"
	"github.com/f3rmion/bazi/internal/interaction"
	"github.com/f3rmion/bazi/internal/luck"
	"github.com/f3rmion/bazi/internal/pillars"
	"github.com/f3rmion/bazi/internal/solartime"
	"github.com/f3rmion/bazi/internal/strength"
	"github.com/f3rmion/bazi/internal/structure"
	"github.com/f3rmion/bazi/internal/useful"
)

// Engine analyzes charts. It holds only configuration set at construction
// and is safe for concurrent use.
type Engine struct {
	logger     *zap.Logger
	corrector  *solartime.Corrector
	calculator *pillars.Calculator
	luck       *luck.Sequencer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Analyses are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithCorrector replaces the solar-time corrector.
func WithCorrector(c *solartime.Corrector) Option {
	return func(e *Engine) {
		if c != nil {
			e.corrector = c
		}
	}
}

// WithCalendar replaces the source of year, month and day pillars.
func WithCalendar(cal pillars.Calendar) Option {
	return func(e *Engine) { e.calculator = pillars.NewCalculator(cal) }
}

// WithLuck replaces the luck pillar sequencer.
func WithLuck(s *luck.Sequencer) Option {
	return func(e *Engine) {
		if s != nil {
			e.luck = s
		}
	}
}

// New returns an engine with the lunar calendar, the default corrector and
// six luck pillars from age eight.
func New(opts ...Option) *Engine {
	seq, _ := luck.New()
	e := &Engine{
		logger:     zap.NewNop(),
		corrector:  solartime.New(),
		calculator: pillars.NewCalculator(nil),
		luck:       seq,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Analyze validates in and computes its analysis. Any failure aborts the
// whole pipeline; no partial analysis is returned.
func (e *Engine) Analyze(in Input) (*ChartAnalysis, error) {
	gender, err := bazi.ParseGender(in.Gender)
	if err != nil {
		return nil, &solartime.InputError{Field: solartime.FieldGender, Value: in.Gender, Err: err}
	}

	moment, err := e.corrector.Correct(in.Request())
	if err != nil {
		return nil, err
	}

	chart, err := e.calculator.Chart(moment)
	if err != nil {
		return nil, err
	}

	a := e.evaluate(chart, gender)
	echo := in
	a.Input = &echo
	a.ID = uuid.NewSHA1(namespace, []byte(in.canonical()))
	a.TimeInfo = newTimeInfo(moment)

	e.logger.Debug("chart analyzed",
		zap.String("id", a.ID.String()),
		zap.String("input", in.DateTime),
		zap.String("zone", moment.Zone),
		zap.String("chart", a.Chart),
		zap.Stringer("category", a.DayMaster.Category),
		zap.Bool("solar", moment.Solar != nil),
		zap.Float64("correction", a.TimeInfo.TotalCorrectionMinutes),
	)
	return a, nil
}

// AnalyzeChart analyzes a chart whose pillars are already known. The result
// has no input echo or time information.
func (e *Engine) AnalyzeChart(chart bazi.Chart, gender bazi.Gender) *ChartAnalysis {
	a := e.evaluate(chart, gender)
	a.ID = uuid.NewSHA1(namespace, []byte(chart.String()+"|"+string(gender)))
	e.logger.Debug("chart analyzed", zap.String("id", a.ID.String()), zap.String("chart", a.Chart))
	return a
}

func (e *Engine) evaluate(chart bazi.Chart, gender bazi.Gender) *ChartAnalysis {
	category, phase := strength.Classify(chart)
	balance := strength.Tally(chart)
	interactions := interaction.Analyze(chart)

	st := structure.Detect(structure.Input{Chart: chart, Category: category, Balance: balance})
	dm := chart.DayMaster()
	sets := useful.Resolve(dm.Element(), category)

	a := &ChartAnalysis{
		Chart:   chart.String(),
		Gender:  gender,
		Pillars: pillarInfos(chart),
		DayMaster: DayMasterInfo{
			Glyph:    dm.Glyph(),
			Element:  dm.Element(),
			Polarity: dm.Polarity(),
			Category: category,
			Phase:    phase,
			Label:    strength.Label(category, phase),
			Support:  strength.Support(chart, balance),
		},
		Balance:         balance,
		Useful:          sets.Useful,
		Harmful:         sets.Harmful,
		StrengthUseful:  sets.Useful,
		StrengthHarmful: sets.Harmful,
		Structure:       st,
		Interactions:    interactions,
		Luck:            e.luck.Sequence(chart, gender),
	}
	if st != nil {
		a.Useful, a.Harmful = st.Useful, st.Harmful
		e.logger.Debug("special structure overrides useful elements",
			zap.String("chart", a.Chart),
			zap.String("structure", string(st.Kind)),
			zap.Stringer("useful", st.Useful),
		)
	}
	return a
}
