package engine

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/f3rmion/bazi/internal/bazi"
	"github.com/f3rmion/bazi/internal/luck"
	"github.com/f3rmion/bazi/internal/solartime"
	"github.com/f3rmion/bazi/internal/strength"
	"github.com/f3rmion/bazi/internal/structure"
)

func ptr(f float64) *float64 { return &f }

var millennium = Input{DateTime: "2000-01-01 12:00", Timezone: "Asia/Shanghai", Gender: "male"}

func TestAnalyzeMillennium(t *testing.T) {
	a, err := New().Analyze(millennium)
	require.NoError(t, err)

	assert.Equal(t, "己卯 丙子 戊午 戊午", a.Chart)
	assert.Equal(t, bazi.Male, a.Gender)
	assert.Equal(t, "戊", a.DayMaster.Glyph)
	assert.Equal(t, bazi.Earth, a.DayMaster.Element)
	assert.Equal(t, strength.Weak, a.DayMaster.Category)
	assert.Equal(t, "Weak (囚)", a.DayMaster.Label)
	assert.Equal(t, "5", a.DayMaster.Support.String())

	assert.Equal(t, bazi.NewElementSet(bazi.Fire, bazi.Earth), a.StrengthUseful)
	require.NotNil(t, a.Structure)
	assert.Equal(t, structure.KindRepeatedClash, a.Structure.Kind)
	assert.True(t, a.Overridden())
	assert.Equal(t, a.Structure.Useful, a.Useful)
	assert.Equal(t, a.Structure.Harmful, a.Harmful)

	assert.Equal(t, luck.Backward, a.Luck.Direction)
	require.Len(t, a.Luck.Pillars, luck.DefaultCount)
	assert.Equal(t, "乙亥", a.Luck.Pillars[0].Pillar.String())

	assert.Len(t, a.Interactions, 5)
	require.NotNil(t, a.TimeInfo)
	assert.Nil(t, a.TimeInfo.Solar)
	assert.Equal(t, "2000-01-01 12:00:00", a.TimeInfo.HourMoment)
	assert.Equal(t, "2000-01-01T12:00:00+08:00", a.TimeInfo.Local)
	assert.Equal(t, 120.0, a.TimeInfo.StandardMeridian)

	for i, p := range a.Pillars {
		assert.Equal(t, bazi.Roles[i], p.Role)
		assert.NotEmpty(t, p.Hidden)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	in := Input{DateTime: "1987-07-12 06:45", Timezone: "Europe/Berlin", Gender: "female", Longitude: ptr(13.4), Latitude: ptr(52.5), UseSolarTime: true}
	e := New()

	first, err := e.Analyze(in)
	require.NoError(t, err)
	second, err := e.Analyze(in)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated analysis differs (-first +second):\n%s", diff)
	}

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, first.ID, second.ID)
}

func TestAnalyzeIDDependsOnInput(t *testing.T) {
	e := New()
	a, err := e.Analyze(millennium)
	require.NoError(t, err)

	other := millennium
	other.Gender = "female"
	b, err := e.Analyze(other)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Chart, b.Chart)
	assert.Equal(t, luck.Forward, b.Luck.Direction)
}

func TestAnalyzeSolarTime(t *testing.T) {
	in := millennium
	in.Longitude = ptr(120)
	in.UseSolarTime = true

	a, err := New().Analyze(in)
	require.NoError(t, err)
	require.NotNil(t, a.TimeInfo.Solar)
	assert.Equal(t, 0.0, a.TimeInfo.LongitudeMinutes)
	assert.InDelta(t, -3.6, a.TimeInfo.TotalCorrectionMinutes, 0.1)
	assert.Equal(t, *a.TimeInfo.Solar, a.TimeInfo.HourMoment)
	assert.Equal(t, "己卯 丙子 戊午 戊午", a.Chart)
}

func TestAnalyzeRejectsInvalidInput(t *testing.T) {
	e := New()
	tests := []struct {
		name  string
		in    Input
		field string
		is    error
	}{
		{"gender", Input{DateTime: "2000-01-01 12:00", Timezone: "UTC", Gender: "other"}, solartime.FieldGender, nil},
		{"date", Input{DateTime: "2000-13-01 12:00", Timezone: "UTC", Gender: "male"}, solartime.FieldDateTime, solartime.ErrInvalidDateTime},
		{"zone", Input{DateTime: "2000-01-01 12:00", Timezone: "Mars/Olympus", Gender: "male"}, solartime.FieldTimezone, solartime.ErrUnknownTimezone},
		{"longitude", Input{DateTime: "2000-01-01 12:00", Timezone: "UTC", Gender: "male", UseSolarTime: true}, solartime.FieldLongitude, solartime.ErrMissingLongitude},
		{"ambiguous", Input{DateTime: "2023-11-05 01:30", Timezone: "America/New_York", Gender: "male"}, solartime.FieldDateTime, solartime.ErrAmbiguousTime},
		{"nonexistent", Input{DateTime: "2023-03-12 02:30", Timezone: "America/New_York", Gender: "male"}, solartime.FieldDateTime, solartime.ErrNonexistentTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := e.Analyze(tt.in)
			require.Error(t, err)
			assert.Nil(t, a)
			assert.Equal(t, tt.field, solartime.Field(err))
			if tt.is != nil {
				assert.True(t, errors.Is(err, tt.is), err)
			}
		})
	}
}

type failingCalendar struct{}

func (failingCalendar) Pillars(time.Time) (bazi.Pillar, bazi.Pillar, bazi.Pillar, error) {
	return bazi.Pillar{}, bazi.Pillar{}, bazi.Pillar{}, errors.New("no tables")
}

func TestAnalyzeAbortsOnCalendarFailure(t *testing.T) {
	a, err := New(WithCalendar(failingCalendar{})).Analyze(millennium)
	assert.Error(t, err)
	assert.Nil(t, a)
}

func TestAnalyzeChartWithoutStructure(t *testing.T) {
	a := New().AnalyzeChart(bazi.MustChart("甲辰 庚午 庚戌 辛巳"), bazi.Female)

	assert.Nil(t, a.Structure)
	assert.False(t, a.Overridden())
	assert.Equal(t, strength.VeryWeak, a.DayMaster.Category)
	assert.Equal(t, bazi.NewElementSet(bazi.Earth, bazi.Metal), a.Useful)
	assert.Equal(t, a.StrengthUseful, a.Useful)
	assert.Nil(t, a.TimeInfo)
	assert.Nil(t, a.Input)
	assert.Equal(t, luck.Backward, a.Luck.Direction)
}

func TestWithLuck(t *testing.T) {
	seq, err := luck.New(luck.WithCount(3), luck.WithStartAge(5))
	require.NoError(t, err)

	a := New(WithLuck(seq)).AnalyzeChart(bazi.MustChart("甲辰 庚午 庚戌 辛巳"), bazi.Male)
	require.Len(t, a.Luck.Pillars, 3)
	assert.Equal(t, 5, a.Luck.StartAge)
	assert.Equal(t, 25, a.Luck.Pillars[2].StartAge)
}

func TestNilOptionsKeepDefaults(t *testing.T) {
	e := New(WithCorrector(nil), WithLuck(nil), WithLogger(nil))

	a, err := e.Analyze(millennium)
	require.NoError(t, err)
	assert.Len(t, a.Luck.Pillars, luck.DefaultCount)
}

func TestAnalyzeSolarTimeAcrossMidnight(t *testing.T) {
	in := Input{DateTime: "1990-06-15 00:30", Timezone: "Asia/Shanghai", Gender: "male", Longitude: ptr(75), UseSolarTime: true}

	a, err := New().Analyze(in)
	require.NoError(t, err)
	assert.Equal(t, "1990-06-14 20:29", a.TimeInfo.HourMoment[:16])
	assert.Equal(t, "庚午 壬午 庚戌 丙戌", a.Chart)
}

func TestAnalyzeLogsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, err := New(WithLogger(zap.New(core))).Analyze(millennium)
	require.NoError(t, err)

	entries := logs.FilterMessage("chart analyzed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "己卯 丙子 戊午 戊午", entries[0].ContextMap()["chart"])
	assert.Equal(t, 1, logs.FilterMessage("special structure overrides useful elements").Len())
}

func TestAnalyzeConcurrently(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := New()
	want, err := e.Analyze(millennium)
	require.NoError(t, err)

	const workers = 16
	results := make([]*ChartAnalysis, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.Analyze(millennium)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		if diff := cmp.Diff(want, results[i]); diff != "" {
			t.Errorf("worker %d differs (-want +got):\n%s", i, diff)
		}
	}
}

func TestAnalysisYAML(t *testing.T) {
	a, err := New().Analyze(millennium)
	require.NoError(t, err)

	out, err := yaml.Marshal(a)
	require.NoError(t, err)

	var back map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, "己卯 丙子 戊午 戊午", back["chart"])
	assert.Equal(t, a.ID.String(), back["id"])
	assert.Equal(t, []interface{}{"wood", "fire"}, back["useful"])
}
