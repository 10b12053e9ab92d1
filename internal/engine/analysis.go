package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/f3rmion/bazi/internal/bazi"
	"github.com/f3rmion/bazi/internal/interaction"
	"github.com/f3rmion/bazi/internal/luck"
	"github.com/f3rmion/bazi/internal/solartime"
	"github.com/f3rmion/bazi/internal/strength"
	"github.com/f3rmion/bazi/internal/structure"
)

// Input is a birth request as received from a caller.
type Input struct {
	DateTime     string   `json:"dateTime" yaml:"dateTime"`
	Timezone     string   `json:"timezone" yaml:"timezone"`
	Gender       string   `json:"gender" yaml:"gender"`
	Longitude    *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	UseSolarTime bool     `json:"useSolarTime" yaml:"useSolarTime"`
}

// Request returns the time portion of the input.
func (in Input) Request() solartime.Request {
	return solartime.Request{
		DateTime:     in.DateTime,
		Timezone:     in.Timezone,
		Longitude:    in.Longitude,
		Latitude:     in.Latitude,
		UseSolarTime: in.UseSolarTime,
	}
}

// canonical renders the input in a fixed form for hashing.
func (in Input) canonical() string {
	coord := func(f *float64) string {
		if f == nil {
			return "-"
		}
		return strconv.FormatFloat(*f, 'f', -1, 64)
	}
	return strings.Join([]string{
		strings.TrimSpace(in.DateTime),
		strings.TrimSpace(in.Timezone),
		strings.ToLower(strings.TrimSpace(in.Gender)),
		coord(in.Longitude),
		coord(in.Latitude),
		strconv.FormatBool(in.UseSolarTime),
	}, "|")
}

// namespace scopes chart ids.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/f3rmion/bazi/chart"))

// PillarInfo is one pillar of the analysis with its hidden stems.
type PillarInfo struct {
	Role          bazi.Role         `json:"role" yaml:"role"`
	Glyph         string            `json:"glyph" yaml:"glyph"`
	Stem          bazi.Stem         `json:"stem" yaml:"stem"`
	Branch        bazi.Branch       `json:"branch" yaml:"branch"`
	Element       bazi.Element      `json:"element" yaml:"element"`
	BranchElement bazi.Element      `json:"branchElement" yaml:"branchElement"`
	Polarity      bazi.Polarity     `json:"polarity" yaml:"polarity"`
	Hidden        []bazi.HiddenStem `json:"hidden" yaml:"hidden"`
}

// DayMasterInfo describes the day stem and its strength.
type DayMasterInfo struct {
	Glyph    string            `json:"glyph" yaml:"glyph"`
	Element  bazi.Element      `json:"element" yaml:"element"`
	Polarity bazi.Polarity     `json:"polarity" yaml:"polarity"`
	Category strength.Category `json:"category" yaml:"category"`
	Phase    strength.Phase    `json:"phase" yaml:"phase"`
	Label    string            `json:"label" yaml:"label"`
	Support  decimal.Decimal   `json:"support" yaml:"support"`
}

// TimeInfo records how the birth time was resolved.
type TimeInfo struct {
	Input                  string  `json:"input" yaml:"input"`
	Zone                   string  `json:"zone" yaml:"zone"`
	Local                  string  `json:"local" yaml:"local"`
	Solar                  *string `json:"solar,omitempty" yaml:"solar,omitempty"`
	HourMoment             string  `json:"hourMoment" yaml:"hourMoment"`
	IsDST                  bool    `json:"isDST" yaml:"isDST"`
	StandardMeridian       float64 `json:"standardMeridian" yaml:"standardMeridian"`
	LongitudeMinutes       float64 `json:"longitudeMinutes" yaml:"longitudeMinutes"`
	EquationMinutes        float64 `json:"equationMinutes" yaml:"equationMinutes"`
	DSTMinutes             float64 `json:"dstMinutes" yaml:"dstMinutes"`
	TotalCorrectionMinutes float64 `json:"totalCorrectionMinutes" yaml:"totalCorrectionMinutes"`
}

const wallLayout = "2006-01-02 15:04:05"

func round2(f float64) float64 { return math.Round(f*100) / 100 }

func newTimeInfo(m solartime.Moment) *TimeInfo {
	ti := &TimeInfo{
		Input:                  m.Input,
		Zone:                   m.Zone,
		Local:                  m.Local.Format("2006-01-02T15:04:05-07:00"),
		HourMoment:             m.HourMoment.Format(wallLayout),
		IsDST:                  m.IsDST,
		StandardMeridian:       round2(m.StandardMeridian),
		LongitudeMinutes:       round2(m.LongitudeMinutes),
		EquationMinutes:        round2(m.EquationMinutes),
		DSTMinutes:             round2(m.DSTMinutes),
		TotalCorrectionMinutes: round2(m.CorrectionMinutes),
	}
	if m.Solar != nil {
		s := m.Solar.Format(wallLayout)
		ti.Solar = &s
	}
	return ti
}

// ChartAnalysis is the complete, immutable result for one birth. Two
// analyses of the same input marshal to identical bytes.
type ChartAnalysis struct {
	ID        uuid.UUID        `json:"id" yaml:"id"`
	Input     *Input           `json:"input,omitempty" yaml:"input,omitempty"`
	Chart     string           `json:"chart" yaml:"chart"`
	Gender    bazi.Gender      `json:"gender" yaml:"gender"`
	Pillars   [4]PillarInfo    `json:"pillars" yaml:"pillars"`
	DayMaster DayMasterInfo    `json:"dayMaster" yaml:"dayMaster"`
	Balance   strength.Balance `json:"balance" yaml:"balance"`

	// Useful and Harmful are the sets to act on: the structure's when one
	// was detected, the strength resolver's otherwise.
	Useful  bazi.ElementSet `json:"useful" yaml:"useful"`
	Harmful bazi.ElementSet `json:"harmful" yaml:"harmful"`

	StrengthUseful  bazi.ElementSet `json:"strengthUseful" yaml:"strengthUseful"`
	StrengthHarmful bazi.ElementSet `json:"strengthHarmful" yaml:"strengthHarmful"`

	Structure    *structure.Structure      `json:"structure,omitempty" yaml:"structure,omitempty"`
	Interactions []interaction.Interaction `json:"interactions" yaml:"interactions"`
	Luck         luck.Sequence             `json:"luck" yaml:"luck"`
	TimeInfo     *TimeInfo                 `json:"timeInfo,omitempty" yaml:"timeInfo,omitempty"`
}

// Overridden reports whether a special structure replaced the strength-based
// useful elements.
func (a *ChartAnalysis) Overridden() bool { return a.Structure != nil }

// Summary is a one-line description used in logs and lists.
func (a *ChartAnalysis) Summary() string {
	s := fmt.Sprintf("%s %s %s, useful %s", a.Chart, a.DayMaster.Glyph, a.DayMaster.Category, a.Useful)
	if a.Structure != nil {
		s += " [" + a.Structure.Name + "]"
	}
	return s
}

func pillarInfos(c bazi.Chart) [4]PillarInfo {
	var out [4]PillarInfo
	for _, r := range bazi.Roles {
		p := c.Pillar(r)
		out[r] = PillarInfo{
			Role:          r,
			Glyph:         p.String(),
			Stem:          p.Stem,
			Branch:        p.Branch,
			Element:       p.Stem.Element(),
			BranchElement: p.Branch.Element(),
			Polarity:      p.Stem.Polarity(),
			Hidden:        p.Branch.HiddenStems(),
		}
	}
	return out
}
