// Package strength tallies a chart's elements and scores the Day Master's
// seasonal strength.
package strength

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/f3rmion/bazi/internal/bazi"
)

// Phase is the seasonal state (旺相休囚死) of an element in a given month.
type Phase int

const (
	Dominant   Phase = iota // 旺 the season's own element
	Supportive              // 相 produced by the season
	Restful                 // 休 produces the season
	Trapped                 // 囚 overcomes the season
	Dead                    // 死 overcome by the season
)

var phaseNames = [5]string{"dominant", "supportive", "restful", "trapped", "dead"}

var phaseGlyphs = [5]string{"旺", "相", "休", "囚", "死"}

func (p Phase) String() string { return phaseNames[p] }

// Glyph returns the traditional character for the phase.
func (p Phase) Glyph() string { return phaseGlyphs[p] }

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Category is the ordered strength scale of the Day Master.
type Category int

const (
	VeryWeak Category = iota
	Weak
	Balanced
	Strong
	VeryStrong
)

// Categories lists every category from weakest to strongest.
var Categories = [5]Category{VeryWeak, Weak, Balanced, Strong, VeryStrong}

var categoryNames = [5]string{"very-weak", "weak", "balanced", "strong", "very-strong"}

var categoryLabels = [5]string{"Very weak", "Weak", "Balanced", "Strong", "Very strong"}

func (c Category) String() string {
	if c < VeryWeak || c > VeryStrong {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	for i, n := range categoryNames {
		if n == string(text) {
			*c = Category(i)
			return nil
		}
	}
	return fmt.Errorf("unknown strength category %q", text)
}

// phaseTable[dayMaster][season] is the Day Master's phase in that season.
// Rows are Day Master elements, columns the season groups spring, summer,
// earth months, autumn, winter.
var phaseTable = [5][5]Phase{
	bazi.Wood:  {Dominant, Restful, Trapped, Dead, Supportive},
	bazi.Fire:  {Supportive, Dominant, Restful, Trapped, Dead},
	bazi.Earth: {Dead, Supportive, Dominant, Restful, Trapped},
	bazi.Metal: {Trapped, Dead, Supportive, Dominant, Restful},
	bazi.Water: {Restful, Trapped, Dead, Supportive, Dominant},
}

// phaseCategory maps each phase onto the strength scale.
var phaseCategory = [5]Category{
	Dominant:   VeryStrong,
	Supportive: Strong,
	Restful:    Balanced,
	Trapped:    Weak,
	Dead:       VeryWeak,
}

// PhaseOf returns the phase of dayMaster in the season of monthBranch.
func PhaseOf(dayMaster bazi.Element, monthBranch bazi.Branch) Phase {
	return phaseTable[dayMaster][bazi.Season(monthBranch)]
}

// Classify returns the Day Master's category. Only the month branch matters;
// the tally never moves the category.
func Classify(c bazi.Chart) (Category, Phase) {
	p := PhaseOf(c.DayMaster().Element(), c.MonthBranch())
	return phaseCategory[p], p
}

// Label returns a human-readable label such as "Very strong (旺)".
func Label(c Category, p Phase) string {
	return fmt.Sprintf("%s (%s)", categoryLabels[c], p.Glyph())
}

// Balance holds both element tallies of a chart.
type Balance struct {
	// Simple counts 1 per glyph: each stem's element and each branch's
	// nominal element. Always totals 8.
	Simple bazi.ElementTally `json:"simple" yaml:"simple"`
	// Weighted counts 1 per stem and spreads each branch over its hidden
	// stems by weight. Always totals 8.
	Weighted bazi.ElementTally `json:"weighted" yaml:"weighted"`
}

// Tally computes both tallies from the chart alone.
func Tally(c bazi.Chart) Balance {
	one := decimal.NewFromInt(1)
	var b Balance
	for _, p := range c.Pillars() {
		b.Simple = b.Simple.Add(p.Stem.Element(), one)
		b.Simple = b.Simple.Add(p.Branch.Element(), one)

		b.Weighted = b.Weighted.Add(p.Stem.Element(), one)
		for _, h := range p.Branch.HiddenStems() {
			b.Weighted = b.Weighted.Add(h.Stem.Element(), h.Weight)
		}
	}
	return b
}

// Support is the weighted count of the Day Master's own and producing
// elements, excluding the day stem itself.
func Support(c bazi.Chart, b Balance) decimal.Decimal {
	dm := c.DayMaster().Element()
	return b.Weighted.Of(dm).Add(b.Weighted.Of(dm.GeneratedBy())).Sub(decimal.NewFromInt(1))
}
