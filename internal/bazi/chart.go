package bazi

import (
	"fmt"
	"strings"
)

// Pillar is a stem and branch pair.
type Pillar struct {
	Stem   Stem
	Branch Branch
}

// NewPillar builds a pillar, rejecting pairs that never occur in the
// sexagenary cycle (stem and branch of different polarity).
func NewPillar(s Stem, b Branch) (Pillar, error) {
	if s < StemJia || s > StemGui || b < BranchZi || b > BranchHai {
		return Pillar{}, fmt.Errorf("pillar out of range: stem %d branch %d", int(s), int(b))
	}
	if s.Polarity() != b.Polarity() {
		return Pillar{}, fmt.Errorf("%s%s is not a sexagenary pillar", s, b)
	}
	return Pillar{Stem: s, Branch: b}, nil
}

// MustPillar parses a two-glyph pillar and panics on failure. Intended for
// table literals and tests.
func MustPillar(glyphs string) Pillar {
	p, err := ParsePillar(glyphs)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePillar parses a two-glyph pillar such as "甲子".
func ParsePillar(glyphs string) (Pillar, error) {
	runes := []rune(strings.TrimSpace(glyphs))
	if len(runes) != 2 {
		return Pillar{}, fmt.Errorf("pillar %q must be two glyphs", glyphs)
	}
	s, err := ParseStem(string(runes[0]))
	if err != nil {
		return Pillar{}, err
	}
	b, err := ParseBranch(string(runes[1]))
	if err != nil {
		return Pillar{}, err
	}
	return NewPillar(s, b)
}

// PillarAt returns the pillar at position i of the 60-cycle, where 0 is 甲子.
// i is taken modulo 60, so negative positions walk backwards.
func PillarAt(i int) Pillar {
	i = ((i % 60) + 60) % 60
	return Pillar{Stem: Stem(i % 10), Branch: Branch(i % 12)}
}

// Index returns the pillar's position in the 60-cycle.
func (p Pillar) Index() int {
	return ((6*int(p.Stem)-5*int(p.Branch))%60 + 60) % 60
}

// String returns the two glyphs.
func (p Pillar) String() string { return p.Stem.Glyph() + p.Branch.Glyph() }

// MarshalText implements encoding.TextMarshaler.
func (p Pillar) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pillar) UnmarshalText(text []byte) error {
	parsed, err := ParsePillar(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Chart is the four pillars of a birth moment. It is a value type; copies
// never share state.
type Chart struct {
	pillars [4]Pillar
}

// NewChart assembles a chart from year, month, day and hour pillars.
func NewChart(year, month, day, hour Pillar) Chart {
	return Chart{pillars: [4]Pillar{year, month, day, hour}}
}

// Pillar returns the pillar in the given role.
func (c Chart) Pillar(r Role) Pillar { return c.pillars[r] }

// Pillars returns the four pillars in chart order.
func (c Chart) Pillars() [4]Pillar { return c.pillars }

// Stems returns the four heavenly stems in chart order.
func (c Chart) Stems() [4]Stem {
	var out [4]Stem
	for i, p := range c.pillars {
		out[i] = p.Stem
	}
	return out
}

// Branches returns the four earthly branches in chart order.
func (c Chart) Branches() [4]Branch {
	var out [4]Branch
	for i, p := range c.pillars {
		out[i] = p.Branch
	}
	return out
}

// DayMaster returns the day stem.
func (c Chart) DayMaster() Stem { return c.pillars[RoleDay].Stem }

// MonthBranch returns the branch that sets the season.
func (c Chart) MonthBranch() Branch { return c.pillars[RoleMonth].Branch }

// String renders the chart as "年 月 日 时" glyph pairs.
func (c Chart) String() string {
	parts := make([]string, 4)
	for i, p := range c.pillars {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

// ParseChart parses four space separated pillars, year first.
func ParseChart(s string) (Chart, error) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return Chart{}, fmt.Errorf("chart %q must have four pillars", s)
	}
	var ps [4]Pillar
	for i, f := range fields {
		p, err := ParsePillar(f)
		if err != nil {
			return Chart{}, fmt.Errorf("%s pillar: %w", Roles[i], err)
		}
		ps[i] = p
	}
	return Chart{pillars: ps}, nil
}

// MustChart is ParseChart for literals and tests.
func MustChart(s string) Chart {
	c, err := ParseChart(s)
	if err != nil {
		panic(err)
	}
	return c
}
