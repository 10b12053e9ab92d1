// Package interaction finds the relationships between a chart's pillars.
// Every interaction's polarity comes from a fixed table.
package interaction

import (
	"fmt"

	"github.com/f3rmion/bazi/internal/bazi"
)

// Kind names a relationship.
type Kind string

const (
	StemCombination     Kind = "stem-combination"     // 天干合
	StemClash           Kind = "stem-clash"           // 天干冲
	RepeatedPillar      Kind = "repeated-pillar"      // 伏吟
	BranchCombination   Kind = "branch-combination"   // 六合
	BranchClash         Kind = "branch-clash"         // 六冲
	Harm                Kind = "harm"                 // 六害
	Punishment          Kind = "punishment"           // 刑
	TripleAlliance      Kind = "triple-alliance"      // 三合
	DirectionalAlliance Kind = "directional-alliance" // 三会
	TriplePunishment    Kind = "triple-punishment"    // 三刑
	NoblePerson         Kind = "noble-person"         // 天乙贵人
)

// Polarity is the fixed reading of an interaction.
type Polarity int

const (
	Favorable Polarity = iota
	Unfavorable
	Neutral
)

var polarityNames = [3]string{"favorable", "unfavorable", "neutral"}

func (p Polarity) String() string { return polarityNames[p] }

// MarshalText implements encoding.TextMarshaler.
func (p Polarity) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// polarities is the lookup table every interaction takes its polarity from.
var polarities = map[Kind]Polarity{
	StemCombination:     Favorable,
	StemClash:           Unfavorable,
	RepeatedPillar:      Neutral,
	BranchCombination:   Favorable,
	BranchClash:         Unfavorable,
	Harm:                Unfavorable,
	Punishment:          Unfavorable,
	TripleAlliance:      Favorable,
	DirectionalAlliance: Favorable,
	TriplePunishment:    Unfavorable,
	NoblePerson:         Favorable,
}

// PolarityOf returns the fixed polarity of k.
func PolarityOf(k Kind) Polarity { return polarities[k] }

// Interaction is one relationship between two or three pillars.
type Interaction struct {
	Kind     Kind          `json:"kind" yaml:"kind"`
	Roles    []bazi.Role   `json:"roles" yaml:"roles"`
	Glyphs   string        `json:"glyphs" yaml:"glyphs"`
	Polarity Polarity      `json:"polarity" yaml:"polarity"`
	Element  *bazi.Element `json:"element,omitempty" yaml:"element,omitempty"`
	Detail   string        `json:"detail" yaml:"detail"`
}

// pairs are the six unordered pillar pairs in reporting order.
var pairs = [6][2]bazi.Role{
	{bazi.RoleYear, bazi.RoleMonth},
	{bazi.RoleYear, bazi.RoleDay},
	{bazi.RoleYear, bazi.RoleHour},
	{bazi.RoleMonth, bazi.RoleDay},
	{bazi.RoleMonth, bazi.RoleHour},
	{bazi.RoleDay, bazi.RoleHour},
}

// triples are the four pillar triples in reporting order.
var triples = [4][3]bazi.Role{
	{bazi.RoleYear, bazi.RoleMonth, bazi.RoleDay},
	{bazi.RoleYear, bazi.RoleMonth, bazi.RoleHour},
	{bazi.RoleYear, bazi.RoleDay, bazi.RoleHour},
	{bazi.RoleMonth, bazi.RoleDay, bazi.RoleHour},
}

func newInteraction(k Kind, glyphs, detail string, roles ...bazi.Role) Interaction {
	return Interaction{Kind: k, Roles: roles, Glyphs: glyphs, Polarity: polarities[k], Detail: detail}
}

func withElement(i Interaction, e bazi.Element) Interaction {
	i.Element = &e
	return i
}

// Analyze returns every interaction in the chart: pairs first, then
// triples, then noble-person stars. The order is stable.
func Analyze(c bazi.Chart) []Interaction {
	out := make([]Interaction, 0, 8)
	for _, p := range pairs {
		out = append(out, analyzePair(c, p[0], p[1])...)
	}
	for _, t := range triples {
		out = append(out, analyzeTriple(c, t)...)
	}
	return append(out, nobles(c)...)
}

func analyzePair(c bazi.Chart, ra, rb bazi.Role) []Interaction {
	a, b := c.Pillar(ra), c.Pillar(rb)
	stems := a.Stem.Glyph() + b.Stem.Glyph()
	branches := a.Branch.Glyph() + b.Branch.Glyph()

	var out []Interaction
	if into, ok := bazi.StemCombination(a.Stem, b.Stem); ok {
		out = append(out, withElement(newInteraction(StemCombination, stems,
			fmt.Sprintf("%s combine toward %s", stems, into), ra, rb), into))
	}
	if bazi.StemClash(a.Stem, b.Stem) {
		out = append(out, newInteraction(StemClash, stems, stems+" clash", ra, rb))
	}
	if a == b {
		out = append(out, newInteraction(RepeatedPillar, a.String()+b.String(),
			fmt.Sprintf("%s repeats in the %s and %s pillars", a, ra, rb), ra, rb))
	}
	if into, ok := bazi.BranchCombination(a.Branch, b.Branch); ok {
		out = append(out, withElement(newInteraction(BranchCombination, branches,
			fmt.Sprintf("%s combine toward %s", branches, into), ra, rb), into))
	}
	if bazi.BranchClash(a.Branch, b.Branch) {
		out = append(out, newInteraction(BranchClash, branches, branches+" clash", ra, rb))
	}
	if bazi.BranchHarm(a.Branch, b.Branch) {
		out = append(out, newInteraction(Harm, branches, branches+" harm each other", ra, rb))
	}
	if bazi.BranchPunishment(a.Branch, b.Branch) {
		detail := branches + " punish each other"
		if a.Branch == b.Branch {
			detail = a.Branch.Glyph() + " punishes itself"
		}
		out = append(out, newInteraction(Punishment, branches, detail, ra, rb))
	}
	return out
}

func analyzeTriple(c bazi.Chart, t [3]bazi.Role) []Interaction {
	bs := [3]bazi.Branch{c.Pillar(t[0]).Branch, c.Pillar(t[1]).Branch, c.Pillar(t[2]).Branch}
	glyphs := bs[0].Glyph() + bs[1].Glyph() + bs[2].Glyph()

	var out []Interaction
	for _, a := range bazi.TripleAlliances {
		if covers(a.Branches, bs) {
			out = append(out, withElement(newInteraction(TripleAlliance, glyphs,
				fmt.Sprintf("%s unite as %s", glyphs, a.Element), t[:]...), a.Element))
		}
	}
	for _, a := range bazi.DirectionalAlliances {
		if covers(a.Branches, bs) {
			out = append(out, withElement(newInteraction(DirectionalAlliance, glyphs,
				fmt.Sprintf("%s gather the %s direction", glyphs, a.Element), t[:]...), a.Element))
		}
	}
	for _, g := range [2][3]bazi.Branch{bazi.PowerPunishment, bazi.UngratefulPunishment} {
		if covers(g, bs) {
			out = append(out, newInteraction(TriplePunishment, glyphs, glyphs+" complete a triple punishment", t[:]...))
		}
	}
	return out
}

// covers reports whether bs holds each branch of frame exactly once.
func covers(frame, bs [3]bazi.Branch) bool {
	for _, f := range frame {
		n := 0
		for _, b := range bs {
			if b == f {
				n++
			}
		}
		if n != 1 {
			return false
		}
	}
	return true
}

func nobles(c bazi.Chart) []Interaction {
	day := c.DayMaster()
	var out []Interaction
	for _, r := range bazi.Roles {
		if r == bazi.RoleDay {
			continue
		}
		b := c.Pillar(r).Branch
		if !bazi.IsNoble(day, b) {
			continue
		}
		roles := []bazi.Role{r, bazi.RoleDay}
		if r > bazi.RoleDay {
			roles = []bazi.Role{bazi.RoleDay, r}
		}
		out = append(out, newInteraction(NoblePerson, day.Glyph()+b.Glyph(),
			fmt.Sprintf("%s in the %s pillar is a noble person for %s", b.Glyph(), r, day.Glyph()), roles...))
	}
	return out
}
