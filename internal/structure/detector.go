// Package structure detects special chart structures (特殊格局) that override
// the ordinary strength-based useful elements.
package structure

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/f3rmion/bazi/internal/bazi"
	"github.com/f3rmion/bazi/internal/strength"
)

// Kind identifies a special structure.
type Kind string

const (
	KindCombination   Kind = "combination-transformation" // 化气格
	KindAlliance      Kind = "branch-alliance"            // 三合局
	KindFollow        Kind = "follow"                     // 从格
	KindDominant      Kind = "follow-dominant"            // 专旺格
	KindRepeatedClash Kind = "repeated-branch-clash"      // 群冲
	KindCastle        Kind = "castle-pillars"             // 城墙格
)

// Structure is a detected special structure with the evidence that
// triggered it.
type Structure struct {
	Kind     Kind            `json:"kind" yaml:"kind"`
	Name     string          `json:"name" yaml:"name"`
	Element  bazi.Element    `json:"element" yaml:"element"`
	Roles    []bazi.Role     `json:"roles" yaml:"roles"`
	Stems    []bazi.Stem     `json:"stems,omitempty" yaml:"stems,omitempty"`
	Branches []bazi.Branch   `json:"branches,omitempty" yaml:"branches,omitempty"`
	Half     bool            `json:"half,omitempty" yaml:"half,omitempty"`
	Useful   bazi.ElementSet `json:"useful" yaml:"useful"`
	Harmful  bazi.ElementSet `json:"harmful" yaml:"harmful"`
	Note     string          `json:"note" yaml:"note"`
}

// Input is what every predicate sees.
type Input struct {
	Chart    bazi.Chart
	Category strength.Category
	Balance  strength.Balance
}

// Rule is one named predicate. Match returns nil when the chart does not
// qualify.
type Rule struct {
	Name  string
	Match func(Input) *Structure
}

// Rules are tried in order; the first match wins.
var Rules = []Rule{
	{"combination-transformation", MatchCombination},
	{"branch-alliance", MatchAlliance},
	{"follow", MatchFollow},
	{"repeated-branch-clash", MatchRepeatedClash},
	{"castle-pillars", MatchCastle},
}

// Detect returns the first structure that matches, or nil.
func Detect(in Input) *Structure {
	for _, r := range Rules {
		if s := r.Match(in); s != nil {
			return s
		}
	}
	return nil
}

// finish fills the useful set from two elements and derives the harmful set.
func finish(s *Structure, a, b bazi.Element) *Structure {
	s.Useful = bazi.NewElementSet(a, b)
	s.Harmful = s.Useful.Complement()
	return s
}

// MatchCombination finds a Day stem combining with the Month stem, then the
// Hour stem, whose transformation the season supports and no other stem
// breaks.
func MatchCombination(in Input) *Structure {
	c := in.Chart
	day := c.DayMaster()
	season := bazi.Season(c.MonthBranch())

	for _, role := range []bazi.Role{bazi.RoleMonth, bazi.RoleHour} {
		other := c.Pillar(role).Stem
		into, ok := bazi.StemCombination(day, other)
		if !ok {
			continue
		}
		if season != into && season.Generates() != into {
			continue
		}
		if brokenBy(c, into, role) {
			continue
		}

		roles := []bazi.Role{role, bazi.RoleDay}
		stems := []bazi.Stem{other, day}
		if role == bazi.RoleHour {
			roles = []bazi.Role{bazi.RoleDay, role}
			stems = []bazi.Stem{day, other}
		}
		return finish(&Structure{
			Kind:    KindCombination,
			Name:    "化" + into.Glyph() + "格",
			Element: into,
			Roles:   roles,
			Stems:   stems,
			Note:    fmt.Sprintf("%s%s combine into %s in a %s month", stems[0].Glyph(), stems[1].Glyph(), into, season),
		}, into, into.GeneratedBy())
	}
	return nil
}

// brokenBy reports whether a stem outside the combining pair controls into.
func brokenBy(c bazi.Chart, into bazi.Element, partner bazi.Role) bool {
	for _, r := range bazi.Roles {
		if r == bazi.RoleDay || r == partner {
			continue
		}
		if c.Pillar(r).Stem.Element().Controls() == into {
			return true
		}
	}
	return false
}

// MatchAlliance finds a full triple alliance, or a half alliance around the
// cardinal branch whose element shows on a stem, that the month season does
// not already reflect.
func MatchAlliance(in Input) *Structure {
	c := in.Chart
	season := bazi.Season(c.MonthBranch())

	for _, a := range bazi.TripleAlliances {
		if a.Element == season {
			continue
		}
		var roles []bazi.Role
		var branches []bazi.Branch
		for _, b := range a.Branches {
			if r, ok := firstRole(c, b); ok {
				roles = append(roles, r)
				branches = append(branches, b)
			}
		}

		switch {
		case len(branches) == 3:
			return finish(&Structure{
				Kind:     KindAlliance,
				Name:     a.Cardinal().Glyph() + "三合" + a.Element.Glyph() + "局",
				Element:  a.Element,
				Roles:    roles,
				Branches: branches,
				Note:     fmt.Sprintf("triple alliance forms %s", a.Element),
			}, a.Element, a.Element.Generates())
		case len(branches) == 2 && hasBranch(branches, a.Cardinal()) && revealed(c, a.Element):
			return finish(&Structure{
				Kind:     KindAlliance,
				Name:     branches[0].Glyph() + branches[1].Glyph() + "半合" + a.Element.Glyph() + "局",
				Element:  a.Element,
				Roles:    roles,
				Branches: branches,
				Half:     true,
				Note:     fmt.Sprintf("half alliance forms %s, revealed on a stem", a.Element),
			}, a.Element, a.Element.Generates())
		}
	}
	return nil
}

func firstRole(c bazi.Chart, b bazi.Branch) (bazi.Role, bool) {
	for _, r := range bazi.Roles {
		if c.Pillar(r).Branch == b {
			return r, true
		}
	}
	return 0, false
}

func hasBranch(bs []bazi.Branch, b bazi.Branch) bool {
	for _, x := range bs {
		if x == b {
			return true
		}
	}
	return false
}

func revealed(c bazi.Chart, e bazi.Element) bool {
	for _, s := range c.Stems() {
		if s.Element() == e {
			return true
		}
	}
	return false
}

var (
	followSupportMax   = decimal.RequireFromString("0.5")
	followOpposingMin  = decimal.RequireFromString("3.5")
	dominantSupportMin = decimal.RequireFromString("6.5")
)

var followNames = map[string]string{"output": "从儿格", "wealth": "从财格", "officer": "从杀格"}

var dominantNames = [5]string{
	bazi.Wood:  "曲直格",
	bazi.Fire:  "炎上格",
	bazi.Earth: "稼穑格",
	bazi.Metal: "从革格",
	bazi.Water: "润下格",
}

// MatchFollow finds a Day Master that gives up and follows one opposing
// element, or one so strong it can only be followed itself.
func MatchFollow(in Input) *Structure {
	c := in.Chart
	dm := c.DayMaster().Element()
	support := strength.Support(c, in.Balance)

	switch in.Category {
	case strength.VeryWeak, strength.Weak:
		if support.GreaterThan(followSupportMax) {
			return nil
		}
		opposing := []struct {
			label string
			e     bazi.Element
		}{
			{"output", dm.Generates()},
			{"wealth", dm.Controls()},
			{"officer", dm.ControlledBy()},
		}
		best, tie := -1, false
		for i, o := range opposing {
			if best < 0 {
				best = i
				continue
			}
			switch in.Balance.Weighted.Of(o.e).Cmp(in.Balance.Weighted.Of(opposing[best].e)) {
			case 1:
				best, tie = i, false
			case 0:
				tie = true
			}
		}
		d := opposing[best]
		if tie || in.Balance.Weighted.Of(d.e).LessThan(followOpposingMin) {
			return nil
		}
		return finish(&Structure{
			Kind:    KindFollow,
			Name:    followNames[d.label],
			Element: d.e,
			Roles:   []bazi.Role{bazi.RoleDay},
			Stems:   []bazi.Stem{c.DayMaster()},
			Note:    fmt.Sprintf("rootless Day Master follows its %s (%s %s)", d.label, d.e, in.Balance.Weighted.Of(d.e)),
		}, d.e, d.e.GeneratedBy())

	case strength.VeryStrong, strength.Strong:
		if support.LessThan(dominantSupportMin) {
			return nil
		}
		return finish(&Structure{
			Kind:    KindDominant,
			Name:    dominantNames[dm],
			Element: dm,
			Roles:   []bazi.Role{bazi.RoleDay},
			Stems:   []bazi.Stem{c.DayMaster()},
			Note:    fmt.Sprintf("%s and its resource hold %s of the chart", dm, support.Add(decimal.NewFromInt(1))),
		}, dm, dm.GeneratedBy())
	}
	return nil
}

var countGlyphs = [5]string{"", "一", "二", "三", "四"}

// branchCounts counts how many pillars each branch occupies.
func branchCounts(c bazi.Chart) [12]int {
	var n [12]int
	for _, b := range c.Branches() {
		n[b]++
	}
	return n
}

func rolesOf(c bazi.Chart, bs ...bazi.Branch) []bazi.Role {
	var out []bazi.Role
	for _, r := range bazi.Roles {
		if hasBranch(bs, c.Pillar(r).Branch) {
			out = append(out, r)
		}
	}
	return out
}

// MatchRepeatedClash finds a branch repeated across pillars and clashed by a
// single partner.
func MatchRepeatedClash(in Input) *Structure {
	c := in.Chart
	n := branchCounts(c)
	for _, b := range c.Branches() {
		p := bazi.ClashPartner(b)
		if n[b] < 2 || n[p] != 1 {
			continue
		}
		e := b.Element()
		return finish(&Structure{
			Kind:     KindRepeatedClash,
			Name:     countGlyphs[n[b]] + b.Glyph() + "冲" + p.Glyph(),
			Element:  e,
			Roles:    rolesOf(c, b, p),
			Branches: []bazi.Branch{b, p},
			Note:     fmt.Sprintf("%s repeated %d times clashes a lone %s", b.Glyph(), n[b], p.Glyph()),
		}, e, e.GeneratedBy())
	}
	return nil
}

// MatchCastle finds one branch filling three or more pillars with nothing to
// clash it.
func MatchCastle(in Input) *Structure {
	c := in.Chart
	n := branchCounts(c)
	for _, b := range c.Branches() {
		if n[b] < 3 || n[bazi.ClashPartner(b)] != 0 {
			continue
		}
		e := b.Element()
		return finish(&Structure{
			Kind:     KindCastle,
			Name:     countGlyphs[n[b]] + b.Glyph() + "城墙格",
			Element:  e,
			Roles:    rolesOf(c, b),
			Branches: []bazi.Branch{b},
			Note:     fmt.Sprintf("%s holds %d pillars unopposed", b.Glyph(), n[b]),
		}, e, e.Generates())
	}
	return nil
}
