// Package useful resolves the useful (用神) and harmful (忌神) elements from
// the Day Master's strength.
package useful

import (
	"github.com/f3rmion/bazi/internal/bazi"
	"github.com/f3rmion/bazi/internal/strength"
)

// Relations are the five roles the elements play toward one element.
type Relations struct {
	Same         bazi.Element `json:"same" yaml:"same"`
	Generates    bazi.Element `json:"generates" yaml:"generates"`       // drains into
	GeneratedBy  bazi.Element `json:"generatedBy" yaml:"generatedBy"`   // supports
	Controls     bazi.Element `json:"controls" yaml:"controls"`         // is spent on
	ControlledBy bazi.Element `json:"controlledBy" yaml:"controlledBy"` // weakens
}

var relations = func() [5]Relations {
	var out [5]Relations
	for _, e := range bazi.Elements {
		out[e] = Relations{
			Same:         e,
			Generates:    e.Generates(),
			GeneratedBy:  e.GeneratedBy(),
			Controls:     e.Controls(),
			ControlledBy: e.ControlledBy(),
		}
	}
	return out
}()

// RelationsOf returns the relations of e.
func RelationsOf(e bazi.Element) Relations { return relations[e] }

// Sets is a pair of disjoint element sets.
type Sets struct {
	Useful  bazi.ElementSet `json:"useful" yaml:"useful"`
	Harmful bazi.ElementSet `json:"harmful" yaml:"harmful"`
}

// Resolve picks two useful elements for the category and treats the rest as
// harmful. A weak Day Master wants support and help, a strong one wants to be
// weakened and exhausted, a balanced one takes support with a mild check.
func Resolve(dayMaster bazi.Element, c strength.Category) Sets {
	r := relations[dayMaster]

	var useful bazi.ElementSet
	switch c {
	case strength.VeryWeak, strength.Weak:
		useful = bazi.NewElementSet(r.GeneratedBy, r.Same)
	case strength.VeryStrong, strength.Strong:
		useful = bazi.NewElementSet(r.ControlledBy, r.Generates)
	case strength.Balanced:
		useful = bazi.NewElementSet(r.GeneratedBy, r.ControlledBy)
	}

	harmful := useful.Complement()
	if c == strength.Balanced {
		// A balanced Day Master's own element neither helps nor hurts.
		harmful = harmful.Without(dayMaster)
	}
	return Sets{Useful: useful, Harmful: harmful}
}
