// Package bazi provides the closed symbol tables of the Four-Pillars system:
// elements, stems, branches, hidden stems, pillars and charts.
package bazi

import (
	"fmt"
	"strings"
)

// Element is one of the five phases.
type Element int

const (
	Wood  Element = iota // 木
	Fire                 // 火
	Earth                // 土
	Metal                // 金
	Water                // 水
)

// Elements lists the five elements in generation-cycle order.
var Elements = [5]Element{Wood, Fire, Earth, Metal, Water}

var elementNames = [5]string{"wood", "fire", "earth", "metal", "water"}

var elementGlyphs = [5]string{"木", "火", "土", "金", "水"}

// Generation and control cycles. Wood feeds Fire, Fire makes Earth, Earth bears
// Metal, Metal carries Water, Water nourishes Wood; Wood parts Earth, Earth dams
// Water, Water quenches Fire, Fire melts Metal, Metal cuts Wood.
var (
	generates    = [5]Element{Fire, Earth, Metal, Water, Wood}
	generatedBy  = [5]Element{Water, Wood, Fire, Earth, Metal}
	controls     = [5]Element{Earth, Metal, Water, Wood, Fire}
	controlledBy = [5]Element{Metal, Water, Wood, Fire, Earth}
)

// String returns the lower-case English name.
func (e Element) String() string {
	if !e.Valid() {
		return fmt.Sprintf("Element(%d)", int(e))
	}
	return elementNames[e]
}

// Glyph returns the Chinese glyph for the element.
func (e Element) Glyph() string { return elementGlyphs[e] }

// Valid reports whether e is one of the five elements.
func (e Element) Valid() bool { return e >= Wood && e <= Water }

// Generates returns the element e produces.
func (e Element) Generates() Element { return generates[e] }

// GeneratedBy returns the element that produces e.
func (e Element) GeneratedBy() Element { return generatedBy[e] }

// Controls returns the element e overcomes.
func (e Element) Controls() Element { return controls[e] }

// ControlledBy returns the element that overcomes e.
func (e Element) ControlledBy() Element { return controlledBy[e] }

// MarshalText implements encoding.TextMarshaler.
func (e Element) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("invalid element %d", int(e))
	}
	return []byte(elementNames[e]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Element) UnmarshalText(text []byte) error {
	parsed, err := ParseElement(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseElement accepts the English name or the glyph.
func ParseElement(s string) (Element, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := range elementNames {
		if s == elementNames[i] || s == elementGlyphs[i] {
			return Element(i), nil
		}
	}
	return 0, fmt.Errorf("unknown element %q", s)
}

// Polarity is the yin/yang quality of a stem or branch.
type Polarity int

const (
	Yang Polarity = iota // 阳
	Yin                  // 阴
)

// String returns "yang" or "yin".
func (p Polarity) String() string {
	if p == Yang {
		return "yang"
	}
	return "yin"
}

// MarshalText implements encoding.TextMarshaler.
func (p Polarity) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Role is the position of a pillar in the chart.
type Role int

const (
	RoleYear Role = iota
	RoleMonth
	RoleDay
	RoleHour
)

// Roles lists the four pillar roles in chart order.
var Roles = [4]Role{RoleYear, RoleMonth, RoleDay, RoleHour}

var roleNames = [4]string{"year", "month", "day", "hour"}

// String returns the lower-case role name.
func (r Role) String() string {
	if r < RoleYear || r > RoleHour {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Gender is a computational input for luck-pillar direction only.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ParseGender accepts "male" or "female" in any case.
func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case Male:
		return Male, nil
	case Female:
		return Female, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}
