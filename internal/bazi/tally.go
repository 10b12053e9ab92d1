package bazi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ElementTally counts each element's presence in a chart.
type ElementTally [5]decimal.Decimal

// Of returns the count for e.
func (t ElementTally) Of(e Element) decimal.Decimal { return t[e] }

// Add returns a copy of t with d added to e.
func (t ElementTally) Add(e Element, d decimal.Decimal) ElementTally {
	t[e] = t[e].Add(d)
	return t
}

// Total sums every element.
func (t ElementTally) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range t {
		sum = sum.Add(v)
	}
	return sum
}

// Dominant returns the element with the largest count. ok is false when the
// maximum is shared.
func (t ElementTally) Dominant() (Element, bool) {
	best := Wood
	tie := false
	for _, e := range Elements[1:] {
		switch t[e].Cmp(t[best]) {
		case 1:
			best, tie = e, false
		case 0:
			tie = true
		}
	}
	return best, !tie
}

// MarshalJSON writes the counts as an object in cycle order with numeric values.
func (t ElementTally) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range Elements {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%s", e.String(), t[e].String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object written by MarshalJSON.
func (t *ElementTally) UnmarshalJSON(data []byte) error {
	var raw map[string]json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out ElementTally
	for k, v := range raw {
		e, err := ParseElement(k)
		if err != nil {
			return err
		}
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return fmt.Errorf("tally %s: %w", k, err)
		}
		out[e] = d
	}
	*t = out
	return nil
}

// MarshalYAML keeps cycle order in YAML output.
func (t ElementTally) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range Elements {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.String()},
			&yaml.Node{Kind: yaml.ScalarNode, Value: t[e].String()},
		)
	}
	return node, nil
}

// String renders "wood=1.3 fire=2 ...".
func (t ElementTally) String() string {
	parts := make([]string, 0, 5)
	for _, e := range Elements {
		parts = append(parts, e.String()+"="+t[e].String())
	}
	return strings.Join(parts, " ")
}

// ElementSet is an unordered set of elements, iterated in cycle order.
type ElementSet uint8

// NewElementSet builds a set from the given elements.
func NewElementSet(es ...Element) ElementSet {
	var s ElementSet
	for _, e := range es {
		s |= 1 << e
	}
	return s
}

// AllElements is the set of all five elements.
const AllElements ElementSet = 1<<5 - 1

// Has reports membership.
func (s ElementSet) Has(e Element) bool { return s&(1<<e) != 0 }

// With returns s plus e.
func (s ElementSet) With(e Element) ElementSet { return s | 1<<e }

// Without returns s minus e.
func (s ElementSet) Without(e Element) ElementSet { return s &^ (1 << e) }

// Complement returns the elements not in s.
func (s ElementSet) Complement() ElementSet { return AllElements &^ s }

// Len returns the number of members.
func (s ElementSet) Len() int {
	n := 0
	for _, e := range Elements {
		if s.Has(e) {
			n++
		}
	}
	return n
}

// Elements returns the members in cycle order.
func (s ElementSet) Elements() []Element {
	out := make([]Element, 0, 5)
	for _, e := range Elements {
		if s.Has(e) {
			out = append(out, e)
		}
	}
	return out
}

// String renders "{fire, metal}".
func (s ElementSet) String() string {
	names := make([]string, 0, 5)
	for _, e := range s.Elements() {
		names = append(names, e.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// MarshalJSON writes the members as a list in cycle order.
func (s ElementSet) MarshalJSON() ([]byte, error) { return json.Marshal(s.Elements()) }

// UnmarshalJSON reads a list of element names.
func (s *ElementSet) UnmarshalJSON(data []byte) error {
	var es []Element
	if err := json.Unmarshal(data, &es); err != nil {
		return err
	}
	*s = NewElementSet(es...)
	return nil
}

// MarshalYAML writes the members as a list in cycle order.
func (s ElementSet) MarshalYAML() (interface{}, error) { return s.Elements(), nil }
