// Package luck sequences the decade luck pillars (大运).
package luck

import (
	"fmt"

	"github.com/f3rmion/bazi/internal/bazi"
)

// Defaults used when a Sequencer is built without options.
const (
	DefaultCount    = 6
	DefaultStartAge = 8
)

// Direction is the way the luck pillars walk the sexagenary cycle.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// DirectionFor returns Forward for a male with a Yang year stem or a female
// with a Yin year stem, and Backward otherwise.
func DirectionFor(g bazi.Gender, yearStem bazi.Stem) Direction {
	yang := yearStem.Polarity() == bazi.Yang
	if (g == bazi.Male) == yang {
		return Forward
	}
	return Backward
}

// Pillar is one decade of luck.
type Pillar struct {
	Index    int          `json:"index" yaml:"index"`
	Pillar   bazi.Pillar  `json:"pillar" yaml:"pillar"`
	Element  bazi.Element `json:"element" yaml:"element"` // of the stem
	StartAge int          `json:"startAge" yaml:"startAge"`
	EndAge   int          `json:"endAge" yaml:"endAge"`
}

// Sequence is the ordered luck pillars of one chart.
type Sequence struct {
	Direction Direction `json:"direction" yaml:"direction"`
	StartAge  int       `json:"startAge" yaml:"startAge"`
	Pillars   []Pillar  `json:"pillars" yaml:"pillars"`
}

// Sequencer emits luck pillars. The zero value is not usable; call New.
type Sequencer struct {
	count    int
	startAge int
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithCount sets how many luck pillars to emit.
func WithCount(n int) Option { return func(s *Sequencer) { s.count = n } }

// WithStartAge sets the age at which the first luck pillar begins.
func WithStartAge(age int) Option { return func(s *Sequencer) { s.startAge = age } }

// New returns a Sequencer. A count below one or a negative start age is
// rejected.
func New(opts ...Option) (*Sequencer, error) {
	s := &Sequencer{count: DefaultCount, startAge: DefaultStartAge}
	for _, o := range opts {
		o(s)
	}
	if s.count < 1 {
		return nil, fmt.Errorf("luck pillar count must be at least 1, got %d", s.count)
	}
	if s.startAge < 0 {
		return nil, fmt.Errorf("luck start age must not be negative, got %d", s.startAge)
	}
	return s, nil
}

// Count returns the number of pillars emitted.
func (s *Sequencer) Count() int { return s.count }

// StartAge returns the age the first pillar begins at.
func (s *Sequencer) StartAge() int { return s.startAge }

// Sequence walks the cycle from the month pillar, which is itself skipped.
func (s *Sequencer) Sequence(c bazi.Chart, g bazi.Gender) Sequence {
	dir := DirectionFor(g, c.Pillar(bazi.RoleYear).Stem)
	step := 1
	if dir == Backward {
		step = -1
	}

	month := c.Pillar(bazi.RoleMonth).Index()
	out := Sequence{Direction: dir, StartAge: s.startAge, Pillars: make([]Pillar, s.count)}
	for i := range out.Pillars {
		p := bazi.PillarAt(month + step*(i+1))
		age := s.startAge + 10*i
		out.Pillars[i] = Pillar{
			Index:    i + 1,
			Pillar:   p,
			Element:  p.Stem.Element(),
			StartAge: age,
			EndAge:   age + 9,
		}
	}
	return out
}
