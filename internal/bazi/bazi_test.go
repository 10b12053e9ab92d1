package bazi

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestHiddenStemWeightsSumToOne(t *testing.T) {
	one := decimal.NewFromInt(1)
	for b := BranchZi; b <= BranchHai; b++ {
		hs := b.HiddenStems()
		require.NotEmpty(t, hs, "branch %s", b)
		assert.LessOrEqual(t, len(hs), 3, "branch %s", b)

		sum := decimal.Zero
		for _, h := range hs {
			assert.True(t, h.Weight.IsPositive(), "branch %s stem %s", b, h.Stem)
			sum = sum.Add(h.Weight)
		}
		assert.True(t, sum.Equal(one), "branch %s weights sum to %s", b, sum)
	}
}

func TestMainStemMatchesBranchElement(t *testing.T) {
	for b := BranchZi; b <= BranchHai; b++ {
		assert.Equal(t, b.Element(), b.MainStem().Element(), "branch %s", b)
	}
}

func TestHiddenStemsReturnsCopy(t *testing.T) {
	hs := BranchChou.HiddenStems()
	hs[0].Stem = StemJia
	assert.Equal(t, StemJi, BranchChou.MainStem())
}

func TestElementCycles(t *testing.T) {
	for _, e := range Elements {
		assert.Equal(t, e, e.Generates().GeneratedBy(), "element %s", e)
		assert.Equal(t, e, e.Controls().ControlledBy(), "element %s", e)
		assert.NotEqual(t, e, e.Generates())
		assert.NotEqual(t, e, e.Controls())

		// The five relations of an element partition the five elements.
		set := NewElementSet(e, e.Generates(), e.GeneratedBy(), e.Controls(), e.ControlledBy())
		assert.Equal(t, AllElements, set, "element %s", e)
	}

	assert.Equal(t, Fire, Wood.Generates())
	assert.Equal(t, Earth, Wood.Controls())
	assert.Equal(t, Metal, Wood.ControlledBy())
	assert.Equal(t, Water, Wood.GeneratedBy())

	assert.Equal(t, Metal, Fire.Controls())
	assert.Equal(t, Water, Fire.ControlledBy())
	assert.Equal(t, Water, Earth.Controls())
	assert.Equal(t, Wood, Earth.ControlledBy())
}

func TestControlCycleFollowsGenerationSkip(t *testing.T) {
	// Each element overcomes the element two steps ahead in the generation cycle.
	for _, e := range Elements {
		assert.Equal(t, e.Generates().Generates(), e.Controls(), "element %s", e)
		assert.Equal(t, e.GeneratedBy().GeneratedBy(), e.ControlledBy(), "element %s", e)
	}
}

func TestStemAndBranchAttributes(t *testing.T) {
	assert.Equal(t, "甲", StemJia.Glyph())
	assert.Equal(t, Wood, StemJia.Element())
	assert.Equal(t, Yang, StemJia.Polarity())
	assert.Equal(t, Yin, StemGui.Polarity())
	assert.Equal(t, Water, StemGui.Element())

	assert.Equal(t, "子", BranchZi.Glyph())
	assert.Equal(t, Water, BranchZi.Element())
	assert.Equal(t, Yang, BranchZi.Polarity())
	assert.Equal(t, Yin, BranchHai.Polarity())
	assert.Equal(t, Earth, BranchXu.Element())
}

func TestSeasons(t *testing.T) {
	tests := map[Branch]Element{
		BranchYin: Wood, BranchMao: Wood,
		BranchSi: Fire, BranchWu: Fire,
		BranchShen: Metal, BranchYou: Metal,
		BranchHai: Water, BranchZi: Water,
		BranchChen: Earth, BranchWei: Earth, BranchXu: Earth, BranchChou: Earth,
	}
	for b, want := range tests {
		assert.Equal(t, want, Season(b), "branch %s", b)
	}
}

func TestPillarCycle(t *testing.T) {
	seen := make(map[Pillar]bool)
	for i := 0; i < 60; i++ {
		p := PillarAt(i)
		assert.Equal(t, i, p.Index(), "pillar %s", p)
		assert.False(t, seen[p], "pillar %s repeated", p)
		seen[p] = true

		_, err := NewPillar(p.Stem, p.Branch)
		assert.NoError(t, err)
	}

	assert.Equal(t, "甲子", PillarAt(0).String())
	assert.Equal(t, "癸亥", PillarAt(59).String())
	assert.Equal(t, "癸亥", PillarAt(-1).String())
	assert.Equal(t, "甲子", PillarAt(60).String())
	assert.Equal(t, 10, MustPillar("甲戌").Index())
}

func TestParsePillar(t *testing.T) {
	p, err := ParsePillar("戊午")
	require.NoError(t, err)
	assert.Equal(t, StemWu, p.Stem)
	assert.Equal(t, BranchWu, p.Branch)

	_, err = ParsePillar("甲丑")
	assert.Error(t, err, "mixed polarity is not a pillar")

	_, err = ParsePillar("甲")
	assert.Error(t, err)

	_, err = ParsePillar("木子")
	assert.Error(t, err)
}

func TestChartAccessors(t *testing.T) {
	c := MustChart("己卯 丙子 戊午 戊午")
	assert.Equal(t, StemWu, c.DayMaster())
	assert.Equal(t, BranchZi, c.MonthBranch())
	assert.Equal(t, [4]Stem{StemJi, StemBing, StemWu, StemWu}, c.Stems())
	assert.Equal(t, "己卯 丙子 戊午 戊午", c.String())

	_, err := ParseChart("己卯 丙子 戊午")
	assert.Error(t, err)
}

func TestElementTallyJSONKeepsCycleOrder(t *testing.T) {
	var tally ElementTally
	tally = tally.Add(Water, decimal.NewFromFloat(1.3))
	tally = tally.Add(Wood, decimal.NewFromInt(2))

	out, err := json.Marshal(tally)
	require.NoError(t, err)
	assert.Equal(t, `{"wood":2,"fire":0,"earth":0,"metal":0,"water":1.3}`, string(out))

	var back ElementTally
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, back.Of(Water).Equal(decimal.NewFromFloat(1.3)))
	assert.True(t, back.Total().Equal(decimal.NewFromFloat(3.3)))
}

func TestElementTallyYAML(t *testing.T) {
	var tally ElementTally
	tally = tally.Add(Fire, decimal.NewFromInt(3))

	out, err := yaml.Marshal(tally)
	require.NoError(t, err)
	assert.Equal(t, "wood: 0\nfire: 3\nearth: 0\nmetal: 0\nwater: 0\n", string(out))
}

func TestElementTallyDominant(t *testing.T) {
	var tally ElementTally
	tally = tally.Add(Metal, decimal.NewFromInt(3)).Add(Wood, decimal.NewFromInt(1))
	e, ok := tally.Dominant()
	assert.True(t, ok)
	assert.Equal(t, Metal, e)

	tally = tally.Add(Fire, decimal.NewFromInt(3))
	_, ok = tally.Dominant()
	assert.False(t, ok)
}

func TestElementSet(t *testing.T) {
	s := NewElementSet(Water, Metal)
	assert.True(t, s.Has(Metal))
	assert.False(t, s.Has(Wood))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []Element{Metal, Water}, s.Elements())
	assert.Equal(t, "{metal, water}", s.String())
	assert.Equal(t, NewElementSet(Wood, Fire, Earth), s.Complement())
	assert.Equal(t, NewElementSet(Water), s.Without(Metal))

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `["metal","water"]`, string(out))

	var back ElementSet
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, s, back)
}

func TestParseGender(t *testing.T) {
	g, err := ParseGender(" Female ")
	require.NoError(t, err)
	assert.Equal(t, Female, g)

	_, err = ParseGender("x")
	assert.Error(t, err)
}
