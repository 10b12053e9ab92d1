package strength

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/f3rmion/bazi/internal/bazi"
)

// derivedPhase restates 旺相休囚死 through the cycles.
func derivedPhase(dm, season bazi.Element) Phase {
	switch {
	case dm == season:
		return Dominant
	case season.Generates() == dm:
		return Supportive
	case dm.Generates() == season:
		return Restful
	case dm.Controls() == season:
		return Trapped
	default:
		return Dead
	}
}

func TestPhaseTableCoversEverySeason(t *testing.T) {
	seasonBranch := map[bazi.Element]bazi.Branch{
		bazi.Wood:  bazi.BranchYin,
		bazi.Fire:  bazi.BranchWu,
		bazi.Earth: bazi.BranchChen,
		bazi.Metal: bazi.BranchYou,
		bazi.Water: bazi.BranchZi,
	}
	seen := make(map[[2]bazi.Element]bool)
	for _, dm := range bazi.Elements {
		phases := make(map[Phase]bool)
		for _, season := range bazi.Elements {
			got := PhaseOf(dm, seasonBranch[season])
			assert.Equal(t, derivedPhase(dm, season), got, "day master %s in %s season", dm, season)
			phases[got] = true
			seen[[2]bazi.Element{dm, season}] = true
		}
		assert.Len(t, phases, 5, "day master %s takes every phase once", dm)
	}
	assert.Len(t, seen, 25)
}

func TestEveryMonthBranchFollowsItsSeason(t *testing.T) {
	for _, dm := range bazi.Elements {
		for b := bazi.BranchZi; b <= bazi.BranchHai; b++ {
			assert.Equal(t, derivedPhase(dm, bazi.Season(b)), PhaseOf(dm, b), "%s in %s", dm, b)
		}
	}
}

func TestClassifyMapsPhaseToCategory(t *testing.T) {
	tests := []struct {
		chart    string
		category Category
		phase    Phase
	}{
		{"甲子 丙寅 甲子 甲子", VeryStrong, Dominant},
		{"甲子 丙子 甲子 甲子", Strong, Supportive},
		{"甲子 庚午 甲子 甲子", Balanced, Restful},
		{"甲子 戊辰 甲子 甲子", Weak, Trapped},
		{"甲子 壬申 甲子 甲子", VeryWeak, Dead},
	}
	for _, tt := range tests {
		cat, phase := Classify(bazi.MustChart(tt.chart))
		assert.Equal(t, tt.category, cat, tt.chart)
		assert.Equal(t, tt.phase, phase, tt.chart)
	}
}

func TestClassifyIgnoresTally(t *testing.T) {
	// Wood everywhere except the month: still dead in an autumn month.
	cat, _ := Classify(bazi.MustChart("甲寅 庚申 甲寅 乙卯"))
	assert.Equal(t, VeryWeak, cat)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Very strong (旺)", Label(VeryStrong, Dominant))
	assert.Equal(t, "Weak (囚)", Label(Weak, Trapped))
}

func TestCategoryText(t *testing.T) {
	for _, c := range Categories {
		text, err := c.MarshalText()
		assert.NoError(t, err)
		var back Category
		assert.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, c, back)
	}
	var c Category
	assert.Error(t, c.UnmarshalText([]byte("mighty")))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTally(t *testing.T) {
	chart := bazi.MustChart("己卯 丙子 戊午 戊午")
	b := Tally(chart)

	eight := decimal.NewFromInt(8)
	assert.True(t, b.Simple.Total().Equal(eight))
	assert.True(t, b.Weighted.Total().Equal(eight))

	simple := map[bazi.Element]string{bazi.Wood: "1", bazi.Fire: "3", bazi.Earth: "3", bazi.Metal: "0", bazi.Water: "1"}
	weighted := map[bazi.Element]string{bazi.Wood: "1", bazi.Fire: "2.4", bazi.Earth: "3.6", bazi.Metal: "0", bazi.Water: "1"}
	for e, want := range simple {
		assert.True(t, b.Simple.Of(e).Equal(dec(want)), "simple %s = %s", e, b.Simple.Of(e))
	}
	for e, want := range weighted {
		assert.True(t, b.Weighted.Of(e).Equal(dec(want)), "weighted %s = %s", e, b.Weighted.Of(e))
	}

	assert.True(t, Support(chart, b).Equal(dec("5")))
	assert.Equal(t, b, Tally(chart), "tally is reproducible from the chart")
}

func TestTallyTotalsEightForEveryPillar(t *testing.T) {
	eight := decimal.NewFromInt(8)
	for i := 0; i < 60; i++ {
		p := bazi.PillarAt(i)
		chart := bazi.NewChart(p, bazi.PillarAt(i+7), bazi.PillarAt(i+13), bazi.PillarAt(i+29))
		b := Tally(chart)
		assert.True(t, b.Simple.Total().Equal(eight), "simple %s", chart)
		assert.True(t, b.Weighted.Total().Equal(eight), "weighted %s", chart)
	}
}
