package bazi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStemCombinationTable(t *testing.T) {
	for a := StemJia; a <= StemGui; a++ {
		for b := StemJia; b <= StemGui; b++ {
			into, ok := StemCombination(a, b)
			diff := int(a) - int(b)
			assert.Equal(t, diff == 5 || diff == -5, ok, "%s%s", a, b)
			if ok {
				into2, _ := StemCombination(b, a)
				assert.Equal(t, into, into2)
			}
		}
	}
	into, ok := StemCombination(StemWu, StemGui)
	assert.True(t, ok)
	assert.Equal(t, Fire, into)
}

func TestStemClashTable(t *testing.T) {
	assert.True(t, StemClash(StemGeng, StemJia))
	assert.True(t, StemClash(StemDing, StemGui))
	assert.False(t, StemClash(StemWu, StemRen), "earth stems do not clash")
	assert.False(t, StemClash(StemJia, StemJia))
}

func TestBranchClashTable(t *testing.T) {
	for b := BranchZi; b <= BranchHai; b++ {
		p := ClashPartner(b)
		assert.Equal(t, (b+6)%12, p, "branch %s", b)
		assert.Equal(t, b, ClashPartner(p))
		assert.True(t, BranchClash(b, p))
		assert.False(t, BranchClash(b, b))
	}
}

func TestBranchCombinationAndHarmTables(t *testing.T) {
	for a := BranchZi; a <= BranchHai; a++ {
		for b := BranchZi; b <= BranchHai; b++ {
			_, combine := BranchCombination(a, b)
			assert.Equal(t, (a+b)%12 == 1, combine, "combination %s%s", a, b)
			assert.Equal(t, (a+b)%12 == 7 && a != b, BranchHarm(a, b), "harm %s%s", a, b)
		}
	}
}

func TestPunishments(t *testing.T) {
	assert.True(t, BranchPunishment(BranchYin, BranchSi))
	assert.True(t, BranchPunishment(BranchShen, BranchYin))
	assert.True(t, BranchPunishment(BranchChou, BranchXu))
	assert.True(t, BranchPunishment(BranchMao, BranchZi))
	assert.True(t, BranchPunishment(BranchWu, BranchWu))
	assert.False(t, BranchPunishment(BranchZi, BranchZi))
	assert.False(t, BranchPunishment(BranchYin, BranchChou))
}

func TestAlliances(t *testing.T) {
	seen := make(map[Branch]int)
	for _, a := range TripleAlliances {
		assert.Equal(t, a.Element, a.Cardinal().Element(), "cardinal carries the alliance element")
		for _, b := range a.Branches {
			seen[b]++
			assert.True(t, a.Contains(b))
		}
	}
	assert.Len(t, seen, 12, "triple alliances partition the branches")

	for _, a := range DirectionalAlliances {
		assert.Equal(t, a.Element, Season(a.Branches[0]))
		assert.Equal(t, a.Element, Season(a.Cardinal()))
		assert.Equal(t, Earth, a.Branches[2].Element(), "directions close on an earth branch")
	}
}

func TestNobles(t *testing.T) {
	assert.True(t, IsNoble(StemJia, BranchChou))
	assert.True(t, IsNoble(StemXin, BranchWu))
	assert.False(t, IsNoble(StemXin, BranchZi))
	assert.Equal(t, [2]Branch{BranchMao, BranchSi}, NobleBranches(StemGui))
}
