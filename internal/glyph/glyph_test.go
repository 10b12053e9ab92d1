package glyph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/f3rmion/bazi/internal/bazi"
)

func TestSymbolReadings(t *testing.T) {
	r := New()
	for s := bazi.StemJia; s <= bazi.StemGui; s++ {
		assert.NotEmpty(t, r.Reading(s.Glyph()).Pinyin, s)
	}
	for b := bazi.BranchZi; b <= bazi.BranchHai; b++ {
		assert.NotEmpty(t, r.Reading(b.Glyph()).Pinyin, b)
	}

	got := r.Reading("戌")
	assert.Equal(t, Reading{Glyph: "戌", Pinyin: "xū", Plain: "xu", Tone: 1}, got)
	assert.Equal(t, "jiǎ chén", r.Pillar(bazi.MustPillar("甲辰")))
}

func TestReadingFallsBackToDictionary(t *testing.T) {
	got := New().Reading("中")
	assert.Equal(t, "zhōng", got.Pinyin)
	assert.Equal(t, 1, got.Tone)

	assert.Equal(t, Reading{Glyph: "x"}, New().Reading("x"))
}

func TestLine(t *testing.T) {
	assert.Equal(t, "shuǐ mù", New().Line("水, 木!"))
}

func TestSplit(t *testing.T) {
	tests := []struct {
		in    string
		plain string
		tone  int
	}{
		{"jiǎ", "jia", 3},
		{"lǜ", "lü", 4},
		{"de", "de", 5},
		{"", "", 0},
	}
	for _, tt := range tests {
		plain, tone := Split(tt.in)
		assert.Equal(t, tt.plain, plain, tt.in)
		assert.Equal(t, tt.tone, tone, tt.in)
	}
}
