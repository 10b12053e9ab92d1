package bazi

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Stem is one of the ten heavenly stems (天干).
type Stem int

const (
	StemJia  Stem = iota // 甲 yang wood
	StemYi               // 乙 yin wood
	StemBing             // 丙 yang fire
	StemDing             // 丁 yin fire
	StemWu               // 戊 yang earth
	StemJi               // 己 yin earth
	StemGeng             // 庚 yang metal
	StemXin              // 辛 yin metal
	StemRen              // 壬 yang water
	StemGui              // 癸 yin water
)

var stemGlyphs = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

var stemElements = [10]Element{Wood, Wood, Fire, Fire, Earth, Earth, Metal, Metal, Water, Water}

// Glyph returns the stem's character.
func (s Stem) Glyph() string { return stemGlyphs[s] }

// String returns the glyph.
func (s Stem) String() string {
	if s < StemJia || s > StemGui {
		return fmt.Sprintf("Stem(%d)", int(s))
	}
	return stemGlyphs[s]
}

// Element returns the stem's element.
func (s Stem) Element() Element { return stemElements[s] }

// Polarity returns Yang for 甲丙戊庚壬 and Yin otherwise.
func (s Stem) Polarity() Polarity {
	if s%2 == 0 {
		return Yang
	}
	return Yin
}

// MarshalText implements encoding.TextMarshaler.
func (s Stem) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ParseStem resolves a single stem glyph.
func ParseStem(glyph string) (Stem, error) {
	for i, g := range stemGlyphs {
		if g == glyph {
			return Stem(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stem %q", glyph)
}

// Branch is one of the twelve earthly branches (地支).
type Branch int

const (
	BranchZi   Branch = iota // 子
	BranchChou               // 丑
	BranchYin                // 寅
	BranchMao                // 卯
	BranchChen               // 辰
	BranchSi                 // 巳
	BranchWu                 // 午
	BranchWei                // 未
	BranchShen               // 申
	BranchYou                // 酉
	BranchXu                 // 戌
	BranchHai                // 亥
)

var branchGlyphs = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

var branchElements = [12]Element{Water, Earth, Wood, Wood, Earth, Fire, Fire, Earth, Metal, Metal, Earth, Water}

// Glyph returns the branch's character.
func (b Branch) Glyph() string { return branchGlyphs[b] }

// String returns the glyph.
func (b Branch) String() string {
	if b < BranchZi || b > BranchHai {
		return fmt.Sprintf("Branch(%d)", int(b))
	}
	return branchGlyphs[b]
}

// Element returns the branch's nominal element.
func (b Branch) Element() Element { return branchElements[b] }

// Polarity follows the branch index: 子寅辰午申戌 are Yang.
func (b Branch) Polarity() Polarity {
	if b%2 == 0 {
		return Yang
	}
	return Yin
}

// MarshalText implements encoding.TextMarshaler.
func (b Branch) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// ParseBranch resolves a single branch glyph.
func ParseBranch(glyph string) (Branch, error) {
	for i, g := range branchGlyphs {
		if g == glyph {
			return Branch(i), nil
		}
	}
	return 0, fmt.Errorf("unknown branch %q", glyph)
}

// HiddenStem is a stem stored inside a branch with its share of presence.
type HiddenStem struct {
	Stem   Stem            `json:"stem" yaml:"stem"`
	Weight decimal.Decimal `json:"weight" yaml:"weight"`
}

func w(tenths int64) decimal.Decimal { return decimal.New(tenths, -1) }

// hiddenStems holds the 藏干 of each branch, main qi first. Weights sum to 1.
var hiddenStems = [12][]HiddenStem{
	BranchZi:   {{StemGui, w(10)}},
	BranchChou: {{StemJi, w(6)}, {StemGui, w(3)}, {StemXin, w(1)}},
	BranchYin:  {{StemJia, w(6)}, {StemBing, w(3)}, {StemWu, w(1)}},
	BranchMao:  {{StemYi, w(10)}},
	BranchChen: {{StemWu, w(6)}, {StemYi, w(3)}, {StemGui, w(1)}},
	BranchSi:   {{StemBing, w(6)}, {StemGeng, w(3)}, {StemWu, w(1)}},
	BranchWu:   {{StemDing, w(7)}, {StemJi, w(3)}},
	BranchWei:  {{StemJi, w(6)}, {StemDing, w(3)}, {StemYi, w(1)}},
	BranchShen: {{StemGeng, w(6)}, {StemRen, w(3)}, {StemWu, w(1)}},
	BranchYou:  {{StemXin, w(10)}},
	BranchXu:   {{StemWu, w(6)}, {StemXin, w(3)}, {StemDing, w(1)}},
	BranchHai:  {{StemRen, w(7)}, {StemJia, w(3)}},
}

// HiddenStems returns a copy of the branch's hidden stems, main qi first.
func (b Branch) HiddenStems() []HiddenStem {
	out := make([]HiddenStem, len(hiddenStems[b]))
	copy(out, hiddenStems[b])
	return out
}

// MainStem returns the branch's principal hidden stem.
func (b Branch) MainStem() Stem { return hiddenStems[b][0].Stem }

// seasons maps a month branch to its season group.
var seasons = [12]Element{
	BranchZi: Water, BranchChou: Earth, BranchYin: Wood, BranchMao: Wood, BranchChen: Earth, BranchSi: Fire,
	BranchWu: Fire, BranchWei: Earth, BranchShen: Metal, BranchYou: Metal, BranchXu: Earth, BranchHai: Water,
}

// Season returns the season group of b when it stands as the month branch.
// The four storehouse branches 辰未戌丑 form the Earth group.
func Season(b Branch) Element { return seasons[b] }
