// Package glyph romanises chart glyphs to tone-marked pinyin.
package glyph

import (
	"strings"
	"unicode"

	gopinyin "github.com/mozillazg/go-pinyin"

	"github.com/f3rmion/bazi/internal/bazi"
)

// Reading is the pronunciation of one glyph.
type Reading struct {
	Glyph  string `json:"glyph" yaml:"glyph"`
	Pinyin string `json:"pinyin" yaml:"pinyin"` // with tone mark, e.g. "jiǎ"
	Plain  string `json:"plain" yaml:"plain"`   // without tone mark, e.g. "jia"
	Tone   int    `json:"tone" yaml:"tone"`     // 1-4, 5 for neutral
}

// symbols pins the readings of stems, branches and elements. Several have
// more than one dictionary reading and only one is used in a chart.
var symbols = map[string]string{
	"甲": "jiǎ", "乙": "yǐ", "丙": "bǐng", "丁": "dīng", "戊": "wù",
	"己": "jǐ", "庚": "gēng", "辛": "xīn", "壬": "rén", "癸": "guǐ",
	"子": "zǐ", "丑": "chǒu", "寅": "yín", "卯": "mǎo", "辰": "chén", "巳": "sì",
	"午": "wǔ", "未": "wèi", "申": "shēn", "酉": "yǒu", "戌": "xū", "亥": "hài",
	"木": "mù", "火": "huǒ", "土": "tǔ", "金": "jīn", "水": "shuǐ",
}

// Romanizer converts glyphs with go-pinyin, pinning chart symbols.
type Romanizer struct {
	args gopinyin.Args
}

// New creates a Romanizer.
func New() *Romanizer {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone // tone marks: zhōng
	return &Romanizer{args: args}
}

// Reading returns the reading of a single glyph. Glyphs go-pinyin does not
// know come back with an empty Pinyin.
func (r *Romanizer) Reading(g string) Reading {
	py, ok := symbols[g]
	if !ok {
		if result := gopinyin.Pinyin(g, r.args); len(result) > 0 && len(result[0]) > 0 {
			py = result[0][0]
		}
	}
	plain, tone := Split(py)
	return Reading{Glyph: g, Pinyin: py, Plain: plain, Tone: tone}
}

// Pillar returns the readings of a pillar's stem and branch joined by a space.
func (r *Romanizer) Pillar(p bazi.Pillar) string {
	return r.Reading(p.Stem.Glyph()).Pinyin + " " + r.Reading(p.Branch.Glyph()).Pinyin
}

// Line romanises every Han glyph in s, space separated. Other runes are
// dropped.
func (r *Romanizer) Line(s string) string {
	var parts []string
	for _, c := range s {
		if !unicode.Is(unicode.Han, c) {
			continue
		}
		if py := r.Reading(string(c)).Pinyin; py != "" {
			parts = append(parts, py)
		}
	}
	return strings.Join(parts, " ")
}

var toneMarks = map[rune]struct {
	base rune
	tone int
}{
	'ā': {'a', 1}, 'á': {'a', 2}, 'ǎ': {'a', 3}, 'à': {'a', 4},
	'ē': {'e', 1}, 'é': {'e', 2}, 'ě': {'e', 3}, 'è': {'e', 4},
	'ī': {'i', 1}, 'í': {'i', 2}, 'ǐ': {'i', 3}, 'ì': {'i', 4},
	'ō': {'o', 1}, 'ó': {'o', 2}, 'ǒ': {'o', 3}, 'ò': {'o', 4},
	'ū': {'u', 1}, 'ú': {'u', 2}, 'ǔ': {'u', 3}, 'ù': {'u', 4},
	'ǖ': {'ü', 1}, 'ǘ': {'ü', 2}, 'ǚ': {'ü', 3}, 'ǜ': {'ü', 4},
}

// Split removes the tone mark from a syllable and returns the tone. A
// syllable without a mark is neutral (5); an empty one has tone 0.
func Split(syllable string) (string, int) {
	if syllable == "" {
		return "", 0
	}
	tone := 5
	var b strings.Builder
	for _, c := range syllable {
		if m, ok := toneMarks[c]; ok {
			b.WriteRune(m.base)
			tone = m.tone
			continue
		}
		b.WriteRune(c)
	}
	return b.String(), tone
}
