// Package render formats chart analyses for the terminal and for machines.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/f3rmion/bazi/internal/bazi"
	"github.com/f3rmion/bazi/internal/engine"
	"github.com/f3rmion/bazi/internal/glyph"
	"github.com/f3rmion/bazi/internal/interaction"
	"github.com/f3rmion/bazi/internal/luck"
)

// Options control text rendering.
type Options struct {
	Color  bool
	Pinyin bool
}

// Renderer formats analyses. It is safe for concurrent use.
type Renderer struct {
	opts   Options
	styles Styles
	roman  *glyph.Romanizer
}

// New returns a Renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts, styles: NewStyles(opts.Color), roman: glyph.New()}
}

// Write renders a in format ("text", "json" or "yaml") to w.
func (r *Renderer) Write(w io.Writer, a *engine.ChartAnalysis, format string) error {
	if format == "text" || format == "" {
		_, err := io.WriteString(w, r.Text(a)+"\n")
		return err
	}
	return Encode(w, a, format)
}

// Encode writes v to w as indented JSON or YAML.
func Encode(w io.Writer, v any, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", format)
}

// JSON returns the indented JSON of a.
func JSON(a *engine.ChartAnalysis) (string, error) {
	out, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling analysis: %w", err)
	}
	return string(out), nil
}

// pad right-pads s to display width n, counting wide glyphs as two cells.
func pad(s string, n int) string {
	if w := runewidth.StringWidth(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

const colWidth = 12

// barScale is the number of bar cells per unit of weighted tally.
var barScale = decimal.NewFromInt(2)

// Text renders the full analysis.
func (r *Renderer) Text(a *engine.ChartAnalysis) string {
	s := r.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("四柱 "+a.Chart) + "\n")
	if a.TimeInfo != nil {
		b.WriteString(s.Muted.Render(r.timeLine(a.TimeInfo)) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(s.Box.Render(r.pillarTable(a)) + "\n\n")

	dm := a.DayMaster
	b.WriteString(s.Label.Render(pad("Day Master", colWidth)) +
		s.Element[dm.Element].Render(dm.Glyph+" "+dm.Element.String()) +
		"  " + s.Value.Render(dm.Label) +
		s.Muted.Render(fmt.Sprintf("  support %s", dm.Support)) + "\n\n")

	b.WriteString(s.Subtitle.Render("Elements") + s.Muted.Render("  simple / weighted") + "\n")
	for _, e := range bazi.Elements {
		simple := a.Balance.Simple.Of(e)
		weighted := a.Balance.Weighted.Of(e)
		bar := strings.Repeat("█", int(weighted.Mul(barScale).Round(0).IntPart()))
		b.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			s.Element[e].Render(e.Glyph()),
			pad(e.String(), 6),
			pad(simple.String()+" / "+weighted.String(), 10),
			s.Element[e].Render(bar)))
	}
	b.WriteString("\n")

	b.WriteString(s.Label.Render(pad("Useful", colWidth)) + r.elements(a.Useful) + "\n")
	b.WriteString(s.Label.Render(pad("Harmful", colWidth)) + r.elements(a.Harmful) + "\n")
	if st := a.Structure; st != nil {
		b.WriteString(s.Label.Render(pad("Structure", colWidth)) +
			s.Glyph.Render(st.Name) + " " + s.Value.Render(string(st.Kind)) + "\n")
		b.WriteString(pad("", colWidth) + s.Muted.Render(st.Note) + "\n")
		b.WriteString(pad("", colWidth) + s.Muted.Render("by strength alone: useful "+
			a.StrengthUseful.String()) + "\n")
	}

	if len(a.Interactions) > 0 {
		b.WriteString("\n" + s.Subtitle.Render("Interactions") + "\n")
		for _, in := range a.Interactions {
			b.WriteString("  " + r.interaction(in) + "\n")
		}
	}

	b.WriteString("\n" + r.Luck(a.Luck))
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) timeLine(ti *engine.TimeInfo) string {
	line := fmt.Sprintf("%s %s", ti.Input, ti.Zone)
	if ti.IsDST {
		line += " (DST)"
	}
	if ti.Solar != nil {
		line += fmt.Sprintf(" → solar %s (%+.1f min)", *ti.Solar, ti.TotalCorrectionMinutes)
	}
	return line
}

func (r *Renderer) pillarTable(a *engine.ChartAnalysis) string {
	s := r.styles
	rows := make([]string, 0, 6)

	var head, stems, branches, roman, hidden strings.Builder
	for _, p := range a.Pillars {
		head.WriteString(s.Label.Render(pad(p.Role.String(), colWidth)))
		stems.WriteString(s.Element[p.Element].Render(pad(p.Stem.Glyph()+" "+p.Element.Glyph(), colWidth)))
		branches.WriteString(s.Element[p.BranchElement].Render(pad(p.Branch.Glyph()+" "+p.BranchElement.Glyph(), colWidth)))
		roman.WriteString(s.Muted.Render(pad(r.roman.Pillar(bazi.Pillar{Stem: p.Stem, Branch: p.Branch}), colWidth)))

		var hs []string
		for _, h := range p.Hidden {
			hs = append(hs, h.Stem.Glyph()+h.Weight.String())
		}
		hidden.WriteString(s.Muted.Render(pad(strings.Join(hs, " "), colWidth)))
	}
	rows = append(rows, head.String(), stems.String(), branches.String())
	if r.opts.Pinyin {
		rows = append(rows, roman.String())
	}
	rows = append(rows, hidden.String())
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (r *Renderer) elements(set bazi.ElementSet) string {
	var parts []string
	for _, e := range set.Elements() {
		parts = append(parts, r.styles.Element[e].Render(e.Glyph()+" "+e.String()))
	}
	if len(parts) == 0 {
		return r.styles.Muted.Render("none")
	}
	return strings.Join(parts, ", ")
}

func (r *Renderer) interaction(in interaction.Interaction) string {
	style := r.styles.Muted
	mark := "·"
	switch in.Polarity {
	case interaction.Favorable:
		style, mark = r.styles.Favorable, "+"
	case interaction.Unfavorable:
		style, mark = r.styles.Unfavorable, "-"
	}
	roles := make([]string, len(in.Roles))
	for i, role := range in.Roles {
		roles[i] = role.String()
	}
	return style.Render(mark+" "+pad(in.Glyphs, 8)) + " " +
		pad(string(in.Kind), 22) + r.styles.Muted.Render(strings.Join(roles, "-"))
}

// Luck renders the luck pillar sequence.
func (r *Renderer) Luck(seq luck.Sequence) string {
	s := r.styles
	var b strings.Builder
	b.WriteString(s.Subtitle.Render("Luck pillars") + s.Muted.Render("  "+seq.Direction.String()) + "\n")
	for _, p := range seq.Pillars {
		line := fmt.Sprintf("  %s  %s  ages %d-%d",
			pad(humanize.Ordinal(p.Index), 5),
			s.Element[p.Element].Render(p.Pillar.String()),
			p.StartAge, p.EndAge)
		if r.opts.Pinyin {
			line += s.Muted.Render("  " + r.roman.Pillar(p.Pillar))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
