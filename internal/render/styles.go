package render

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#FF6B6B") // Red - titles
	ColorSecondary = lipgloss.Color("#4ecdc4") // Teal - subtitles
	ColorAccent    = lipgloss.Color("#ffe66d") // Yellow - glyphs
	ColorMuted     = lipgloss.Color("#666666") // Gray - help text
	ColorSuccess   = lipgloss.Color("#a8e6cf") // Green - favorable
	ColorText      = lipgloss.Color("#f1faee") // Light text
	ColorLabel     = lipgloss.Color("#a8dadc") // Label color
	ColorBorder    = lipgloss.Color("#3d5a80") // Border color
)

// elementColors follows the traditional colors of the five elements.
var elementColors = [5]lipgloss.Color{
	lipgloss.Color("#52b788"), // wood
	lipgloss.Color("#e63946"), // fire
	lipgloss.Color("#c9a227"), // earth
	lipgloss.Color("#e0e1dd"), // metal
	lipgloss.Color("#4895ef"), // water
}

// Styles is the set of styles a rendering uses.
type Styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Muted       lipgloss.Style
	Glyph       lipgloss.Style
	Favorable   lipgloss.Style
	Unfavorable lipgloss.Style
	Box         lipgloss.Style
	Element     [5]lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when color is false.
func NewStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		s := Styles{
			Title: plain, Subtitle: plain, Label: plain, Value: plain, Muted: plain,
			Glyph: plain, Favorable: plain, Unfavorable: plain,
			Box: plain.Border(lipgloss.NormalBorder()).Padding(0, 1),
		}
		for i := range s.Element {
			s.Element[i] = plain
		}
		return s
	}

	s := Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Subtitle:    lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true),
		Label:       lipgloss.NewStyle().Foreground(ColorLabel).Bold(true),
		Value:       lipgloss.NewStyle().Foreground(ColorText),
		Muted:       lipgloss.NewStyle().Foreground(ColorMuted),
		Glyph:       lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
		Favorable:   lipgloss.NewStyle().Foreground(ColorSuccess),
		Unfavorable: lipgloss.NewStyle().Foreground(ColorPrimary),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),
	}
	for i, c := range elementColors {
		s.Element[i] = lipgloss.NewStyle().Foreground(c)
	}
	return s
}
