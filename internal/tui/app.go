package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/bazi/internal/engine"
	"github.com/f3rmion/bazi/internal/render"
	"github.com/f3rmion/bazi/internal/tui/bigchar"
)

// Field indexes the form inputs.
type Field int

const (
	FieldDate Field = iota
	FieldTimezone
	FieldGender
	FieldLongitude
	FieldLatitude
	fieldCount
)

var fieldLabels = [fieldCount]string{"Birth", "Timezone", "Gender", "Longitude", "Latitude"}

var fieldHints = [fieldCount]string{"2000-01-01 12:00", "Asia/Shanghai", "male/female", "optional", "optional"}

// ViewType is the screen being shown.
type ViewType int

const (
	ViewForm ViewType = iota
	ViewChart
)

// AnalyzedMsg carries the outcome of an analysis.
type AnalyzedMsg struct {
	Analysis *engine.ChartAnalysis
	Err      error
}

// AppModel is the interactive chart application: a form that leads to a
// scrollable rendering of the analysis.
type AppModel struct {
	engine   *engine.Engine
	renderer *render.Renderer
	painter  *bigchar.Painter

	inputs [fieldCount]textinput.Model
	focus  Field
	solar  bool

	view     ViewType
	analysis *engine.ChartAnalysis
	err      error
	lines    []string
	scrollY  int

	width  int
	height int
}

// NewApp returns the form prefilled from defaults. painter may be nil.
func NewApp(e *engine.Engine, r *render.Renderer, painter *bigchar.Painter, defaults engine.Input) AppModel {
	m := AppModel{engine: e, renderer: r, painter: painter, solar: defaults.UseSolarTime}

	values := [fieldCount]string{defaults.DateTime, defaults.Timezone, defaults.Gender, coord(defaults.Longitude), coord(defaults.Latitude)}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = fieldHints[i]
		ti.CharLimit = 40
		ti.SetValue(values[i])
		m.inputs[i] = ti
	}
	m.inputs[FieldDate].Focus()
	return m
}

func coord(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}

// Input builds the request from the form. Unparseable coordinates are
// reported as errors.
func (m AppModel) Input() (engine.Input, error) {
	in := engine.Input{
		DateTime:     strings.TrimSpace(m.inputs[FieldDate].Value()),
		Timezone:     strings.TrimSpace(m.inputs[FieldTimezone].Value()),
		Gender:       strings.TrimSpace(m.inputs[FieldGender].Value()),
		UseSolarTime: m.solar,
	}
	var err error
	if in.Longitude, err = parseCoord(m.inputs[FieldLongitude].Value()); err != nil {
		return in, err
	}
	if in.Latitude, err = parseCoord(m.inputs[FieldLatitude].Value()); err != nil {
		return in, err
	}
	return in, nil
}

func parseCoord(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Submit returns the command that analyzes the current form.
func (m AppModel) Submit() tea.Cmd {
	in, err := m.Input()
	e := m.engine
	return func() tea.Msg {
		if err != nil {
			return AnalyzedMsg{Err: err}
		}
		a, err := e.Analyze(in)
		return AnalyzedMsg{Analysis: a, Err: err}
	}
}

func (m *AppModel) setFocus(f Field) {
	m.inputs[m.focus].Blur()
	m.focus = (f + fieldCount) % fieldCount
	m.inputs[m.focus].Focus()
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case AnalyzedMsg:
		m.err = msg.Err
		if msg.Err != nil {
			m.view = ViewForm
			return m, nil
		}
		m.analysis = msg.Analysis
		m.lines = strings.Split(m.chartContent(), "\n")
		m.scrollY = 0
		m.view = ViewChart
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.view == ViewChart {
			return m.updateChart(msg)
		}
		return m.updateForm(msg)
	}
	return m, nil
}

func (m AppModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "down":
		m.setFocus(m.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.setFocus(m.focus - 1)
		return m, nil
	case "ctrl+s":
		m.solar = !m.solar
		return m, nil
	case "enter":
		m.err = nil
		return m, m.Submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m AppModel) updateChart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "e":
		m.view = ViewForm
	case "j", "down":
		if m.scrollY < len(m.lines)-1 {
			m.scrollY++
		}
	case "k", "up":
		if m.scrollY > 0 {
			m.scrollY--
		}
	case "g":
		m.scrollY = 0
	}
	return m, nil
}

// chartContent is the big Day Master glyph, when a font is available, above
// the text rendering.
func (m AppModel) chartContent() string {
	text := m.renderer.Text(m.analysis)
	big := m.painter.Block(m.analysis.DayMaster.Glyph, 16, 8)
	if big == "" {
		return text
	}
	return DayMasterStyle.Render(big) + "\n\n" + text
}

// View renders the UI
func (m AppModel) View() string {
	if m.view == ViewChart {
		return m.viewChart()
	}
	return m.viewForm()
}

func (m AppModel) viewForm() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("四柱 BaZi"))
	b.WriteString("\n\n")

	for i := range m.inputs {
		label := LabelStyle
		if Field(i) == m.focus {
			label = FocusedLabelStyle
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label.Render(fieldLabels[i]), m.inputs[i].View()))
		b.WriteString("\n")
	}

	solar := "off"
	if m.solar {
		solar = "on"
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render("Solar time"), ValueStyle.Render(solar)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("tab/↑↓: move • ctrl+s: solar time • enter: analyze • esc: quit"))
	return BoxStyle.Render(b.String())
}

func (m AppModel) viewChart() string {
	visible := len(m.lines)
	if m.height > 3 {
		visible = m.height - 3
	}
	end := min(m.scrollY+visible, len(m.lines))
	body := strings.Join(m.lines[m.scrollY:end], "\n")
	return body + "\n" + HelpStyle.Render("j/k: scroll • e: edit • q: quit")
}
