package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/f3rmion/bazi/internal/engine"
	"github.com/f3rmion/bazi/internal/tui"
	"github.com/f3rmion/bazi/internal/tui/bigchar"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i", "ui"},
	Short:   "Launch the interactive chart form",
	Long: `Launch a terminal form for entering a birth and reading its chart.

Controls:
  Tab       Next field
  Ctrl+S    Toggle solar time
  Enter     Analyze
  j/k       Scroll the chart
  e         Back to the form
  Esc       Quit`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}

	defaults := engine.Input{Timezone: cfg.Engine.Timezone, UseSolarTime: cfg.Engine.UseSolarTime}
	p := tea.NewProgram(
		tui.NewApp(e, newRenderer(), bigchar.Default(), defaults),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
