package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/f3rmion/bazi/internal/clipboard"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Compute and analyze a birth chart",
	Long: `Compute the four pillars for a birth and print the full analysis.

Example:
  bazi chart -d "1990-05-15 14:30" --tz Asia/Shanghai -g male
  bazi chart -d "2000-01-01 12:00" --tz Asia/Shanghai -g female --lon 116.4 --solar
  bazi chart --pillars "己卯 丙子 戊午 戊午" -g male -f json`,
	Args: cobra.NoArgs,
	RunE: runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)
	addInputFlags(chartCmd)
	chartCmd.Flags().String("pillars", "", "analyze four known pillars instead of a birth time")
	chartCmd.Flags().Bool("copy", false, "also copy the output to the clipboard")
}

func runChart(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	a, err := analyze(cmd, e)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	out := cmd.OutOrStdout()
	copyOut, _ := cmd.Flags().GetBool("copy")
	if copyOut {
		out = io.MultiWriter(out, &buf)
	}
	if err := newRenderer().Write(out, a, cfg.Output.Format); err != nil {
		return err
	}

	if copyOut {
		if err := clipboard.New().Write(buf.String()); err != nil {
			logger.Warn("copy failed", zap.Error(err))
			return fmt.Errorf("copying to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard.")
	}
	return nil
}
