package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/f3rmion/bazi/internal/batch"
	"github.com/f3rmion/bazi/internal/engine"
	"github.com/f3rmion/bazi/internal/render"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze every birth in a YAML or JSON file",
	Long: `Analyze a list of births in parallel.

The file holds a list of inputs, or a mapping with an "inputs" key:

  inputs:
    - dateTime: "1990-05-15 14:30"
      timezone: Asia/Shanghai
      gender: male
    - dateTime: "2000-01-01 12:00"
      gender: female
      longitude: 116.4
      useSolarTime: true

Inputs without a timezone use the configured default. Text output prints one
summary line per input; json and yaml print every analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().Bool("keep-going", false, "report failed inputs and continue")
	batchCmd.Flags().Int("workers", 0, "parallel analyses (default from config)")
}

func newRunner(cmd *cobra.Command) (*batch.Runner, error) {
	e, err := newEngine()
	if err != nil {
		return nil, err
	}
	workers := cfg.Engine.Workers
	if f := cmd.Flags().Lookup("workers"); f != nil && f.Changed {
		workers, _ = cmd.Flags().GetInt("workers")
	}
	return &batch.Runner{Engine: e, Workers: workers, Logger: logger}, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputs, err := batch.LoadFile(args[0])
	if err != nil {
		return err
	}
	for i := range inputs {
		if inputs[i].Timezone == "" {
			inputs[i].Timezone = cfg.Engine.Timezone
		}
	}

	r, err := newRunner(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	logger.Info("batch started", zap.String("file", args[0]), zap.Int("inputs", len(inputs)))

	keepGoing, _ := cmd.Flags().GetBool("keep-going")
	if !keepGoing {
		results, err := r.Run(ctx, inputs)
		if err != nil {
			return err
		}
		return writeBatch(cmd.OutOrStdout(), results)
	}

	items := r.Collect(ctx, inputs)
	var results []*engine.ChartAnalysis
	for _, it := range items {
		if it.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "input %d (%s): %v\n", it.Index, it.Input.DateTime, it.Err)
			continue
		}
		results = append(results, it.Analysis)
	}
	if err := writeBatch(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	if n := batch.Failed(items); n > 0 {
		return fmt.Errorf("%s of %s inputs failed", humanize.Comma(int64(n)), humanize.Comma(int64(len(items))))
	}
	return nil
}

func writeBatch(w io.Writer, results []*engine.ChartAnalysis) error {
	if cfg.Output.Format != "text" {
		return render.Encode(w, results, cfg.Output.Format)
	}
	for _, a := range results {
		if _, err := fmt.Fprintln(w, a.Summary()); err != nil {
			return err
		}
	}
	return nil
}
