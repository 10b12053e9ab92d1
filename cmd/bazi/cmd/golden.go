package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/f3rmion/bazi/internal/golden"
)

var goldenCmd = &cobra.Command{
	Use:   "golden",
	Short: "Manage the regression corpus of known charts",
	Long: `Store births together with their analysis and check that later versions
still produce the same result.

The corpus is a SQLite file, golden.db in the config directory by default.`,
}

var goldenAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Analyze a birth and store it under name",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoldenAdd,
}

var goldenVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Recompute every stored case and report differences",
	Args:  cobra.NoArgs,
	RunE:  runGoldenVerify,
}

var goldenListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored cases",
	Args:    cobra.NoArgs,
	RunE:    runGoldenList,
}

var goldenRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a stored case",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoldenRm,
}

func init() {
	rootCmd.AddCommand(goldenCmd)
	goldenCmd.AddCommand(goldenAddCmd, goldenVerifyCmd, goldenListCmd, goldenRmCmd)
	addInputFlags(goldenAddCmd)
	goldenVerifyCmd.Flags().Int("workers", 0, "parallel analyses (default from config)")
}

func openGolden() (*golden.Store, error) {
	if err := ensureDir(); err != nil {
		return nil, err
	}
	return golden.Open(cfg.Golden.Path)
}

func runGoldenAdd(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	in, err := inputFromFlags(cmd)
	if err != nil {
		return err
	}
	a, err := e.Analyze(in)
	if err != nil {
		return err
	}

	s, err := openGolden()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Put(cmd.Context(), args[0], a); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stored %s: %s\n", args[0], a.Summary())
	return nil
}

func runGoldenVerify(cmd *cobra.Command, args []string) error {
	s, err := openGolden()
	if err != nil {
		return err
	}
	defer s.Close()

	r, err := newRunner(cmd)
	if err != nil {
		return err
	}
	results, err := golden.Verify(cmd.Context(), s, r)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		switch {
		case res.Err != nil:
			fmt.Fprintf(out, "ERROR %s: %v\n", res.Name, res.Err)
		case res.Diff != "":
			fmt.Fprintf(out, "FAIL  %s\n%s\n", res.Name, res.Diff)
		default:
			fmt.Fprintf(out, "ok    %s\n", res.Name)
		}
	}

	if n := golden.Failures(results); n > 0 {
		return fmt.Errorf("%d of %d cases changed", n, len(results))
	}
	fmt.Fprintf(out, "%s cases verified\n", humanize.Comma(int64(len(results))))
	return nil
}

func runGoldenList(cmd *cobra.Command, args []string) error {
	s, err := openGolden()
	if err != nil {
		return err
	}
	defer s.Close()

	cases, err := s.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No cases stored.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCHART\tBIRTH\tADDED")
	for _, c := range cases {
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\n", c.Name, c.Chart, c.Input.DateTime, c.Input.Timezone, humanize.Time(c.Created))
	}
	return w.Flush()
}

func runGoldenRm(cmd *cobra.Command, args []string) error {
	s, err := openGolden()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	return nil
}
