package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/f3rmion/bazi/internal/render"
)

var luckCmd = &cobra.Command{
	Use:   "luck",
	Short: "List the decade luck pillars for a birth",
	Long: `List the luck pillars (大运) that follow the month pillar.

The walk is forward for a man born in a yang year or a woman born in a yin
year, backward otherwise.

Example:
  bazi luck -d "1990-05-15 14:30" -g female --count 8`,
	Args: cobra.NoArgs,
	RunE: runLuck,
}

func init() {
	rootCmd.AddCommand(luckCmd)
	addInputFlags(luckCmd)
	luckCmd.Flags().Int("count", 0, "number of pillars (default from config)")
	luckCmd.Flags().Int("start-age", -1, "age of the first pillar (default from config)")
}

func runLuck(cmd *cobra.Command, args []string) error {
	count, startAge := cfg.Engine.LuckCount, cfg.Engine.LuckStartAge
	if cmd.Flags().Changed("count") {
		count, _ = cmd.Flags().GetInt("count")
	}
	if cmd.Flags().Changed("start-age") {
		startAge, _ = cmd.Flags().GetInt("start-age")
	}

	e, err := newEngineWith(count, startAge)
	if err != nil {
		return err
	}
	a, err := analyze(cmd, e)
	if err != nil {
		return err
	}

	if cfg.Output.Format == "text" {
		_, err = io.WriteString(cmd.OutOrStdout(), a.Chart+"\n"+newRenderer().Luck(a.Luck))
		return err
	}
	return render.Encode(cmd.OutOrStdout(), a.Luck, cfg.Output.Format)
}
