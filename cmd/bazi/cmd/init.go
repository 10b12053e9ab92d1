package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/f3rmion/bazi/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize bazi configuration",
	Long: `Write a config.yaml with the default settings to your config directory.

Edit it to change the default timezone, the number of luck pillars, the
output format or the location of the golden corpus. Every setting can also
be overridden with a BAZI_ environment variable, e.g. BAZI_TIMEZONE or
BAZI_LUCK_COUNT, or with a .env file next to config.yaml.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func ensureDir() error {
	if err := config.EnsureConfigDir(cfgDir); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path := filepath.Join(cfgDir, config.FileName)

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}
	if err := ensureDir(); err != nil {
		return err
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Set engine.timezone to the zone you usually enter births in")
	fmt.Fprintln(out, "  2. Run 'bazi chart -d \"1990-05-15 14:30\" -g male' to compute a chart")
	return nil
}
