// Package cmd contains all CLI commands for the bazi tool.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/f3rmion/bazi/internal/config"
	"github.com/f3rmion/bazi/internal/engine"
	"github.com/f3rmion/bazi/internal/logging"
	"github.com/f3rmion/bazi/internal/luck"
	"github.com/f3rmion/bazi/internal/render"
)

var (
	cfgDir string
	cfg    *config.Config
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bazi",
	Short: "Four Pillars of Destiny charts",
	Long: `bazi computes Four Pillars (八字) charts from a birth date, time and place.

An analysis contains:
  - The year, month, day and hour pillars with their hidden stems
  - Day Master strength from the month's seasonal phase
  - Useful and harmful elements, or those of a special structure
  - Combinations, clashes, harms, punishments and noble stars
  - The decade luck pillars

Running 'bazi' without arguments launches the interactive form.`,
	PersistentPreRunE: setup,
	RunE:              runInteractive,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgDir, "config", "", "config directory (default is $HOME/.config/bazi)")
	flags.Bool("verbose", false, "log every analysis")
	flags.String("log-format", "", "log format: console or json")
	flags.StringP("format", "f", "", "output format: text, json or yaml")
	flags.Bool("color", true, "color text output")
	flags.Bool("pinyin", true, "show pinyin under glyphs")

	viper.BindPFlag("verbose", flags.Lookup("verbose"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))
	viper.BindPFlag("format", flags.Lookup("format"))
	viper.BindPFlag("color", flags.Lookup("color"))
	viper.BindPFlag("pinyin", flags.Lookup("pinyin"))
}

// initConfig reads ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("BAZI")
	viper.AutomaticEnv()
}

// setup loads the configuration and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	if cfgDir == "" {
		dir, err := config.GetConfigDir()
		if err != nil {
			return fmt.Errorf("finding config directory: %w", err)
		}
		cfgDir = dir
	}

	var err error
	cfg, err = config.LoadDir(cfgDir, viper.GetViper())
	if err != nil {
		return err
	}
	if viper.GetBool("verbose") {
		cfg.Log.Level = "debug"
	}

	logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", zap.String("dir", cfgDir), zap.String("format", cfg.Output.Format))
	return nil
}

// newEngine builds an engine from the configuration.
func newEngine() (*engine.Engine, error) {
	return newEngineWith(cfg.Engine.LuckCount, cfg.Engine.LuckStartAge)
}

func newEngineWith(count, startAge int) (*engine.Engine, error) {
	seq, err := luck.New(luck.WithCount(count), luck.WithStartAge(startAge))
	if err != nil {
		return nil, err
	}
	return engine.New(engine.WithLogger(logger), engine.WithLuck(seq)), nil
}

func newRenderer() *render.Renderer {
	return render.New(render.Options{Color: cfg.Output.Color, Pinyin: cfg.Output.Pinyin})
}
