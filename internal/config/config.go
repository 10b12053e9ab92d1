// Package config handles loading and saving user configuration for bazi.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/f3rmion/bazi/internal/luck"
)

// FileName is the config file inside the config directory.
const FileName = "config.yaml"

// Config holds all user configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Output OutputConfig `yaml:"output"`
	Golden GoldenConfig `yaml:"golden"`
	Log    LogConfig    `yaml:"log"`
}

// EngineConfig holds chart calculation settings.
type EngineConfig struct {
	LuckCount    int    `yaml:"luck_count"`     // number of luck pillars
	LuckStartAge int    `yaml:"luck_start_age"` // age of the first luck pillar
	UseSolarTime bool   `yaml:"use_solar_time"` // default for every request; needs a longitude
	Timezone     string `yaml:"timezone"`       // default IANA zone
	Workers      int    `yaml:"workers"`        // batch parallelism, 0 means one per CPU
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	Format string `yaml:"format"` // text, json or yaml
	Color  bool   `yaml:"color"`
	Pinyin bool   `yaml:"pinyin"` // show romanisation next to glyphs
}

// GoldenConfig locates the regression corpus.
type GoldenConfig struct {
	Path string `yaml:"path"` // sqlite file, relative paths resolve against the config dir
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // console or json
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			LuckCount:    luck.DefaultCount,
			LuckStartAge: luck.DefaultStartAge,
			Timezone:     "Asia/Shanghai",
		},
		Output: OutputConfig{Format: FormatText, Color: true, Pinyin: true},
		Golden: GoldenConfig{Path: "golden.db"},
		Log:    LogConfig{Level: "warn", Format: "console"},
	}
}

// Validate checks the values a file or the environment may have broken.
func (c *Config) Validate() error {
	if c.Engine.LuckCount < 1 {
		return fmt.Errorf("engine.luck_count must be at least 1, got %d", c.Engine.LuckCount)
	}
	if c.Engine.LuckStartAge < 0 {
		return fmt.Errorf("engine.luck_start_age must not be negative, got %d", c.Engine.LuckStartAge)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must not be negative, got %d", c.Engine.Workers)
	}
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("output.format must be text, json or yaml, got %q", c.Output.Format)
	}
	return nil
}

// Load reads the config file at path over the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// LoadDir loads FileName from dir, applies a .env file from dir when present
// and then environment and flag overrides from v.
func LoadDir(dir string, v *viper.Viper) (*Config, error) {
	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	if v != nil {
		cfg.Override(v)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Golden.Path != "" && !filepath.IsAbs(cfg.Golden.Path) {
		cfg.Golden.Path = filepath.Join(dir, cfg.Golden.Path)
	}
	return cfg, nil
}

// Override applies every key v has a value for. Keys follow the yaml names
// with the section dropped, so BAZI_LUCK_COUNT sets engine.luck_count.
func (c *Config) Override(v *viper.Viper) {
	if v.IsSet("luck_count") {
		c.Engine.LuckCount = v.GetInt("luck_count")
	}
	if v.IsSet("luck_start_age") {
		c.Engine.LuckStartAge = v.GetInt("luck_start_age")
	}
	if v.IsSet("use_solar_time") {
		c.Engine.UseSolarTime = v.GetBool("use_solar_time")
	}
	if v.IsSet("timezone") {
		c.Engine.Timezone = v.GetString("timezone")
	}
	if v.IsSet("workers") {
		c.Engine.Workers = v.GetInt("workers")
	}
	if v.IsSet("format") {
		c.Output.Format = v.GetString("format")
	}
	if v.IsSet("color") {
		c.Output.Color = v.GetBool("color")
	}
	if v.IsSet("pinyin") {
		c.Output.Pinyin = v.GetBool("pinyin")
	}
	if v.IsSet("golden") {
		c.Golden.Path = v.GetString("golden")
	}
	if v.IsSet("log_level") {
		c.Log.Level = v.GetString("log_level")
	}
	if v.IsSet("log_format") {
		c.Log.Format = v.GetString("log_format")
	}
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "bazi"), nil
}

// EnsureConfigDir creates dir if it doesn't exist.
func EnsureConfigDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
