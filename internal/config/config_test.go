package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 6, cfg.Engine.LuckCount)
	assert.Equal(t, 8, cfg.Engine.LuckStartAge)
	assert.Equal(t, FormatText, cfg.Output.Format)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := Default()
	cfg.Engine.LuckCount = 9
	cfg.Output.Format = FormatJSON
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  luck_start_age: 3\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Engine.LuckStartAge)
	assert.Equal(t, 6, cfg.Engine.LuckCount)
	assert.Equal(t, "Asia/Shanghai", cfg.Engine.Timezone)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("engine: [oops"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestOverride(t *testing.T) {
	v := viper.New()
	v.Set("luck_count", 4)
	v.Set("format", "yaml")
	v.Set("use_solar_time", true)

	cfg := Default()
	cfg.Override(v)
	assert.Equal(t, 4, cfg.Engine.LuckCount)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
	assert.True(t, cfg.Engine.UseSolarTime)
	assert.Equal(t, 8, cfg.Engine.LuckStartAge)
}

func TestLoadDirAppliesEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BAZI_LUCK_START_AGE=2\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("BAZI_LUCK_START_AGE") })

	v := viper.New()
	v.SetEnvPrefix("BAZI")
	v.AutomaticEnv()

	cfg, err := LoadDir(dir, v)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Engine.LuckStartAge)
	assert.Equal(t, filepath.Join(dir, "golden.db"), cfg.Golden.Path)
}

func TestLoadDirValidates(t *testing.T) {
	v := viper.New()
	v.Set("format", "xml")
	_, err := LoadDir(t.TempDir(), v)
	assert.ErrorContains(t, err, "output.format")
}
