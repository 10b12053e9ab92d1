package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// resetFlags restores every flag to its default so runs do not leak into
// each other through the shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", dir, "--color=false"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

const millennium = "2000-01-01 12:00"

func TestChartJSON(t *testing.T) {
	out, err := run(t, t.TempDir(), "chart", "-d", millennium, "--tz", "Asia/Shanghai", "-g", "male", "-f", "json")
	require.NoError(t, err)
	assert.Equal(t, "己卯 丙子 戊午 戊午", gjson.Get(out, "chart").String())
	assert.Equal(t, "backward", gjson.Get(out, "luck.direction").String())
	assert.Equal(t, int64(6), gjson.Get(out, "luck.pillars.#").Int())
}

func TestChartUsesConfiguredTimezone(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("engine:\n  timezone: Asia/Shanghai\n"), 0644))

	out, err := run(t, dir, "chart", "-d", millennium, "-g", "female", "-f", "json")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Shanghai", gjson.Get(out, "timeInfo.zone").String())
	assert.Equal(t, "forward", gjson.Get(out, "luck.direction").String())
}

func TestChartFromPillars(t *testing.T) {
	out, err := run(t, t.TempDir(), "chart", "--pillars", "甲辰 庚午 庚戌 辛巳", "-g", "female", "--pinyin=false")
	require.NoError(t, err)
	assert.Contains(t, out, "四柱 甲辰 庚午 庚戌 辛巳")
}

func TestChartRejectsBadInput(t *testing.T) {
	_, err := run(t, t.TempDir(), "chart", "-d", millennium, "-g", "nobody")
	assert.ErrorContains(t, err, "gender")

	_, err = run(t, t.TempDir(), "chart", "-g", "male")
	assert.ErrorContains(t, err, "--date")
}

func TestConfiguredSolarTimeNeedsLongitude(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("engine:\n  timezone: Asia/Shanghai\n  use_solar_time: true\n"), 0644))

	_, err := run(t, dir, "chart", "-d", millennium, "-g", "male", "-f", "json")
	assert.ErrorContains(t, err, "longitude")

	out, err := run(t, dir, "chart", "-d", millennium, "-g", "male", "--lon", "120", "-f", "json")
	require.NoError(t, err)
	assert.True(t, gjson.Get(out, "timeInfo.solar").Exists())

	out, err = run(t, dir, "chart", "-d", millennium, "-g", "male", "--solar=false", "-f", "json")
	require.NoError(t, err)
	assert.False(t, gjson.Get(out, "timeInfo.solar").Exists())
}

func TestLuckCount(t *testing.T) {
	out, err := run(t, t.TempDir(), "luck", "-d", millennium, "--tz", "Asia/Shanghai", "-g", "male", "--count", "3", "-f", "json")
	require.NoError(t, err)
	assert.Equal(t, int64(3), gjson.Get(out, "pillars.#").Int())
	assert.Equal(t, "乙亥", gjson.Get(out, "pillars.0.pillar").String())
}

func TestBatchKeepGoing(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "births.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
- dateTime: "2000-01-01 12:00"
  timezone: Asia/Shanghai
  gender: male
- dateTime: "not a date"
  gender: female
`), 0644))

	out, err := run(t, dir, "batch", file, "--keep-going")
	assert.ErrorContains(t, err, "1 of 2 inputs failed")
	assert.Contains(t, out, "己卯 丙子 戊午 戊午")

	_, err = run(t, dir, "batch", file)
	assert.ErrorContains(t, err, "input 1")
}

func TestGoldenRoundTrip(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "golden", "add", "millennium", "-d", millennium, "--tz", "Asia/Shanghai", "-g", "male")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored millennium")

	out, err = run(t, dir, "golden", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "millennium")
	assert.Contains(t, out, "己卯 丙子 戊午 戊午")

	out, err = run(t, dir, "golden", "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "ok    millennium")

	_, err = run(t, dir, "golden", "rm", "millennium")
	require.NoError(t, err)
	out, err = run(t, dir, "golden", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No cases stored.")
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bazi")
	_, err := run(t, dir, "init")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	_, err = run(t, dir, "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, dir, "init", "--force")
	assert.NoError(t, err)
}
