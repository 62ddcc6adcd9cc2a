package app

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfig_Defaults(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, "info", c.Settings.LogLevel)
	assert.Equal(t, "1.225", c.Airframe.AirDensity)
	assert.Empty(t, c.Airframe.WingArea)
	assert.Equal(t, 900, c.Plot.Width)
	assert.Equal(t, 650, c.Plot.Height)
	assert.True(t, c.Plot.InfoBar)
	assert.False(t, c.Storage.CRLF)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
settings:
  logLevel: debug
airframe:
  wingArea: 16.2
plot:
  width: 1200
  infoBar: false
storage:
  crlf: true
prompt:
  maxInputErrors: 3
`)

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Settings.LogLevel)
	assert.Equal(t, "16.2", c.Airframe.WingArea)
	assert.Equal(t, "1.225", c.Airframe.AirDensity, "unset keys keep their defaults")
	assert.Equal(t, 1200, c.Plot.Width)
	assert.Equal(t, 650, c.Plot.Height)
	assert.False(t, c.Plot.InfoBar)
	assert.True(t, c.Storage.CRLF)
	assert.Equal(t, 3, c.Prompt.MaxInputErrors)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "plot: [1, 2"))
	assert.Error(t, err)
}

func TestNewConfigFromCLI(t *testing.T) {
	c, err := NewConfigFromCLI([]string{
		"-vs", "10", "-hs", "10", "-area", "20",
		"-save", "out.csv", "-plot", "chart.png", "-width", "640",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, RunOptions{
		VerticalSpeed:   "10",
		HorizontalSpeed: "10",
		SavePath:        "out.csv",
		PlotPath:        "chart.png",
		verticalSet:     true,
		horizontalSet:   true,
	}, c.Run)
	assert.Equal(t, "20", c.Airframe.WingArea)
	assert.Equal(t, "1.225", c.Airframe.AirDensity)
	assert.Equal(t, 640, c.Plot.Width)
	assert.Equal(t, 650, c.Plot.Height)
}

func TestNewConfigFromCLI_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
settings:
  logLevel: warn
airframe:
  wingArea: 16.2
  airDensity: 1.1
plot:
  height: 500
`)

	c, err := NewConfigFromCLI([]string{"-c", path, "-density", "0.9", "-i"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "16.2", c.Airframe.WingArea)
	assert.Equal(t, "0.9", c.Airframe.AirDensity)
	assert.Equal(t, 500, c.Plot.Height, "unset flags keep file values")
	assert.Equal(t, "warn", c.Settings.LogLevel)
	assert.True(t, c.Run.Interactive)

	level, err := c.Settings.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

func TestNewConfigFromCLI_EmptySpeed(t *testing.T) {
	c, err := NewConfigFromCLI([]string{"-vs", "", "-hs", "3"}, io.Discard)
	require.NoError(t, err, "an empty speed is an input error, not a usage error")
	assert.True(t, c.Run.HasSingleEvaluation())
	assert.Empty(t, c.Run.VerticalSpeed)

	_, err = NewConfigFromCLI([]string{"-hs", "3"}, io.Discard)
	assert.Error(t, err, "-vs is missing")
}

func TestNewConfigFromCLI_Help(t *testing.T) {
	_, err := NewConfigFromCLI([]string{"-h"}, io.Discard)
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "single evaluation",
			mutate: func(c *Config) { c.Run.VerticalSpeed, c.Run.HorizontalSpeed = "1", "2" },
		},
		{
			name:   "load only",
			mutate: func(c *Config) { c.Run.LoadPath = "in.csv" },
		},
		{
			name:   "interactive only",
			mutate: func(c *Config) { c.Run.Interactive = true },
		},
		{
			name:    "nothing to do",
			mutate:  func(c *Config) { c.Run.SavePath = "out.csv" },
			wantErr: true,
		},
		{
			name: "empty vertical speed flag",
			mutate: func(c *Config) {
				c.Run.verticalSet = true
				c.Run.HorizontalSpeed = "2"
			},
		},
		{
			name:    "empty vertical speed flag alone",
			mutate:  func(c *Config) { c.Run.verticalSet = true },
			wantErr: true,
		},
		{
			name:    "vertical speed only",
			mutate:  func(c *Config) { c.Run.VerticalSpeed = "1" },
			wantErr: true,
		},
		{
			name: "unknown log level",
			mutate: func(c *Config) {
				c.Run.Interactive = true
				c.Settings.LogLevel = "loud"
			},
			wantErr: true,
		},
		{
			name: "zero chart width",
			mutate: func(c *Config) {
				c.Run.Interactive = true
				c.Plot.Width = 0
			},
			wantErr: true,
		},
		{
			name: "negative input errors threshold",
			mutate: func(c *Config) {
				c.Run.Interactive = true
				c.Prompt.MaxInputErrors = -1
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewConfig()
			tc.mutate(c)

			err := c.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
