package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfig, EnvLag, EnvExit, EnvFormat, EnvColor, EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "lag: 2.5\ncommon_exit: true\nformat: json\ncolor: false\nlog_level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{Lag: 2.5, CommonExit: true, Format: FormatJSON, Color: false, LogLevel: "debug"}, cfg)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoad_PathFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfig, writeConfig(t, "format: dot\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, FormatDOT, cfg.Format)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "lag: 1\nformat: json\n")
	t.Setenv(EnvLag, "4")
	t.Setenv(EnvExit, "1")
	t.Setenv(EnvFormat, "TEXT")
	t.Setenv(EnvColor, "false")
	t.Setenv(EnvLogLevel, "Info")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.Lag)
	assert.True(t, cfg.CommonExit)
	assert.Equal(t, FormatText, cfg.Format)
	assert.False(t, cfg.Color)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
		msg  string
	}{
		{"negative lag", "lag: -1\n", nil, "invalid config"},
		{"unknown format", "format: xml\n", nil, "invalid config"},
		{"unknown level", "log_level: trace\n", nil, "invalid config"},
		{"unparsable file", "lag: [\n", nil, "tried YAML and JSON"},
		{"bad lag env", "", map[string]string{EnvLag: "soon"}, EnvLag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.file))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelWarn,
	}
	for in, want := range tests {
		assert.Equal(t, want, Config{LogLevel: in}.Level(), in)
	}
}
