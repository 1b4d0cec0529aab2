package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads, prefixed and bare. t.Setenv
// registers the restore before the unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"DEBUG", "NO_COLOR", "FORMAT", "TELEMETRY"} {
		for _, key := range []string{Prefix + "_" + name, name} {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PIPEPARSE_DEBUG", "true")
	t.Setenv("PIPEPARSE_NO_COLOR", "1")
	t.Setenv("PIPEPARSE_FORMAT", "json")
	t.Setenv("PIPEPARSE_TELEMETRY", "timing")

	cfg, err := Load()
	require.NoError(t, err)

	want := &Config{Debug: true, NoColor: true, Format: "json", Telemetry: "timing"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoadHonoursBareNoColor(t *testing.T) {
	clearEnv(t)
	t.Setenv("NO_COLOR", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.NoColor)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"bad bool", "PIPEPARSE_DEBUG", "maybe", "failed to load config"},
		{"unknown format", "PIPEPARSE_FORMAT", "xml", `unknown format "xml"`},
		{"unknown telemetry", "PIPEPARSE_TELEMETRY", "verbose", `unknown telemetry mode "verbose"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			assert.Equal(t, Default(), LoadOrDefault())
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
	assert.Equal(t, slog.LevelInfo, Default().LogLevel())
}
