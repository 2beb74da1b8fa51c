package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoverdict/deconj"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deconj.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, deconj.DefaultLimits, cfg.DeconjLimits())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
addr = "127.0.0.1:9000"
rules = "rules.yaml"
watch = true
log_level = "debug"

[cache]
size = 128
ttl = "10m"

[cors]
allowed_origins = ["https://example.org"]

[limits]
max_extra_steps = 8
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "rules.yaml", cfg.Rules)
	assert.True(t, cfg.Watch)
	assert.Equal(t, 128, cfg.Cache.Size)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL.Duration)
	assert.Equal(t, []string{"https://example.org"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, deconj.Limits{MaxExtraRunes: 10, MaxExtraSteps: 8}, cfg.DeconjLimits())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"unknown key", `adress = ":1"`, "adress"},
		{"bad duration", "[cache]\nttl = \"soon\"", "soon"},
		{"bad level", `log_level = "loud"`, "unknown log_level"},
		{"negative size", "[cache]\nsize = -1", "cache.size"},
		{"watch without rules", `watch = true`, "watch requires"},
		{"syntax", `addr = `, "deconj.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}
