package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParse(t *testing.T) {
	seed := strings.Repeat("ab", 32)
	cfg, err := Parse([]byte("database: /tmp/x.db\nagent_seed: " + seed + "\nlog_level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, Config{Database: "/tmp/x.db", AgentSeed: seed, LogLevel: "debug"}, cfg)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("log_level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, "ledgerstore.db", cfg.Database)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())

	cfg, err = Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad log level", "log_level: loud\n"},
		{"short seed", "agent_seed: abcd\n"},
		{"uppercase seed", "agent_seed: " + strings.Repeat("AB", 32) + "\n"},
		{"empty database", "database: \"\"\n"},
		{"unknown key", "colour: blue\n"},
		{"not yaml", "database: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgerstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: data.db\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data.db", cfg.Database)
	assert.Equal(t, "info", cfg.LogLevel)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSlogLevelFallback(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "info"}.SlogLevel())
	assert.Equal(t, slog.LevelError, Config{LogLevel: "error"}.SlogLevel())
}
