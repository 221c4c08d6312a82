package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 50*time.Millisecond, cfg.Server.TickInterval)
	assert.Equal(t, 2, cfg.Server.MinPlayers)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Database.URL)
	assert.False(t, cfg.Game.LoopToSetup)
	assert.Equal(t, 64, cfg.Game.MaxCascadeDepth)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  address: ":9090"
  min_players: 4
game:
  loop_to_setup: true
  seed: 42
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 4, cfg.Server.MinPlayers)
	assert.True(t, cfg.Game.LoopToSetup)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	// Untouched keys keep their defaults.
	assert.Equal(t, 50*time.Millisecond, cfg.Server.TickInterval)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  min_players: 9\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "min_players")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("DUNE_SERVER_ADDRESS", ":7777")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Address)
}
