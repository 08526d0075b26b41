package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termtris/types"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig.Clone()
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"control symbol", func(c *Config) { c.Theme.Symbols.Block = '\t' }},
		{"c1 symbol", func(c *Config) { c.Theme.Symbols.Ghost = 130 }},
		{"color range", func(c *Config) { c.Theme.Colors.TColor = 300 }},
		{"negative color", func(c *Config) { c.Theme.Colors.WellColor = -1 }},
		{"long name", func(c *Config) { c.PlayerName = "abcdefghijklmnopqrstuvwxyz" }},
		{"bad url", func(c *Config) { c.Leaderboard.URL = "ftp://scores" }},
		{"relative url", func(c *Config) { c.Leaderboard.URL = "/leaderboard" }},
		{"missing drop", func(c *Config) { c.Keys.Single.Drop = nil }},
		{"blank key", func(c *Config) { c.Keys.PlayerTwo.Left = []string{" "} }},
		{"shared key", func(c *Config) { c.Keys.PlayerTwo.Drop = []string{"q"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig.Clone()
			tt.modify(&cfg)
			err := cfg.Validate()
			var invalid *InvalidConfig
			assert.True(t, errors.As(err, &invalid), "expected InvalidConfig, got %v", err)
		})
	}
}

func TestRestartKeysMayOverlap(t *testing.T) {
	cfg := DefaultConfig.Clone()
	require.Equal(t, cfg.Keys.PlayerOne.Restart, cfg.Keys.PlayerTwo.Restart)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s := FileSettings{Path: filepath.Join(t.TempDir(), "config.json")}
	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig.Theme, cfg.Theme)
	assert.Equal(t, DefaultConfig.Keys, cfg.Keys)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"player_name":"ann","keys":{"single":{"drop":["Enter"]}}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := FileSettings{Path: path}.Load()
	require.NoError(t, err)
	assert.Equal(t, "ann", cfg.PlayerName)
	assert.Equal(t, []string{"Enter"}, cfg.Keys.Single.Drop)
	assert.Equal(t, DefaultConfig.Keys.Single.Left, cfg.Keys.Single.Left)
	assert.Equal(t, []string{"Space"}, DefaultKeys.Single.Drop, "defaults must not be modified")
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sound":`), 0644))

	_, err := FileSettings{Path: path}.Load()
	var invalid *InvalidConfig
	assert.ErrorAs(t, err, &invalid)
}

func TestSaveAndReload(t *testing.T) {
	s := FileSettings{Path: filepath.Join(t.TempDir(), "nested", "config.json")}
	cfg := DefaultConfig.Clone()
	cfg.PlayerName = "bob"
	cfg.Sound = false
	cfg.Theme.Colors.SetCell(types.CellT, 99)
	require.NoError(t, s.Save(&cfg))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "bob", loaded.PlayerName)
	assert.False(t, loaded.Sound)
	assert.Equal(t, 99, loaded.Theme.Colors.Cell(types.CellT))
}

func TestColorsCell(t *testing.T) {
	c := DefaultTheme.Colors
	assert.Equal(t, c.IColor, c.Cell(types.CellI))
	assert.Equal(t, c.GarbageColor, c.Cell(types.Garbage))
	assert.Equal(t, c.WellColor, c.Cell(types.Empty))
}

func TestReplayPathOverride(t *testing.T) {
	cfg := DefaultConfig.Clone()
	cfg.ReplayDir = "/tmp/replays"
	assert.Equal(t, "/tmp/replays", cfg.ReplayPath())
}
