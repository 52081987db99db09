package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1920.0, cfg.Width)
	assert.Equal(t, 1080.0, cfg.Height)
	assert.Equal(t, ":2000", cfg.RelayAddr)
	assert.Equal(t, time.Second, cfg.SpawnInterval)
}

func TestApplyEnvOverridesDefaults(t *testing.T) {
	env := map[string]string{
		"STARDUEL_PLAYER":         "#1",
		"STARDUEL_SPEED":          "250",
		"STARDUEL_SPAWN_INTERVAL": "500ms",
		"STARDUEL_CODEC":          "MSGPACK",
		"STARDUEL_AUDIO":          "false",
		"STARDUEL_RELAY_URL":      "  ",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))
	assert.Equal(t, 1, cfg.Player)
	assert.Equal(t, 250.0, cfg.Speed)
	assert.Equal(t, 500*time.Millisecond, cfg.SpawnInterval)
	assert.Equal(t, "msgpack", cfg.Codec)
	assert.False(t, cfg.Audio)
	assert.Equal(t, DefaultRelayURL, cfg.RelayURL, "blank values keep the default")
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "STARDUEL_TURN_SPEED" {
			return "fast", true
		}
		return "", false
	}
	cfg := Default()
	err := cfg.applyEnv(lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STARDUEL_TURN_SPEED")
}

func TestLoadReadsDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("STARDUEL_HEIGHT=720\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("STARDUEL_HEIGHT") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 720.0, cfg.Height)
}

func TestLoadMissingDotenvIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"player", func(c *Config) { c.Player = 2 }},
		{"width", func(c *Config) { c.Width = 0 }},
		{"speed", func(c *Config) { c.Speed = -1 }},
		{"turn", func(c *Config) { c.TurnSpeed = 0 }},
		{"spawn", func(c *Config) { c.SpawnInterval = 0 }},
		{"frame", func(c *Config) { c.FrameInterval = -time.Second }},
		{"codec", func(c *Config) { c.Codec = "xml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParsePlayer(t *testing.T) {
	p, err := ParsePlayer("#0")
	require.NoError(t, err)
	assert.Equal(t, 0, p)

	p, err = ParsePlayer("1")
	require.NoError(t, err)
	assert.Equal(t, 1, p)

	_, err = ParsePlayer("#2")
	assert.Error(t, err)
	_, err = ParsePlayer("")
	assert.Error(t, err)
}
