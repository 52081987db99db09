package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Default values, matching the original arena and tuning.
const (
	DefaultRelayAddr     = ":2000"
	DefaultRelayURL      = "ws://localhost:2000/ws"
	DefaultCodec         = "json"
	DefaultWidth         = 1920.0
	DefaultHeight        = 1080.0
	DefaultSpeed         = 500.0
	DefaultTurnSpeed     = 3.0
	DefaultSpawnInterval = 1000 * time.Millisecond
	DefaultFrameInterval = time.Second / 60
	DefaultLogFile       = "starduel.log"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "STARDUEL_"

// Config holds the settings shared by the relay and the game client.
type Config struct {
	RelayAddr string
	RelayURL  string
	Codec     string

	Player        int
	Width         float64
	Height        float64
	Speed         float64
	TurnSpeed     float64
	SpawnInterval time.Duration
	FrameInterval time.Duration

	Audio   bool
	LogFile string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RelayAddr:     DefaultRelayAddr,
		RelayURL:      DefaultRelayURL,
		Codec:         DefaultCodec,
		Player:        0,
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		Speed:         DefaultSpeed,
		TurnSpeed:     DefaultTurnSpeed,
		SpawnInterval: DefaultSpawnInterval,
		FrameInterval: DefaultFrameInterval,
		Audio:         true,
		LogFile:       DefaultLogFile,
	}
}

// Load builds a Config from defaults, an optional dotenv file and the
// STARDUEL_* environment. A missing dotenv file is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return Config{}, errors.Wrapf(err, "loading %s", envFile)
		}
	}

	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get("RELAY_ADDR"); ok {
		c.RelayAddr = v
	}
	if v, ok := get("RELAY_URL"); ok {
		c.RelayURL = v
	}
	if v, ok := get("CODEC"); ok {
		c.Codec = strings.ToLower(v)
	}
	if v, ok := get("LOG_FILE"); ok {
		c.LogFile = v
	}
	if v, ok := get("PLAYER"); ok {
		p, err := ParsePlayer(v)
		if err != nil {
			return err
		}
		c.Player = p
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"WIDTH", &c.Width},
		{"HEIGHT", &c.Height},
		{"SPEED", &c.Speed},
		{"TURN_SPEED", &c.TurnSpeed},
	}
	for _, f := range floats {
		v, ok := get(f.name)
		if !ok {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "%s%s", EnvPrefix, f.name)
		}
		*f.dst = n
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"SPAWN_INTERVAL", &c.SpawnInterval},
		{"FRAME_INTERVAL", &c.FrameInterval},
	}
	for _, d := range durations {
		v, ok := get(d.name)
		if !ok {
			continue
		}
		n, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "%s%s", EnvPrefix, d.name)
		}
		*d.dst = n
	}

	if v, ok := get("AUDIO"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "%sAUDIO", EnvPrefix)
		}
		c.Audio = b
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Player != 0 && c.Player != 1:
		return errors.Errorf("player slot must be 0 or 1, got %d", c.Player)
	case c.Width <= 0 || c.Height <= 0:
		return errors.Errorf("arena must have a positive size, got %vx%v", c.Width, c.Height)
	case c.Speed <= 0:
		return errors.Errorf("speed must be positive, got %v", c.Speed)
	case c.TurnSpeed <= 0:
		return errors.Errorf("turn speed must be positive, got %v", c.TurnSpeed)
	case c.SpawnInterval <= 0:
		return errors.Errorf("spawn interval must be positive, got %v", c.SpawnInterval)
	case c.FrameInterval <= 0:
		return errors.Errorf("frame interval must be positive, got %v", c.FrameInterval)
	case c.Codec != "json" && c.Codec != "msgpack":
		return errors.Errorf("unknown codec %q", c.Codec)
	}
	return nil
}

// ParsePlayer reads a player slot from a launch selector. Both the bare
// form ("1") and the URL fragment form ("#1") are accepted.
func ParsePlayer(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid player selector %q", s)
	}
	if p != 0 && p != 1 {
		return 0, errors.Errorf("player slot must be 0 or 1, got %d", p)
	}
	return p, nil
}
