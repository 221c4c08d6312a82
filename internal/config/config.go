// Package config loads server configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

// ServerConfig covers the listener and session limits.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
	MinPlayers   int           `mapstructure:"min_players"`
	MaxSessions  int           `mapstructure:"max_sessions"`
}

// LoggingConfig selects the log level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig holds the optional match-archive database. An empty
// URL disables archiving.
type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConns       int32         `mapstructure:"max_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// GameConfig tunes per-session rules.
type GameConfig struct {
	// LoopToSetup sends a finished Control phase back into Setup
	// instead of the next Storm.
	LoopToSetup     bool   `mapstructure:"loop_to_setup"`
	MaxCascadeDepth int    `mapstructure:"max_cascade_depth"`
	ReplayDir       string `mapstructure:"replay_dir"`
	// Seed fixes the session RNG; zero derives one from the clock.
	Seed int64 `mapstructure:"seed"`
}

// Load reads the file at path, applies DUNE_* environment overrides,
// and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("DUNE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			// A missing file falls back to defaults plus environment.
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.tick_interval", 50*time.Millisecond)
	v.SetDefault("server.min_players", 2)
	v.SetDefault("server.max_sessions", 64)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.connect_timeout", 5*time.Second)

	v.SetDefault("game.loop_to_setup", false)
	v.SetDefault("game.max_cascade_depth", 64)
	v.SetDefault("game.replay_dir", "replays")
	v.SetDefault("game.seed", 0)
}

func (c *Config) validate() error {
	if c.Server.TickInterval <= 0 {
		return fmt.Errorf("server.tick_interval must be positive, got %s", c.Server.TickInterval)
	}
	if c.Server.MinPlayers < 2 || c.Server.MinPlayers > 6 {
		return fmt.Errorf("server.min_players must be between 2 and 6, got %d", c.Server.MinPlayers)
	}
	if c.Game.MaxCascadeDepth <= 0 {
		return fmt.Errorf("game.max_cascade_depth must be positive, got %d", c.Game.MaxCascadeDepth)
	}
	return nil
}
