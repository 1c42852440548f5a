// Package config loads the engine's YAML configuration via viper,
// the way the source project's own config loader does.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/tuannm99/gorelix/internal/bufferpool"
)

// Config is the engine's top-level configuration.
type Config struct {
	BufferPool struct {
		Frames   int    `mapstructure:"frames"`
		Strategy string `mapstructure:"strategy"`
	} `mapstructure:"buffer_pool"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// Default returns the configuration used when no file is supplied:
// K=3 FIFO frames (spec.md's hardcoded table default) and info-level
// logging.
func Default() Config {
	var c Config
	c.BufferPool.Frames = 3
	c.BufferPool.Strategy = "fifo"
	c.Log.Level = "info"
	return c
}

// Load reads path as YAML and unmarshals it into a Config, starting
// from Default() for any field the file omits.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("buffer_pool.frames", cfg.BufferPool.Frames)
	v.SetDefault("buffer_pool.strategy", cfg.BufferPool.Strategy)
	v.SetDefault("log.level", cfg.Log.Level)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}

// Strategy maps the configured strategy name to a bufferpool.Strategy.
// Unrecognized names default to FIFO.
func (c Config) Strategy() bufferpool.Strategy {
	switch c.BufferPool.Strategy {
	case "lru", "LRU":
		return bufferpool.LRU
	default:
		return bufferpool.FIFO
	}
}
