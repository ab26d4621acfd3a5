// Package config loads the engine's startup defaults from a YAML file, the
// same way a host plug-in shell would supply initialization parameters.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Engine gathers the fixed parameters a host decides at load time: sample
// rate, block size, channel count, and the sizing of the two real-time-safe
// pools (buffer pool slots, parameter-update ring capacity).
type Engine struct {
	SampleRate      float64 `yaml:"sample_rate"`
	MaxBlockSize    int     `yaml:"max_block_size"`
	Channels        int     `yaml:"channels"`
	BufferPoolSlots int     `yaml:"buffer_pool_slots"`
	RingCapacity    int     `yaml:"ring_capacity"`
}

// Logging controls the diagnostics sink.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Metrics controls the Prometheus exposition endpoint.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Config is the top-level document loaded from a YAML file at startup.
type Config struct {
	Engine  Engine  `yaml:"engine"`
	Logging Logging `yaml:"logging"`
	Metrics Metrics `yaml:"metrics"`
}

// Default returns the built-in configuration used when no file is supplied.
func Default() Config {
	return Config{
		Engine: Engine{
			SampleRate:      48000,
			MaxBlockSize:    512,
			Channels:        2,
			BufferPoolSlots: 32,
			RingCapacity:    256,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Metrics: Metrics{
			Enabled: true,
			Addr:    ":9090",
		},
	}
}

// Load reads and parses a YAML config file, filling in Default() for any
// field the file leaves at its zero value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects a config that would leave the engine in an unusable
// state (a zero sample rate or block size would make every node's Prepare
// divide by zero or allocate nothing).
func (c Config) Validate() error {
	if c.Engine.SampleRate <= 0 {
		return fmt.Errorf("engine.sample_rate must be positive, got %v", c.Engine.SampleRate)
	}
	if c.Engine.MaxBlockSize <= 0 {
		return fmt.Errorf("engine.max_block_size must be positive, got %v", c.Engine.MaxBlockSize)
	}
	if c.Engine.Channels <= 0 {
		return fmt.Errorf("engine.channels must be positive, got %v", c.Engine.Channels)
	}
	if c.Engine.RingCapacity&(c.Engine.RingCapacity-1) != 0 {
		return fmt.Errorf("engine.ring_capacity must be a power of two, got %v", c.Engine.RingCapacity)
	}
	return nil
}
