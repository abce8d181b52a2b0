package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the simulation driver
type Config struct {
	Width               uint32        `json:"width" yaml:"width"`
	Height              uint32        `json:"height" yaml:"height"`
	FrameRate           time.Duration `json:"frame_rate" yaml:"frame_rate"`
	MaxGenerations      int           `json:"max_generations" yaml:"max_generations"`
	AutoRestart         bool          `json:"auto_restart" yaml:"auto_restart"`
	StagnationThreshold int           `json:"stagnation_threshold" yaml:"stagnation_threshold"`
	InjectionCount      int           `json:"injection_count" yaml:"injection_count"`
	UseMemoryPool       bool          `json:"use_memory_pool" yaml:"use_memory_pool"`
	Random              bool          `json:"random" yaml:"random"`
	RandomDensity       float64       `json:"random_density" yaml:"random_density"`
	Seed                int64         `json:"seed" yaml:"seed"`
	Pattern             string        `json:"pattern" yaml:"pattern"`
	Interactive         bool          `json:"interactive" yaml:"interactive"`
	Color               bool          `json:"color" yaml:"color"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:               64,
		Height:              64,
		FrameRate:           150 * time.Millisecond,
		MaxGenerations:      1000,
		AutoRestart:         true,
		StagnationThreshold: 5,
		InjectionCount:      3,
		UseMemoryPool:       true,
		Random:              false,
		RandomDensity:       0.5,
		Seed:                0, // 0 seeds from the clock
		Pattern:             "",
		Interactive:         false,
		Color:               true,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, picked by extension
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	case ".json":
		err = json.Unmarshal(data, &config)
	default:
		return config, errors.Errorf("[LoadConfig] unsupported config format: %+v", filename)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] invalid config in file: %+v", filename)
	}

	return config, nil
}

// Validate checks that the values can drive a simulation
func (c Config) Validate() error {
	if c.RandomDensity < 0 || c.RandomDensity > 1 {
		return errors.Errorf("random_density must be within [0, 1], got %v", c.RandomDensity)
	}
	if c.FrameRate < 0 {
		return errors.Errorf("frame_rate must not be negative, got %v", c.FrameRate)
	}
	if c.InjectionCount < 0 {
		return errors.Errorf("injection_count must not be negative, got %v", c.InjectionCount)
	}
	if c.MaxGenerations < 0 {
		return errors.Errorf("max_generations must not be negative, got %v", c.MaxGenerations)
	}
	return nil
}
