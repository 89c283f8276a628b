// Package config provides configuration parsing for perf-pulse.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/c2h5oh/datasize"
	"gopkg.in/yaml.v3"
)

// Environment overrides applied after the file is read.
const (
	EnvCapacity = "PERF_PULSE_CAPACITY"
	EnvInterval = "PERF_PULSE_INTERVAL"
)

// Config represents the perf-pulse configuration.
type Config struct {
	// Sampling holds tick and CPU recorder settings.
	Sampling SamplingConfig `yaml:"sampling" toml:"sampling"`

	// History holds shared capacity settings.
	History HistoryConfig `yaml:"history" toml:"history"`

	// Graphs holds initial graph visibility and scale settings.
	Graphs GraphsConfig `yaml:"graphs" toml:"graphs"`

	// Log holds logging settings.
	Log LogConfig `yaml:"log" toml:"log"`

	// Export holds report export settings.
	Export ExportConfig `yaml:"export" toml:"export"`
}

// SamplingConfig holds tick and CPU recorder settings.
type SamplingConfig struct {
	// Interval is the time between ticks (e.g. "16ms").
	Interval Duration `yaml:"interval" toml:"interval"`
	// CPUWindow is the number of CPU time samples averaged per reading.
	CPUWindow int `yaml:"cpu_window" toml:"cpu_window"`
}

// HistoryConfig holds shared capacity settings.
type HistoryConfig struct {
	// Capacity is the initial number of samples kept per metric.
	Capacity int `yaml:"capacity" toml:"capacity"`
	// MinCapacity is the lowest capacity the controls accept.
	MinCapacity int `yaml:"min_capacity" toml:"min_capacity"`
	// MaxCapacity is the highest capacity the controls accept.
	MaxCapacity int `yaml:"max_capacity" toml:"max_capacity"`
	// Step is the capacity change per key press.
	Step int `yaml:"step" toml:"step"`
}

// GraphsConfig holds initial graph visibility and scale settings.
type GraphsConfig struct {
	FPS    bool `yaml:"fps" toml:"fps"`
	CPU    bool `yaml:"cpu" toml:"cpu"`
	Memory bool `yaml:"memory" toml:"memory"`
	// MemoryCeiling replaces the detected total system memory as the
	// memory graph floor (e.g. "4GB"). Zero means detect.
	MemoryCeiling datasize.ByteSize `yaml:"memory_ceiling" toml:"memory_ceiling"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" toml:"level"`
	// File redirects log output from stderr to a file.
	File string `yaml:"file" toml:"file"`
	// Detailed adds source locations to log records.
	Detailed bool `yaml:"detailed" toml:"detailed"`
}

// ExportConfig holds report export settings.
type ExportConfig struct {
	// Dir is where report.json and graph images are written.
	Dir string `yaml:"dir" toml:"dir"`
}

// Duration is a time.Duration that reads and writes as a string like "16ms".
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Sampling: SamplingConfig{
			Interval:  Duration(16 * time.Millisecond),
			CPUWindow: 16,
		},
		History: HistoryConfig{
			Capacity:    1000,
			MinCapacity: 1000,
			MaxCapacity: 10000,
			Step:        500,
		},
		Graphs: GraphsConfig{
			FPS:    true,
			CPU:    true,
			Memory: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Export: ExportConfig{
			Dir: filepath.Join(home, ".cache", "perf-pulse"),
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "perf-pulse", "config.yaml")
}

// LoadConfig loads configuration from a YAML or TOML file, merging with
// defaults. The format is picked by extension; anything other than .toml
// is read as YAML. A missing file yields the defaults. Environment
// overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, config); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return config, nil
}

func decode(path string, data []byte, config *Config) error {
	if isTOML(path) {
		_, err := toml.Decode(string(data), config)
		return err
	}
	return yaml.Unmarshal(data, config)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvCapacity); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvCapacity, v, err)
		}
		c.History.Capacity = n
	}
	if v, ok := lookup(EnvInterval); ok && v != "" {
		var d Duration
		if err := d.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("config: %s: %w", EnvInterval, err)
		}
		c.Sampling.Interval = d
	}
	return nil
}

// Validate checks the configuration for required fields and logical consistency.
func (c *Config) Validate() error {
	// Sampling validation
	if c.Sampling.Interval <= 0 {
		return fmt.Errorf("sampling.interval must be positive, got %s", c.Sampling.Interval.Std())
	}
	if c.Sampling.CPUWindow < 1 {
		return fmt.Errorf("sampling.cpu_window must be at least 1, got %d", c.Sampling.CPUWindow)
	}

	// History validation
	h := c.History
	if h.MinCapacity < 1 {
		return fmt.Errorf("history.min_capacity must be at least 1, got %d", h.MinCapacity)
	}
	if h.MaxCapacity < h.MinCapacity {
		return fmt.Errorf("history.max_capacity (%d) must not be below history.min_capacity (%d)", h.MaxCapacity, h.MinCapacity)
	}
	if h.Capacity < h.MinCapacity || h.Capacity > h.MaxCapacity {
		return fmt.Errorf("history.capacity must be within [%d, %d], got %d", h.MinCapacity, h.MaxCapacity, h.Capacity)
	}
	if h.Step < 1 {
		return fmt.Errorf("history.step must be at least 1, got %d", h.Step)
	}

	// Log validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level must be 'debug', 'info', 'warn', or 'error', got %q", c.Log.Level)
	}

	return nil
}

// SaveConfig saves configuration to a YAML or TOML file, picked by extension.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("config: create directory %s: %w", dir, err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return fmt.Errorf("config: encode %s: %w", path, err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("config: encode %s: %w", path, err)
		}
	}

	return os.WriteFile(path, data, 0644)
}
