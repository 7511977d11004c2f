// Package config loads the leaptrack YAML configuration.
//
// Defaults and validation live here so the rest of the code can assume a
// well-formed config. Flags in cmd/leaptrack only override individual fields.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration.
type Config struct {
	Sensor  SensorConfig  `yaml:"sensor"`
	Tracker TrackerConfig `yaml:"tracker"`
	Pointer PointerConfig `yaml:"pointer"`
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Plugins PluginsConfig `yaml:"plugins"`
	Logging LoggingConfig `yaml:"logging"`
}

type SensorConfig struct {
	URL           string `yaml:"url"`
	Background    bool   `yaml:"background"`
	DialTimeoutMS int    `yaml:"dial_timeout_ms"`
}

type TrackerConfig struct {
	MinTimeBetweenGesturesMS int `yaml:"min_time_between_gestures_ms"`
	ViewportWidth            int `yaml:"viewport_width"`
	ViewportHeight           int `yaml:"viewport_height"`
	TickHz                   int `yaml:"tick_hz"`
}

type PointerConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir,omitempty"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type PluginsConfig struct {
	Dir       string `yaml:"dir"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	return Config{
		Sensor: SensorConfig{
			URL:           "ws://127.0.0.1:6437/v6.json",
			DialTimeoutMS: 3000,
		},
		Tracker: TrackerConfig{
			MinTimeBetweenGesturesMS: 1000,
			ViewportWidth:            1920,
			ViewportHeight:           1080,
			TickHz:                   60,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Store: StoreConfig{
			Path: "~/.leaptrack/leaptrack.db",
		},
		Plugins: PluginsConfig{
			Dir:       "~/.leaptrack/plugins",
			TimeoutMS: 5000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads and parses a YAML config file on top of the defaults. Unknown
// fields are rejected.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML config data on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	var rest yaml.Node
	if err := dec.Decode(&rest); !errors.Is(err, io.EOF) {
		return Config{}, errors.New("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides holds values set on the command line. Nil fields are ignored.
type FlagOverrides struct {
	Addr      *string
	LogLevel  *string
	SensorURL *string
	Pointer   *bool
}

// Apply merges the overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.Addr != nil {
		cfg.Server.Addr = *o.Addr
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	if o.SensorURL != nil {
		cfg.Sensor.URL = *o.SensorURL
	}
	if o.Pointer != nil {
		cfg.Pointer.Enabled = *o.Pointer
	}
}

// Validate checks config invariants and returns a user-friendly error.
func (c *Config) Validate() error {
	if c.Sensor.URL == "" {
		return errors.New("sensor.url must not be empty")
	}
	if !strings.HasPrefix(c.Sensor.URL, "ws://") && !strings.HasPrefix(c.Sensor.URL, "wss://") {
		return fmt.Errorf("sensor.url must be a ws:// or wss:// url, got %q", c.Sensor.URL)
	}
	if c.Sensor.DialTimeoutMS <= 0 {
		return errors.New("sensor.dial_timeout_ms must be > 0")
	}

	if c.Tracker.MinTimeBetweenGesturesMS < 0 {
		return errors.New("tracker.min_time_between_gestures_ms must be >= 0")
	}
	if c.Tracker.ViewportWidth <= 0 || c.Tracker.ViewportHeight <= 0 {
		return errors.New("tracker.viewport_width and tracker.viewport_height must be > 0")
	}
	if c.Tracker.TickHz <= 0 || c.Tracker.TickHz > 1000 {
		return errors.New("tracker.tick_hz must be between 1 and 1000")
	}

	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Store.Path == "" {
		return errors.New("store.path must not be empty")
	}
	if c.Plugins.TimeoutMS <= 0 {
		return errors.New("plugins.timeout_ms must be > 0")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "error", "warn", "warning", "info", "debug":
	default:
		return fmt.Errorf("logging.level must be error, warn, info, or debug, got %q", c.Logging.Level)
	}

	return nil
}

// MinTimeBetweenGestures returns the gesture cooldown as a duration.
func (c *Config) MinTimeBetweenGestures() time.Duration {
	return time.Duration(c.Tracker.MinTimeBetweenGesturesMS) * time.Millisecond
}

// TickInterval returns the tracker update period.
func (c *Config) TickInterval() time.Duration {
	if c.Tracker.TickHz <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Tracker.TickHz)
}

// DialTimeout returns the sensor dial timeout.
func (c *Config) DialTimeout() time.Duration {
	return time.Duration(c.Sensor.DialTimeoutMS) * time.Millisecond
}

// PluginTimeout returns the plugin execution timeout.
func (c *Config) PluginTimeout() time.Duration {
	return time.Duration(c.Plugins.TimeoutMS) * time.Millisecond
}

// ExpandPath expands a leading "~/" to the user's home directory.
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
