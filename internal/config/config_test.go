package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, time.Second, cfg.MinTimeBetweenGestures())
	assert.Equal(t, time.Second/60, cfg.TickInterval())
	assert.Equal(t, 3*time.Second, cfg.DialTimeout())
	assert.Equal(t, 5*time.Second, cfg.PluginTimeout())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaptrack.yaml")
	data := []byte(`
sensor:
  url: ws://10.0.0.5:6437/v6.json
  background: true
tracker:
  min_time_between_gestures_ms: 250
  tick_hz: 120
pointer:
  enabled: true
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	want := DefaultConfig()
	want.Sensor.URL = "ws://10.0.0.5:6437/v6.json"
	want.Sensor.Background = true
	want.Tracker.MinTimeBetweenGesturesMS = 250
	want.Tracker.TickHz = 120
	want.Pointer.Enabled = true
	want.Logging.Level = "debug"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	t.Run("empty document yields defaults", func(t *testing.T) {
		cfg, err := Parse(nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		_, err := Parse([]byte("tracker:\n  min_time_between_gesture_ms: 5\n"))
		assert.Error(t, err)
	})

	t.Run("trailing document is rejected", func(t *testing.T) {
		_, err := Parse([]byte("logging:\n  level: info\n---\nlogging:\n  level: debug\n"))
		assert.Error(t, err)
	})
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty sensor url", func(c *Config) { c.Sensor.URL = "" }},
		{"http sensor url", func(c *Config) { c.Sensor.URL = "http://127.0.0.1:6437" }},
		{"zero dial timeout", func(c *Config) { c.Sensor.DialTimeoutMS = 0 }},
		{"negative cooldown", func(c *Config) { c.Tracker.MinTimeBetweenGesturesMS = -1 }},
		{"zero viewport", func(c *Config) { c.Tracker.ViewportWidth = 0 }},
		{"tick too fast", func(c *Config) { c.Tracker.TickHz = 5000 }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"empty store path", func(c *Config) { c.Store.Path = "" }},
		{"zero plugin timeout", func(c *Config) { c.Plugins.TimeoutMS = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("zero cooldown is allowed", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Tracker.MinTimeBetweenGesturesMS = 0
		assert.NoError(t, cfg.Validate())
	})
}

func TestFlagOverrides_Apply(t *testing.T) {
	addr := ":9090"
	level := "warn"
	enabled := true

	cfg := DefaultConfig()
	FlagOverrides{Addr: &addr, LogLevel: &level, Pointer: &enabled}.Apply(&cfg)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Pointer.Enabled)
	assert.Equal(t, DefaultConfig().Sensor.URL, cfg.Sensor.URL)

	FlagOverrides{}.Apply(nil)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x", "y.db"), ExpandPath("~/x/y.db"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
	assert.Equal(t, "rel", ExpandPath("rel"))
}
