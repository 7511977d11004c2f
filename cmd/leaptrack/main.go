package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ayusman/leaptrack/internal/app"
	"github.com/ayusman/leaptrack/internal/config"
	"github.com/ayusman/leaptrack/internal/plugin"
	"github.com/ayusman/leaptrack/internal/pointer"
	"github.com/ayusman/leaptrack/internal/pointer/robot"
	"github.com/ayusman/leaptrack/internal/sensor"
	"github.com/ayusman/leaptrack/internal/server"
	"github.com/ayusman/leaptrack/internal/store"
	"github.com/ayusman/leaptrack/internal/tracker"
	"github.com/ayusman/leaptrack/internal/tray"
)

// statusInterval is how often the sensor status line is refreshed.
const statusInterval = 2 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "leaptrack:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		addr       = flag.String("addr", "", "HTTP listen address (overrides config)")
		logLevel   = flag.String("log-level", "", "Log level: error, warn, info, debug (overrides config)")
		sensorURL  = flag.String("sensor-url", "", "Tracking service WebSocket URL (overrides config)")
		pointerOn  = flag.Bool("pointer", false, "Enable pointer control (overrides config)")
		noTray     = flag.Bool("no-tray", false, "Run without the system tray")
	)
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Only flags given on the command line override the file.
	var overrides config.FlagOverrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			overrides.Addr = addr
		case "log-level":
			overrides.LogLevel = logLevel
		case "sensor-url":
			overrides.SensorURL = sensorURL
		case "pointer":
			overrides.Pointer = pointerOn
		}
	})
	overrides.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger := setupLogger(os.Stdout, level)
	slog.SetDefault(logger)

	st, err := store.New(config.ExpandPath(cfg.Store.Path))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	plugins := plugin.NewManager(config.ExpandPath(cfg.Plugins.Dir), logger)
	if err := plugins.Discover(); err != nil {
		logger.Warn("plugin discovery failed", "dir", plugins.PluginDir(), "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing sensor is not fatal: the tracker reports itself
	// uninitialized and the server still runs.
	var src sensor.Source
	ws, err := sensor.Dial(ctx, sensor.Config{
		URL:         cfg.Sensor.URL,
		Background:  cfg.Sensor.Background,
		DialTimeout: cfg.DialTimeout(),
		Logger:      logger,
	})
	if err != nil {
		logger.Error("sensor not available, make sure the sensor is connected", "url", cfg.Sensor.URL, "error", err)
	} else {
		src = ws
	}

	ptr := pointer.NewController(robot.New(), cfg.Pointer.Enabled, logger)

	tr := tracker.New(tracker.Config{
		MinTimeBetweenGestures: cfg.MinTimeBetweenGestures(),
		ViewportWidth:          cfg.Tracker.ViewportWidth,
		ViewportHeight:         cfg.Tracker.ViewportHeight,
		Logger:                 logger,
		Pointer:                ptr,
	}, src)

	var ui *tray.Tray
	if !*noTray {
		ui = tray.New(cfg.Pointer.Enabled)
	}

	hub := app.NewStateHub()
	application, err := app.New(app.Config{
		Tracker:      tr,
		Store:        st,
		Plugins:      plugins,
		Executor:     plugin.NewExecutor(cfg.PluginTimeout()),
		Hub:          hub,
		TickInterval: cfg.TickInterval(),
		Logger:       logger,
		OnEvent: func(ev app.Event) {
			if ui != nil {
				ui.SetLastGesture(ev.Trigger)
			}
		},
	})
	if err != nil {
		tr.Close()
		return err
	}

	staticDir := cfg.Server.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		logger.Info("serving dashboard", "dir", staticDir)
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		Store:     st,
		Plugins:   plugins,
		State:     hub,
		Logger:    logger,
	})

	application.Start(ctx)

	var wg sync.WaitGroup
	serverErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
			serverErr <- err
			stop()
		}
	}()

	if ui != nil {
		ui.SetSensorStatus(sensorStatus(ws, tr))
		ui.OnPointerToggle(func(enabled bool) {
			ptr.SetEnabled(enabled)
			logger.Info("pointer control toggled", "enabled", enabled)
		})
		ui.OnDashboard(func() {
			if err := openBrowser(dashboardURL(cfg.Server.Addr)); err != nil {
				logger.Warn("failed to open dashboard", "error", err)
			}
		})
		ui.OnQuit(stop)

		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(statusInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					ui.Quit()
					return
				case <-ticker.C:
					ui.SetSensorStatus(sensorStatus(ws, tr))
				}
			}
		}()

		// The tray needs the main goroutine on some platforms.
		ui.Run()
		stop()
	} else {
		<-ctx.Done()
	}

	logger.Info("shutting down")
	application.Stop()
	wg.Wait()
	tr.Close()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	default:
		return nil
	}
}

// sensorStatus describes the sensor connection for the tray.
func sensorStatus(ws *sensor.WebSocketSource, tr *tracker.Tracker) string {
	switch {
	case ws == nil || !tr.IsInitialized():
		return "not connected"
	case ws.Err() != nil:
		if errors.Is(ws.Err(), sensor.ErrClosed) {
			return "closed"
		}
		return "disconnected"
	default:
		return "connected"
	}
}

// dashboardURL turns a listen address into a browsable URL.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens url in the default browser.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.leaptrack/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := config.ExpandPath("~/.leaptrack/web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
