// Package app runs the tracking loop and turns detections into events.
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ayusman/leaptrack/internal/plugin"
	"github.com/ayusman/leaptrack/internal/store"
	"github.com/ayusman/leaptrack/internal/tracker"
)

// DefaultTickInterval is used when Config.TickInterval is not positive.
const DefaultTickInterval = time.Second / 60

// Config holds configuration options for the application.
type Config struct {
	Tracker      *tracker.Tracker
	Store        *store.Store
	Plugins      *plugin.Manager
	Executor     *plugin.Executor
	Hub          *StateHub
	TickInterval time.Duration
	Logger       *slog.Logger

	// OnEvent is called from the tracking goroutine for every event.
	OnEvent func(Event)
}

// App owns a tracker and ticks it on its own goroutine. Nothing else may
// call into the tracker while the app is running.
type App struct {
	config  Config
	tracker *tracker.Tracker
	hub     *StateHub
	logger  *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool

	// dispatches tracks in-flight plugin runs
	dispatches sync.WaitGroup
}

// New creates a new App. The tracker is required.
func New(config Config) (*App, error) {
	if config.Tracker == nil {
		return nil, errors.New("app: tracker is required")
	}
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Executor == nil {
		config.Executor = plugin.NewExecutor(plugin.DefaultTimeout)
	}
	hub := config.Hub
	if hub == nil {
		hub = NewStateHub()
	}

	return &App{
		config:  config,
		tracker: config.Tracker,
		hub:     hub,
		logger:  config.Logger,
	}, nil
}

// Hub returns the hub snapshots are published to.
func (a *App) Hub() *StateHub {
	return a.hub
}

// Start launches the tracking loop. It is a no-op when already running.
func (a *App) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})
	a.running = true

	// Publish once so readers see the initialization state before the
	// first frame arrives.
	a.hub.Publish(a.tracker.Snapshot())

	go a.run(ctx, a.done)

	a.logger.Info("tracking loop started", "interval", a.config.TickInterval, "initialized", a.tracker.IsInitialized())
}

// Stop halts the tracking loop and waits for in-flight plugin runs.
// The tracker itself is not closed.
func (a *App) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	cancel, done := a.cancel, a.done
	a.running = false
	a.mu.Unlock()

	cancel()
	<-done
	a.dispatches.Wait()

	a.logger.Info("tracking loop stopped")
}

// Running reports whether the tracking loop is active.
func (a *App) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}
