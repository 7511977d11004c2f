// Package tracker turns per-frame skeletal-tracking data into a stable,
// query-friendly state: the primary hand and pointable, their converted
// position and orientation, a grip signal, a cursor and debounced gestures.
//
// A Tracker is driven by exactly one goroutine calling Update once per
// tick. Accessors may be called from that same goroutine between updates.
// Other goroutines should read a Snapshot instead.
package tracker

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/leaptrack/internal/sensor"
)

// Default settings.
const (
	DefaultMinTimeBetweenGestures = time.Second
	DefaultViewportWidth          = 1920
	DefaultViewportHeight         = 1080
)

// Clock supplies the current time for the gesture cooldown.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Pointer is an optional collaborator driven by grip transitions and
// cursor updates, typically an OS mouse controller.
type Pointer interface {
	// Press is called on a release-to-grip transition.
	Press()
	// Release is called on a grip-to-release transition, and when the hand
	// is lost while gripping.
	Release()
	// Move is called with the normalized cursor whenever it is recomputed.
	Move(nx, ny float64)
}

// Config holds configuration options for the tracker.
type Config struct {
	// MinTimeBetweenGestures is the cooldown armed by every detection.
	MinTimeBetweenGestures time.Duration

	// ViewportWidth and ViewportHeight scale the normalized cursor to screen space.
	ViewportWidth  int
	ViewportHeight int

	Logger  *slog.Logger
	Clock   Clock
	Pointer Pointer
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinTimeBetweenGestures: DefaultMinTimeBetweenGestures,
		ViewportWidth:          DefaultViewportWidth,
		ViewportHeight:         DefaultViewportHeight,
	}
}

// Transition describes a grip state change observed in the last frame.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionGrip
	TransitionRelease
)

// String returns the transition name.
func (t Transition) String() string {
	switch t {
	case TransitionGrip:
		return "grip"
	case TransitionRelease:
		return "release"
	default:
		return "none"
	}
}

// enabledGestures are requested from the sensor on initialization.
var enabledGestures = []sensor.GestureType{
	sensor.GestureTypeCircle,
	sensor.GestureTypeKeyTap,
	sensor.GestureTypeScreenTap,
	sensor.GestureTypeSwipe,
}

// Tracker is the tracking and gesture state machine.
type Tracker struct {
	logger  *slog.Logger
	clock   Clock
	pointer Pointer

	source      sensor.Source
	initialized bool

	// frame ingest
	frame        *sensor.Frame
	lastFrameID  int64
	hasLastFrame bool
	frameCounter int64

	// primary hand
	hand        sensor.Hand
	hasHand     bool
	handID      int
	handPos     r3.Vec
	handDir     r3.Vec
	fingerCount int

	// primary pointable
	pointable       sensor.Pointable
	hasPointable    bool
	pointableID     int
	pointableHandID int
	pointablePos    r3.Vec
	pointableDir    r3.Vec

	grip       bool
	release    bool
	transition Transition

	viewportWidth  float64
	viewportHeight float64
	cursorNormal   r3.Vec
	cursorScreen   r3.Vec

	gestures *Debouncer
}

// New creates a tracker reading from src and enables the gesture
// recognizers it needs. It fails soft: a nil source or a sensor that
// refuses to enable gestures leaves the tracker uninitialized, which is
// observable through IsInitialized.
func New(cfg Config, src sensor.Source) *Tracker {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = realClock{}
	}
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = DefaultViewportWidth
	}
	if cfg.ViewportHeight <= 0 {
		cfg.ViewportHeight = DefaultViewportHeight
	}
	if cfg.MinTimeBetweenGestures < 0 {
		cfg.MinTimeBetweenGestures = 0
	}

	t := &Tracker{
		logger:         cfg.Logger,
		clock:          cfg.Clock,
		pointer:        cfg.Pointer,
		viewportWidth:  float64(cfg.ViewportWidth),
		viewportHeight: float64(cfg.ViewportHeight),
		gestures:       NewDebouncer(cfg.MinTimeBetweenGestures, cfg.Logger),
	}

	if src == nil {
		t.logger.Error("sensor not available, tracker not initialized")
		return t
	}

	for _, g := range enabledGestures {
		if err := src.EnableGesture(g); err != nil {
			t.logger.Error("failed to enable gesture, tracker not initialized", "gesture", g.String(), "error", err)
			if cerr := src.Close(); cerr != nil {
				t.logger.Debug("closing sensor source", "error", cerr)
			}
			return t
		}
	}

	t.source = src
	t.initialized = true
	t.logger.Info("Ready.")
	return t
}

// IsInitialized returns true if the sensor was initialized successfully.
func (t *Tracker) IsInitialized() bool {
	return t.initialized
}

// FrameCounter returns the number of distinct frames processed.
func (t *Tracker) FrameCounter() int64 {
	return t.frameCounter
}

// FrameID returns the id of the last processed frame.
func (t *Tracker) FrameID() int64 {
	return t.lastFrameID
}

// SetViewport sets the screen dimensions used for the cursor screen position.
// Non-positive values are ignored.
func (t *Tracker) SetViewport(width, height int) {
	if width > 0 {
		t.viewportWidth = float64(width)
	}
	if height > 0 {
		t.viewportHeight = float64(height)
	}
}

// Update polls the sensor and, when a new frame is available, runs target
// selection, signal derivation and gesture debouncing. It returns whether
// a new frame was processed.
func (t *Tracker) Update() bool {
	frame, ok := t.poll()
	if !ok {
		return false
	}

	t.selectTargets(frame)
	t.deriveSignals(frame)
	t.gestures.Apply(frame.Gestures, t.clock.Now())

	t.logger.Debug("frame processed",
		"frame_id", frame.ID,
		"hand_id", t.handID,
		"pointable_id", t.pointableID,
		"grip", t.grip)
	return true
}

// poll returns the newest frame if it has not been processed yet.
func (t *Tracker) poll() (*sensor.Frame, bool) {
	if !t.initialized || t.source == nil {
		return nil, false
	}

	frame := t.source.Frame()
	if frame == nil || !frame.Valid {
		return nil, false
	}
	if t.hasLastFrame && frame.ID == t.lastFrameID {
		return nil, false
	}

	t.frame = frame
	t.lastFrameID = frame.ID
	t.hasLastFrame = true
	t.frameCounter++
	return frame, true
}

// Close releases the sensor connection and clears all cached state. It is
// safe to call more than once; afterwards every accessor returns defaults.
func (t *Tracker) Close() {
	if t.source != nil {
		if err := t.source.Close(); err != nil {
			t.logger.Warn("closing sensor source", "error", err)
		}
		t.source = nil
		t.logger.Info("tracker closed", "frames", t.frameCounter)
	}

	t.initialized = false
	t.frame = nil
	t.lastFrameID = 0
	t.hasLastFrame = false
	t.frameCounter = 0
	t.clearHand()
	t.clearPointable()
	t.grip = false
	t.release = false
	t.transition = TransitionNone
	t.cursorNormal = r3.Vec{}
	t.cursorScreen = r3.Vec{}
	t.gestures.Reset()
}

func (t *Tracker) clearHand() {
	t.hand = sensor.Hand{}
	t.hasHand = false
	t.handID = 0
	t.handPos = r3.Vec{}
	t.handDir = r3.Vec{}
	t.fingerCount = 0
}

func (t *Tracker) clearPointable() {
	t.pointable = sensor.Pointable{}
	t.hasPointable = false
	t.pointableID = 0
	t.pointableHandID = 0
	t.pointablePos = r3.Vec{}
	t.pointableDir = r3.Vec{}
}
