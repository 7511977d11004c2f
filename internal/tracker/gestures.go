package tracker

import (
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/leaptrack/internal/geom"
	"github.com/ayusman/leaptrack/internal/sensor"
)

// SwipeInProgress is the progress reported by the swipe channel while a
// swipe has started but not yet stopped.
const SwipeInProgress = 0.5

type channelState int

const (
	channelIdle channelState = iota
	channelDetected
	channelConsumed
)

// Channel is the id, progress and detection state of one gesture type.
//
// A detection moves the channel to Detected with progress 1. It stays
// there until consumed, which moves it to Consumed with progress 0. Live
// progress reported by the sensor only applies outside Detected.
type Channel struct {
	id       int
	progress float64
	state    channelState
}

// ID returns the id of the last gesture recorded on the channel.
func (c *Channel) ID() int { return c.id }

// Progress returns the live progress in [0,1].
func (c *Channel) Progress() float64 { return c.progress }

// Pending reports whether a detection is waiting to be consumed.
func (c *Channel) Pending() bool { return c.state == channelDetected }

// Consume returns true if a detection was pending and clears it.
func (c *Channel) Consume() bool {
	if c.state != channelDetected {
		return false
	}
	c.state = channelConsumed
	c.progress = 0
	return true
}

func (c *Channel) detect(id int) {
	c.id = id
	c.progress = 1
	c.state = channelDetected
}

func (c *Channel) track(progress float64) {
	if c.state == channelDetected {
		return
	}
	c.progress = math.Max(0, math.Min(progress, 1))
	c.state = channelIdle
}

func (c *Channel) reset() {
	*c = Channel{}
}

// Debouncer turns the per-frame gesture list into one-shot detections on
// four channels sharing a single cooldown.
type Debouncer struct {
	minInterval   time.Duration
	cooldownUntil time.Time
	logger        *slog.Logger

	Circle    Channel
	Swipe     Channel
	KeyTap    Channel
	ScreenTap Channel

	swipeDir   r3.Vec
	swipeSpeed r3.Vec
}

// NewDebouncer creates a debouncer that rate-limits detections to one per
// minInterval across all channels.
func NewDebouncer(minInterval time.Duration, logger *slog.Logger) *Debouncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Debouncer{minInterval: minInterval, logger: logger}
}

// CooldownUntil returns the time before which gesture updates are ignored.
func (d *Debouncer) CooldownUntil() time.Time {
	return d.cooldownUntil
}

// SwipeDirection returns the direction of the last detected swipe in output space.
func (d *Debouncer) SwipeDirection() r3.Vec {
	return d.swipeDir
}

// SwipeSpeed returns the velocity of the last detected swipe in output
// units per second.
func (d *Debouncer) SwipeSpeed() r3.Vec {
	return d.swipeSpeed
}

// Apply feeds one frame's gestures through the channels at time now.
func (d *Debouncer) Apply(gestures []sensor.Gesture, now time.Time) {
	for _, g := range gestures {
		if now.Before(d.cooldownUntil) {
			return
		}

		switch g.Type {
		case sensor.GestureTypeCircle:
			d.applyCircle(g, now)
		case sensor.GestureTypeSwipe:
			d.applySwipe(g, now)
		case sensor.GestureTypeKeyTap:
			d.KeyTap.detect(g.ID)
			d.arm(now)
		case sensor.GestureTypeScreenTap:
			d.ScreenTap.detect(g.ID)
			d.arm(now)
		default:
			d.logger.Error("unrecognized gesture type", "gesture_id", g.ID, "type", g.Type.String())
		}
	}
}

func (d *Debouncer) applyCircle(g sensor.Gesture, now time.Time) {
	if g.State == sensor.GestureStateStop && g.ID != d.Circle.id {
		d.Circle.detect(g.ID)
		d.arm(now)
		return
	}
	if g.Progress < 1 {
		d.Circle.track(g.Progress)
	}
}

func (d *Debouncer) applySwipe(g sensor.Gesture, now time.Time) {
	if g.State == sensor.GestureStateStop && g.ID != d.Swipe.id {
		d.Swipe.detect(g.ID)
		d.arm(now)
		d.swipeDir = geom.ToOutput(g.Direction, false)
		d.swipeSpeed = swipeVelocity(g)
		return
	}
	if g.State != sensor.GestureStateStop {
		d.Swipe.track(SwipeInProgress)
	}
}

func (d *Debouncer) arm(now time.Time) {
	d.cooldownUntil = now.Add(d.minInterval)
}

// Reset clears every channel and the cooldown.
func (d *Debouncer) Reset() {
	d.cooldownUntil = time.Time{}
	d.Circle.reset()
	d.Swipe.reset()
	d.KeyTap.reset()
	d.ScreenTap.reset()
	d.swipeDir = r3.Vec{}
	d.swipeSpeed = r3.Vec{}
}

// swipeVelocity returns the swipe displacement in output space divided by
// its duration in seconds, or zero for an instantaneous swipe.
func swipeVelocity(g sensor.Gesture) r3.Vec {
	secs := g.Duration.Seconds()
	if secs == 0 {
		return r3.Vec{}
	}
	displacement := r3.Sub(geom.ToOutput(g.Position, true), geom.ToOutput(g.StartPosition, true))
	return r3.Scale(1/secs, displacement)
}

// SwipeDirection is the dominant axis of a swipe.
type SwipeDirection int

const (
	SwipeNone SwipeDirection = iota
	SwipeRight
	SwipeLeft
	SwipeUp
	SwipeDown
	SwipeFront
	SwipeBack
)

var swipeDirectionNames = map[SwipeDirection]string{
	SwipeNone:  "none",
	SwipeRight: "right",
	SwipeLeft:  "left",
	SwipeUp:    "up",
	SwipeDown:  "down",
	SwipeFront: "front",
	SwipeBack:  "back",
}

// String returns the direction name.
func (s SwipeDirection) String() string {
	if name, ok := swipeDirectionNames[s]; ok {
		return name
	}
	return "none"
}

// ClassifySwipe maps a direction vector to the axis with the strictly
// largest absolute component. Ties for the largest component give SwipeNone.
func ClassifySwipe(v r3.Vec) SwipeDirection {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)

	switch {
	case ax > ay && ax > az:
		if v.X > 0 {
			return SwipeRight
		}
		return SwipeLeft
	case ay > ax && ay > az:
		if v.Y > 0 {
			return SwipeUp
		}
		return SwipeDown
	case az > ax && az > ay:
		if v.Z > 0 {
			return SwipeFront
		}
		return SwipeBack
	default:
		return SwipeNone
	}
}
