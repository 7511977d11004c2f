package app

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/leaptrack/internal/store"
	"github.com/ayusman/leaptrack/internal/tracker"
)

// Trigger names. Swipes are "swipe_" followed by the classified direction.
const (
	TriggerCircle    = "circle"
	TriggerKeyTap    = "key_tap"
	TriggerScreenTap = "screen_tap"
	TriggerGrip      = "grip"
	TriggerRelease   = "release"
)

// SwipeTrigger returns the trigger name for a swipe in direction d.
func SwipeTrigger(d tracker.SwipeDirection) string {
	return "swipe_" + d.String()
}

// Triggers lists every trigger name an event can carry.
func Triggers() []string {
	triggers := []string{TriggerCircle}
	for _, d := range []tracker.SwipeDirection{
		tracker.SwipeNone,
		tracker.SwipeRight,
		tracker.SwipeLeft,
		tracker.SwipeUp,
		tracker.SwipeDown,
		tracker.SwipeFront,
		tracker.SwipeBack,
	} {
		triggers = append(triggers, SwipeTrigger(d))
	}
	return append(triggers, TriggerKeyTap, TriggerScreenTap, TriggerGrip, TriggerRelease)
}

// IsKnownTrigger reports whether name is a valid trigger.
func IsKnownTrigger(name string) bool {
	for _, t := range Triggers() {
		if t == name {
			return true
		}
	}
	return false
}

// Event is one consumed detection.
type Event struct {
	Trigger   string    `json:"trigger"`
	GestureID int       `json:"gesture_id"`
	HandID    int       `json:"hand_id"`
	Direction string    `json:"direction,omitempty"`
	Position  r3.Vec    `json:"position"`
	Speed     r3.Vec    `json:"speed"`
	At        time.Time `json:"at"`
}

// record converts the event to its journal row.
func (e Event) record() *store.Event {
	return &store.Event{
		Trigger:   e.Trigger,
		GestureID: e.GestureID,
		HandID:    e.HandID,
		X:         e.Position.X,
		Y:         e.Position.Y,
		Z:         e.Position.Z,
		CreatedAt: e.At,
	}
}
