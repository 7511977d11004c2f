// Package sensor defines the skeletal-tracking frame model and the sources
// that deliver frames from a hand/finger motion sensor.
package sensor

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// GestureType identifies which recognizer emitted a gesture.
type GestureType int

const (
	GestureTypeInvalid GestureType = iota
	GestureTypeCircle
	GestureTypeSwipe
	GestureTypeKeyTap
	GestureTypeScreenTap
)

// String returns the wire name of the gesture type.
func (t GestureType) String() string {
	switch t {
	case GestureTypeCircle:
		return "circle"
	case GestureTypeSwipe:
		return "swipe"
	case GestureTypeKeyTap:
		return "keyTap"
	case GestureTypeScreenTap:
		return "screenTap"
	default:
		return "invalid"
	}
}

// GestureState is the lifecycle stage of a gesture occurrence.
type GestureState int

const (
	GestureStateInvalid GestureState = iota
	GestureStateStart
	GestureStateUpdate
	GestureStateStop
)

// String returns the wire name of the gesture state.
func (s GestureState) String() string {
	switch s {
	case GestureStateStart:
		return "start"
	case GestureStateUpdate:
		return "update"
	case GestureStateStop:
		return "stop"
	default:
		return "invalid"
	}
}

// Hand is one tracked hand in a frame. Positions are in millimeters in
// sensor space.
type Hand struct {
	ID                     int
	Valid                  bool
	PalmPosition           r3.Vec
	StabilizedPalmPosition r3.Vec
	Direction              r3.Vec // palm toward fingers, unit length
	PalmNormal             r3.Vec
	FingerCount            int // valid, extended, non-tool pointables
}

// Pointable is a tracked finger or tool.
type Pointable struct {
	ID                    int
	HandID                int // 0 when not attached to a hand
	Valid                 bool
	Tool                  bool
	Extended              bool
	TipPosition           r3.Vec
	StabilizedTipPosition r3.Vec
	Direction             r3.Vec
	Length                float64
}

// Gesture is one recognizer report contained in a frame.
type Gesture struct {
	ID            int
	Type          GestureType
	State         GestureState
	Progress      float64 // circle turns; other recognizers leave it at 0
	Duration      time.Duration
	Direction     r3.Vec
	Position      r3.Vec
	StartPosition r3.Vec
	HandIDs       []int
	PointableIDs  []int
}

// InteractionBox is the calibrated volume used to normalize positions.
type InteractionBox struct {
	Center r3.Vec
	Size   r3.Vec // width, height, depth
}

// NormalizePoint maps p into the box so that each axis lies in [0,1] when
// clamp is set. Axes with zero size normalize to the center.
func (b InteractionBox) NormalizePoint(p r3.Vec, clamp bool) r3.Vec {
	return r3.Vec{
		X: normalizeAxis(p.X, b.Center.X, b.Size.X, clamp),
		Y: normalizeAxis(p.Y, b.Center.Y, b.Size.Y, clamp),
		Z: normalizeAxis(p.Z, b.Center.Z, b.Size.Z, clamp),
	}
}

func normalizeAxis(v, center, size float64, clamp bool) float64 {
	if size == 0 {
		return 0.5
	}
	n := (v-center)/size + 0.5
	if clamp {
		if n < 0 {
			return 0
		}
		if n > 1 {
			return 1
		}
	}
	return n
}

// Frame is one sampled snapshot from the sensor.
type Frame struct {
	ID             int64
	Timestamp      int64 // microseconds, sensor clock
	Valid          bool
	Hands          []Hand
	Pointables     []Pointable
	Gestures       []Gesture
	InteractionBox InteractionBox
}

// Hand returns the valid hand with the given id.
func (f *Frame) Hand(id int) (Hand, bool) {
	if f == nil || id == 0 {
		return Hand{}, false
	}
	for _, h := range f.Hands {
		if h.ID == id && h.Valid {
			return h, true
		}
	}
	return Hand{}, false
}

// Pointable returns the valid pointable with the given id.
func (f *Frame) Pointable(id int) (Pointable, bool) {
	if f == nil || id == 0 {
		return Pointable{}, false
	}
	for _, p := range f.Pointables {
		if p.ID == id && p.Valid {
			return p, true
		}
	}
	return Pointable{}, false
}

// HandPointables returns the valid pointables attached to the hand, in frame order.
func (f *Frame) HandPointables(handID int) []Pointable {
	if f == nil || handID == 0 {
		return nil
	}
	var out []Pointable
	for _, p := range f.Pointables {
		if p.Valid && p.HandID == handID {
			out = append(out, p)
		}
	}
	return out
}
