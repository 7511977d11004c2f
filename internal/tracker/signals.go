package tracker

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/leaptrack/internal/geom"
	"github.com/ayusman/leaptrack/internal/sensor"
)

// OpenHandMinFingers is the finger count above which a hand counts as open.
const OpenHandMinFingers = 2

// IsHandOpen reports whether the hand shows more than two extended fingers.
func IsHandOpen(h sensor.Hand) bool {
	return h.FingerCount > OpenHandMinFingers
}

// deriveSignals computes grip, release and the cursor for the selected hand.
func (t *Tracker) deriveSignals(f *sensor.Frame) {
	wasGrip := t.grip
	t.transition = TransitionNone

	if !t.hasHand {
		if wasGrip {
			t.transition = TransitionRelease
			if t.pointer != nil {
				t.pointer.Release()
			}
		}
		t.grip = false
		t.release = false
		return
	}

	t.fingerCount = t.hand.FingerCount
	t.grip = !IsHandOpen(t.hand)
	t.release = !t.grip

	switch {
	case !wasGrip && t.grip:
		t.transition = TransitionGrip
		if t.pointer != nil {
			t.pointer.Press()
		}
	case wasGrip && t.release:
		t.transition = TransitionRelease
		if t.pointer != nil {
			t.pointer.Release()
		}
	}

	t.updateCursor(f)
}

// updateCursor recomputes the cursor from the stabilized palm. A zero palm
// position leaves the previous cursor in place.
func (t *Tracker) updateCursor(f *sensor.Frame) {
	palm := t.hand.StabilizedPalmPosition
	if geom.IsZero(palm) {
		return
	}

	n := f.InteractionBox.NormalizePoint(palm, true)
	t.cursorNormal = r3.Vec{X: n.X, Y: n.Y}
	t.cursorScreen = r3.Vec{X: n.X * t.viewportWidth, Y: n.Y * t.viewportHeight}
	if t.pointer != nil {
		t.pointer.Move(n.X, n.Y)
	}
}
