package tracker

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/leaptrack/internal/geom"
)

// HandValid reports whether a primary hand is tracked.
func (t *Tracker) HandValid() bool { return t.hasHand }

// HandID returns the primary hand id, or 0.
func (t *Tracker) HandID() int { return t.handID }

// HandPosition returns the stabilized palm position in output space.
func (t *Tracker) HandPosition() r3.Vec { return t.handPos }

// HandDirection returns the palm-to-fingers direction in output space.
func (t *Tracker) HandDirection() r3.Vec { return t.handDir }

// HandRotation returns the rotation that looks along the hand direction.
func (t *Tracker) HandRotation() quat.Number {
	if !t.hasHand {
		return geom.Identity
	}
	return geom.LookRotation(t.handDir)
}

// FingerCount returns the extended finger count of the primary hand.
func (t *Tracker) FingerCount() int { return t.fingerCount }

// PointableValid reports whether a primary pointable is tracked. A valid
// pointable always belongs to the primary hand.
func (t *Tracker) PointableValid() bool { return t.hasPointable }

// PointableID returns the primary pointable id, or 0.
func (t *Tracker) PointableID() int { return t.pointableID }

// PointableHandID returns the id of the hand owning the primary pointable, or 0.
func (t *Tracker) PointableHandID() int { return t.pointableHandID }

// PointablePosition returns the stabilized tip position in output space.
func (t *Tracker) PointablePosition() r3.Vec { return t.pointablePos }

// PointableDirection returns the pointing direction in output space.
func (t *Tracker) PointableDirection() r3.Vec { return t.pointableDir }

// PointableRotation returns the rotation that looks along the pointable.
func (t *Tracker) PointableRotation() quat.Number {
	if !t.hasPointable {
		return geom.Identity
	}
	return geom.LookRotation(t.pointableDir)
}

// Grip reports a closed primary hand.
func (t *Tracker) Grip() bool { return t.grip }

// Release reports an open primary hand.
func (t *Tracker) Release() bool { return t.release }

// GripTransition returns the grip change observed in the last processed frame.
func (t *Tracker) GripTransition() Transition { return t.transition }

// CursorNormalized returns the cursor in [0,1]x[0,1]. It is zero while no
// hand is tracked.
func (t *Tracker) CursorNormalized() (x, y float64) {
	if !t.hasHand {
		return 0, 0
	}
	return t.cursorNormal.X, t.cursorNormal.Y
}

// CursorScreen returns the cursor scaled to the viewport.
func (t *Tracker) CursorScreen() (x, y float64) {
	if !t.hasHand {
		return 0, 0
	}
	return t.cursorScreen.X, t.cursorScreen.Y
}

// IsCircleDetected returns true once per detected circle.
func (t *Tracker) IsCircleDetected() bool { return t.gestures.Circle.Consume() }

// IsSwipeDetected returns true once per detected swipe.
func (t *Tracker) IsSwipeDetected() bool { return t.gestures.Swipe.Consume() }

// IsKeyTapDetected returns true once per detected key tap.
func (t *Tracker) IsKeyTapDetected() bool { return t.gestures.KeyTap.Consume() }

// IsScreenTapDetected returns true once per detected screen tap.
func (t *Tracker) IsScreenTapDetected() bool { return t.gestures.ScreenTap.Consume() }

func (t *Tracker) CircleID() int { return t.gestures.Circle.ID() }
func (t *Tracker) CircleProgress() float64 { return t.gestures.Circle.Progress() }
func (t *Tracker) SwipeID() int { return t.gestures.Swipe.ID() }
func (t *Tracker) SwipeProgress() float64 { return t.gestures.Swipe.Progress() }
func (t *Tracker) KeyTapID() int { return t.gestures.KeyTap.ID() }
func (t *Tracker) KeyTapProgress() float64 { return t.gestures.KeyTap.Progress() }
func (t *Tracker) ScreenTapID() int { return t.gestures.ScreenTap.ID() }
func (t *Tracker) ScreenTapProgress() float64 { return t.gestures.ScreenTap.Progress() }

// SwipeVector returns the direction of the last detected swipe.
func (t *Tracker) SwipeVector() r3.Vec { return t.gestures.SwipeDirection() }

// SwipeSpeed returns the velocity of the last detected swipe.
func (t *Tracker) SwipeSpeed() r3.Vec { return t.gestures.SwipeSpeed() }

// SwipeDirection classifies the last detected swipe.
func (t *Tracker) SwipeDirection() SwipeDirection {
	return ClassifySwipe(t.gestures.SwipeDirection())
}
