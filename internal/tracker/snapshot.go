package tracker

import (
	"time"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a JSON-friendly vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quat is a JSON-friendly rotation quaternion.
type Quat struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func vec3(v r3.Vec) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }

func quatOf(q quat.Number) Quat { return Quat{W: q.Real, X: q.Imag, Y: q.Jmag, Z: q.Kmag} }

// HandState is the observable state of the primary hand.
type HandState struct {
	Valid       bool `json:"valid"`
	ID          int  `json:"id"`
	Position    Vec3 `json:"position"`
	Direction   Vec3 `json:"direction"`
	Rotation    Quat `json:"rotation"`
	FingerCount int  `json:"finger_count"`
}

// PointableState is the observable state of the primary pointable.
type PointableState struct {
	Valid     bool `json:"valid"`
	ID        int  `json:"id"`
	HandID    int  `json:"hand_id"`
	Position  Vec3 `json:"position"`
	Direction Vec3 `json:"direction"`
	Rotation  Quat `json:"rotation"`
}

// CursorState is the cursor in normalized and screen coordinates.
type CursorState struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	ScreenX float64 `json:"screen_x"`
	ScreenY float64 `json:"screen_y"`
}

// ChannelState is the observable state of one gesture channel.
type ChannelState struct {
	ID       int     `json:"id"`
	Progress float64 `json:"progress"`
	Pending  bool    `json:"pending"`
}

// GestureStates groups the four gesture channels.
type GestureStates struct {
	Circle         ChannelState `json:"circle"`
	Swipe          ChannelState `json:"swipe"`
	KeyTap         ChannelState `json:"key_tap"`
	ScreenTap      ChannelState `json:"screen_tap"`
	SwipeVector    Vec3         `json:"swipe_vector"`
	SwipeSpeed     Vec3         `json:"swipe_speed"`
	SwipeDirection string       `json:"swipe_direction"`
	CooldownUntil  time.Time    `json:"cooldown_until"`
}

// Snapshot is an immutable copy of the tracker state. Taking a snapshot
// does not consume pending detections.
type Snapshot struct {
	Initialized  bool           `json:"initialized"`
	FrameCounter int64          `json:"frame_counter"`
	FrameID      int64          `json:"frame_id"`
	Hand         HandState      `json:"hand"`
	Pointable    PointableState `json:"pointable"`
	Grip         bool           `json:"grip"`
	Release      bool           `json:"release"`
	Cursor       CursorState    `json:"cursor"`
	Gestures     GestureStates  `json:"gestures"`
	TakenAt      time.Time      `json:"taken_at"`
}

func channelSnapshot(c *Channel) ChannelState {
	return ChannelState{ID: c.ID(), Progress: c.Progress(), Pending: c.Pending()}
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	nx, ny := t.CursorNormalized()
	sx, sy := t.CursorScreen()

	return Snapshot{
		Initialized:  t.initialized,
		FrameCounter: t.frameCounter,
		FrameID:      t.lastFrameID,
		Hand: HandState{
			Valid:       t.hasHand,
			ID:          t.handID,
			Position:    vec3(t.handPos),
			Direction:   vec3(t.handDir),
			Rotation:    quatOf(t.HandRotation()),
			FingerCount: t.fingerCount,
		},
		Pointable: PointableState{
			Valid:     t.hasPointable,
			ID:        t.pointableID,
			HandID:    t.pointableHandID,
			Position:  vec3(t.pointablePos),
			Direction: vec3(t.pointableDir),
			Rotation:  quatOf(t.PointableRotation()),
		},
		Grip:    t.grip,
		Release: t.release,
		Cursor:  CursorState{X: nx, Y: ny, ScreenX: sx, ScreenY: sy},
		Gestures: GestureStates{
			Circle:         channelSnapshot(&t.gestures.Circle),
			Swipe:          channelSnapshot(&t.gestures.Swipe),
			KeyTap:         channelSnapshot(&t.gestures.KeyTap),
			ScreenTap:      channelSnapshot(&t.gestures.ScreenTap),
			SwipeVector:    vec3(t.gestures.SwipeDirection()),
			SwipeSpeed:     vec3(t.gestures.SwipeSpeed()),
			SwipeDirection: t.SwipeDirection().String(),
			CooldownUntil:  t.gestures.CooldownUntil(),
		},
		TakenAt: t.clock.Now(),
	}
}
