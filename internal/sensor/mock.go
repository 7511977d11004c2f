package sensor

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// MockSource is a test implementation of the Source interface.
// It allows tests to control the frames returned by Frame.
type MockSource struct {
	mu      sync.Mutex
	frame   *Frame
	err     error
	enabled []GestureType
	closed  bool
	closes  int
}

// NewMockSource creates a new MockSource instance.
func NewMockSource() *MockSource {
	return &MockSource{}
}

// SetFrame sets the frame that will be returned by Frame until replaced.
func (m *MockSource) SetFrame(f *Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame = f
}

// SetError sets the error that will be returned by EnableGesture.
func (m *MockSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Frame returns the pre-configured frame.
func (m *MockSource) Frame() *Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	return m.frame
}

// EnableGesture records the gesture type or returns the configured error.
func (m *MockSource) EnableGesture(t GestureType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.closed {
		return ErrClosed
	}
	m.enabled = append(m.enabled, t)
	return nil
}

// Enabled returns the gesture types enabled so far, in call order.
func (m *MockSource) Enabled() []GestureType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GestureType(nil), m.enabled...)
}

// Close marks the source closed.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.closes++
	return nil
}

// CloseCount returns how many times Close was called.
func (m *MockSource) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

// DefaultInteractionBox returns the calibrated volume reported by a desktop
// sensor in its default configuration.
func DefaultInteractionBox() InteractionBox {
	return InteractionBox{
		Center: r3.Vec{X: 0, Y: 200, Z: 0},
		Size:   r3.Vec{X: 235, Y: 235, Z: 147},
	}
}

// fingerTips are tip offsets from the palm for thumb..pinky of a right hand
// pointing away from the user.
var fingerTips = [5]r3.Vec{
	{X: -70, Y: 0, Z: -10},
	{X: -25, Y: 0, Z: -85},
	{X: 0, Y: 0, Z: -95},
	{X: 25, Y: 0, Z: -85},
	{X: 45, Y: 0, Z: -65},
}

// curledTips are tip offsets from the palm for a closed fist.
var curledTips = [5]r3.Vec{
	{X: -30, Y: -5, Z: -15},
	{X: -20, Y: -15, Z: -25},
	{X: 0, Y: -15, Z: -28},
	{X: 20, Y: -15, Z: -25},
	{X: 35, Y: -15, Z: -18},
}

// Preset is a hand together with its pointables.
type Preset struct {
	Hand       Hand
	Pointables []Pointable
}

// OpenHand returns a preset open hand at palm with five extended fingers.
// Pointable ids are handID*10 + 0..4 (thumb..pinky).
func OpenHand(handID int, palm r3.Vec) Preset {
	return presetHand(handID, palm, fingerTips, true)
}

// Fist returns a preset closed hand at palm with all fingers curled.
func Fist(handID int, palm r3.Vec) Preset {
	return presetHand(handID, palm, curledTips, false)
}

func presetHand(handID int, palm r3.Vec, tips [5]r3.Vec, extended bool) Preset {
	hand := Hand{
		ID:                     handID,
		Valid:                  true,
		PalmPosition:           palm,
		StabilizedPalmPosition: palm,
		Direction:              r3.Vec{Z: -1},
		PalmNormal:             r3.Vec{Y: -1},
	}

	pointables := make([]Pointable, len(tips))
	for i, offset := range tips {
		tip := r3.Add(palm, offset)
		pointables[i] = Pointable{
			ID:                    handID*10 + i,
			HandID:                handID,
			Valid:                 true,
			Extended:              extended,
			TipPosition:           tip,
			StabilizedTipPosition: tip,
			Direction:             r3.Scale(1/r3.Norm(offset), offset),
			Length:                r3.Norm(offset),
		}
		if extended {
			hand.FingerCount++
		}
	}
	return Preset{Hand: hand, Pointables: pointables}
}

// NewFrame assembles a valid frame from hands and their pointables using the
// default interaction box.
func NewFrame(id int64, hands []Hand, pointables []Pointable, gestures ...Gesture) *Frame {
	return &Frame{
		ID:             id,
		Valid:          true,
		Hands:          hands,
		Pointables:     pointables,
		Gestures:       gestures,
		InteractionBox: DefaultInteractionBox(),
	}
}

// FrameOf is a shortcut for a frame containing the given preset hands.
func FrameOf(id int64, presets ...Preset) *Frame {
	var hands []Hand
	var pointables []Pointable
	for _, p := range presets {
		hands = append(hands, p.Hand)
		pointables = append(pointables, p.Pointables...)
	}
	return NewFrame(id, hands, pointables)
}
