package sensor

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNotFrame is returned by DecodeFrame for service messages that carry no
// tracking data (version banners, device events).
var ErrNotFrame = errors.New("message is not a frame")

// jsonVec is a three-element array as sent by the tracking service.
type jsonVec []float64

func (v jsonVec) vec() r3.Vec {
	if len(v) < 3 {
		return r3.Vec{}
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

type jsonHand struct {
	ID                     int     `json:"id"`
	Type                   string  `json:"type"`
	Direction              jsonVec `json:"direction"`
	PalmNormal             jsonVec `json:"palmNormal"`
	PalmPosition           jsonVec `json:"palmPosition"`
	StabilizedPalmPosition jsonVec `json:"stabilizedPalmPosition"`
}

type jsonPointable struct {
	ID                    int     `json:"id"`
	HandID                int     `json:"handId"`
	Direction             jsonVec `json:"direction"`
	TipPosition           jsonVec `json:"tipPosition"`
	StabilizedTipPosition jsonVec `json:"stabilizedTipPosition"`
	Length                float64 `json:"length"`
	Tool                  bool    `json:"tool"`
	Extended              *bool   `json:"extended"`
}

type jsonGesture struct {
	ID            int     `json:"id"`
	Type          string  `json:"type"`
	State         string  `json:"state"`
	Duration      int64   `json:"duration"` // microseconds
	Progress      float64 `json:"progress"`
	Direction     jsonVec `json:"direction"`
	Position      jsonVec `json:"position"`
	StartPosition jsonVec `json:"startPosition"`
	HandIDs       []int   `json:"handIds"`
	PointableIDs  []int   `json:"pointableIds"`
}

type jsonInteractionBox struct {
	Center jsonVec `json:"center"`
	Size   jsonVec `json:"size"`
}

type jsonFrame struct {
	ID             *int64             `json:"id"`
	Timestamp      int64              `json:"timestamp"`
	Hands          []jsonHand         `json:"hands"`
	Pointables     []jsonPointable    `json:"pointables"`
	Gestures       []jsonGesture      `json:"gestures"`
	InteractionBox jsonInteractionBox `json:"interactionBox"`

	ServiceVersion string          `json:"serviceVersion"`
	Event          json.RawMessage `json:"event"`
}

// DecodeFrame parses one message of the tracking service JSON protocol.
func DecodeFrame(data []byte) (*Frame, error) {
	var msg jsonFrame
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("parse frame: %w", err)
	}
	if msg.ID == nil || msg.ServiceVersion != "" || msg.Event != nil {
		return nil, ErrNotFrame
	}

	f := &Frame{
		ID:        *msg.ID,
		Timestamp: msg.Timestamp,
		Valid:     true,
		InteractionBox: InteractionBox{
			Center: msg.InteractionBox.Center.vec(),
			Size:   msg.InteractionBox.Size.vec(),
		},
	}

	f.Pointables = make([]Pointable, len(msg.Pointables))
	extendedByHand := make(map[int]int)
	for i, p := range msg.Pointables {
		extended := true
		if p.Extended != nil {
			extended = *p.Extended
		}
		stabilized := p.StabilizedTipPosition.vec()
		if len(p.StabilizedTipPosition) == 0 {
			stabilized = p.TipPosition.vec()
		}
		f.Pointables[i] = Pointable{
			ID:                    p.ID,
			HandID:                max(p.HandID, 0),
			Valid:                 true,
			Tool:                  p.Tool,
			Extended:              extended,
			TipPosition:           p.TipPosition.vec(),
			StabilizedTipPosition: stabilized,
			Direction:             p.Direction.vec(),
			Length:                p.Length,
		}
		if extended && !p.Tool && p.HandID > 0 {
			extendedByHand[p.HandID]++
		}
	}

	f.Hands = make([]Hand, len(msg.Hands))
	for i, h := range msg.Hands {
		stabilized := h.StabilizedPalmPosition.vec()
		if len(h.StabilizedPalmPosition) == 0 {
			stabilized = h.PalmPosition.vec()
		}
		f.Hands[i] = Hand{
			ID:                     h.ID,
			Valid:                  true,
			PalmPosition:           h.PalmPosition.vec(),
			StabilizedPalmPosition: stabilized,
			Direction:              h.Direction.vec(),
			PalmNormal:             h.PalmNormal.vec(),
			FingerCount:            extendedByHand[h.ID],
		}
	}

	f.Gestures = make([]Gesture, len(msg.Gestures))
	for i, g := range msg.Gestures {
		f.Gestures[i] = Gesture{
			ID:            g.ID,
			Type:          parseGestureType(g.Type),
			State:         parseGestureState(g.State),
			Progress:      g.Progress,
			Duration:      time.Duration(g.Duration) * time.Microsecond,
			Direction:     g.Direction.vec(),
			Position:      g.Position.vec(),
			StartPosition: g.StartPosition.vec(),
			HandIDs:       g.HandIDs,
			PointableIDs:  g.PointableIDs,
		}
	}

	return f, nil
}

func parseGestureType(s string) GestureType {
	switch s {
	case "circle":
		return GestureTypeCircle
	case "swipe":
		return GestureTypeSwipe
	case "keyTap":
		return GestureTypeKeyTap
	case "screenTap":
		return GestureTypeScreenTap
	default:
		return GestureTypeInvalid
	}
}

func parseGestureState(s string) GestureState {
	switch s {
	case "start":
		return GestureStateStart
	case "update":
		return GestureStateUpdate
	case "stop":
		return GestureStateStop
	default:
		return GestureStateInvalid
	}
}
