package tracker

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/leaptrack/internal/geom"
	"github.com/ayusman/leaptrack/internal/sensor"
)

// ForwardFacingThreshold is the minimum cosine between a pointable's
// palm-to-tip vector and its hand's direction for it to count as pointing.
const ForwardFacingThreshold = 0.7

// SelectHand picks the primary hand of a frame. The hand tracked last frame
// is kept while it stays valid; otherwise the frontmost hand (smallest raw
// depth) is chosen.
func SelectHand(f *sensor.Frame, prevID int) (sensor.Hand, bool) {
	if h, ok := f.Hand(prevID); ok {
		return h, true
	}
	return FrontmostHand(f)
}

// FrontmostHand returns the valid hand closest to the screen. Ties keep the
// first hand in frame order.
func FrontmostHand(f *sensor.Frame) (sensor.Hand, bool) {
	if f == nil {
		return sensor.Hand{}, false
	}
	var best sensor.Hand
	found := false
	for _, h := range f.Hands {
		if !h.Valid {
			continue
		}
		if !found || h.PalmPosition.Z < best.PalmPosition.Z {
			best = h
			found = true
		}
	}
	return best, found
}

// SelectPointable picks the primary pointable for the given primary hand.
// The pointable tracked last frame is kept while it stays valid; otherwise
// the hand's pointing finger is chosen, falling back to the frontmost
// pointable of the frame. The result is discarded unless it belongs to the
// primary hand, so no pointable is selected without a hand.
func SelectPointable(f *sensor.Frame, hand sensor.Hand, hasHand bool, prevID int) (sensor.Pointable, bool) {
	p, ok := f.Pointable(prevID)
	if !ok && hasHand {
		p, ok = PointingPointable(f, hand)
	}
	if !ok {
		p, ok = FrontmostPointable(f)
	}
	if !ok || !hasHand || p.HandID != hand.ID {
		return sensor.Pointable{}, false
	}
	return p, true
}

// PointingPointable returns the frontmost of the hand's forward-facing
// pointables.
func PointingPointable(f *sensor.Frame, hand sensor.Hand) (sensor.Pointable, bool) {
	var best sensor.Pointable
	found := false
	for _, p := range f.HandPointables(hand.ID) {
		if !IsForwardFacing(p, hand) {
			continue
		}
		if !found || p.TipPosition.Z < best.TipPosition.Z {
			best = p
			found = true
		}
	}
	return best, found
}

// FrontmostPointable returns the valid pointable of the frame closest to
// the screen, regardless of which hand it belongs to.
func FrontmostPointable(f *sensor.Frame) (sensor.Pointable, bool) {
	if f == nil {
		return sensor.Pointable{}, false
	}
	var best sensor.Pointable
	found := false
	for _, p := range f.Pointables {
		if !p.Valid {
			continue
		}
		if !found || p.TipPosition.Z < best.TipPosition.Z {
			best = p
			found = true
		}
	}
	return best, found
}

// IsForwardFacing reports whether the pointable extends along the hand's
// direction. Both vectors are compared in output space.
func IsForwardFacing(p sensor.Pointable, hand sensor.Hand) bool {
	tip := geom.ToOutput(p.TipPosition, true)
	palm := geom.ToOutput(hand.PalmPosition, true)
	toTip := geom.Unit(r3.Sub(tip, palm))
	dir := geom.Unit(geom.ToOutput(hand.Direction, false))
	return r3.Dot(toTip, dir) > ForwardFacingThreshold
}

// selectTargets updates the primary hand and pointable from the frame.
func (t *Tracker) selectTargets(f *sensor.Frame) {
	hand, ok := SelectHand(f, t.handID)
	if ok {
		t.hand = hand
		t.hasHand = true
		t.handID = hand.ID
		t.handPos = geom.ToOutput(hand.StabilizedPalmPosition, true)
		t.handDir = geom.ToOutput(hand.Direction, false)
	} else {
		t.clearHand()
	}

	p, ok := SelectPointable(f, t.hand, t.hasHand, t.pointableID)
	if ok {
		t.pointable = p
		t.hasPointable = true
		t.pointableID = p.ID
		t.pointableHandID = p.HandID
		t.pointablePos = geom.ToOutput(p.StabilizedTipPosition, true)
		t.pointableDir = geom.ToOutput(p.Direction, false)
	} else {
		t.clearPointable()
	}
}
