package tracker

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/leaptrack/internal/sensor"
)

func TestSelectHand(t *testing.T) {
	front := handWithFingers(1, 5, r3.Vec{Z: -40})
	back := handWithFingers(2, 5, r3.Vec{Z: 60})
	invalid := handWithFingers(3, 5, r3.Vec{Z: -100})
	invalid.Valid = false
	twin := handWithFingers(4, 5, r3.Vec{Z: -40})

	tests := []struct {
		name   string
		hands  []sensor.Hand
		prevID int
		wantID int
		wantOK bool
	}{
		{"no hands", nil, 0, 0, false},
		{"frontmost wins", []sensor.Hand{back, front}, 0, 1, true},
		{"previous id is kept", []sensor.Hand{back, front}, 2, 2, true},
		{"missing previous falls back", []sensor.Hand{back, front}, 9, 1, true},
		{"invalid hands are ignored", []sensor.Hand{back, invalid}, 0, 2, true},
		{"invalid previous falls back", []sensor.Hand{back, invalid}, 3, 2, true},
		{"tie keeps first", []sensor.Hand{twin, front}, 0, 4, true},
		{"only invalid hands", []sensor.Hand{invalid}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := sensor.NewFrame(1, tt.hands, nil)
			h, ok := SelectHand(f, tt.prevID)
			if ok != tt.wantOK {
				t.Fatalf("SelectHand() ok = %v, want %v", ok, tt.wantOK)
			}
			if h.ID != tt.wantID {
				t.Errorf("SelectHand() id = %d, want %d", h.ID, tt.wantID)
			}
		})
	}
}

func TestIsForwardFacing(t *testing.T) {
	preset := sensor.OpenHand(1, r3.Vec{Y: 200})

	want := []bool{false, true, true, true, true} // thumb points sideways
	for i, p := range preset.Pointables {
		if got := IsForwardFacing(p, preset.Hand); got != want[i] {
			t.Errorf("IsForwardFacing(finger %d) = %v, want %v", i, got, want[i])
		}
	}

	// A finger pointing back toward the user.
	back := sensor.Pointable{ID: 99, HandID: 1, Valid: true, TipPosition: r3.Vec{Y: 200, Z: 80}}
	if IsForwardFacing(back, preset.Hand) {
		t.Error("expected backward pointable to be excluded")
	}
}

func TestSelectPointable(t *testing.T) {
	t.Run("picks frontmost forward-facing finger", func(t *testing.T) {
		preset := sensor.OpenHand(1, r3.Vec{Y: 200})
		f := sensor.FrameOf(1, preset)

		p, ok := SelectPointable(f, preset.Hand, true, 0)
		if !ok || p.ID != 12 {
			t.Errorf("SelectPointable() = %d, %v, want middle finger 12", p.ID, ok)
		}
	})

	t.Run("keeps previous pointable", func(t *testing.T) {
		preset := sensor.OpenHand(1, r3.Vec{Y: 200})
		f := sensor.FrameOf(1, preset)

		p, ok := SelectPointable(f, preset.Hand, true, 10)
		if !ok || p.ID != 10 {
			t.Errorf("SelectPointable() = %d, %v, want thumb 10", p.ID, ok)
		}
	})

	t.Run("falls back to frontmost pointable of the frame", func(t *testing.T) {
		hand := handWithFingers(1, 1, r3.Vec{Y: 200})
		sideways := sensor.Pointable{ID: 10, HandID: 1, Valid: true, TipPosition: r3.Vec{X: -70, Y: 200, Z: -10}}
		f := sensor.NewFrame(1, []sensor.Hand{hand}, []sensor.Pointable{sideways})

		p, ok := SelectPointable(f, hand, true, 0)
		if !ok || p.ID != 10 {
			t.Errorf("SelectPointable() = %d, %v, want fallback 10", p.ID, ok)
		}
	})

	t.Run("fallback owned by another hand is discarded", func(t *testing.T) {
		hand := handWithFingers(1, 1, r3.Vec{Y: 200})
		other := handWithFingers(2, 1, r3.Vec{X: 100, Y: 200, Z: 30})
		sideways := sensor.Pointable{ID: 10, HandID: 1, Valid: true, TipPosition: r3.Vec{X: -70, Y: 200, Z: -10}}
		foreign := sensor.Pointable{ID: 20, HandID: 2, Valid: true, TipPosition: r3.Vec{X: 100, Y: 200, Z: -50}}
		f := sensor.NewFrame(1, []sensor.Hand{hand, other}, []sensor.Pointable{sideways, foreign})

		p, ok := SelectPointable(f, hand, true, 0)
		if ok {
			t.Errorf("SelectPointable() = %d, want none", p.ID)
		}
		if p.ID != 0 {
			t.Errorf("SelectPointable() id = %d, want 0", p.ID)
		}
	})

	t.Run("previous pointable of another hand is discarded", func(t *testing.T) {
		a := sensor.OpenHand(1, r3.Vec{Y: 200})
		b := sensor.OpenHand(2, r3.Vec{X: 150, Y: 200})
		f := sensor.FrameOf(1, a, b)

		if _, ok := SelectPointable(f, a.Hand, true, 22); ok {
			t.Error("expected pointable of hand 2 to be discarded")
		}
	})

	t.Run("no hand means no pointable", func(t *testing.T) {
		tool := sensor.Pointable{ID: 300, Valid: true, Tool: true, TipPosition: r3.Vec{Y: 200, Z: -50}}
		f := sensor.NewFrame(1, nil, []sensor.Pointable{tool})

		if _, ok := SelectPointable(f, sensor.Hand{}, false, 0); ok {
			t.Error("expected no pointable without a hand")
		}
	})

	t.Run("invalid pointables are ignored", func(t *testing.T) {
		preset := sensor.OpenHand(1, r3.Vec{Y: 200})
		preset.Pointables[2].Valid = false
		f := sensor.FrameOf(1, preset)

		p, ok := SelectPointable(f, preset.Hand, true, 12)
		if !ok || p.ID != 11 && p.ID != 13 {
			t.Errorf("SelectPointable() = %d, %v, want index or ring", p.ID, ok)
		}
	})
}
