package pointer

import (
	"io"
	"log/slog"
	"testing"
)

type fakeDriver struct {
	events []string
	x, y   int
}

func (d *fakeDriver) MoveTo(x, y int) {
	d.events = append(d.events, "move")
	d.x, d.y = x, y
}
func (d *fakeDriver) Down()                  { d.events = append(d.events, "down") }
func (d *fakeDriver) Up()                    { d.events = append(d.events, "up") }
func (d *fakeDriver) ScreenSize() (int, int) { return 1000, 500 }

func newTestController(enabled bool) (*Controller, *fakeDriver) {
	d := &fakeDriver{}
	return NewController(d, enabled, slog.New(slog.NewTextHandler(io.Discard, nil))), d
}

func TestController_Move(t *testing.T) {
	tests := []struct {
		name   string
		nx, ny float64
		wantX  int
		wantY  int
	}{
		{"center", 0.5, 0.5, 500, 250},
		{"top left", 0, 1, 0, 0},
		{"bottom right", 1, 0, 999, 499},
		{"outside is clamped", 1.5, -0.5, 999, 499},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, d := newTestController(true)
			c.Move(tt.nx, tt.ny)
			if d.x != tt.wantX || d.y != tt.wantY {
				t.Errorf("Move(%v, %v) -> (%d, %d), want (%d, %d)", tt.nx, tt.ny, d.x, d.y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestController_Disabled(t *testing.T) {
	c, d := newTestController(false)

	c.Move(0.5, 0.5)
	c.Press()
	c.Release()

	if len(d.events) != 0 {
		t.Errorf("disabled controller drove the mouse: %v", d.events)
	}
}

func TestController_PressRelease(t *testing.T) {
	c, d := newTestController(true)

	c.Press()
	c.Press()
	c.Release()
	c.Release()

	want := []string{"down", "up"}
	if len(d.events) != len(want) || d.events[0] != want[0] || d.events[1] != want[1] {
		t.Errorf("events = %v, want %v", d.events, want)
	}
}

func TestController_DisableReleasesButton(t *testing.T) {
	c, d := newTestController(true)

	c.Press()
	c.SetEnabled(false)

	if c.Enabled() {
		t.Error("Enabled() = true after disable")
	}
	if len(d.events) != 2 || d.events[1] != "up" {
		t.Errorf("events = %v, want [down up]", d.events)
	}

	// Release after disabling is a no-op.
	c.Release()
	if len(d.events) != 2 {
		t.Errorf("events = %v after release", d.events)
	}
}
