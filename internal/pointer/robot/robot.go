// Package robot implements pointer.Driver with robotgo.
package robot

import (
	"github.com/go-vgo/robotgo"

	"github.com/ayusman/leaptrack/internal/pointer"
)

var _ pointer.Driver = (*Driver)(nil)

// Driver moves and clicks the system mouse.
type Driver struct{}

// New returns a robotgo-backed driver.
func New() *Driver {
	return &Driver{}
}

// MoveTo moves the mouse to screen coordinates.
func (d *Driver) MoveTo(x, y int) {
	robotgo.Move(x, y)
}

// Down presses the left button.
func (d *Driver) Down() {
	robotgo.Toggle("left")
}

// Up releases the left button.
func (d *Driver) Up() {
	robotgo.Toggle("left", "up")
}

// ScreenSize returns the main display size in pixels.
func (d *Driver) ScreenSize() (width, height int) {
	return robotgo.GetScreenSize()
}
