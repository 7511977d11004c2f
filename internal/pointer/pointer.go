// Package pointer drives the operating system mouse from grip transitions
// and cursor updates.
package pointer

import (
	"log/slog"
	"math"
	"sync"
)

// Driver performs the low-level mouse operations.
type Driver interface {
	MoveTo(x, y int)
	Down()
	Up()
	ScreenSize() (width, height int)
}

// Controller maps normalized cursor positions to the screen and turns grip
// transitions into button presses. It is safe for concurrent use: the
// tracker calls it from the tick loop while the tray toggles it.
type Controller struct {
	driver Driver
	logger *slog.Logger

	mu      sync.Mutex
	enabled bool
	pressed bool
	width   int
	height  int
}

// NewController creates a controller for the driver. The screen size is
// read once from the driver.
func NewController(driver Driver, enabled bool, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	w, h := driver.ScreenSize()
	return &Controller{
		driver:  driver,
		logger:  logger,
		enabled: enabled,
		width:   w,
		height:  h,
	}
}

// ScreenSize returns the screen dimensions used for mapping.
func (c *Controller) ScreenSize() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Enabled reports whether the controller moves the mouse.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// SetEnabled turns mouse control on or off. Disabling while the button is
// held releases it.
func (c *Controller) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enabled == enabled {
		return
	}
	c.enabled = enabled
	if !enabled && c.pressed {
		c.driver.Up()
		c.pressed = false
	}
	c.logger.Info("pointer control changed", "enabled", enabled)
}

// Press holds the left button down.
func (c *Controller) Press() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled || c.pressed {
		return
	}
	c.driver.Down()
	c.pressed = true
}

// Release lets the left button go.
func (c *Controller) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pressed {
		return
	}
	c.driver.Up()
	c.pressed = false
}

// Move places the mouse at the normalized position. Normalized y grows
// upward while screen y grows downward.
func (c *Controller) Move(nx, ny float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled || c.width <= 0 || c.height <= 0 {
		return
	}
	x := clampPixel(nx*float64(c.width), c.width)
	y := clampPixel((1-ny)*float64(c.height), c.height)
	c.driver.MoveTo(x, y)
}

func clampPixel(v float64, size int) int {
	p := int(math.Round(v))
	if p < 0 {
		return 0
	}
	if p > size-1 {
		return size - 1
	}
	return p
}
