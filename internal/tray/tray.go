// Package tray provides the system tray menu for leaptrack.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onPointerToggle func(enabled bool)
	onDashboard     func()
	onQuit          func()

	pointerEnabled bool
	sensorStatus   string
	lastGesture    string
	mu             sync.RWMutex

	// Menu items stored for later updates
	menuSensor      *systray.MenuItem
	menuLastGesture *systray.MenuItem
	menuPointer     *systray.MenuItem
}

// New creates a new Tray. pointerEnabled is the initial pointer control state.
func New(pointerEnabled bool) *Tray {
	return &Tray{
		pointerEnabled: pointerEnabled,
		sensorStatus:   "connecting",
	}
}

// OnPointerToggle sets the callback called when pointer control is toggled.
func (t *Tray) OnPointerToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPointerToggle = fn
}

// OnDashboard sets the callback called when the dashboard item is clicked.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called or the quit item is clicked.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray and unblocks Run.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("leaptrack")
	systray.SetTooltip("leaptrack hand tracking")

	t.mu.Lock()
	t.menuSensor = systray.AddMenuItem(sensorTitle(t.sensorStatus), "Sensor connection")
	t.menuSensor.Disable()
	t.menuLastGesture = systray.AddMenuItem(lastGestureTitle(t.lastGesture), "Last detected gesture")
	t.menuLastGesture.Disable()
	systray.AddSeparator()

	t.menuPointer = systray.AddMenuItem(pointerTitle(t.pointerEnabled), "Drive the mouse with grip and palm")
	if t.pointerEnabled {
		t.menuPointer.Check()
	}
	menuPointer := t.menuPointer
	t.mu.Unlock()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit leaptrack")

	go func() {
		for {
			select {
			case <-menuPointer.ClickedCh:
				t.handlePointerToggle()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handlePointerToggle() {
	t.mu.Lock()
	t.pointerEnabled = !t.pointerEnabled
	enabled := t.pointerEnabled

	if t.menuPointer != nil {
		t.menuPointer.SetTitle(pointerTitle(enabled))
		if enabled {
			t.menuPointer.Check()
		} else {
			t.menuPointer.Uncheck()
		}
	}

	callback := t.onPointerToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetSensorStatus updates the sensor status line.
func (t *Tray) SetSensorStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sensorStatus = status
	if t.menuSensor != nil {
		t.menuSensor.SetTitle(sensorTitle(status))
	}
}

// SetLastGesture updates the last gesture display in the menu.
func (t *Tray) SetLastGesture(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastGesture = name
	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastGestureTitle(name))
	}
}

// LastGesture returns the last gesture shown.
func (t *Tray) LastGesture() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastGesture
}

// SensorStatus returns the sensor status shown.
func (t *Tray) SensorStatus() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sensorStatus
}

// PointerEnabled returns the current pointer control state.
func (t *Tray) PointerEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pointerEnabled
}

func sensorTitle(status string) string {
	if status == "" {
		status = "unknown"
	}
	return "Sensor: " + status
}

func lastGestureTitle(name string) string {
	if name == "" {
		return "Last: none"
	}
	return "Last: " + name
}

func pointerTitle(enabled bool) string {
	if enabled {
		return "● Pointer control"
	}
	return "○ Pointer control"
}
