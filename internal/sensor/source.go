package sensor

import "errors"

var (
	// ErrClosed is returned when using a source after Close.
	ErrClosed = errors.New("sensor source closed")
	// ErrNotConnected is returned when the sensor service connection is gone.
	ErrNotConnected = errors.New("sensor service not connected")
)

// Source delivers frames from a sensor.
type Source interface {
	// Frame returns the most recent frame, or nil when none is available.
	// It never blocks and may return the same frame on consecutive calls.
	Frame() *Frame

	// EnableGesture asks the sensor to report gestures of the given type.
	EnableGesture(t GestureType) error

	// Close releases the sensor connection.
	Close() error
}
