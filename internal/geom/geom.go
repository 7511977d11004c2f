// Package geom converts sensor-space vectors into the consumer coordinate
// convention and derives orientations from direction vectors.
package geom

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// MillimetersToMeters is the scale applied by scaled conversions.
const MillimetersToMeters = 0.001

// Zero is the zero vector.
var Zero = r3.Vec{}

// Identity is the identity rotation.
var Identity = quat.Number{Real: 1}

// ToOutput converts a sensor vector to the output convention. The depth
// axis is negated; scaled conversions also turn millimeters into meters.
// Directions must be converted unscaled so they stay unit length.
func ToOutput(v r3.Vec, scaled bool) r3.Vec {
	out := r3.Vec{X: v.X, Y: v.Y, Z: -v.Z}
	if scaled {
		out = r3.Scale(MillimetersToMeters, out)
	}
	return out
}

// IsZero reports whether all components of v are zero.
func IsZero(v r3.Vec) bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Unit returns v scaled to unit length, or the zero vector when v has no length.
func Unit(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 {
		return Zero
	}
	return r3.Scale(1/n, v)
}
