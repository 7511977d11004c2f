package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const parallelEpsilon = 1e-9

var worldUp = r3.Vec{Y: 1}

// LookRotation returns the rotation that maps the +Z axis onto forward while
// keeping +Y as close to up as possible. A zero forward yields Identity.
// When forward is parallel to up, the depth axis is used as the up hint.
func LookRotation(forward r3.Vec) quat.Number {
	f := Unit(forward)
	if IsZero(f) {
		return Identity
	}

	up := worldUp
	right := r3.Cross(up, f)
	if r3.Norm(right) < parallelEpsilon {
		up = r3.Vec{Z: -math.Copysign(1, f.Y)}
		right = r3.Cross(up, f)
	}
	right = Unit(right)
	up = r3.Cross(f, right)

	// Columns of the rotation matrix are right, up and forward.
	m00, m01, m02 := right.X, up.X, f.X
	m10, m11, m12 := right.Y, up.Y, f.Y
	m20, m21, m22 := right.Z, up.Z, f.Z

	var q quat.Number
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = quat.Number{
			Real: 0.25 / s,
			Imag: (m21 - m12) * s,
			Jmag: (m02 - m20) * s,
			Kmag: (m10 - m01) * s,
		}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = quat.Number{
			Real: (m21 - m12) / s,
			Imag: 0.25 * s,
			Jmag: (m01 + m10) / s,
			Kmag: (m02 + m20) / s,
		}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = quat.Number{
			Real: (m02 - m20) / s,
			Imag: (m01 + m10) / s,
			Jmag: 0.25 * s,
			Kmag: (m12 + m21) / s,
		}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = quat.Number{
			Real: (m10 - m01) / s,
			Imag: (m02 + m20) / s,
			Jmag: (m12 + m21) / s,
			Kmag: 0.25 * s,
		}
	}
	return quat.Scale(1/quat.Abs(q), q)
}

// Rotate applies the unit rotation q to v.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}
