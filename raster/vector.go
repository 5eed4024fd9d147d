package raster

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Vector is one 3-vector per cell.
type Vector []mgl64.Vec3

// NewVector allocates a zeroed vector raster of n cells.
func NewVector(n int) Vector {
	return make(Vector, n)
}

func ensureVector(out Vector, n int) Vector {
	if out == nil {
		return NewVector(n)
	}
	mustMatch(len(out), n)
	return out
}

// Cross writes the per-cell cross product a × b.
func Cross(a, b, out Vector) Vector {
	mustMatch(len(a), len(b))
	out = ensureVector(out, len(a))
	for i := range out {
		out[i] = a[i].Cross(b[i])
	}
	return out
}

// Magnitude writes the per-cell vector length.
func Magnitude(a Vector, out Scalar) Scalar {
	out = ensure(out, len(a))
	for i := range out {
		out[i] = a[i].Len()
	}
	return out
}
