// Package raster holds the per-cell field types and the elementwise and
// mesh-aware primitives the crust model is written against.
//
// Every operation takes its inputs first and an optional output last. A nil
// output is allocated; the written output is always returned. Elementwise
// operations may write into one of their inputs. Operations that read
// neighbor values take a separate scratch buffer instead.
package raster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Scalar is one float per cell.
type Scalar []float64

// NewScalar allocates a zeroed scalar raster of n cells.
func NewScalar(n int) Scalar {
	return make(Scalar, n)
}

// ScalarOf returns a raster of n cells all set to v.
func ScalarOf(n int, v float64) Scalar {
	return Fill(NewScalar(n), v)
}

func mustMatch(a, b int) {
	if a != b {
		panic(fmt.Sprintf("raster: length mismatch %d != %d", a, b))
	}
}

// mustNotAlias panics when two rasters share their first cell. Operations
// that read neighbors need their output apart from their input.
func mustNotAlias(a, b Scalar, what string) {
	if len(a) > 0 && len(b) > 0 && &a[0] == &b[0] {
		panic("raster: " + what + " must not alias its input")
	}
}

// Out returns out, or a new raster of n cells when out is nil. It panics
// when a non-nil out has the wrong length.
func Out(out Scalar, n int) Scalar {
	return ensure(out, n)
}

func ensure(out Scalar, n int) Scalar {
	if out == nil {
		return NewScalar(n)
	}
	mustMatch(len(out), n)
	return out
}

// Fill sets every cell of out to v.
func Fill(out Scalar, v float64) Scalar {
	for i := range out {
		out[i] = v
	}
	return out
}

// Copy copies src into out.
func Copy(src, out Scalar) Scalar {
	out = ensure(out, len(src))
	copy(out, src)
	return out
}

func AddField(a, b, out Scalar) Scalar {
	mustMatch(len(a), len(b))
	out = ensure(out, len(a))
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

func SubField(a, b, out Scalar) Scalar {
	mustMatch(len(a), len(b))
	out = ensure(out, len(a))
	for i := range out {
		out[i] = a[i] - b[i]
	}
	return out
}

func MulField(a, b, out Scalar) Scalar {
	mustMatch(len(a), len(b))
	out = ensure(out, len(a))
	for i := range out {
		out[i] = a[i] * b[i]
	}
	return out
}

func DivField(a, b, out Scalar) Scalar {
	mustMatch(len(a), len(b))
	out = ensure(out, len(a))
	for i := range out {
		out[i] = a[i] / b[i]
	}
	return out
}

func MinField(a, b, out Scalar) Scalar {
	mustMatch(len(a), len(b))
	out = ensure(out, len(a))
	for i := range out {
		out[i] = math.Min(a[i], b[i])
	}
	return out
}

func MaxField(a, b, out Scalar) Scalar {
	mustMatch(len(a), len(b))
	out = ensure(out, len(a))
	for i := range out {
		out[i] = math.Max(a[i], b[i])
	}
	return out
}

func AddScalar(a Scalar, s float64, out Scalar) Scalar {
	out = ensure(out, len(a))
	for i := range out {
		out[i] = a[i] + s
	}
	return out
}

func SubScalar(a Scalar, s float64, out Scalar) Scalar {
	return AddScalar(a, -s, out)
}

func MulScalar(a Scalar, s float64, out Scalar) Scalar {
	out = ensure(out, len(a))
	for i := range out {
		out[i] = a[i] * s
	}
	return out
}

func DivScalar(a Scalar, s float64, out Scalar) Scalar {
	out = ensure(out, len(a))
	for i := range out {
		out[i] = a[i] / s
	}
	return out
}

func MinScalar(a Scalar, s float64, out Scalar) Scalar {
	out = ensure(out, len(a))
	for i := range out {
		out[i] = math.Min(a[i], s)
	}
	return out
}

func MaxScalar(a Scalar, s float64, out Scalar) Scalar {
	out = ensure(out, len(a))
	for i := range out {
		out[i] = math.Max(a[i], s)
	}
	return out
}

// Lerp interpolates between a and b by the per-cell fraction t.
func Lerp(a, b float64, t, out Scalar) Scalar {
	out = ensure(out, len(t))
	for i := range out {
		out[i] = a + (b-a)*t[i]
	}
	return out
}

// Smoothstep maps x onto [0, 1] with a cubic Hermite ramp between edge0 and
// edge1. Values past either edge saturate.
func Smoothstep(edge0, edge1 float64, x, out Scalar) Scalar {
	out = ensure(out, len(x))
	for i := range out {
		t := (x[i] - edge0) / (edge1 - edge0)
		t = math.Max(0, math.Min(1, t))
		out[i] = t * t * (3 - 2*t)
	}
	return out
}

// Sum returns the total over all cells.
func Sum(a Scalar) float64 {
	return floats.Sum(a)
}

// Range returns the smallest and largest cell values. It panics on an empty
// raster.
func Range(a Scalar) (lo, hi float64) {
	return floats.Min(a), floats.Max(a)
}
