package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"crustsim/core"
)

// Laplacian writes, for each cell, the mean of (neighbor - cell) over its
// neighbors. out must not alias field.
func Laplacian(g *core.Grid, field, out Scalar) Scalar {
	g.MustMatch(len(field), "laplacian input")
	out = ensure(out, len(field))
	mustNotAlias(out, field, "laplacian output")
	Fill(out, 0)
	for _, a := range g.Arrows {
		out[a[0]] += field[a[1]] - field[a[0]]
	}
	for i, n := range g.NeighborCount {
		if n > 0 {
			out[i] /= float64(n)
		}
	}
	return out
}

// AverageDifference writes, for each cell, the mean absolute height
// difference to its neighbors. It is a roughness measure with no direction.
// out must not alias field.
func AverageDifference(g *core.Grid, field, out Scalar) Scalar {
	g.MustMatch(len(field), "average difference input")
	out = ensure(out, len(field))
	mustNotAlias(out, field, "average difference output")
	Fill(out, 0)
	for _, a := range g.Arrows {
		out[a[0]] += math.Abs(field[a[1]] - field[a[0]])
	}
	for i, n := range g.NeighborCount {
		if n > 0 {
			out[i] /= float64(n)
		}
	}
	return out
}

// Diffuse applies one explicit diffusion pass with a constant coefficient:
// out = field + k * Laplacian(field). The Laplacian is staged in scratch,
// so out may alias field but scratch may not.
func Diffuse(g *core.Grid, field Scalar, k float64, out, scratch Scalar) Scalar {
	scratch = Laplacian(g, field, scratch)
	out = ensure(out, len(field))
	for i := range out {
		out[i] = field[i] + k*scratch[i]
	}
	return out
}

// Gradient writes a finite-difference gradient of field over the mesh.
// Each arrow contributes (Δf / |Δx|²) Δx; the neighbor mean is doubled,
// which makes the estimate exact for linear fields on regular rings.
func Gradient(g *core.Grid, field Scalar, out Vector) Vector {
	g.MustMatch(len(field), "gradient input")
	out = ensureVector(out, len(field))
	for i := range out {
		out[i] = mgl64.Vec3{}
	}
	for _, a := range g.Arrows {
		from, to := a[0], a[1]
		dx := g.Positions[to].Sub(g.Positions[from])
		length2 := dx.Dot(dx)
		if length2 == 0 {
			continue
		}
		out[from] = out[from].Add(dx.Mul((field[to] - field[from]) / length2))
	}
	for i, n := range g.NeighborCount {
		if n > 0 {
			out[i] = out[i].Mul(2 / float64(n))
		}
	}
	return out
}
