// Package physics computes the fields that drive a crust from one timestep
// to the next: asthenosphere pressure and flow, and the erosion and
// weathering deltas applied to the crust's composition.
package physics

import (
	"crustsim/core"
	"crustsim/crust"
	"crustsim/raster"
)

// AsthenospherePressure smooths subductability into a spatially coherent
// pressure proxy with a fixed number of diffusion passes. There is no
// convergence test, so equal inputs always give equal outputs.
// scratch must not alias out.
func AsthenospherePressure(g *core.Grid, subductability raster.Scalar, c crust.Constants, out, scratch raster.Scalar) raster.Scalar {
	g.MustMatch(len(subductability), "subductability")
	out = raster.Copy(subductability, out)
	scratch = raster.Out(scratch, len(out))
	for i := 0; i < c.DiffusionIterations; i++ {
		raster.Diffuse(g, out, c.DiffusionConstant, out, scratch)
	}
	return out
}

// AsthenosphereVelocity is the gradient of pressure over the mesh.
func AsthenosphereVelocity(g *core.Grid, pressure raster.Scalar, out raster.Vector) raster.Vector {
	return raster.Gradient(g, pressure, out)
}

// AngularVelocity is the per-cell cross product of velocity and position.
func AngularVelocity(velocity, positions, out raster.Vector) raster.Vector {
	return raster.Cross(velocity, positions, out)
}
