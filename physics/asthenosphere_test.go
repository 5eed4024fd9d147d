package physics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"crustsim/core"
	"crustsim/crust"
	"crustsim/raster"
)

func TestAsthenospherePressureSmooths(t *testing.T) {
	g := core.Icosphere(3)
	rng := rand.New(rand.NewSource(4))
	subductability := raster.NewScalar(g.Len())
	for i := range subductability {
		subductability[i] = rng.Float64()*2 - 1
	}
	c := crust.DefaultConstants()

	pressure := AsthenospherePressure(g, subductability, c, nil, nil)

	lo, hi := raster.Range(subductability)
	plo, phi := raster.Range(pressure)
	assert.Less(t, phi-plo, (hi-lo)/2)
	assert.GreaterOrEqual(t, plo, lo)
	assert.LessOrEqual(t, phi, hi)

	again := AsthenospherePressure(g, subductability, c, raster.NewScalar(g.Len()), raster.NewScalar(g.Len()))
	assert.Equal(t, pressure, again)
}

func TestAsthenospherePressureIterationCount(t *testing.T) {
	g := core.Tetrahedron()
	c := crust.DefaultConstants()
	subductability := raster.Scalar{1, -1, 0.5, 0}

	c.DiffusionIterations = 0
	assert.Equal(t, subductability, AsthenospherePressure(g, subductability, c, nil, nil))

	c.DiffusionIterations = 1
	c.DiffusionConstant = 0.75
	// one pass with k=3/4 on a tetrahedron replaces every cell with the mean
	assert.InDeltaSlice(t, []float64{0.125, 0.125, 0.125, 0.125}, AsthenospherePressure(g, subductability, c, nil, nil), 1e-12)
}

func TestAsthenosphereVelocityAndAngularVelocity(t *testing.T) {
	g := core.Icosphere(3)
	pressure := raster.NewScalar(g.Len())
	for i, p := range g.Positions {
		pressure[i] = p.Y()
	}

	velocity := AsthenosphereVelocity(g, pressure, nil)
	angular := AngularVelocity(velocity, raster.Vector(g.Positions), nil)

	for i, p := range g.Positions {
		if p.Y() > 0.9 || p.Y() < -0.9 {
			continue
		}
		assert.Greater(t, velocity[i].Y(), 0.0, "cell %d flows toward higher pressure", i)
		assert.InDelta(t, 0, angular[i].Dot(p), 1e-9)
		assert.InDelta(t, 0, angular[i].Dot(velocity[i]), 1e-9)
	}
}
