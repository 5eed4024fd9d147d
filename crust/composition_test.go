package crust

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"crustsim/raster"
)

func TestThickness(t *testing.T) {
	out := Thickness(raster.Scalar{1, 0, 2}, raster.Scalar{3, 0, 0}, raster.Scalar{5, 0, 7}, nil)
	assert.Equal(t, raster.Scalar{9, 0, 9}, out)
}

func TestDensityAgeInterpolation(t *testing.T) {
	c := DefaultConstants()
	ages := raster.Scalar{0, 10, 50, 100, 125, 200, 249, 250, 1000, 1e6}
	n := len(ages)
	subductable := raster.ScalarOf(n, 7000)
	zero := raster.NewScalar(n)

	density := Density(subductable, zero, zero, ages, c, nil, nil)

	assert.Equal(t, c.YoungSubductableDensity, density[0])
	assert.InDelta(t, (c.YoungSubductableDensity+c.OldSubductableDensity)/2, density[4], 1e-9)
	assert.InDelta(t, c.OldSubductableDensity, density[n-1], 1e-9)
	assert.InDelta(t, c.OldSubductableDensity, density[n-3], 1e-9)
	for i := 1; i < n; i++ {
		assert.GreaterOrEqual(t, density[i], density[i-1], "age %v", ages[i])
	}
}

func TestDensityMixture(t *testing.T) {
	c := DefaultConstants()
	c.SedimentDensity = 2500

	density := Density(
		raster.Scalar{1000, 0, 0},
		raster.Scalar{1000, 0, 3000},
		raster.Scalar{2000, 0, 1000},
		raster.Scalar{0, 0, 0},
		c, nil, raster.NewScalar(3),
	)

	assert.InDelta(t, (1000*2890.0+1000*2700+2000*2500)/4000, density[0], 1e-9)
	assert.Equal(t, c.OldSubductableDensity, density[1], "empty columns use the default")
	assert.InDelta(t, (3000*2700.0+1000*2500)/4000, density[2], 1e-9)
}

func TestSubductability(t *testing.T) {
	c := DefaultConstants()
	density := raster.Scalar{0, 2700, 3000, 3300, 1e5}
	s := Subductability(density, c, nil)

	assert.InDelta(t, 0, s[2], 1e-12)
	assert.InDelta(t, -math.Tanh(1.5), s[1], 1e-12)
	assert.InDelta(t, math.Tanh(1.5), s[3], 1e-12)
	for i, v := range s {
		assert.True(t, v >= -1 && v <= 1, "cell %d: %v", i, v)
		if i > 0 {
			assert.Greater(t, v, s[i-1])
		}
	}
}

func TestDisplacement(t *testing.T) {
	out := Displacement(raster.Scalar{1000, 7000, 0}, raster.Scalar{2700, 3300, 2890}, 3300, nil)
	assert.InDeltaSlice(t, []float64{1000 * (1 - 2700.0/3300), 0, 0}, out, 1e-9)
}

func TestCompositionRejectsMismatchedLayers(t *testing.T) {
	c := DefaultConstants()
	short := raster.NewScalar(3)
	long := raster.NewScalar(4)

	assert.PanicsWithValue(t, "crust: length mismatch 4 != 3", func() {
		Density(short, long, short, short, c, nil, nil)
	})
	assert.PanicsWithValue(t, "crust: length mismatch 4 != 3", func() {
		Density(short, short, short, long, c, nil, nil)
	})
	assert.PanicsWithValue(t, "crust: length mismatch 4 != 3", func() {
		Displacement(short, long, c.MantleDensity, nil)
	})
	assert.PanicsWithValue(t, "crust: length mismatch 4 != 3", func() {
		Thickness(short, short, long, nil)
	})
}

func TestRates(t *testing.T) {
	c := DefaultConstants()
	assert.InDelta(t, 7.8e5*1.8e-7*2, c.ErosionRate(2), 1e-15)
	assert.InDelta(t, 1e-12*7.8e5*2, c.WeatheringRate(2), 1e-20)

	c.SurfaceGravity = 4.9
	assert.InDelta(t, 1e-12*7.8e5*2/2, c.WeatheringRate(2), 1e-20)
}
