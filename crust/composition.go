package crust

import (
	"fmt"
	"math"

	"crustsim/raster"
)

// Thickness sums the three material layers.
func Thickness(unsubductable, sediment, subductable, out raster.Scalar) raster.Scalar {
	mustMatch(unsubductable, sediment, subductable)
	out = raster.AddField(unsubductable, sediment, out)
	return raster.AddField(out, subductable, out)
}

// Density returns the thickness-weighted mean density of each column.
// Subductable rock densifies from the young to the old value as it ages,
// saturating at MaturationAge. Empty columns take the old subductable
// density. scratch holds the per-cell subductable density and may be nil.
func Density(subductable, unsubductable, sediment, age raster.Scalar, c Constants, out, scratch raster.Scalar) raster.Scalar {
	mustMatch(subductable, unsubductable, sediment, age)
	subductableDensity := raster.Smoothstep(0, c.MaturationAge, age, scratch)
	raster.Lerp(c.YoungSubductableDensity, c.OldSubductableDensity, subductableDensity, subductableDensity)

	out = raster.Out(out, len(subductable))
	for i := range out {
		thickness := subductable[i] + unsubductable[i] + sediment[i]
		if thickness > 0 {
			out[i] = (subductable[i]*subductableDensity[i] +
				unsubductable[i]*c.UnsubductableDensity +
				sediment[i]*c.SedimentDensity) / thickness
		} else {
			out[i] = c.OldSubductableDensity
		}
	}
	return out
}

// Subductability maps density onto (-1, 1) with a logistic curve centered
// on SubductabilityReference. Positive values sink.
func Subductability(density raster.Scalar, c Constants, out raster.Scalar) raster.Scalar {
	out = raster.Out(out, len(density))
	for i, d := range density {
		out[i] = 2/(1+math.Exp(-(d-c.SubductabilityReference)*c.SubductabilityTransition)) - 1
	}
	return out
}

// Displacement returns the isostatic elevation of each column above an
// arbitrary datum, independent of sea level.
func Displacement(thickness, density raster.Scalar, mantleDensity float64, out raster.Scalar) raster.Scalar {
	mustMatch(thickness, density)
	out = raster.Out(out, len(thickness))
	inverseMantleDensity := 1 / mantleDensity
	for i, t := range thickness {
		out[i] = t - t*density[i]*inverseMantleDensity
	}
	return out
}

// mustMatch panics unless every layer has the same number of cells.
func mustMatch(layers ...raster.Scalar) {
	for _, l := range layers[1:] {
		if len(l) != len(layers[0]) {
			panic(fmt.Sprintf("crust: length mismatch %d != %d", len(l), len(layers[0])))
		}
	}
}
