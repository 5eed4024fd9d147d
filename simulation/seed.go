package simulation

import (
	"math"
	"math/rand"

	"crustsim/core"
	"crustsim/crust"
)

// SeedParams controls random crust generation.
type SeedParams struct {
	Seed               int64   `json:"seed"`
	ContinentCount     int     `json:"continentCount"`
	MinContinentSize   float64 `json:"minContinentSize"`   // fraction of surface
	MaxContinentSize   float64 `json:"maxContinentSize"`   // fraction of surface
	ContinentRoughness float64 `json:"continentRoughness"` // 0 = circular

	// Layer thicknesses in meters
	ContinentThickness float64 `json:"continentThickness"`
	OceanThickness     float64 `json:"oceanThickness"`
	SedimentThickness  float64 `json:"sedimentThickness"`

	// MaxOceanAge bounds the random age of oceanic crust, in million years.
	MaxOceanAge float64 `json:"maxOceanAge"`
}

func DefaultSeedParams() SeedParams {
	return SeedParams{
		Seed:               42,
		ContinentCount:     5,
		MinContinentSize:   0.02,
		MaxContinentSize:   0.08,
		ContinentRoughness: 0.5,
		ContinentThickness: 35000,
		OceanThickness:     7000,
		SedimentThickness:  100,
		MaxOceanAge:        200,
	}
}

type continentSeed struct {
	center core.Geographic
	radius float64 // angular, radians
	shape  float64
}

// SeedCrust builds a crust on g with randomly placed continents of
// unsubductable rock under a thin sediment cover, surrounded by oceanic
// subductable crust of random age. Equal params give equal crusts.
func SeedCrust(g *core.Grid, p SeedParams, k crust.Constants) *crust.Crust {
	rng := rand.New(rand.NewSource(p.Seed))

	seeds := make([]continentSeed, p.ContinentCount)
	for i := range seeds {
		sizeFraction := p.MinContinentSize + rng.Float64()*(p.MaxContinentSize-p.MinContinentSize)
		seeds[i] = continentSeed{
			center: core.Geographic{
				Lat: math.Asin(2*rng.Float64() - 1),
				Lon: (rng.Float64() - 0.5) * 2 * math.Pi,
			},
			// a cap of area fraction f has angular radius acos(1 - 2f)
			radius: math.Acos(1 - 2*sizeFraction),
			shape:  rng.Float64() * p.ContinentRoughness,
		}
	}

	c := crust.New(g)
	for i, pos := range g.Positions {
		here := core.CartesianToGeographic(pos, pos.Len())

		land := false
		for _, s := range seeds {
			radius := s.radius * (1 + s.shape*terrainNoise(pos.X()*4, pos.Y()*4, pos.Z()*4))
			if core.AngularDistance(here, s.center) < radius {
				land = true
				break
			}
		}

		if land {
			relief := 1 + 0.1*terrainNoise(pos.X()*8, pos.Y()*8, pos.Z()*8)
			c.Set(i, crust.RockColumn{
				Unsubductable: p.ContinentThickness * relief,
				Sediment:      p.SedimentThickness,
			})
		} else {
			c.Set(i, crust.RockColumn{
				Subductable:    p.OceanThickness,
				SubductableAge: rng.Float64() * p.MaxOceanAge,
			})
		}
	}

	c.UpdateDerived(k)
	return c
}

// terrainNoise is a cheap smooth noise in [-1, 1] built from sine waves.
func terrainNoise(x, y, z float64) float64 {
	n1 := math.Sin(x*3.14159) * math.Cos(y*2.71828) * math.Sin(z*1.41421)
	n2 := math.Sin(x*1.73205) * math.Sin(y*2.23607) * math.Cos(z*3.16227)
	n3 := math.Cos(x*2.44949) * math.Sin(y*1.61803) * math.Sin(z*2.64575)
	return (n1 + n2*0.5 + n3*0.25) / 1.75
}
