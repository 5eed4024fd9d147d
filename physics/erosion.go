package physics

import (
	"math"

	"crustsim/core"
	"crustsim/crust"
	"crustsim/raster"
)

// ErosionScratch holds the intermediate rasters of one erosion call so they
// can be reused across timesteps. Allocate it with NewErosionScratch.
type ErosionScratch struct {
	WaterHeight raster.Scalar

	// Demand is the height each cell sends downhill this step.
	Demand raster.Scalar

	// SedimentFraction and UnsubductableFraction split each cell's demand
	// between its layers; their sum is 1 unless the cell runs dry.
	SedimentFraction      raster.Scalar
	UnsubductableFraction raster.Scalar
	Roughness             raster.Scalar
	Weathering            raster.Scalar

	// RemainingUnsubductable is the bedrock left once transport has drawn
	// from it; weathering cannot convert more than this.
	RemainingUnsubductable raster.Scalar
}

func NewErosionScratch(n int) *ErosionScratch {
	return &ErosionScratch{
		WaterHeight:           raster.NewScalar(n),
		Demand:                raster.NewScalar(n),
		SedimentFraction:      raster.NewScalar(n),
		UnsubductableFraction: raster.NewScalar(n),
		Roughness:             raster.NewScalar(n),
		Weathering:            raster.NewScalar(n),

		RemainingUnsubductable: raster.NewScalar(n),
	}
}

// WaterHeight is the hydrological surface: displacement, or sea level
// where the crust lies under water.
func WaterHeight(displacement raster.Scalar, sealevel float64, out raster.Scalar) raster.Scalar {
	return raster.MaxScalar(displacement, sealevel, out)
}

// Erosion computes the composition change of one timestep. Sediment, then
// unsubductable bedrock, is carried down every arrow whose water height
// falls; separately, exposed bedrock weathers into sediment in place.
// Weathering only converts rock that transport left behind, so no layer
// goes negative once both deltas are applied.
//
// Both deltas are zeroed and overwritten. Edge transport conserves each
// layer on its own; weathering conserves their sum. scratch may be nil.
func Erosion(
	g *core.Grid, displacement raster.Scalar, sealevel, timestep float64,
	sediment, unsubductable raster.Scalar, c crust.Constants,
	sedimentDelta, unsubductableDelta raster.Scalar, scratch *ErosionScratch,
) (raster.Scalar, raster.Scalar) {
	g.MustMatch(len(displacement), "displacement")
	if scratch == nil {
		scratch = NewErosionScratch(g.Len())
	}

	waterHeight := WaterHeight(displacement, sealevel, scratch.WaterHeight)
	sedimentDelta, unsubductableDelta = Transport(g, waterHeight, timestep, sediment, unsubductable, c, sedimentDelta, unsubductableDelta, scratch)

	remaining := raster.AddField(unsubductable, unsubductableDelta, scratch.RemainingUnsubductable)
	raster.MaxScalar(remaining, 0, remaining)

	weathering := Weathering(g, waterHeight, timestep, sediment, remaining, c, scratch.Weathering, scratch.Roughness)
	raster.SubField(unsubductableDelta, weathering, unsubductableDelta)
	raster.AddField(sedimentDelta, weathering, sedimentDelta)

	return sedimentDelta, unsubductableDelta
}

// Transport moves material down the arrows of g. Each cell's outbound
// demand is drawn from sediment first and from unsubductable rock for the
// remainder, never more than a layer holds. The deltas sum to zero.
func Transport(
	g *core.Grid, waterHeight raster.Scalar, timestep float64,
	sediment, unsubductable raster.Scalar, c crust.Constants,
	sedimentDelta, unsubductableDelta raster.Scalar, scratch *ErosionScratch,
) (raster.Scalar, raster.Scalar) {
	n := g.Len()
	g.MustMatch(len(waterHeight), "water height")
	g.MustMatch(len(sediment), "sediment")
	g.MustMatch(len(unsubductable), "unsubductable")
	if scratch == nil {
		scratch = NewErosionScratch(n)
	}
	sedimentDelta = raster.Fill(raster.Out(sedimentDelta, n), 0)
	unsubductableDelta = raster.Fill(raster.Out(unsubductableDelta, n), 0)

	rate := c.ErosionRate(timestep)
	transfer := func(from, to int) float64 {
		drop := waterHeight[from] - waterHeight[to]
		if drop <= 0 {
			return 0
		}
		return drop * rate / float64(g.NeighborCount[from])
	}

	demand := raster.Fill(scratch.Demand, 0)
	for _, a := range g.Arrows {
		demand[a[0]] += transfer(a[0], a[1])
	}

	sedimentFraction := scratch.SedimentFraction
	unsubductableFraction := scratch.UnsubductableFraction
	for i := range demand {
		sedimentFraction[i], unsubductableFraction[i] = drawFractions(demand[i], sediment[i], unsubductable[i])
	}

	for _, a := range g.Arrows {
		from, to := a[0], a[1]
		amount := transfer(from, to)
		if amount == 0 {
			continue
		}

		moved := amount * sedimentFraction[from]
		sedimentDelta[from] -= moved
		sedimentDelta[to] += moved

		moved = amount * unsubductableFraction[from]
		unsubductableDelta[from] -= moved
		unsubductableDelta[to] += moved
	}

	return sedimentDelta, unsubductableDelta
}

// drawFractions splits demand between the sediment and unsubductable layers,
// returning each layer's share of the whole demand. A layer that cannot
// cover what is asked of it gives everything it has. Zero demand draws
// entirely from sediment, which moves nothing.
func drawFractions(demand, sediment, unsubductable float64) (sedimentFraction, unsubductableFraction float64) {
	sedimentFraction = layerFraction(demand, sediment)
	remainder := demand * (1 - sedimentFraction)
	unsubductableFraction = layerFraction(remainder, unsubductable) * (1 - sedimentFraction)
	return sedimentFraction, unsubductableFraction
}

func layerFraction(demand, available float64) float64 {
	if demand <= available {
		return 1
	}
	if available > 0 {
		return available / demand
	}
	return 0
}

// Weathering returns how much unsubductable rock turns into sediment at
// each cell this step. It scales with local roughness and fades to nothing
// as sediment buries the bedrock to CriticalSedimentThickness. It is never
// negative and never exceeds the rock present. roughness is scratch space
// and must not alias waterHeight.
func Weathering(
	g *core.Grid, waterHeight raster.Scalar, timestep float64,
	sediment, unsubductable raster.Scalar, c crust.Constants,
	out, roughness raster.Scalar,
) raster.Scalar {
	g.MustMatch(len(sediment), "sediment")
	g.MustMatch(len(unsubductable), "unsubductable")
	roughness = raster.AverageDifference(g, waterHeight, roughness)
	out = raster.MulScalar(roughness, c.WeatheringRate(timestep), out)

	for i := range out {
		out[i] *= bedrockExposure(sediment[i], c.CriticalSedimentThickness)
		out[i] = math.Max(math.Min(out[i], unsubductable[i]), 0)
	}
	return out
}

// bedrockExposure falls linearly from 1 with no sediment to 0 at the
// critical thickness.
func bedrockExposure(sediment, critical float64) float64 {
	if critical <= 0 {
		if sediment > 0 {
			return 0
		}
		return 1
	}
	return math.Max(0, math.Min(1, 1-sediment/critical))
}
