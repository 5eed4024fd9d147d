package crust

// Constants holds every tunable physical parameter of the crust model.
// Thicknesses are in meters, time in millions of years, densities in kg/m³.
type Constants struct {
	// Erosion
	Precipitation float64 `json:"precipitation"` // meters of rain per million years
	ErosiveFactor float64 `json:"erosiveFactor"` // fraction of height difference per meter of rain

	// Weathering
	WeatheringFactor          float64 `json:"weatheringFactor"`
	CriticalSedimentThickness float64 `json:"criticalSedimentThickness"` // sediment depth that halts bedrock weathering
	SurfaceGravity            float64 `json:"surfaceGravity"`            // m/s²
	ReferenceGravity          float64 `json:"referenceGravity"`          // gravity the rates were measured under

	// Density
	YoungSubductableDensity float64 `json:"youngSubductableDensity"`
	OldSubductableDensity   float64 `json:"oldSubductableDensity"`
	MaturationAge           float64 `json:"maturationAge"`
	UnsubductableDensity    float64 `json:"unsubductableDensity"`
	SedimentDensity         float64 `json:"sedimentDensity"`
	MantleDensity           float64 `json:"mantleDensity"`

	// Subductability
	SubductabilityReference  float64 `json:"subductabilityReference"`
	SubductabilityTransition float64 `json:"subductabilityTransition"`

	// Asthenosphere
	DiffusionIterations int     `json:"diffusionIterations"`
	DiffusionConstant   float64 `json:"diffusionConstant"`

	// Plate segmentation
	PlateCount             int     `json:"plateCount"`
	MinPlateSize           int     `json:"minPlateSize"`
	MorphologyRadius       int     `json:"morphologyRadius"`
	SegmentationSimilarity float64 `json:"segmentationSimilarity"`
}

// DefaultConstants returns Earth-like parameters.
func DefaultConstants() Constants {
	return Constants{
		Precipitation: 7.8e5, // global land average
		ErosiveFactor: 1.8e-7,

		WeatheringFactor:          1e-12,
		CriticalSedimentThickness: 1,
		SurfaceGravity:            9.8,
		ReferenceGravity:          9.8,

		YoungSubductableDensity: 2890,
		OldSubductableDensity:   3300,
		MaturationAge:           250,
		UnsubductableDensity:    2700,
		SedimentDensity:         2700,
		MantleDensity:           3300,

		SubductabilityReference:  3000,
		SubductabilityTransition: 1.0 / 100,

		DiffusionIterations: 15,
		DiffusionConstant:   1,

		PlateCount:             7,
		MinPlateSize:           200,
		MorphologyRadius:       5,
		SegmentationSimilarity: 0.9,
	}
}

// ErosionRate is the fraction of a height difference moved downhill in one
// timestep.
func (c Constants) ErosionRate(timestep float64) float64 {
	return c.Precipitation * timestep * c.ErosiveFactor
}

// WeatheringRate is the fraction of the local roughness converted from rock
// to sediment in one timestep, corrected for the planet's gravity.
func (c Constants) WeatheringRate(timestep float64) float64 {
	return c.WeatheringFactor * c.Precipitation * timestep * c.SurfaceGravity / c.ReferenceGravity
}
