// Package simulation advances a crust through time: erosion reshapes its
// composition, the asthenosphere field is rebuilt from the new densities,
// and the planet's surface is partitioned into plates.
package simulation

import (
	"log/slog"

	"crustsim/core"
	"crustsim/crust"
	"crustsim/physics"
	"crustsim/raster"
)

// World owns a crust and every buffer needed to step it. It is not safe
// for concurrent use.
type World struct {
	Grid      *core.Grid
	Crust     *crust.Crust
	Constants crust.Constants
	SeaLevel  float64

	// Time is the model age in millions of years.
	Time float64

	Subductability  raster.Scalar
	Pressure        raster.Scalar
	Velocity        raster.Vector
	AngularVelocity raster.Vector
	Plates          raster.Labels

	SedimentDelta      raster.Scalar
	UnsubductableDelta raster.Scalar

	erosion *physics.ErosionScratch
	scratch raster.Scalar
	logger  *slog.Logger
}

// StepReport summarizes one call to Step.
type StepReport struct {
	Time   float64
	Mass   float64
	Drift  float64 // mass change over the step, ideally zero
	Plates int
	Eroded float64 // total sediment moved or created
}

// NewWorld wraps c for stepping. A nil logger logs to slog.Default().
func NewWorld(c *crust.Crust, k crust.Constants, seaLevel float64, logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.Default()
	}
	n := c.Grid.Len()
	w := &World{
		Grid:      c.Grid,
		Crust:     c,
		Constants: k,
		SeaLevel:  seaLevel,

		Subductability:  raster.NewScalar(n),
		Pressure:        raster.NewScalar(n),
		Velocity:        raster.NewVector(n),
		AngularVelocity: raster.NewVector(n),
		Plates:          raster.NewLabels(n),

		SedimentDelta:      raster.NewScalar(n),
		UnsubductableDelta: raster.NewScalar(n),

		erosion: physics.NewErosionScratch(n),
		scratch: raster.NewScalar(n),
		logger:  logger.With("component", "world"),
	}
	c.UpdateDerived(k)
	w.updateFlow()
	return w
}

// Step advances the world by timestep million years.
func (w *World) Step(timestep float64) StepReport {
	k := w.Constants
	c := w.Crust
	before := c.Mass()

	c.UpdateDerived(k)
	physics.Erosion(
		w.Grid, c.Displacement, w.SeaLevel, timestep,
		c.Sediment, c.Unsubductable, k,
		w.SedimentDelta, w.UnsubductableDelta, w.erosion,
	)
	c.ApplyDelta(w.SedimentDelta, w.UnsubductableDelta)
	raster.AddScalar(c.SubductableAge, timestep, c.SubductableAge)
	c.UpdateDerived(k)

	w.updateFlow()
	w.Time += timestep

	after := c.Mass()
	report := StepReport{
		Time:   w.Time,
		Mass:   after,
		Drift:  after - before,
		Plates: plateCount(w.Plates),
		Eroded: positiveSum(w.SedimentDelta),
	}
	w.logger.Debug("step",
		"time", report.Time,
		"mass", report.Mass,
		"drift", report.Drift,
		"plates", report.Plates,
		"eroded", report.Eroded)
	return report
}

// Run calls Step the given number of times and returns the last report.
func (w *World) Run(steps int, timestep float64) StepReport {
	var report StepReport
	for i := 0; i < steps; i++ {
		report = w.Step(timestep)
	}
	w.logger.Info("run complete",
		"steps", steps,
		"time", report.Time,
		"mass", report.Mass,
		"plates", report.Plates)
	return report
}

func (w *World) updateFlow() {
	k := w.Constants
	crust.Subductability(w.Crust.Density, k, w.Subductability)
	physics.AsthenospherePressure(w.Grid, w.Subductability, k, w.Pressure, w.scratch)
	physics.AsthenosphereVelocity(w.Grid, w.Pressure, w.Velocity)
	physics.AngularVelocity(w.Velocity, raster.Vector(w.Grid.Positions), w.AngularVelocity)
	PlateMap(w.Grid, w.Velocity, k.PlateCount, k.MinPlateSize, k, w.Plates)
}

func plateCount(plates raster.Labels) int {
	n := 0
	for _, id := range raster.Unique(plates) {
		if id != 0 {
			n++
		}
	}
	return n
}

func positiveSum(a raster.Scalar) float64 {
	total := 0.0
	for _, v := range a {
		if v > 0 {
			total += v
		}
	}
	return total
}
