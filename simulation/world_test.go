package simulation

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crustsim/core"
	"crustsim/crust"
	"crustsim/raster"
)

func testWorld(t *testing.T, logger *slog.Logger) *World {
	t.Helper()
	g := core.Icosphere(3)
	k := crust.DefaultConstants()
	k.MinPlateSize = 20
	k.MorphologyRadius = 2
	c := SeedCrust(g, DefaultSeedParams(), k)
	return NewWorld(c, k, 0, logger)
}

func TestNewWorldBuildsFlow(t *testing.T) {
	w := testWorld(t, nil)

	lo, hi := raster.Range(w.Subductability)
	assert.GreaterOrEqual(t, lo, -1.0)
	assert.LessOrEqual(t, hi, 1.0)
	assert.Less(t, lo, hi)

	assert.NotEmpty(t, raster.Unique(w.Plates))
	assert.Zero(t, w.Time)
}

func TestStepConservesMass(t *testing.T) {
	w := testWorld(t, nil)
	before := w.Crust.Mass()

	var report StepReport
	for i := 0; i < 5; i++ {
		report = w.Step(1)
	}

	assert.InDelta(t, before, report.Mass, before*1e-9)
	assert.InDelta(t, 0, report.Drift, before*1e-9)
	assert.InDelta(t, 5.0, report.Time, 1e-12)
	assert.Greater(t, report.Eroded, 0.0)

	for i := range w.Crust.Sediment {
		require.GreaterOrEqual(t, w.Crust.Sediment[i], 0.0)
		require.GreaterOrEqual(t, w.Crust.Unsubductable[i], 0.0)
	}
}

func TestStepAgesSubductableCrust(t *testing.T) {
	w := testWorld(t, nil)
	ages := raster.Copy(w.Crust.SubductableAge, nil)

	w.Step(2.5)

	for i := range ages {
		assert.InDelta(t, ages[i]+2.5, w.Crust.SubductableAge[i], 1e-9)
	}
}

func TestStepIsDeterministic(t *testing.T) {
	a := testWorld(t, nil)
	b := testWorld(t, nil)

	a.Run(3, 1)
	b.Run(3, 1)

	assert.Equal(t, a.Crust.Sediment, b.Crust.Sediment)
	assert.Equal(t, a.Crust.Unsubductable, b.Crust.Unsubductable)
	assert.Equal(t, a.Pressure, b.Pressure)
	assert.Equal(t, a.Plates, b.Plates)
}

func TestStepLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	w := testWorld(t, logger)

	w.Run(2, 1)

	out := buf.String()
	assert.Contains(t, out, "msg=step")
	assert.Contains(t, out, "component=world")
	assert.Contains(t, out, `msg="run complete"`)
	assert.Contains(t, out, "steps=2")
}

func TestSeedCrustIsDeterministic(t *testing.T) {
	g := core.Icosphere(3)
	k := crust.DefaultConstants()

	a := SeedCrust(g, DefaultSeedParams(), k)
	b := SeedCrust(g, DefaultSeedParams(), k)
	assert.Equal(t, a.Unsubductable, b.Unsubductable)
	assert.Equal(t, a.SubductableAge, b.SubductableAge)

	other := DefaultSeedParams()
	other.Seed++
	c := SeedCrust(g, other, k)
	assert.NotEqual(t, a.Unsubductable, c.Unsubductable)
}

func TestSeedCrustSplitsContinentsAndOceans(t *testing.T) {
	g := core.Icosphere(3)
	p := DefaultSeedParams()
	c := SeedCrust(g, p, crust.DefaultConstants())

	land, ocean := 0, 0
	for i := 0; i < g.Len(); i++ {
		col := c.Get(i)
		if col.Unsubductable > 0 {
			land++
			assert.Zero(t, col.Subductable)
			assert.Equal(t, p.SedimentThickness, col.Sediment)
		} else {
			ocean++
			assert.Equal(t, p.OceanThickness, col.Subductable)
			assert.GreaterOrEqual(t, col.SubductableAge, 0.0)
			assert.Less(t, col.SubductableAge, p.MaxOceanAge)
		}
		assert.Greater(t, col.Density, 0.0)
	}
	assert.Positive(t, land)
	assert.Positive(t, ocean)
}

func TestSeedCrustWithoutContinents(t *testing.T) {
	g := core.Icosphere(2)
	p := DefaultSeedParams()
	p.ContinentCount = 0

	c := SeedCrust(g, p, crust.DefaultConstants())
	assert.Zero(t, raster.Sum(c.Unsubductable))
	assert.InDelta(t, float64(g.Len())*p.OceanThickness, c.Mass(), 1e-6)
}
