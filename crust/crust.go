// Package crust holds the per-cell composition of a planet's crust and the
// pure transforms that derive thickness, density, subductability and
// isostatic displacement from it.
package crust

import (
	"crustsim/core"
	"crustsim/raster"
)

// Crust is the set of rasters describing a planet's crust.
//
// Subductable, Unsubductable and Sediment are conserved thicknesses: this
// package only moves them around. Thickness, Density and Displacement are
// derived and must be refreshed with UpdateDerived after any change.
type Crust struct {
	Grid *core.Grid

	// Subductable is the dense basaltic layer, the only one that ages.
	Subductable    raster.Scalar
	SubductableAge raster.Scalar

	// Unsubductable is the buoyant felsic layer.
	Unsubductable raster.Scalar

	// Sediment is loose weathered material lying on the bedrock.
	Sediment raster.Scalar

	Thickness    raster.Scalar
	Density      raster.Scalar
	Displacement raster.Scalar

	scratch raster.Scalar
}

// RockColumn is a single cell of a Crust.
type RockColumn struct {
	Subductable    float64
	SubductableAge float64
	Unsubductable  float64
	Sediment       float64

	Thickness    float64
	Density      float64
	Displacement float64
}

// New allocates an empty crust on g.
func New(g *core.Grid) *Crust {
	n := g.Len()
	return &Crust{
		Grid:           g,
		Subductable:    raster.NewScalar(n),
		SubductableAge: raster.NewScalar(n),
		Unsubductable:  raster.NewScalar(n),
		Sediment:       raster.NewScalar(n),
		Thickness:      raster.NewScalar(n),
		Density:        raster.NewScalar(n),
		Displacement:   raster.NewScalar(n),
		scratch:        raster.NewScalar(n),
	}
}

func (c *Crust) fields() []raster.Scalar {
	return []raster.Scalar{
		c.Subductable, c.SubductableAge, c.Unsubductable, c.Sediment,
		c.Thickness, c.Density, c.Displacement,
	}
}

// Get returns the column at cell i.
func (c *Crust) Get(i int) RockColumn {
	return RockColumn{
		Subductable:    c.Subductable[i],
		SubductableAge: c.SubductableAge[i],
		Unsubductable:  c.Unsubductable[i],
		Sediment:       c.Sediment[i],
		Thickness:      c.Thickness[i],
		Density:        c.Density[i],
		Displacement:   c.Displacement[i],
	}
}

// Set overwrites cell i with col.
func (c *Crust) Set(i int, col RockColumn) {
	c.Subductable[i] = col.Subductable
	c.SubductableAge[i] = col.SubductableAge
	c.Unsubductable[i] = col.Unsubductable
	c.Sediment[i] = col.Sediment
	c.Thickness[i] = col.Thickness
	c.Density[i] = col.Density
	c.Displacement[i] = col.Displacement
}

// Fill sets every cell to col.
func (c *Crust) Fill(col RockColumn) {
	for i := 0; i < c.Grid.Len(); i++ {
		c.Set(i, col)
	}
}

// FillIntoSelection sets the selected cells to col.
func (c *Crust) FillIntoSelection(col RockColumn, selection raster.Mask) {
	c.Grid.MustMatch(len(selection), "selection")
	for i, selected := range selection {
		if selected {
			c.Set(i, col)
		}
	}
}

// CopyFrom copies every field of src into c.
func (c *Crust) CopyFrom(src *Crust) {
	dst := c.fields()
	for k, f := range src.fields() {
		c.Grid.MustMatch(len(f), "source crust")
		copy(dst[k], f)
	}
}

// CopyIntoSelection copies the selected cells of src into c.
func (c *Crust) CopyIntoSelection(src *Crust, selection raster.Mask) {
	c.Grid.MustMatch(len(selection), "selection")
	for i, selected := range selection {
		if selected {
			c.Set(i, src.Get(i))
		}
	}
}

// UpdateDerived recomputes thickness, density and displacement from the
// composition.
func (c *Crust) UpdateDerived(k Constants) {
	Thickness(c.Unsubductable, c.Sediment, c.Subductable, c.Thickness)
	Density(c.Subductable, c.Unsubductable, c.Sediment, c.SubductableAge, k, c.Density, c.scratch)
	Displacement(c.Thickness, c.Density, k.MantleDensity, c.Displacement)
}

// ApplyDelta adds signed layer changes to the composition, clamping each
// layer at zero so floating-point residue never leaves negative rock.
// Either delta may be nil.
func (c *Crust) ApplyDelta(sedimentDelta, unsubductableDelta raster.Scalar) {
	apply := func(layer, delta raster.Scalar) {
		if delta == nil {
			return
		}
		raster.AddField(layer, delta, layer)
		raster.MaxScalar(layer, 0, layer)
	}
	apply(c.Sediment, sedimentDelta)
	apply(c.Unsubductable, unsubductableDelta)
}

// Mass returns the summed thickness of all conserved layers.
func (c *Crust) Mass() float64 {
	return raster.Sum(c.Subductable) + raster.Sum(c.Unsubductable) + raster.Sum(c.Sediment)
}
