package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTetrahedronTopology(t *testing.T) {
	g := Tetrahedron()

	require.Equal(t, 4, g.Len())
	assert.Len(t, g.Arrows, 12)
	for i := 0; i < g.Len(); i++ {
		assert.Equal(t, 3, g.NeighborCount[i], "cell %d", i)
	}
	assert.Equal(t, [2]int{0, 1}, g.Arrows[0])
	assert.Equal(t, [2]int{3, 2}, g.Arrows[11])
}

func TestIcosphereCounts(t *testing.T) {
	tests := []struct {
		level     int
		wantCells int
	}{
		{0, 12},
		{1, 42},
		{2, 162},
		{3, 642},
	}

	for _, tc := range tests {
		g := Icosphere(tc.level)
		assert.Equal(t, tc.wantCells, g.Len(), "level %d", tc.level)
		assert.Len(t, g.Faces, 20<<(2*tc.level))

		// Euler: E = F*3/2, and every edge yields two arrows
		assert.Len(t, g.Arrows, len(g.Faces)*3)
	}
}

func TestIcosphereArrowsAreSymmetric(t *testing.T) {
	g := Icosphere(2)

	seen := make(map[[2]int]bool, len(g.Arrows))
	for _, a := range g.Arrows {
		seen[a] = true
	}
	for _, a := range g.Arrows {
		assert.True(t, seen[[2]int{a[1], a[0]}], "arrow %v has no reverse", a)
		assert.NotEqual(t, a[0], a[1])
	}

	for i, p := range g.Positions {
		assert.InDelta(t, 1.0, p.Len(), 1e-12, "cell %d", i)
		count := g.NeighborCount[i]
		assert.True(t, count == 5 || count == 6, "cell %d has %d neighbors", i, count)
	}
}

func TestArrowsAreSorted(t *testing.T) {
	g := Icosphere(1)
	for i := 1; i < len(g.Arrows); i++ {
		prev, cur := g.Arrows[i-1], g.Arrows[i]
		ordered := prev[0] < cur[0] || (prev[0] == cur[0] && prev[1] < cur[1])
		require.True(t, ordered, "arrows %v then %v", prev, cur)
	}
}

func TestNewGridRejectsBadFace(t *testing.T) {
	assert.Panics(t, func() {
		NewGrid([]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}}, [][3]int{{0, 1, 2}})
	})
}

func TestMustMatch(t *testing.T) {
	g := Tetrahedron()
	assert.NotPanics(t, func() { g.MustMatch(4, "sediment") })
	assert.PanicsWithValue(t, "core: sediment has 3 cells, grid has 4", func() { g.MustMatch(3, "sediment") })
}

func TestNearestCell(t *testing.T) {
	g := Icosphere(2)
	for i, p := range g.Positions {
		assert.Equal(t, i, g.NearestCell(p), "cell %d", i)
		// length does not matter, only direction
		assert.Equal(t, i, g.NearestCell(p.Mul(6.371e6)), "cell %d", i)
	}

	pole := GeographicToCartesian(Geographic{Lat: DegreesToRadians(89.9)}, 1)
	nearest := g.NearestCell(pole)
	assert.Greater(t, g.Positions[nearest].Normalize().Y(), 0.95)
}
