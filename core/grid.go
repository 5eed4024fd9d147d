package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Grid is the fixed mesh topology that every raster is indexed against.
// Cell i owns element i of every raster built for the grid.
type Grid struct {
	Positions []mgl64.Vec3
	Faces     [][3]int

	// Neighbors lists the adjacent cells of each cell in ascending order.
	Neighbors     [][]int
	NeighborCount []int

	// Arrows holds every adjacency in both directions, sorted by (from, to).
	Arrows [][2]int
}

// NewGrid builds the adjacency of a triangulated mesh. Each vertex becomes a
// cell; each triangle edge becomes a pair of arrows.
func NewGrid(positions []mgl64.Vec3, faces [][3]int) *Grid {
	n := len(positions)

	// Use a set to avoid duplicates, shared edges appear in two faces
	neighborSets := make([]map[int]struct{}, n)
	for i := range neighborSets {
		neighborSets[i] = make(map[int]struct{})
	}

	link := func(a, b int) {
		if a == b {
			return
		}
		neighborSets[a][b] = struct{}{}
		neighborSets[b][a] = struct{}{}
	}

	for f, face := range faces {
		for _, v := range face {
			if v < 0 || v >= n {
				panic(fmt.Sprintf("core: face %d references vertex %d, grid has %d", f, v, n))
			}
		}
		link(face[0], face[1])
		link(face[1], face[2])
		link(face[2], face[0])
	}

	g := &Grid{
		Positions:     positions,
		Faces:         faces,
		Neighbors:     make([][]int, n),
		NeighborCount: make([]int, n),
	}

	arrowCount := 0
	for i, set := range neighborSets {
		neighbors := make([]int, 0, len(set))
		for j := range set {
			neighbors = append(neighbors, j)
		}
		sort.Ints(neighbors)
		g.Neighbors[i] = neighbors
		g.NeighborCount[i] = len(neighbors)
		arrowCount += len(neighbors)
	}

	g.Arrows = make([][2]int, 0, arrowCount)
	for from, neighbors := range g.Neighbors {
		for _, to := range neighbors {
			g.Arrows = append(g.Arrows, [2]int{from, to})
		}
	}

	return g
}

// Len returns the number of cells.
func (g *Grid) Len() int {
	return len(g.Positions)
}

// MustMatch panics when a raster of the given length cannot belong to g.
// Mismatched rasters are programming errors, not recoverable conditions.
func (g *Grid) MustMatch(length int, name string) {
	if length != len(g.Positions) {
		panic(fmt.Sprintf("core: %s has %d cells, grid has %d", name, length, len(g.Positions)))
	}
}

// NearestCell returns the cell whose position points closest to the
// direction of p. Ties go to the lower index.
func (g *Grid) NearestCell(p mgl64.Vec3) int {
	best, bestDot := -1, math.Inf(-1)
	for i, q := range g.Positions {
		if d := q.Normalize().Dot(p); d > bestDot {
			best, bestDot = i, d
		}
	}
	return best
}
