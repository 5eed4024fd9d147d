package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Icosphere returns a unit-sphere grid built by repeatedly subdividing an
// icosahedron. Level 0 has 12 cells; each level multiplies faces by four.
func Icosphere(subdivisions int) *Grid {
	// Golden ratio
	t := (1.0 + math.Sqrt(5.0)) / 2.0

	positions := []mgl64.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}

	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	for i := 0; i < subdivisions; i++ {
		positions, faces = subdivide(positions, faces)
	}

	for i := range positions {
		positions[i] = positions[i].Normalize()
	}

	return NewGrid(positions, faces)
}

func subdivide(positions []mgl64.Vec3, faces [][3]int) ([]mgl64.Vec3, [][3]int) {
	midpoints := make(map[[2]int]int)
	newPositions := make([]mgl64.Vec3, len(positions), len(positions)+len(faces)*3/2)
	copy(newPositions, positions)
	newFaces := make([][3]int, 0, len(faces)*4)

	getMidpoint := func(i1, i2 int) int {
		key := [2]int{i1, i2}
		if i1 > i2 {
			key = [2]int{i2, i1}
		}
		if mid, exists := midpoints[key]; exists {
			return mid
		}
		newPositions = append(newPositions, positions[i1].Add(positions[i2]).Mul(0.5))
		midpoints[key] = len(newPositions) - 1
		return midpoints[key]
	}

	for _, f := range faces {
		v1, v2, v3 := f[0], f[1], f[2]
		m1 := getMidpoint(v1, v2)
		m2 := getMidpoint(v2, v3)
		m3 := getMidpoint(v3, v1)

		newFaces = append(newFaces,
			[3]int{v1, m1, m3},
			[3]int{v2, m2, m1},
			[3]int{v3, m3, m2},
			[3]int{m1, m2, m3},
		)
	}

	return newPositions, newFaces
}

// Tetrahedron returns the smallest closed grid: four cells, each adjacent to
// the other three.
func Tetrahedron() *Grid {
	return NewGrid(
		[]mgl64.Vec3{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
		[][3]int{
			{0, 1, 2},
			{0, 1, 3},
			{0, 2, 3},
			{1, 2, 3},
		},
	)
}
