package raster

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"crustsim/core"
)

// ImageSegmentation partitions cells into regions of similar direction.
//
// Seeds are taken in order of decreasing magnitude among the cells not yet
// visited, lowest index first on ties. From each seed a breadth-first fill
// claims connected cells whose unit vector lies within similarity (a cosine)
// of the seed's. Regions of at least minSize cells receive ids 1, 2, ...
// until segmentNum regions exist; smaller regions are left at 0 and are not
// reseeded.
func ImageSegmentation(g *core.Grid, field Vector, segmentNum, minSize int, similarity float64, out Labels) Labels {
	g.MustMatch(len(field), "segmentation input")
	n := len(field)
	out = ensureLabels(out, n)
	for i := range out {
		out[i] = 0
	}

	magnitude := Magnitude(field, nil)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return magnitude[order[a]] > magnitude[order[b]]
	})

	visited := NewMask(n)
	queue := make([]int, 0, n)
	region := make([]int, 0, n)

	id := 0
	next := 0
	for id < segmentNum {
		for next < n && visited[order[next]] {
			next++
		}
		if next == n {
			break
		}
		seed := order[next]

		direction := field[seed]
		queue = append(queue[:0], seed)
		region = region[:0]
		visited[seed] = true
		for len(queue) > 0 {
			cell := queue[0]
			queue = queue[1:]
			region = append(region, cell)
			for _, neighbor := range g.Neighbors[cell] {
				if visited[neighbor] || !similar(direction, field[neighbor], similarity) {
					continue
				}
				visited[neighbor] = true
				queue = append(queue, neighbor)
			}
		}

		if len(region) < minSize {
			continue
		}
		id++
		for _, cell := range region {
			out[cell] = id
		}
	}

	return out
}

func similar(a, b mgl64.Vec3, similarity float64) bool {
	if a == b {
		return true
	}
	la, lb := a.Len(), b.Len()
	if la == 0 || lb == 0 {
		return false
	}
	return a.Dot(b)/(la*lb) >= similarity
}
