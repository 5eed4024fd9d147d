package simulation

import (
	"crustsim/core"
	"crustsim/crust"
	"crustsim/raster"
)

// PlateMap partitions cells into plates from a vector field such as the
// asthenosphere velocity.
//
// The field is first segmented into at most segmentNum regions, dropping
// those under minSegmentSize cells. Each surviving plate, in ascending id
// order, is then dilated and closed by MorphologyRadius and written back
// wherever no other plate already sits. Lower ids therefore win contested
// cells. Cells no plate reaches stay 0.
func PlateMap(g *core.Grid, field raster.Vector, segmentNum, minSegmentSize int, c crust.Constants, out raster.Labels) raster.Labels {
	out = raster.ImageSegmentation(g, field, segmentNum, minSegmentSize, c.SegmentationSimilarity, out)

	n := g.Len()
	segment := raster.NewMask(n)
	empty := raster.NewMask(n)
	occupied := raster.NewMask(n)
	scratch := raster.NewMask(n)

	for _, id := range raster.Unique(out) {
		if id == 0 {
			continue
		}
		// occupancy is read from out as it is being rewritten
		raster.Equal(out, id, segment)
		raster.Equal(out, 0, empty)
		raster.NotEqual(out, id, occupied)
		raster.Difference(occupied, empty, occupied)

		raster.Dilation(g, segment, c.MorphologyRadius, segment, scratch)
		raster.Closing(g, segment, c.MorphologyRadius, segment, scratch)
		raster.Difference(segment, occupied, segment)
		raster.FillIntoSelection(out, id, segment, out)
	}

	return out
}
