package geom

// Intersection is the overlap of two axis-aligned boxes in a shared global
// coordinate space, expressed in each box's local coordinates.
type Intersection struct {
	// SrcStart and DstStart are the local start coordinates of the overlap
	// inside the source and destination boxes.
	SrcStart []int
	DstStart []int
	// Shape is the per-axis extent of the overlap.
	Shape Shape
	// FullOverwrite reports whether the overlap covers the entire
	// destination box on every axis.
	FullOverwrite bool
}

// Intersect computes the overlap between a source box at srcOffset with
// srcShape and a destination box at dstOffset with dstShape. The second
// return is false when the boxes do not overlap on some axis; the copy for
// such a pair costs exactly nothing, no task is needed.
func Intersect(srcOffset []int, srcShape Shape, dstOffset []int, dstShape Shape) (Intersection, bool) {
	ndim := len(srcShape)
	is := Intersection{
		SrcStart:      make([]int, ndim),
		DstStart:      make([]int, ndim),
		Shape:         make(Shape, ndim),
		FullOverwrite: true,
	}
	for i := 0; i < ndim; i++ {
		if srcOffset[i]+srcShape[i] <= dstOffset[i] || dstOffset[i]+dstShape[i] <= srcOffset[i] {
			return Intersection{}, false
		}
		if srcOffset[i] < dstOffset[i] {
			// Copy to the beginning of the destination.
			is.DstStart[i] = 0
			is.SrcStart[i] = dstOffset[i] - srcOffset[i]
			is.Shape[i] = min(srcShape[i]-is.SrcStart[i], dstShape[i])
		} else {
			// Copy from the beginning of the source.
			is.DstStart[i] = srcOffset[i] - dstOffset[i]
			is.SrcStart[i] = 0
			is.Shape[i] = min(dstShape[i]-is.DstStart[i], srcShape[i])
		}
		if is.Shape[i] != dstShape[i] {
			is.FullOverwrite = false
		}
	}
	return is, true
}
