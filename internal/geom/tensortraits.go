package geom

import "fmt"

// TensorTraits describes how a tensor of a given shape is cut into a regular
// grid of tiles with a nominal base tile shape. Tiles at the maximal grid
// index along an axis may be undersized (the leftover), so that the union of
// tile shapes exactly covers the tensor shape with no gaps and no overlap.
type TensorTraits struct {
	TileTraits

	// BasetileShape is the nominal per-axis tile extent.
	BasetileShape Shape
	// LeftoverShape is the per-axis extent of boundary tiles. Equal to
	// BasetileShape on axes where the division is exact.
	LeftoverShape Shape
	// Grid is the tile-count geometry: Grid.Shape[i] == ceil(Shape[i]/BasetileShape[i]).
	Grid TileTraits
}

// NewTensorTraits computes the grid geometry for shape cut into basetile
// pieces. shape and basetile must have equal rank; on every axis where
// shape is positive, basetile must be positive and no larger than shape.
func NewTensorTraits(shape, basetile Shape) (TensorTraits, error) {
	if len(shape) != len(basetile) {
		return TensorTraits{}, fmt.Errorf("geom: shape rank %d does not match basetile rank %d",
			len(shape), len(basetile))
	}
	tile, err := NewTileTraits(shape)
	if err != nil {
		return TensorTraits{}, err
	}
	if err := basetile.Validate(); err != nil {
		return TensorTraits{}, err
	}
	gridShape := make(Shape, len(shape))
	leftover := make(Shape, len(shape))
	for i := range shape {
		if shape[i] == 0 {
			gridShape[i] = 0
			leftover[i] = 0
			continue
		}
		if basetile[i] <= 0 {
			return TensorTraits{}, fmt.Errorf("geom: basetile[%d]=%d must be positive for shape[%d]=%d",
				i, basetile[i], i, shape[i])
		}
		if basetile[i] > shape[i] {
			return TensorTraits{}, fmt.Errorf("geom: basetile[%d]=%d exceeds shape[%d]=%d",
				i, basetile[i], i, shape[i])
		}
		gridShape[i] = (shape[i] + basetile[i] - 1) / basetile[i]
		leftover[i] = shape[i] - basetile[i]*(gridShape[i]-1)
	}
	grid, err := NewTileTraits(gridShape)
	if err != nil {
		return TensorTraits{}, err
	}
	return TensorTraits{
		TileTraits:    tile,
		BasetileShape: basetile.Clone(),
		LeftoverShape: leftover,
		Grid:          grid,
	}, nil
}

// MustTensorTraits is NewTensorTraits that panics on invalid input.
func MustTensorTraits(shape, basetile Shape) TensorTraits {
	t, err := NewTensorTraits(shape, basetile)
	if err != nil {
		panic(err)
	}
	return t
}

// TileShape returns the shape of the tile at the given grid multi-index:
// the base tile on every axis except at the maximal grid index, where the
// leftover applies.
func (t TensorTraits) TileShape(gridIndex []int) Shape {
	if len(gridIndex) != t.NDim() {
		panic(fmt.Sprintf("geom: grid index rank %d does not match tensor rank %d",
			len(gridIndex), t.NDim()))
	}
	shape := make(Shape, t.NDim())
	for i, coord := range gridIndex {
		if coord < 0 || coord >= t.Grid.Shape[i] {
			panic(fmt.Sprintf("geom: grid index %v out of range for grid %v at axis %d",
				gridIndex, t.Grid.Shape, i))
		}
		if coord == t.Grid.Shape[i]-1 {
			shape[i] = t.LeftoverShape[i]
		} else {
			shape[i] = t.BasetileShape[i]
		}
	}
	return shape
}

// TileTraitsAt returns full tile traits for the tile at the given linear
// grid index.
func (t TensorTraits) TileTraitsAt(linear int) TileTraits {
	return MustTileTraits(t.TileShape(t.Grid.LinearToIndex(linear)))
}

// TileStart returns the global coordinate of the first element of the tile
// at the given grid multi-index.
func (t TensorTraits) TileStart(gridIndex []int) []int {
	start := make([]int, t.NDim())
	for i, coord := range gridIndex {
		start[i] = coord * t.BasetileShape[i]
	}
	return start
}

// SingleTiled reports whether the tensor consists of exactly one tile.
func (t TensorTraits) SingleTiled() bool {
	return t.Grid.NElems == 1
}

// String returns a compact human-readable description.
func (t TensorTraits) String() string {
	return fmt.Sprintf("TensorTraits{shape=%v basetile=%v leftover=%v grid=%v}",
		t.Shape, t.BasetileShape, t.LeftoverShape, t.Grid.Shape)
}
