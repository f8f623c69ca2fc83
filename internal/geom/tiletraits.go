package geom

import "fmt"

// TileTraits holds the immutable indexing properties of one contiguous,
// column-major tile: its shape, strides and element count.
//
// Strides follow Fortran order: Stride[0] == 1 and
// Stride[i] == Stride[i-1]*Shape[i-1]. A zero-dimensional tile is a scalar
// with NElems == 1.
type TileTraits struct {
	Shape  Shape
	Stride []int
	NElems int
}

// NewTileTraits computes traits for the given shape.
func NewTileTraits(shape Shape) (TileTraits, error) {
	if err := shape.Validate(); err != nil {
		return TileTraits{}, err
	}
	t := TileTraits{
		Shape:  shape.Clone(),
		Stride: make([]int, len(shape)),
		NElems: 1,
	}
	for i, dim := range t.Shape {
		t.Stride[i] = t.NElems
		t.NElems *= dim
	}
	return t, nil
}

// MustTileTraits is NewTileTraits that panics on an invalid shape.
// Intended for literals in tests and for shapes already validated upstream.
func MustTileTraits(shape Shape) TileTraits {
	t, err := NewTileTraits(shape)
	if err != nil {
		panic(err)
	}
	return t
}

// NDim returns the number of dimensions.
func (t TileTraits) NDim() int {
	return len(t.Shape)
}

// LinearToIndex converts a linear element offset into a multi-index.
// Panics if linear is outside [0, NElems).
func (t TileTraits) LinearToIndex(linear int) []int {
	if linear < 0 || linear >= t.NElems {
		panic(fmt.Sprintf("geom: linear index %d out of range [0, %d)", linear, t.NElems))
	}
	index := make([]int, len(t.Shape))
	for i := len(t.Shape) - 1; i >= 1; i-- {
		index[i] = linear / t.Stride[i]
		linear -= index[i] * t.Stride[i]
	}
	if len(t.Shape) > 0 {
		index[0] = linear
	}
	return index
}

// IndexToLinear converts a multi-index into a linear element offset.
// Panics if the index has the wrong rank or any coordinate is out of range;
// an out-of-range index must be avoided by construction, never silently
// wrapped.
func (t TileTraits) IndexToLinear(index []int) int {
	if len(index) != len(t.Shape) {
		panic(fmt.Sprintf("geom: index rank %d does not match shape rank %d", len(index), len(t.Shape)))
	}
	linear := 0
	for i, coord := range index {
		if coord < 0 || coord >= t.Shape[i] {
			panic(fmt.Sprintf("geom: index %v out of range for shape %v at axis %d", index, t.Shape, i))
		}
		linear += coord * t.Stride[i]
	}
	return linear
}

// Contains reports whether the multi-index addresses an element of the tile.
func (t TileTraits) Contains(index []int) bool {
	if len(index) != len(t.Shape) {
		return false
	}
	for i, coord := range index {
		if coord < 0 || coord >= t.Shape[i] {
			return false
		}
	}
	return true
}

// String returns a compact human-readable description.
func (t TileTraits) String() string {
	return fmt.Sprintf("TileTraits{shape=%v stride=%v nelems=%d}", t.Shape, t.Stride, t.NElems)
}
