package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeNumElems(t *testing.T) {
	tests := []struct {
		shape    Shape
		expected int
	}{
		{Shape{}, 1}, // Scalar
		{Shape{5}, 5},
		{Shape{3, 4}, 12},
		{Shape{2, 3, 4}, 24},
		{Shape{11, 12, 13}, 1716},
		{Shape{3, 0, 4}, 0}, // Empty axis
	}
	for _, tt := range tests {
		if got := tt.shape.NumElems(); got != tt.expected {
			t.Errorf("Shape%v.NumElems() = %d, want %d", tt.shape, got, tt.expected)
		}
	}
}

func TestShapeValidate(t *testing.T) {
	for _, s := range []Shape{{}, {1}, {3, 4}, {0, 2}} {
		if err := s.Validate(); err != nil {
			t.Errorf("Shape%v.Validate() failed: %v", s, err)
		}
	}
	for _, s := range []Shape{{-1}, {3, -4}} {
		if err := s.Validate(); err == nil {
			t.Errorf("Shape%v.Validate() should have failed", s)
		}
	}
}

func TestTileTraitsStrides(t *testing.T) {
	tests := []struct {
		shape  Shape
		stride []int
		nelems int
	}{
		{Shape{}, []int{}, 1},
		{Shape{7}, []int{1}, 7},
		{Shape{2, 3}, []int{1, 2}, 6},
		{Shape{2, 3, 4}, []int{1, 2, 6}, 24},
		{Shape{11, 12, 13}, []int{1, 11, 132}, 1716},
	}
	for _, tt := range tests {
		tr, err := NewTileTraits(tt.shape)
		require.NoError(t, err)
		assert.Equal(t, tt.nelems, tr.NElems, "nelems for %v", tt.shape)
		assert.Len(t, tr.Stride, len(tt.stride))
		for i := range tt.stride {
			assert.Equal(t, tt.stride[i], tr.Stride[i], "stride[%d] for %v", i, tt.shape)
		}
		// Invariant: nelems == stride[ndim-1]*shape[ndim-1] for ndim > 0.
		if tr.NDim() > 0 {
			last := tr.NDim() - 1
			assert.Equal(t, tr.NElems, tr.Stride[last]*tr.Shape[last])
		}
	}
}

func TestIndexRoundTrip(t *testing.T) {
	shapes := []Shape{{}, {1}, {7}, {2, 3}, {2, 3, 4}, {5, 1, 6}}
	for _, shape := range shapes {
		tr := MustTileTraits(shape)
		for i := 0; i < tr.NElems; i++ {
			index := tr.LinearToIndex(i)
			if got := tr.IndexToLinear(index); got != i {
				t.Fatalf("shape %v: IndexToLinear(LinearToIndex(%d)) = %d", shape, i, got)
			}
		}
	}
}

func TestIndexToLinearPanicsOutOfRange(t *testing.T) {
	tr := MustTileTraits(Shape{2, 3})
	assert.Panics(t, func() { tr.IndexToLinear([]int{2, 0}) })
	assert.Panics(t, func() { tr.IndexToLinear([]int{0, -1}) })
	assert.Panics(t, func() { tr.IndexToLinear([]int{0}) })
	assert.Panics(t, func() { tr.LinearToIndex(6) })
	assert.Panics(t, func() { tr.LinearToIndex(-1) })
}

func TestTensorTraitsGrid(t *testing.T) {
	tests := []struct {
		shape    Shape
		basetile Shape
		grid     Shape
		leftover Shape
	}{
		{Shape{}, Shape{}, Shape{}, Shape{}},
		{Shape{10}, Shape{5}, Shape{2}, Shape{5}},
		{Shape{11}, Shape{5}, Shape{3}, Shape{1}},
		{Shape{11, 12, 13}, Shape{2, 3, 4}, Shape{6, 4, 4}, Shape{1, 3, 1}},
		{Shape{11, 12, 13}, Shape{11, 12, 13}, Shape{1, 1, 1}, Shape{11, 12, 13}},
	}
	for _, tt := range tests {
		tr, err := NewTensorTraits(tt.shape, tt.basetile)
		require.NoError(t, err, "shape %v basetile %v", tt.shape, tt.basetile)
		assert.True(t, tr.Grid.Shape.Equal(tt.grid), "grid for %v/%v: got %v want %v",
			tt.shape, tt.basetile, tr.Grid.Shape, tt.grid)
		assert.True(t, tr.LeftoverShape.Equal(tt.leftover), "leftover for %v/%v: got %v want %v",
			tt.shape, tt.basetile, tr.LeftoverShape, tt.leftover)
	}
}

func TestTensorTraitsRejectsBadBasetile(t *testing.T) {
	_, err := NewTensorTraits(Shape{4, 4}, Shape{4})
	assert.Error(t, err, "rank mismatch")
	_, err = NewTensorTraits(Shape{4}, Shape{0})
	assert.Error(t, err, "zero basetile on non-empty axis")
	_, err = NewTensorTraits(Shape{4}, Shape{5})
	assert.Error(t, err, "basetile exceeds shape")
}

// The union of tile shapes over the grid must exactly cover the tensor
// shape: the per-tile element counts sum to the tensor's element count.
func TestTileShapesCoverTensor(t *testing.T) {
	tests := []struct {
		shape    Shape
		basetile Shape
	}{
		{Shape{}, Shape{}},
		{Shape{10}, Shape{3}},
		{Shape{11, 12, 13}, Shape{2, 3, 4}},
		{Shape{11, 12, 13}, Shape{3, 4, 5}},
		{Shape{8, 8}, Shape{4, 4}},
	}
	for _, tt := range tests {
		tr := MustTensorTraits(tt.shape, tt.basetile)
		total := 0
		for i := 0; i < tr.Grid.NElems; i++ {
			tileTraits := tr.TileTraitsAt(i)
			total += tileTraits.NElems
			for axis, dim := range tileTraits.Shape {
				assert.LessOrEqual(t, dim, tt.basetile[axis])
				assert.Greater(t, dim, 0)
			}
		}
		assert.Equal(t, tt.shape.NumElems(), total, "shape %v basetile %v", tt.shape, tt.basetile)
	}
}

func TestTileShapeLeftover(t *testing.T) {
	tr := MustTensorTraits(Shape{11, 12, 13}, Shape{2, 3, 4})
	// Interior tile keeps the base tile shape.
	assert.True(t, tr.TileShape([]int{0, 0, 0}).Equal(Shape{2, 3, 4}))
	// Maximal grid index along an axis gets the leftover.
	assert.True(t, tr.TileShape([]int{5, 0, 0}).Equal(Shape{1, 3, 4}))
	assert.True(t, tr.TileShape([]int{5, 3, 3}).Equal(Shape{1, 3, 1}))
}

func TestTileStart(t *testing.T) {
	tr := MustTensorTraits(Shape{11, 12, 13}, Shape{2, 3, 4})
	assert.Equal(t, []int{0, 0, 0}, tr.TileStart([]int{0, 0, 0}))
	assert.Equal(t, []int{10, 9, 12}, tr.TileStart([]int{5, 3, 3}))
}

// Zero-dimensional tensors are degenerate but fully supported: the grid has
// exactly one tile, which is the tensor itself.
func TestZeroDimTensor(t *testing.T) {
	tr := MustTensorTraits(Shape{}, Shape{})
	assert.Equal(t, 1, tr.Grid.NElems)
	assert.Equal(t, 1, tr.NElems)
	assert.True(t, tr.SingleTiled())
	assert.Empty(t, tr.TileShape([]int{}))
	assert.Equal(t, 0, tr.Grid.IndexToLinear([]int{}))
}
