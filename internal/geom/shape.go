// Package geom provides the tile and tensor indexing math for the Slate
// engine: shapes, column-major strides, tile grids and the bidirectional
// linear/multi-index conversions everything else is built on.
package geom

import "fmt"

// Shape represents the per-axis extents of a tensor or tile.
// A zero-length Shape is a scalar.
type Shape []int

// NumElems returns the total number of elements covered by the shape.
// A scalar shape has exactly one element.
func (s Shape) NumElems() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that every dimension is non-negative.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are elementwise equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}
