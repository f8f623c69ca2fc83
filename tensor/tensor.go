// Copyright 2026 Slate ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for distributed tiled tensors.
//
// A tensor is a multi-dimensional array split into a grid of column-major
// tiles, each owned by one node of a world. Operations are submitted as
// dependency-tracked tasks; the *Async variants return once queued, the
// blocking variants wait for the whole graph.
//
// Example:
//
//	ctx := runtime.New(runtime.DefaultConfig())
//	defer ctx.Close()
//	world, _ := runtime.NewWorld(ctx, 3)
//
//	traits := tensor.MustTensorTraits(tensor.Shape{11, 12, 13}, tensor.Shape{2, 3, 4})
//	tag := runtime.Tag(0)
//	x, _ := tensor.New[float32](world, traits, distr, &tag)
//	_ = tensor.Clear(x)
package tensor

import (
	"github.com/slate-ml/slate/internal/dtype"
	"github.com/slate-ml/slate/internal/geom"
	"github.com/slate-ml/slate/internal/tensor"
	"github.com/slate-ml/slate/internal/tile"
	"github.com/slate-ml/slate/runtime"
)

// Type aliases for the public API.

// DType is the constraint for tensor element types.
// Supported types: float32, float64, int64, float16.Float16.
type DType = dtype.DType

// DataType is runtime type information for tensor elements.
type DataType = dtype.DataType

// Data type constants.
const (
	Float32 DataType = dtype.Float32
	Float64 DataType = dtype.Float64
	Float16 DataType = dtype.Float16
	Int64   DataType = dtype.Int64
)

// Shape represents the dimensions of a tensor or tile.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = geom.Shape

// TileTraits is the geometry of one contiguous column-major tile.
type TileTraits = geom.TileTraits

// TensorTraits extends TileTraits with the base-tile split and the
// resulting tile grid.
type TensorTraits = geom.TensorTraits

// Tile is one contiguous typed buffer of a tensor.
type Tile[T DType] = tile.Tile[T]

// Tensor is a logical multi-dimensional array realized as a distributed
// grid of tiles.
type Tensor[T DType] = tensor.Tensor[T]

// NewTileTraits computes the geometry of one tile.
func NewTileTraits(shape Shape) (TileTraits, error) {
	return geom.NewTileTraits(shape)
}

// MustTileTraits is NewTileTraits panicking on invalid shapes.
func MustTileTraits(shape Shape) TileTraits {
	return geom.MustTileTraits(shape)
}

// NewTensorTraits computes the tile-grid geometry for a shape split by a
// base tile shape.
func NewTensorTraits(shape, basetile Shape) (TensorTraits, error) {
	return geom.NewTensorTraits(shape, basetile)
}

// MustTensorTraits is NewTensorTraits panicking on invalid arguments.
func MustTensorTraits(shape, basetile Shape) TensorTraits {
	return geom.MustTensorTraits(shape, basetile)
}

// New constructs a distributed tensor over a world. distr maps every linear
// tile index to its owning rank; nextTag supplies the first tag of the
// contiguous block the tensor consumes and is advanced past it.
func New[T DType](w *runtime.World, traits TensorTraits, distr []int, nextTag *runtime.Tag) (*Tensor[T], error) {
	return tensor.New[T](w, traits, distr, nextTag)
}
