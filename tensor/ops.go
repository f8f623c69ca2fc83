// Copyright 2026 Slate ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/slate-ml/slate/internal/tensor"
)

// ClearAsync queues a zero fill of every tile on its owning rank.
func ClearAsync[T DType](t *Tensor[T]) error { return tensor.ClearAsync(t) }

// Clear zeroes a tensor and waits for completion.
func Clear[T DType](t *Tensor[T]) error { return tensor.Clear(t) }

// FillAsync queues a constant fill of every tile on its owning rank.
func FillAsync[T DType](t *Tensor[T], value T) error { return tensor.FillAsync(t, value) }

// Fill writes a constant value across a tensor and waits for completion.
func Fill[T DType](t *Tensor[T], value T) error { return tensor.Fill(t, value) }

// AddAsync queues the elementwise accumulate dst += alpha*src. The tensors
// must share the world, the shape and the tiling.
func AddAsync[T DType](alpha float64, src, dst *Tensor[T]) error {
	return tensor.AddAsync(alpha, src, dst)
}

// Add is the blocking version of AddAsync.
func Add[T DType](alpha float64, src, dst *Tensor[T]) error {
	return tensor.Add(alpha, src, dst)
}

// CopyIntersectionAsync queues a copy of the overlapping region between two
// arbitrarily tiled, arbitrarily distributed tensors placed at srcOffset and
// dstOffset in a shared global coordinate space. Destination content outside
// the overlap is preserved.
func CopyIntersectionAsync[T DType](src *Tensor[T], srcOffset []int, dst *Tensor[T], dstOffset []int) error {
	return tensor.CopyIntersectionAsync(src, srcOffset, dst, dstOffset)
}

// CopyIntersection is the blocking version of CopyIntersectionAsync.
func CopyIntersection[T DType](src *Tensor[T], srcOffset []int, dst *Tensor[T], dstOffset []int) error {
	return tensor.CopyIntersection(src, srcOffset, dst, dstOffset)
}

// CopyAsync queues a copy between two tensors covering the same global
// region starting at the origin; the tilings and distributions may differ.
func CopyAsync[T DType](src, dst *Tensor[T]) error { return tensor.CopyAsync(src, dst) }

// Copy is the blocking version of CopyAsync.
func Copy[T DType](src, dst *Tensor[T]) error { return tensor.Copy(src, dst) }

// GatherAsync queues the collection of a distributed tensor into a
// single-tiled tensor on the destination's owning rank.
func GatherAsync[T DType](src, dst *Tensor[T]) error { return tensor.GatherAsync(src, dst) }

// Gather is the blocking version of GatherAsync.
func Gather[T DType](src, dst *Tensor[T]) error { return tensor.Gather(src, dst) }

// ScatterAsync queues the spread of a single-tiled tensor across a
// distributed grid.
func ScatterAsync[T DType](src, dst *Tensor[T]) error { return tensor.ScatterAsync(src, dst) }

// Scatter is the blocking version of ScatterAsync.
func Scatter[T DType](src, dst *Tensor[T]) error { return tensor.Scatter(src, dst) }
