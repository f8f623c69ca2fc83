package tensor

import (
	"github.com/pkg/errors"

	"github.com/slate-ml/slate/internal/codelet"
	"github.com/slate-ml/slate/internal/dtype"
	"github.com/slate-ml/slate/internal/geom"
	"github.com/slate-ml/slate/internal/tile"
)

// CopyIntersectionAsync copies the overlapping region between two
// arbitrarily tiled, arbitrarily distributed tensors placed at srcOffset
// and dstOffset in a shared global coordinate space. Destination content
// outside the overlap is preserved. This is the general reshard primitive;
// Gather and Scatter are its specializations.
func CopyIntersectionAsync[T dtype.DType](src *Tensor[T], srcOffset []int, dst *Tensor[T], dstOffset []int) error {
	if err := sameWorld(src, dst); err != nil {
		return err
	}
	ndim := src.NDim()
	if dst.NDim() != ndim {
		return errors.Errorf("tensor: copy between ranks %d and %d", ndim, dst.NDim())
	}
	if len(srcOffset) != ndim || len(dstOffset) != ndim {
		return errors.Errorf("tensor: offsets must have rank %d", ndim)
	}
	w := src.world
	ctx := src.runtime()
	dt := src.DataType()

	// Scalars bypass the grid walk entirely.
	if ndim == 0 {
		rank := dst.Owner(0)
		if err := w.Transfer(src.Tile(0).Handle(), rank); err != nil {
			return err
		}
		if err := codelet.SubmitCopy0D(ctx, rank, dt, src.Tile(0).Handle(), dst.Tile(0).Handle()); err != nil {
			return err
		}
		return w.Flush(dst.Tile(0).Handle())
	}

	scratch, err := newScratch(ctx, ndim)
	if err != nil {
		return err
	}
	for i := 0; i < dst.Grid.NElems; i++ {
		rank := dst.Owner(i)
		dstTile := dst.Tile(i)
		dstStart := offsetBy(dst.TileStart(dst.Grid.LinearToIndex(i)), dstOffset)
		touched := false
		for j := 0; j < src.Grid.NElems; j++ {
			srcTile := src.Tile(j)
			srcStart := offsetBy(src.TileStart(src.Grid.LinearToIndex(j)), srcOffset)
			if _, ok := geom.Intersect(srcStart, srcTile.Shape, dstStart, dstTile.Shape); !ok {
				// Exactly zero compute and zero transfer for disjoint pairs.
				continue
			}
			if err := w.Transfer(srcTile.Handle(), rank); err != nil {
				return err
			}
			if err := tile.CopyIntersection(ctx, rank, srcTile, srcStart, dstTile, dstStart, scratch); err != nil {
				return err
			}
			touched = true
		}
		if touched {
			if err := w.Flush(dstTile.Handle()); err != nil {
				return err
			}
		}
	}
	return nil
}

// CopyIntersection is the blocking version of CopyIntersectionAsync.
func CopyIntersection[T dtype.DType](src *Tensor[T], srcOffset []int, dst *Tensor[T], dstOffset []int) error {
	if err := CopyIntersectionAsync(src, srcOffset, dst, dstOffset); err != nil {
		return err
	}
	return src.runtime().WaitForAll()
}

// CopyAsync copies src into dst where both cover the same global region
// starting at the origin.
func CopyAsync[T dtype.DType](src, dst *Tensor[T]) error {
	zero := make([]int, src.NDim())
	return CopyIntersectionAsync(src, zero, dst, zero)
}

// Copy is the blocking version of CopyAsync.
func Copy[T dtype.DType](src, dst *Tensor[T]) error {
	if err := CopyAsync(src, dst); err != nil {
		return err
	}
	return src.runtime().WaitForAll()
}

// offsetBy returns a+b elementwise.
func offsetBy(a, b []int) []int {
	out := make([]int, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}
