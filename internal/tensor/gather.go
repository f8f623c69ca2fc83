package tensor

import (
	"github.com/pkg/errors"

	"github.com/slate-ml/slate/internal/codelet"
	"github.com/slate-ml/slate/internal/dtype"
	"github.com/slate-ml/slate/internal/runtime"
)

// GatherAsync collects a distributed grid of tiles into a single-tiled
// tensor: every source tile is transferred to the destination's owning
// rank and intersection-copied into place. A single-source gather bypasses
// the intersection machinery with a raw buffer copy.
func GatherAsync[T dtype.DType](src, dst *Tensor[T]) error {
	if err := sameWorld(src, dst); err != nil {
		return err
	}
	if !dst.SingleTiled() {
		return errors.New("tensor: gather destination must be single-tiled")
	}
	if !src.Shape.Equal(dst.Shape) {
		return errors.Errorf("tensor: gather shape mismatch: %v vs %v", src.Shape, dst.Shape)
	}
	w := src.world
	ctx := src.runtime()
	dt := src.DataType()
	dstTile := dst.Tile(0)
	dstRank := dst.Owner(0)

	// Single source tile: the tensors have identical geometry, copy raw.
	if src.SingleTiled() {
		if err := w.Transfer(src.Tile(0).Handle(), dstRank); err != nil {
			return err
		}
		if err := codelet.SubmitRawCopy(ctx, dstRank, dt, src.Tile(0).Handle(), dstTile.Handle()); err != nil {
			return err
		}
		return w.Flush(dstTile.Handle())
	}

	ndim := src.NDim()
	scratch, err := newScratch(ctx, ndim)
	if err != nil {
		return err
	}
	for i := 0; i < src.Grid.NElems; i++ {
		srcTile := src.Tile(i)
		if err := w.Transfer(srcTile.Handle(), dstRank); err != nil {
			return err
		}
		// The first copy declares Write-only access: the destination is
		// overwritten piecewise and nothing of its prior content survives.
		// Later copies preserve what earlier ones wrote.
		mode := runtime.ReadWrite
		if i == 0 {
			mode = runtime.Write
		}
		args := codelet.SubcopyArgs{
			NDim:      ndim,
			SrcStart:  make([]int, ndim),
			SrcStride: srcTile.Stride,
			CopyShape: srcTile.Shape,
			DstStart:  src.TileStart(src.Grid.LinearToIndex(i)),
			DstStride: dstTile.Stride,
		}
		if err := codelet.SubmitSubcopy(ctx, dstRank, dt, args,
			srcTile.Handle(), dstTile.Handle(), scratch, mode); err != nil {
			return err
		}
	}
	return w.Flush(dstTile.Handle())
}

// Gather is the blocking version of GatherAsync.
func Gather[T dtype.DType](src, dst *Tensor[T]) error {
	if err := GatherAsync(src, dst); err != nil {
		return err
	}
	return src.runtime().WaitForAll()
}

// ScatterAsync is the inverse of GatherAsync: it spreads a single-tiled
// tensor across a distributed grid. Each destination tile is fully
// overwritten on its owning rank from the transferred source tile.
func ScatterAsync[T dtype.DType](src, dst *Tensor[T]) error {
	if err := sameWorld(src, dst); err != nil {
		return err
	}
	if !src.SingleTiled() {
		return errors.New("tensor: scatter source must be single-tiled")
	}
	if !src.Shape.Equal(dst.Shape) {
		return errors.Errorf("tensor: scatter shape mismatch: %v vs %v", src.Shape, dst.Shape)
	}
	w := src.world
	ctx := src.runtime()
	dt := src.DataType()
	srcTile := src.Tile(0)

	if dst.SingleTiled() {
		rank := dst.Owner(0)
		if err := w.Transfer(srcTile.Handle(), rank); err != nil {
			return err
		}
		if err := codelet.SubmitRawCopy(ctx, rank, dt, srcTile.Handle(), dst.Tile(0).Handle()); err != nil {
			return err
		}
		return w.Flush(dst.Tile(0).Handle())
	}

	ndim := dst.NDim()
	scratch, err := newScratch(ctx, ndim)
	if err != nil {
		return err
	}
	for i := 0; i < dst.Grid.NElems; i++ {
		dstTile := dst.Tile(i)
		rank := dst.Owner(i)
		if err := w.Transfer(srcTile.Handle(), rank); err != nil {
			return err
		}
		args := codelet.SubcopyArgs{
			NDim:      ndim,
			SrcStart:  dst.TileStart(dst.Grid.LinearToIndex(i)),
			SrcStride: srcTile.Stride,
			CopyShape: dstTile.Shape,
			DstStart:  make([]int, ndim),
			DstStride: dstTile.Stride,
		}
		if err := codelet.SubmitSubcopy(ctx, rank, dt, args,
			srcTile.Handle(), dstTile.Handle(), scratch, runtime.Write); err != nil {
			return err
		}
		if err := w.Flush(dstTile.Handle()); err != nil {
			return err
		}
	}
	return nil
}

// Scatter is the blocking version of ScatterAsync.
func Scatter[T dtype.DType](src, dst *Tensor[T]) error {
	if err := ScatterAsync(src, dst); err != nil {
		return err
	}
	return src.runtime().WaitForAll()
}
