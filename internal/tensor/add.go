package tensor

import (
	"github.com/pkg/errors"

	"github.com/slate-ml/slate/internal/codelet"
	"github.com/slate-ml/slate/internal/dtype"
)

// AddAsync queues the elementwise accumulate dst += alpha*src. Both
// tensors must share the world, the shape and the tiling; mismatches are
// reported before any task is submitted. Each per-tile accumulate runs on
// the destination tile's owning rank, with the source tile transferred
// there when it lives elsewhere.
func AddAsync[T dtype.DType](alpha float64, src, dst *Tensor[T]) error {
	if err := sameWorld(src, dst); err != nil {
		return err
	}
	if !src.Shape.Equal(dst.Shape) {
		return errors.Errorf("tensor: add shape mismatch: %v vs %v", src.Shape, dst.Shape)
	}
	if !src.BasetileShape.Equal(dst.BasetileShape) {
		return errors.Errorf("tensor: add tiling mismatch: %v vs %v", src.BasetileShape, dst.BasetileShape)
	}
	w := src.world
	ctx := src.runtime()
	dt := src.DataType()
	for i := 0; i < dst.Grid.NElems; i++ {
		rank := dst.Owner(i)
		srcTile := src.Tile(i)
		dstTile := dst.Tile(i)
		if err := w.Transfer(srcTile.Handle(), rank); err != nil {
			return err
		}
		if err := codelet.SubmitAdd(ctx, rank, dt, alpha, dstTile.NElems,
			srcTile.Handle(), dstTile.Handle()); err != nil {
			return err
		}
	}
	return nil
}

// Add is the blocking version of AddAsync.
func Add[T dtype.DType](alpha float64, src, dst *Tensor[T]) error {
	if err := AddAsync(alpha, src, dst); err != nil {
		return err
	}
	return src.runtime().WaitForAll()
}
