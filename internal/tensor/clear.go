package tensor

import (
	"github.com/slate-ml/slate/internal/codelet"
	"github.com/slate-ml/slate/internal/dtype"
)

// ClearAsync queues a zero fill of every tile on its owning rank.
func ClearAsync[T dtype.DType](t *Tensor[T]) error {
	ctx := t.runtime()
	dt := t.DataType()
	for i := 0; i < t.Grid.NElems; i++ {
		if err := codelet.SubmitClear(ctx, t.Owner(i), dt, t.Tile(i).Handle()); err != nil {
			return err
		}
	}
	return nil
}

// Clear is the blocking version of ClearAsync.
func Clear[T dtype.DType](t *Tensor[T]) error {
	if err := ClearAsync(t); err != nil {
		return err
	}
	return t.runtime().WaitForAll()
}

// FillAsync queues a constant fill of every tile on its owning rank.
func FillAsync[T dtype.DType](t *Tensor[T], value T) error {
	ctx := t.runtime()
	dt := t.DataType()
	pattern := dtype.Bytes([]T{value})
	for i := 0; i < t.Grid.NElems; i++ {
		if err := codelet.SubmitFill(ctx, t.Owner(i), dt, pattern, t.Tile(i).Handle()); err != nil {
			return err
		}
	}
	return nil
}

// Fill is the blocking version of FillAsync.
func Fill[T dtype.DType](t *Tensor[T], value T) error {
	if err := FillAsync(t, value); err != nil {
		return err
	}
	return t.runtime().WaitForAll()
}
