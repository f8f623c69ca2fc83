// Package tile provides the typed tile entity: one contiguous column-major
// buffer combining a geometry value with a registered runtime handle, plus
// the tile-level intersection copy the resharding operations are built on.
package tile

import (
	"github.com/pkg/errors"

	"github.com/slate-ml/slate/internal/dtype"
	"github.com/slate-ml/slate/internal/geom"
	"github.com/slate-ml/slate/internal/runtime"
)

// Tile is one contiguous typed buffer: a geometry value plus an ownership
// handle to device/process-local memory. Deallocation of the backing memory
// is deferred by the runtime until no outstanding task references the
// handle.
type Tile[T dtype.DType] struct {
	geom.TileTraits
	handle *runtime.Handle
}

// New allocates an engine-owned tile with the given traits, registered
// under tag on the owning rank.
func New[T dtype.DType](ctx *runtime.Context, traits geom.TileTraits, tag runtime.Tag, home int) (*Tile[T], error) {
	h, err := ctx.NewHandle(tag, traits.NElems*dtype.Of[T]().Size(), home)
	if err != nil {
		return nil, errors.WithMessage(err, "tile: allocate")
	}
	return &Tile[T]{TileTraits: traits, handle: h}, nil
}

// Wrap registers a tile around caller-owned memory. The caller keeps
// ownership; the slice must outlive every task referencing the tile.
func Wrap[T dtype.DType](ctx *runtime.Context, traits geom.TileTraits, tag runtime.Tag, home int, data []T) (*Tile[T], error) {
	if len(data) < traits.NElems {
		return nil, errors.Errorf("tile: provided buffer holds %d elements, traits need %d",
			len(data), traits.NElems)
	}
	h, err := ctx.WrapHandle(tag, dtype.Bytes(data[:traits.NElems]), home)
	if err != nil {
		return nil, errors.WithMessage(err, "tile: wrap")
	}
	return &Tile[T]{TileTraits: traits, handle: h}, nil
}

// Handle returns the tile's registered buffer handle.
func (t *Tile[T]) Handle() *runtime.Handle { return t.handle }

// DataType returns the runtime type information for the tile's elements.
func (t *Tile[T]) DataType() dtype.DataType { return dtype.Of[T]() }

// LocalData is a scoped, typed acquisition of a tile's memory on one rank.
type LocalData[T dtype.DType] struct {
	ld *runtime.LocalData
}

// Acquire blocks until the tile's memory on rank is available under the
// given access mode and returns a typed view. Release the result on every
// exit path.
func (t *Tile[T]) Acquire(ctx *runtime.Context, rank int, mode runtime.AccessMode) (*LocalData[T], error) {
	ld, err := ctx.Acquire(t.handle, rank, mode)
	if err != nil {
		return nil, err
	}
	return &LocalData[T]{ld: ld}, nil
}

// Data returns the typed element view. Only valid until Release.
func (l *LocalData[T]) Data() []T {
	return dtype.AsSlice[T](l.ld.Bytes())
}

// Release ends the scoped acquisition. Safe to call more than once.
func (l *LocalData[T]) Release() {
	l.ld.Release()
}
