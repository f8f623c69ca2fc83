// Package tensor implements the distributed tensor entity: a tensor is a
// tile-grid geometry plus, for every tile, a typed tile handle and the rank
// that owns it. Operations iterate the destination grid, arrange transfers
// of the source tiles to the owning rank, and submit codelet tasks with
// explicit access modes; the runtime resolves the rest.
package tensor

import (
	"github.com/pkg/errors"

	"github.com/slate-ml/slate/internal/cluster"
	"github.com/slate-ml/slate/internal/dtype"
	"github.com/slate-ml/slate/internal/geom"
	"github.com/slate-ml/slate/internal/runtime"
	"github.com/slate-ml/slate/internal/tile"
)

// Tensor is a logical multi-dimensional array realized as a distributed
// grid of tiles. The tile-to-rank assignment is fixed at construction and
// never changes for the tensor's lifetime; only tile contents mutate.
type Tensor[T dtype.DType] struct {
	geom.TensorTraits
	world *cluster.World
	tiles []*tile.Tile[T]
	distr []int
}

// New constructs a distributed tensor. distr maps every linear tile index
// to its owning rank; nextTag supplies the first tag of the contiguous
// block the tensor consumes, and is advanced past the block so independent
// tensors never alias tags.
func New[T dtype.DType](w *cluster.World, traits geom.TensorTraits, distr []int, nextTag *runtime.Tag) (*Tensor[T], error) {
	if err := w.ValidateDistribution(distr, traits.Grid.NElems); err != nil {
		return nil, err
	}
	ctx := w.Runtime()
	t := &Tensor[T]{
		TensorTraits: traits,
		world:        w,
		tiles:        make([]*tile.Tile[T], traits.Grid.NElems),
		distr:        append([]int(nil), distr...),
	}
	first := *nextTag
	for i := 0; i < traits.Grid.NElems; i++ {
		tl, err := tile.New[T](ctx, traits.TileTraitsAt(i), first+runtime.Tag(i), distr[i])
		if err != nil {
			return nil, errors.WithMessagef(err, "tensor: tile %d", i)
		}
		t.tiles[i] = tl
	}
	*nextTag = first + runtime.Tag(traits.Grid.NElems)
	return t, nil
}

// World returns the node world the tensor is distributed over.
func (t *Tensor[T]) World() *cluster.World { return t.world }

// Tile returns the tile at the given linear grid index.
func (t *Tensor[T]) Tile(i int) *tile.Tile[T] { return t.tiles[i] }

// Owner returns the rank owning the tile at the given linear grid index.
func (t *Tensor[T]) Owner(i int) int { return t.distr[i] }

// DataType returns runtime type information for the tensor's elements.
func (t *Tensor[T]) DataType() dtype.DataType { return dtype.Of[T]() }

// runtime is shorthand for the shared context.
func (t *Tensor[T]) runtime() *runtime.Context { return t.world.Runtime() }

// sameWorld verifies two tensors participating in one operation share a
// world; mismatches fail before any asynchronous work is queued.
func sameWorld[T dtype.DType](a, b *Tensor[T]) error {
	if a.world != b.world {
		return errors.New("tensor: operands live in different worlds")
	}
	return nil
}

// newScratch registers a scratch handle of 2*ndim index words for the
// intersection copies of one operation.
func newScratch(ctx *runtime.Context, ndim int) (*runtime.Handle, error) {
	size := 2 * ndim * 8
	if size == 0 {
		size = 8
	}
	return ctx.NewHandle(ctx.ReserveTags(1), size, 0)
}
