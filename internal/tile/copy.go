package tile

import (
	"github.com/pkg/errors"

	"github.com/slate-ml/slate/internal/codelet"
	"github.com/slate-ml/slate/internal/dtype"
	"github.com/slate-ml/slate/internal/geom"
	"github.com/slate-ml/slate/internal/runtime"
)

// CopyIntersection copies the overlapping region between src, placed at
// srcOffset in the shared global coordinate space, and dst at dstOffset.
// The copy runs on rank. When the boxes do not overlap nothing is
// submitted: the cost is exactly zero compute and zero transfer. A full
// overwrite of the destination declares Write-only access; a partial
// overlap declares ReadWrite so content outside the intersection is
// preserved. scratch must hold at least 2*ndim index words.
func CopyIntersection[T dtype.DType](ctx *runtime.Context, rank int,
	src *Tile[T], srcOffset []int, dst *Tile[T], dstOffset []int,
	scratch *runtime.Handle) error {
	ndim := src.NDim()
	if dst.NDim() != ndim {
		return errors.Errorf("tile: copy between ranks %d and %d", ndim, dst.NDim())
	}
	if len(srcOffset) != ndim || len(dstOffset) != ndim {
		return errors.Errorf("tile: offsets must have rank %d", ndim)
	}

	// Degenerate scalar case: the intersection is trivially the single
	// element, copied directly without the strided loop.
	if ndim == 0 {
		return codelet.SubmitCopy0D(ctx, rank, dtype.Of[T](), src.Handle(), dst.Handle())
	}

	is, ok := geom.Intersect(srcOffset, src.Shape, dstOffset, dst.Shape)
	if !ok {
		return nil
	}
	mode := runtime.ReadWrite
	if is.FullOverwrite {
		mode = runtime.Write
	}
	args := codelet.SubcopyArgs{
		NDim:      ndim,
		SrcStart:  is.SrcStart,
		SrcStride: src.Stride,
		CopyShape: is.Shape,
		DstStart:  is.DstStart,
		DstStride: dst.Stride,
	}
	return codelet.SubmitSubcopy(ctx, rank, dtype.Of[T](), args, src.Handle(), dst.Handle(), scratch, mode)
}
