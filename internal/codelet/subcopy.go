package codelet

import (
	"github.com/slate-ml/slate/internal/dtype"
	"github.com/slate-ml/slate/internal/runtime"
)

// SubcopyArgs is the argument block of the strided intersection copy: the
// start coordinate, stride vector and intersection extent on both sides,
// plus the element size so the routine is pure data movement for every
// element type.
type SubcopyArgs struct {
	NDim      int
	ElemSize  int
	SrcStart  []int
	SrcStride []int
	CopyShape []int
	DstStart  []int
	DstStride []int
}

// Subcopy copies the intersection of two strided tiles. Buffers: source
// (Read), destination (Write or ReadWrite), scratch of 2*ndim index words.
// No floating-point work is attributed to it.
var Subcopy = New("subcopy")

// Copy0D copies a single scalar, bypassing the general strided loop.
// Buffers: source (Read), destination (Write).
var Copy0D = New("copy0d")

// RawCopy copies a whole tile buffer verbatim; the single-source gather
// fast path uses it instead of the intersection machinery.
var RawCopy = New("rawcopy")

func init() {
	for _, dt := range []dtype.DataType{dtype.Float32, dtype.Float64, dtype.Float16, dtype.Int64} {
		Subcopy.RegisterCPU(dt, subcopyCPU)
		Copy0D.RegisterCPU(dt, copy0DCPU)
		RawCopy.RegisterCPU(dt, copy0DCPU)
	}
}

// subcopyCPU walks the intersection as a flattened index space in
// column-major order, advancing a multi-index with carry propagation and
// maintaining running linear offsets into source and destination, instead
// of recomputing the full index conversion per element.
func subcopyCPU(_ *runtime.ExecEnv, call *runtime.Call) {
	args := call.Args.(SubcopyArgs)
	src := call.Buffers[0]
	dst := call.Buffers[1]
	scratch := dtype.AsSlice[int64](call.Buffers[2])
	ndim := args.NDim
	es := args.ElemSize

	srcIndex := scratch[:ndim]
	dstIndex := scratch[ndim : 2*ndim]
	nelems := 1
	for i := 0; i < ndim; i++ {
		nelems *= args.CopyShape[i]
		srcIndex[i] = int64(args.SrcStart[i])
		dstIndex[i] = int64(args.DstStart[i])
	}
	if nelems == 0 {
		return
	}
	srcOffset := 0
	dstOffset := 0
	for i := 0; i < ndim; i++ {
		srcOffset += args.SrcStart[i] * args.SrcStride[i]
		dstOffset += args.DstStart[i] * args.DstStride[i]
	}
	copy(dst[dstOffset*es:(dstOffset+1)*es], src[srcOffset*es:(srcOffset+1)*es])
	srcOffset++
	dstOffset++
	for i := 1; i < nelems; i++ {
		srcIndex[0]++
		dstIndex[0]++
		j := 0
		for srcIndex[j] == int64(args.SrcStart[j]+args.CopyShape[j]) {
			srcIndex[j] = int64(args.SrcStart[j])
			j++
			srcIndex[j]++
			srcOffset += args.SrcStride[j] - args.CopyShape[j-1]*args.SrcStride[j-1]
		}
		j = 0
		for dstIndex[j] == int64(args.DstStart[j]+args.CopyShape[j]) {
			dstIndex[j] = int64(args.DstStart[j])
			j++
			dstIndex[j]++
			dstOffset += args.DstStride[j] - args.CopyShape[j-1]*args.DstStride[j-1]
		}
		copy(dst[dstOffset*es:(dstOffset+1)*es], src[srcOffset*es:(srcOffset+1)*es])
		srcOffset++
		dstOffset++
	}
}

func copy0DCPU(_ *runtime.ExecEnv, call *runtime.Call) {
	copy(call.Buffers[1], call.Buffers[0])
}

// SubmitSubcopy queues one strided intersection copy for element type dt on
// rank. dstMode is Write when the intersection fully overwrites the
// destination tile and ReadWrite otherwise. scratch must be a handle of at
// least 2*ndim index words.
func SubmitSubcopy(ctx *runtime.Context, rank int, dt dtype.DataType, args SubcopyArgs,
	src, dst, scratch *runtime.Handle, dstMode runtime.AccessMode) error {
	args.ElemSize = dt.Size()
	return Subcopy.Submit(ctx, rank, dt, args, []runtime.BufferAccess{
		{Handle: src, Mode: runtime.Read},
		{Handle: dst, Mode: dstMode},
		{Handle: scratch, Mode: runtime.Scratch},
	})
}

// SubmitCopy0D queues the scalar fast path copy.
func SubmitCopy0D(ctx *runtime.Context, rank int, dt dtype.DataType, src, dst *runtime.Handle) error {
	return Copy0D.Submit(ctx, rank, dt, nil, []runtime.BufferAccess{
		{Handle: src, Mode: runtime.Read},
		{Handle: dst, Mode: runtime.Write},
	})
}

// SubmitRawCopy queues a verbatim whole-buffer copy between two tiles of
// identical geometry.
func SubmitRawCopy(ctx *runtime.Context, rank int, dt dtype.DataType, src, dst *runtime.Handle) error {
	return RawCopy.Submit(ctx, rank, dt, nil, []runtime.BufferAccess{
		{Handle: src, Mode: runtime.Read},
		{Handle: dst, Mode: runtime.Write},
	})
}
