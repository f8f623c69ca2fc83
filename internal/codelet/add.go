package codelet

import (
	"github.com/x448/float16"

	"github.com/slate-ml/slate/internal/dtype"
	"github.com/slate-ml/slate/internal/parallel"
	"github.com/slate-ml/slate/internal/runtime"
)

// elemwiseCfg splits large elementwise routines across goroutines.
var elemwiseCfg = parallel.DefaultConfig()

// AddArgs is the argument block of the elementwise accumulate.
type AddArgs struct {
	Alpha float64
	// NElems bounds the accumulate; source and destination tiles agree on
	// geometry, so this is their shared element count.
	NElems int
}

// Add accumulates dst += alpha*src elementwise. It is the demonstration
// arithmetic operation of the dispatch layer: one logical op with one
// routine per element type. Buffers: source (Read), destination (ReadWrite).
var Add = New("add")

func init() {
	Add.RegisterCPU(dtype.Float32, addCPU[float32])
	Add.RegisterCPU(dtype.Float64, addCPU[float64])
	Add.RegisterCPU(dtype.Int64, addCPU[int64])
	Add.RegisterCPU(dtype.Float16, addCPUFloat16)
}

func addCPU[T float32 | float64 | int64](_ *runtime.ExecEnv, call *runtime.Call) {
	args := call.Args.(AddArgs)
	src := dtype.AsSlice[T](call.Buffers[0])[:args.NElems]
	dst := dtype.AsSlice[T](call.Buffers[1])[:args.NElems]
	alpha := T(args.Alpha)
	parallel.ForRange(args.NElems, func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] += alpha * src[i]
		}
	}, elemwiseCfg)
}

// addCPUFloat16 accumulates through float32, the usual half-precision
// convention.
func addCPUFloat16(_ *runtime.ExecEnv, call *runtime.Call) {
	args := call.Args.(AddArgs)
	src := dtype.AsSlice[float16.Float16](call.Buffers[0])[:args.NElems]
	dst := dtype.AsSlice[float16.Float16](call.Buffers[1])[:args.NElems]
	alpha := float32(args.Alpha)
	parallel.ForRange(args.NElems, func(start, end int) {
		for i := start; i < end; i++ {
			sum := dst[i].Float32() + alpha*src[i].Float32()
			dst[i] = float16.Fromfloat32(sum)
		}
	}, elemwiseCfg)
}

// SubmitAdd queues dst += alpha*src for nelems elements on rank.
func SubmitAdd(ctx *runtime.Context, rank int, dt dtype.DataType, alpha float64, nelems int,
	src, dst *runtime.Handle) error {
	return Add.Submit(ctx, rank, dt, AddArgs{Alpha: alpha, NElems: nelems}, []runtime.BufferAccess{
		{Handle: src, Mode: runtime.Read},
		{Handle: dst, Mode: runtime.ReadWrite},
	})
}
