package codelet

import (
	"github.com/slate-ml/slate/internal/dtype"
	"github.com/slate-ml/slate/internal/runtime"
)

// Clear zeroes a tile. Buffers: destination (Write).
var Clear = New("clear")

// FillArgs carries the byte pattern of one element to replicate.
type FillArgs struct {
	Pattern []byte
}

// Fill writes a constant element value across a tile.
// Buffers: destination (Write).
var Fill = New("fill")

func init() {
	for _, dt := range []dtype.DataType{dtype.Float32, dtype.Float64, dtype.Float16, dtype.Int64} {
		Clear.RegisterCPU(dt, clearCPU)
		Fill.RegisterCPU(dt, fillCPU)
	}
}

func clearCPU(_ *runtime.ExecEnv, call *runtime.Call) {
	clear(call.Buffers[0])
}

func fillCPU(_ *runtime.ExecEnv, call *runtime.Call) {
	args := call.Args.(FillArgs)
	dst := call.Buffers[0]
	es := len(args.Pattern)
	for off := 0; off+es <= len(dst); off += es {
		copy(dst[off:off+es], args.Pattern)
	}
}

// SubmitClear queues a zero fill of dst on rank.
func SubmitClear(ctx *runtime.Context, rank int, dt dtype.DataType, dst *runtime.Handle) error {
	return Clear.Submit(ctx, rank, dt, nil, []runtime.BufferAccess{
		{Handle: dst, Mode: runtime.Write},
	})
}

// SubmitFill queues a constant fill of dst on rank with the given element
// value, passed as its raw byte pattern.
func SubmitFill(ctx *runtime.Context, rank int, dt dtype.DataType, pattern []byte, dst *runtime.Handle) error {
	return Fill.Submit(ctx, rank, dt, FillArgs{Pattern: pattern}, []runtime.BufferAccess{
		{Handle: dst, Mode: runtime.Write},
	})
}
