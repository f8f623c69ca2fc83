package webgpu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slate-ml/slate/internal/codelet"
	"github.com/slate-ml/slate/internal/dtype"
	"github.com/slate-ml/slate/internal/runtime"
)

// newTestDevice skips the test on machines without a usable WebGPU stack.
func newTestDevice(t *testing.T) *Device {
	t.Helper()
	if !IsAvailable() {
		t.Skip("WebGPU not available on this system")
	}
	dev, err := New()
	require.NoError(t, err)
	t.Cleanup(dev.Release)
	return dev
}

func TestDeviceName(t *testing.T) {
	dev := newTestDevice(t)
	require.NotEmpty(t, dev.Name())
}

func TestClearRunsOnDevice(t *testing.T) {
	dev := newTestDevice(t)
	data := make([]float32, 1000)
	for i := range data {
		data[i] = float32(i) + 1
	}
	require.NoError(t, dev.runClear(dtype.Bytes(data), len(data)))
	for i, v := range data {
		if v != 0 {
			t.Fatalf("element %d: got %v, want 0", i, v)
		}
	}
}

func TestAddRunsOnDevice(t *testing.T) {
	dev := newTestDevice(t)
	src := make([]float32, 777)
	dst := make([]float32, 777)
	for i := range src {
		src[i] = float32(i)
		dst[i] = 1
	}
	require.NoError(t, dev.runAdd(2, dtype.Bytes(src), dtype.Bytes(dst), len(src)))
	for i, v := range dst {
		want := 1 + 2*float32(i)
		if v != want {
			t.Fatalf("element %d: got %v, want %v", i, v, want)
		}
	}
}

// The attached device serves float32 clears steered through the dispatch
// layer; the result must land back in the handle's replica.
func TestAttachedDeviceServesCodelets(t *testing.T) {
	dev := newTestDevice(t)
	ctx := runtime.New(runtime.Config{NumCPUWorkers: 1, NumGPUStreams: 1})
	defer ctx.Close() //nolint:errcheck
	dev.Attach(ctx)

	data := []float32{3, 1, 4, 1, 5, 9, 2, 6}
	h, err := ctx.WrapHandle(ctx.ReserveTags(1), dtype.Bytes(data), 0)
	require.NoError(t, err)

	codelet.Clear.RestrictWhere(runtime.GPUMask)
	defer codelet.Clear.RestoreWhere()
	require.NoError(t, codelet.SubmitClear(ctx, 0, dtype.Float32, h))
	require.NoError(t, ctx.WaitForAll())
	for i, v := range data {
		if v != 0 {
			t.Fatalf("element %d: got %v, want 0", i, v)
		}
	}
}
