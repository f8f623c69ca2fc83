package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-ml/slate/internal/codelet"
	"github.com/slate-ml/slate/internal/dtype"
	"github.com/slate-ml/slate/internal/runtime"
)

func TestExecutorSizing(t *testing.T) {
	e := New()
	assert.GreaterOrEqual(t, e.Workers(), 1)

	e = e.WithWorkers(3)
	assert.Equal(t, 3, e.Workers())
	assert.Equal(t, runtime.Config{NumCPUWorkers: 3}, e.Config())
	assert.Equal(t, runtime.Config{NumCPUWorkers: 3, NumGPUStreams: 2}, e.ConfigWithGPU(2))

	e = e.WithWorkers(0)
	assert.Equal(t, 1, e.Workers())
	assert.Contains(t, e.Name(), "CPU")
}

func TestExecutorBacksContext(t *testing.T) {
	ctx := runtime.New(New().WithWorkers(2).Config())
	defer ctx.Close() //nolint:errcheck

	data := []float32{1, 2, 3, 4}
	h, err := ctx.WrapHandle(ctx.ReserveTags(1), dtype.Bytes(data), 0)
	require.NoError(t, err)
	require.NoError(t, codelet.SubmitClear(ctx, 0, dtype.Float32, h))
	require.NoError(t, ctx.WaitForAll())
	assert.Equal(t, []float32{0, 0, 0, 0}, data)
}
