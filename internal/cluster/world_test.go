package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-ml/slate/internal/runtime"
)

func newTestWorld(t *testing.T, size int) *World {
	t.Helper()
	ctx := runtime.New(runtime.Config{NumCPUWorkers: 2})
	t.Cleanup(func() {
		if err := ctx.Close(); err != nil {
			t.Errorf("context close: %v", err)
		}
	})
	w, err := NewWorld(ctx, size)
	require.NoError(t, err)
	return w
}

func TestWorldValidation(t *testing.T) {
	ctx := runtime.New(runtime.Config{NumCPUWorkers: 1})
	defer ctx.Close() //nolint:errcheck
	_, err := NewWorld(ctx, 0)
	assert.Error(t, err)

	w := newTestWorld(t, 3)
	assert.NoError(t, w.CheckRank(0))
	assert.NoError(t, w.CheckRank(2))
	assert.Error(t, w.CheckRank(3))
	assert.Error(t, w.CheckRank(-1))
}

func TestTransferMakesReplicaVisible(t *testing.T) {
	w := newTestWorld(t, 2)
	ctx := w.Runtime()
	h, err := ctx.NewHandle(ctx.ReserveTags(1), 4, 1)
	require.NoError(t, err)

	// Write on the owner rank.
	ld, err := ctx.Acquire(h, 1, runtime.Write)
	require.NoError(t, err)
	copy(ld.Bytes(), []byte{1, 2, 3, 4})
	ld.Release()

	require.NoError(t, w.Transfer(h, 0))
	require.NoError(t, ctx.WaitForAll())

	assert.True(t, h.ValidOn(0), "destination replica valid after transfer")
	assert.Equal(t, 1, h.HomeRank(), "ownership never changes as a side effect of transfer")

	ld, err = ctx.Acquire(h, 0, runtime.Read)
	require.NoError(t, err)
	defer ld.Release()
	assert.Equal(t, []byte{1, 2, 3, 4}, ld.Bytes())
}

func TestTransferToOwnerIsNoop(t *testing.T) {
	w := newTestWorld(t, 2)
	ctx := w.Runtime()
	h, err := ctx.NewHandle(ctx.ReserveTags(1), 4, 0)
	require.NoError(t, err)

	require.NoError(t, w.Transfer(h, 0))
	require.NoError(t, ctx.WaitForAll())
	assert.Equal(t, 0, h.AuthRank())
}

func TestFlushPublishesAndInvalidates(t *testing.T) {
	w := newTestWorld(t, 3)
	ctx := w.Runtime()
	h, err := ctx.NewHandle(ctx.ReserveTags(1), 4, 0)
	require.NoError(t, err)

	// Replicate to rank 2, then write there: rank 2 becomes authoritative.
	require.NoError(t, w.Transfer(h, 2))
	ld, err := ctx.Acquire(h, 2, runtime.Write)
	require.NoError(t, err)
	copy(ld.Bytes(), []byte{9, 9, 9, 9})
	ld.Release()
	require.NoError(t, ctx.WaitForAll())
	assert.Equal(t, 2, h.AuthRank())
	assert.False(t, h.ValidOn(0), "stale owner replica invalidated by the write")

	// Flush publishes back to the owner and drops the transient replica.
	require.NoError(t, w.Flush(h))
	require.NoError(t, ctx.WaitForAll())
	assert.Equal(t, 0, h.AuthRank())
	assert.True(t, h.ValidOn(0))
	assert.False(t, h.ValidOn(2))

	ld, err = ctx.Acquire(h, 0, runtime.Read)
	require.NoError(t, err)
	defer ld.Release()
	assert.Equal(t, []byte{9, 9, 9, 9}, ld.Bytes())
}

func TestValidateDistribution(t *testing.T) {
	w := newTestWorld(t, 3)
	assert.NoError(t, w.ValidateDistribution([]int{0, 1, 2, 0}, 4))
	assert.Error(t, w.ValidateDistribution([]int{0, 1}, 4), "length mismatch")
	assert.Error(t, w.ValidateDistribution([]int{0, 3, 1, 2}, 4), "rank out of range")
}
