package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-ml/slate/internal/geom"
	"github.com/slate-ml/slate/internal/runtime"
)

func newTestContext(t *testing.T) *runtime.Context {
	t.Helper()
	ctx := runtime.New(runtime.Config{NumCPUWorkers: 2})
	t.Cleanup(func() {
		if err := ctx.Close(); err != nil {
			t.Errorf("context close: %v", err)
		}
	})
	return ctx
}

func newScratch(t *testing.T, ctx *runtime.Context, ndim int) *runtime.Handle {
	t.Helper()
	h, err := ctx.NewHandle(ctx.ReserveTags(1), 2*ndim*8, 0)
	require.NoError(t, err)
	return h
}

// fill writes f(linear) into every element of the tile.
func fill(t *testing.T, ctx *runtime.Context, tl *Tile[float32], f func(int) float32) {
	t.Helper()
	ld, err := tl.Acquire(ctx, 0, runtime.Write)
	require.NoError(t, err)
	defer ld.Release()
	data := ld.Data()
	for i := range data {
		data[i] = f(i)
	}
}

func snapshot(t *testing.T, ctx *runtime.Context, tl *Tile[float32]) []float32 {
	t.Helper()
	ld, err := tl.Acquire(ctx, 0, runtime.Read)
	require.NoError(t, err)
	defer ld.Release()
	out := make([]float32, len(ld.Data()))
	copy(out, ld.Data())
	return out
}

func TestNewAndWrap(t *testing.T) {
	ctx := newTestContext(t)
	traits := geom.MustTileTraits(geom.Shape{2, 3})

	tl, err := New[float32](ctx, traits, ctx.ReserveTags(1), 0)
	require.NoError(t, err)
	assert.Equal(t, 6*4, tl.Handle().Size())

	backing := []float32{1, 2, 3, 4, 5, 6}
	wrapped, err := Wrap(ctx, traits, ctx.ReserveTags(1), 0, backing)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, snapshot(t, ctx, wrapped))

	_, err = Wrap(ctx, traits, ctx.ReserveTags(1), 0, []float32{1, 2})
	assert.Error(t, err, "undersized caller buffer")
}

func TestCopyIntersectionBox(t *testing.T) {
	ctx := newTestContext(t)
	srcTraits := geom.MustTileTraits(geom.Shape{4, 4})
	dstTraits := geom.MustTileTraits(geom.Shape{3, 3})

	src, err := New[float32](ctx, srcTraits, ctx.ReserveTags(1), 0)
	require.NoError(t, err)
	dst, err := New[float32](ctx, dstTraits, ctx.ReserveTags(1), 0)
	require.NoError(t, err)
	fill(t, ctx, src, func(i int) float32 { return float32(i) })
	fill(t, ctx, dst, func(int) float32 { return -1 })

	// Source box at (0,0), destination box at (2,2): overlap is the
	// destination's top-left 2x2 corner.
	scratch := newScratch(t, ctx, 2)
	err = CopyIntersection(ctx, 0, src, []int{0, 0}, dst, []int{2, 2}, scratch)
	require.NoError(t, err)
	require.NoError(t, ctx.WaitForAll())

	got := snapshot(t, ctx, dst)
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			linear := dstTraits.IndexToLinear([]int{i, j})
			if i < 2 && j < 2 {
				want := srcTraits.IndexToLinear([]int{i + 2, j + 2})
				assert.Equal(t, float32(want), got[linear], "(%d,%d)", i, j)
			} else {
				assert.Equal(t, float32(-1), got[linear], "(%d,%d) untouched", i, j)
			}
		}
	}
}

func TestCopyIntersectionDisjointSubmitsNothing(t *testing.T) {
	ctx := newTestContext(t)
	traits := geom.MustTileTraits(geom.Shape{2, 2})
	src, err := New[float32](ctx, traits, ctx.ReserveTags(1), 0)
	require.NoError(t, err)
	dst, err := New[float32](ctx, traits, ctx.ReserveTags(1), 0)
	require.NoError(t, err)
	fill(t, ctx, src, func(int) float32 { return 5 })
	fill(t, ctx, dst, func(int) float32 { return -1 })

	scratch := newScratch(t, ctx, 2)
	err = CopyIntersection(ctx, 0, src, []int{0, 0}, dst, []int{10, 10}, scratch)
	require.NoError(t, err)
	require.NoError(t, ctx.WaitForAll())
	assert.Equal(t, []float32{-1, -1, -1, -1}, snapshot(t, ctx, dst))
}

// Copying the same fully contained box twice leaves the destination
// unchanged after the second copy.
func TestCopyIntersectionIdempotent(t *testing.T) {
	ctx := newTestContext(t)
	srcTraits := geom.MustTileTraits(geom.Shape{6, 6})
	dstTraits := geom.MustTileTraits(geom.Shape{2, 2})

	src, err := New[float32](ctx, srcTraits, ctx.ReserveTags(1), 0)
	require.NoError(t, err)
	dst, err := New[float32](ctx, dstTraits, ctx.ReserveTags(1), 0)
	require.NoError(t, err)
	fill(t, ctx, src, func(i int) float32 { return float32(i) * 0.5 })

	scratch := newScratch(t, ctx, 2)
	require.NoError(t, CopyIntersection(ctx, 0, src, []int{0, 0}, dst, []int{3, 3}, scratch))
	require.NoError(t, ctx.WaitForAll())
	first := snapshot(t, ctx, dst)

	require.NoError(t, CopyIntersection(ctx, 0, src, []int{0, 0}, dst, []int{3, 3}, scratch))
	require.NoError(t, ctx.WaitForAll())
	assert.Equal(t, first, snapshot(t, ctx, dst))
}

func TestCopyIntersectionScalar(t *testing.T) {
	ctx := newTestContext(t)
	traits := geom.MustTileTraits(geom.Shape{})
	src, err := Wrap(ctx, traits, ctx.ReserveTags(1), 0, []float32{3.5})
	require.NoError(t, err)
	dst, err := Wrap(ctx, traits, ctx.ReserveTags(1), 0, []float32{-1})
	require.NoError(t, err)

	require.NoError(t, CopyIntersection(ctx, 0, src, []int{}, dst, []int{}, nil))
	require.NoError(t, ctx.WaitForAll())
	assert.Equal(t, []float32{3.5}, snapshot(t, ctx, dst))
}
