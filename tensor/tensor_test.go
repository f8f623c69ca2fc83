// Copyright 2026 Slate ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slate-ml/slate/backend/cpu"
	"github.com/slate-ml/slate/runtime"
	"github.com/slate-ml/slate/tensor"
)

// The public surface end to end: a world of three nodes, a distributed
// tensor, scatter, accumulate and gather.
func TestPublicSurface(t *testing.T) {
	ctx := runtime.New(cpu.New().WithWorkers(4).Config())
	defer ctx.Close() //nolint:errcheck

	world, err := runtime.NewWorld(ctx, 3)
	require.NoError(t, err)

	shape := tensor.Shape{6, 6}
	distTraits := tensor.MustTensorTraits(shape, tensor.Shape{2, 3})
	singleTraits := tensor.MustTensorTraits(shape, shape)

	distr := make([]int, distTraits.Grid.NElems)
	for i := range distr {
		distr[i] = i % 3
	}

	tag := runtime.Tag(0)
	x, err := tensor.New[float32](world, distTraits, distr, &tag)
	require.NoError(t, err)
	y, err := tensor.New[float32](world, distTraits, distr, &tag)
	require.NoError(t, err)
	out, err := tensor.New[float32](world, singleTraits, []int{1}, &tag)
	require.NoError(t, err)

	require.NoError(t, tensor.Fill(x, 2))
	require.NoError(t, tensor.Fill(y, 5))
	require.NoError(t, tensor.Add(3, x, y)) // y = 5 + 3*2 = 11
	require.NoError(t, tensor.Gather(y, out))

	ld, err := out.Tile(0).Acquire(ctx, 1, runtime.Read)
	require.NoError(t, err)
	defer ld.Release()
	for i, v := range ld.Data() {
		if v != 11 {
			t.Fatalf("element %d: got %v, want 11", i, v)
		}
	}
}

func TestPublicReshard(t *testing.T) {
	ctx := runtime.New(runtime.DefaultConfig())
	defer ctx.Close() //nolint:errcheck

	world, err := runtime.NewWorld(ctx, 2)
	require.NoError(t, err)

	shape := tensor.Shape{5, 7}
	a := tensor.MustTensorTraits(shape, tensor.Shape{2, 2})
	b := tensor.MustTensorTraits(shape, tensor.Shape{3, 4})

	distrFor := func(tr tensor.TensorTraits, shift int) []int {
		d := make([]int, tr.Grid.NElems)
		for i := range d {
			d[i] = (i + shift) % 2
		}
		return d
	}

	tag := runtime.Tag(0)
	src, err := tensor.New[float64](world, a, distrFor(a, 0), &tag)
	require.NoError(t, err)
	dst, err := tensor.New[float64](world, b, distrFor(b, 1), &tag)
	require.NoError(t, err)

	require.NoError(t, tensor.Fill(src, 1.5))
	require.NoError(t, tensor.Fill(dst, -1))
	require.NoError(t, tensor.Copy(src, dst))

	for i := 0; i < dst.Grid.NElems; i++ {
		ld, err := dst.Tile(i).Acquire(ctx, dst.Owner(i), runtime.Read)
		require.NoError(t, err)
		for j, v := range ld.Data() {
			if v != 1.5 {
				ld.Release()
				t.Fatalf("tile %d element %d: got %v, want 1.5", i, j, v)
			}
		}
		ld.Release()
	}
}
