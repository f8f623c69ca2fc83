// Package cluster implements the data-movement protocol over a world of
// simulated compute nodes. Tiles are owned by exactly one rank for their
// whole lifetime; Transfer creates a transient replica of a tile's contents
// on the rank that must compute with it, and Flush publishes a written tile
// back to its owner so stale replicas can never be observed.
//
// The world lives inside one process, the way a device simulator drives all
// of its devices from a single coordinator: operations iterate over every
// rank and submit the per-rank work themselves, so no SPMD branching is
// needed. Ordering between a transfer and the tasks that consume it is
// enforced by the runtime's dependency graph — the transfer is a producer
// of the destination replica.
package cluster

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/slate-ml/slate/internal/runtime"
)

// World is a fixed-size set of simulated nodes sharing one runtime context.
type World struct {
	ctx  *runtime.Context
	size int
}

// NewWorld creates a world of size nodes on the given runtime context.
func NewWorld(ctx *runtime.Context, size int) (*World, error) {
	if size < 1 {
		return nil, errors.Errorf("cluster: world size must be positive, got %d", size)
	}
	klog.V(1).Infof("cluster: world of %d nodes on runtime %s", size, ctx.ID())
	return &World{ctx: ctx, size: size}, nil
}

// Size returns the number of nodes.
func (w *World) Size() int { return w.size }

// Runtime returns the shared runtime context.
func (w *World) Runtime() *runtime.Context { return w.ctx }

// CheckRank validates a node id.
func (w *World) CheckRank(rank int) error {
	if rank < 0 || rank >= w.size {
		return errors.Errorf("cluster: rank %d outside [0, %d)", rank, w.size)
	}
	return nil
}

// Transfer makes the tile behind h available on dst: a no-op when the owner
// is the destination, otherwise an asynchronous point-to-point movement
// keyed by the handle's tag. Tasks on dst that read the handle are ordered
// after the transfer by the dependency graph.
func (w *World) Transfer(h *runtime.Handle, dst int) error {
	if err := w.CheckRank(dst); err != nil {
		return err
	}
	if h.HomeRank() == dst {
		return nil
	}
	klog.V(3).Infof("cluster: transfer tag %d from rank %d to rank %d", h.Tag(), h.HomeRank(), dst)
	return w.ctx.SubmitMovement("transfer", h, func(h *runtime.Handle) {
		h.CopyReplica(dst)
	})
}

// Flush publishes the authoritative copy of the tile behind h to its owning
// rank and invalidates every other replica. Callers flush after a tile is
// written on one node and before it is read from another without an
// explicit transfer.
func (w *World) Flush(h *runtime.Handle) error {
	klog.V(3).Infof("cluster: flush tag %d to owner rank %d", h.Tag(), h.HomeRank())
	return w.ctx.SubmitMovement("flush", h, func(h *runtime.Handle) {
		h.PublishHome()
	})
}

// ValidateDistribution checks a caller-supplied tile-to-rank mapping: one
// entry per tile, every value a valid rank of this world.
func (w *World) ValidateDistribution(distr []int, ntiles int) error {
	if len(distr) != ntiles {
		return errors.Errorf("cluster: distribution has %d entries, tensor has %d tiles", len(distr), ntiles)
	}
	for i, rank := range distr {
		if rank < 0 || rank >= w.size {
			return errors.Errorf("cluster: distribution[%d] = %d outside [0, %d)", i, rank, w.size)
		}
	}
	return nil
}
