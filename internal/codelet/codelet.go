// Package codelet is the task-dispatch layer of the engine: it binds one
// logical operation to a family of compute-routine entry points indexed by
// element type and resource kind, and submits dependency-tracked tasks for
// specific invocations.
//
// The engine's own codelets are pure data plumbing (subcopy, clear, fill)
// plus a small demonstration arithmetic op (add); numeric kernels beyond
// these are external collaborators that register themselves the same way.
package codelet

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/slate-ml/slate/internal/dtype"
	"github.com/slate-ml/slate/internal/runtime"
)

// Codelet binds a named logical operation to per-type CPU and GPU entry
// points, with a resource restriction mask for steering.
type Codelet struct {
	name string

	mu    sync.RWMutex
	where runtime.ResourceMask
	cpu   map[dtype.DataType]runtime.Kernel
	gpu   map[dtype.DataType]runtime.Kernel
}

// New creates an empty codelet with no restriction. Registration happens
// once, at package initialization of whoever owns the routines, so it is
// idempotent by construction.
func New(name string) *Codelet {
	return &Codelet{
		name:  name,
		where: runtime.AnyResource,
		cpu:   make(map[dtype.DataType]runtime.Kernel),
		gpu:   make(map[dtype.DataType]runtime.Kernel),
	}
}

// Name returns the operation name used in diagnostics.
func (c *Codelet) Name() string { return c.name }

// RegisterCPU sets the CPU entry point for one element type.
func (c *Codelet) RegisterCPU(dt dtype.DataType, k runtime.Kernel) *Codelet {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cpu[dt] = k
	return c
}

// RegisterGPU sets the GPU entry point for one element type. Called by the
// GPU backend when it is attached.
func (c *Codelet) RegisterGPU(dt dtype.DataType, k runtime.Kernel) *Codelet {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gpu[dt] = k
	return c
}

// RestrictWhere narrows which resource kinds may execute this operation,
// for deterministic testing and load steering.
func (c *Codelet) RestrictWhere(mask runtime.ResourceMask) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.where = mask
}

// RestoreWhere resets the restriction so the operation may run on any
// resource kind a routine was registered for.
func (c *Codelet) RestoreWhere() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.where = runtime.AnyResource
}

// Submit queues one invocation for element type dt on behalf of rank.
// Requesting a type with no registered CPU routine is a programming error
// reported immediately by panic, never deferred into the task graph; a
// rejected enqueue is returned as a fatal error.
func (c *Codelet) Submit(ctx *runtime.Context, rank int, dt dtype.DataType, args any, buffers []runtime.BufferAccess) error {
	c.mu.RLock()
	cpuFn, ok := c.cpu[dt]
	gpuFn := c.gpu[dt]
	where := c.where
	c.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("codelet %q: no routine registered for %s", c.name, dt))
	}
	err := ctx.Submit(runtime.TaskSpec{
		Name:    c.name,
		Rank:    rank,
		Where:   where,
		CPU:     cpuFn,
		GPU:     gpuFn,
		Args:    args,
		Buffers: buffers,
	})
	if err != nil {
		return errors.WithMessagef(err, "codelet %q", c.name)
	}
	return nil
}
