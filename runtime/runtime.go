// Copyright 2026 Slate ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package runtime provides the public API for the task-graph engine: the
// execution context with its worker pool, buffer handles with explicit
// access modes, and the node world with its data-movement protocol.
//
// Example:
//
//	ctx := runtime.New(runtime.DefaultConfig())
//	defer ctx.Close()
//	world, err := runtime.NewWorld(ctx, 4)
package runtime

import (
	"github.com/slate-ml/slate/internal/cluster"
	"github.com/slate-ml/slate/internal/runtime"
)

// Context owns the task graph, the worker pool, the tag registry and the
// deferred-error accumulator for one run of the engine.
type Context = runtime.Context

// Config controls the worker pool of a Context.
type Config = runtime.Config

// Tag is the stable identifier a buffer handle is registered under.
type Tag = runtime.Tag

// Handle is a registered buffer participating in dependency tracking and
// the data-movement protocol.
type Handle = runtime.Handle

// LocalData is a scoped acquisition of a handle's memory on one rank.
type LocalData = runtime.LocalData

// AccessMode declares how a task touches one of its buffers.
type AccessMode = runtime.AccessMode

// Access mode constants.
const (
	Read      AccessMode = runtime.Read
	Write     AccessMode = runtime.Write
	ReadWrite AccessMode = runtime.ReadWrite
	Scratch   AccessMode = runtime.Scratch
)

// ResourceMask selects which execution resource kinds may run a task.
type ResourceMask = runtime.ResourceMask

// Resource mask constants.
const (
	CPUMask     ResourceMask = runtime.CPUMask
	GPUMask     ResourceMask = runtime.GPUMask
	AnyResource ResourceMask = runtime.AnyResource
)

// World is a set of simulated nodes sharing one execution context.
type World = cluster.World

// New creates a Context and starts its CPU workers.
func New(cfg Config) *Context {
	return runtime.New(cfg)
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	return runtime.DefaultConfig()
}

// NewWorld creates a world of size nodes on top of ctx.
func NewWorld(ctx *Context, size int) (*World, error) {
	return cluster.NewWorld(ctx, size)
}
