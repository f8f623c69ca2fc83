// Package cpu describes the host CPU execution resource: the worker count
// the runtime's pool should run with and the steering mask its tasks carry.
// The CPU routines themselves live with their codelets; this package only
// sizes and names the resource.
package cpu

import (
	"fmt"
	goruntime "runtime"

	"github.com/slate-ml/slate/internal/runtime"
)

// Executor sizes the CPU worker pool.
type Executor struct {
	workers int
}

// New sizes the executor to the machine's logical CPU count.
func New() *Executor {
	return &Executor{workers: goruntime.NumCPU()}
}

// WithWorkers overrides the worker count; values below one fall back to a
// single worker.
func (e *Executor) WithWorkers(n int) *Executor {
	if n < 1 {
		n = 1
	}
	e.workers = n
	return e
}

// Workers returns the configured worker count.
func (e *Executor) Workers() int { return e.workers }

// Name identifies the resource in diagnostics.
func (e *Executor) Name() string {
	return fmt.Sprintf("CPU (%d workers)", e.workers)
}

// Config builds the runtime configuration for a context backed by this
// executor alone.
func (e *Executor) Config() runtime.Config {
	return runtime.Config{NumCPUWorkers: e.workers}
}

// ConfigWithGPU builds the runtime configuration for a context that will
// also attach a GPU device with the given number of streams.
func (e *Executor) ConfigWithGPU(streams int) runtime.Config {
	if streams < 1 {
		streams = 1
	}
	return runtime.Config{NumCPUWorkers: e.workers, NumGPUStreams: streams}
}
