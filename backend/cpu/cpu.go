// Copyright 2026 Slate ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the host CPU execution resource.
//
// Example:
//
//	import (
//	    "github.com/slate-ml/slate/backend/cpu"
//	    "github.com/slate-ml/slate/runtime"
//	)
//
//	func main() {
//	    ctx := runtime.New(cpu.New().Config())
//	    defer ctx.Close()
//	}
package cpu

import (
	internalcpu "github.com/slate-ml/slate/internal/backend/cpu"
)

// Executor sizes the CPU worker pool of a runtime context.
type Executor = internalcpu.Executor

// New sizes the executor to the machine's logical CPU count.
func New() *Executor {
	return internalcpu.New()
}
