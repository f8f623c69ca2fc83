// Copyright 2026 Slate ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the optional WebGPU execution resource.
//
// WebGPU is a cross-platform compute API; when a compatible GPU and the
// wgpu_native library are present, attaching a device steers float32
// routines to GPU streams. Everything keeps working without one.
//
// Example:
//
//	ctx := runtime.New(cpu.New().ConfigWithGPU(2))
//	defer ctx.Close()
//	if webgpu.IsAvailable() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//	    gpu.Attach(ctx)
//	}
package webgpu

import (
	internalwebgpu "github.com/slate-ml/slate/internal/backend/webgpu"
)

// Device wraps one WebGPU adapter/device/queue triple.
type Device = internalwebgpu.Device

// New initializes a WebGPU device. Returns an error if WebGPU is not
// available or initialization fails. Call Release when done.
func New() (*Device, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is usable on the current system.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
