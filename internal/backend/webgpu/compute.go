package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
)

// createBuffer creates a GPU storage buffer and uploads the initial data
// through a mapped-at-creation range.
func (d *Device) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))
	buffer := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()
	return buffer
}

// createUniformBuffer creates a uniform buffer with the 16-byte alignment
// uniform struct fields require.
func (d *Device) createUniformBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	alignedSize := (size + 15) &^ 15

	buffer := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})
	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mappedSlice, data)
	buffer.Unmap()
	return buffer
}

// readBuffer reads data back from a GPU buffer through a staging buffer,
// since storage buffers cannot be mapped directly.
func (d *Device) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	stagingBuffer := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer stagingBuffer.Release()

	encoder := d.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, stagingBuffer, 0, size)
	cmdBuffer := encoder.Finish(nil)
	d.queue.Submit(cmdBuffer)

	err := stagingBuffer.MapAsync(d.device, wgpu.MapModeRead, 0, size)
	if err != nil {
		return nil, fmt.Errorf("failed to map staging buffer: %w", err)
	}
	mappedPtr := stagingBuffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)
	stagingBuffer.Unmap()

	return result, nil
}

// dispatch1D runs one compute pass over ceil(nelems/workgroupSize)
// workgroups.
func (d *Device) dispatch1D(pipeline *wgpu.ComputePipeline, bindGroup *wgpu.BindGroup, nelems int) {
	encoder := d.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	//nolint:gosec // G115: workgroup count is non-negative
	workgroups := uint32((nelems + workgroupSize - 1) / workgroupSize)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()
	cmdBuffer := encoder.Finish(nil)
	d.queue.Submit(cmdBuffer)
}

// runClear zeroes nelems float32 values of dst on the GPU and writes the
// result back into dst.
func (d *Device) runClear(dst []byte, nelems int) error {
	shader := d.compileShader("clear_f32", clearShader)
	pipeline := d.getOrCreatePipeline("clear_f32", shader)

	size := uint64(len(dst))
	bufferDst := d.createBuffer(dst, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferDst.Release()

	params := make([]byte, 16)
	//nolint:gosec // G115: element count is non-negative
	binary.LittleEndian.PutUint32(params[0:4], uint32(nelems))
	bufferParams := d.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroup := d.device.CreateBindGroupSimple(pipeline.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferDst, 0, size),
		wgpu.BufferBindingEntry(1, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	d.dispatch1D(pipeline, bindGroup, nelems)

	result, err := d.readBuffer(bufferDst, size)
	if err != nil {
		return err
	}
	copy(dst, result)
	return nil
}

// runAdd accumulates dst += alpha*src over nelems float32 values on the
// GPU and writes the result back into dst.
func (d *Device) runAdd(alpha float64, src, dst []byte, nelems int) error {
	shader := d.compileShader("add_f32", addShader)
	pipeline := d.getOrCreatePipeline("add_f32", shader)

	size := uint64(4 * nelems)
	bufferSrc := d.createBuffer(src[:size], wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferSrc.Release()
	bufferDst := d.createBuffer(dst[:size], wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferDst.Release()

	params := make([]byte, 16)
	//nolint:gosec // G115: element count is non-negative
	binary.LittleEndian.PutUint32(params[0:4], uint32(nelems))
	binary.LittleEndian.PutUint32(params[4:8], math.Float32bits(float32(alpha)))
	bufferParams := d.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroup := d.device.CreateBindGroupSimple(pipeline.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferSrc, 0, size),
		wgpu.BufferBindingEntry(1, bufferDst, 0, size),
		wgpu.BufferBindingEntry(2, bufferParams, 0, 16),
	})
	defer bindGroup.Release()

	d.dispatch1D(pipeline, bindGroup, nelems)

	result, err := d.readBuffer(bufferDst, size)
	if err != nil {
		return err
	}
	copy(dst, result)
	return nil
}
