package webgpu

// WGSL compute shaders for the engine's GPU routines.
// Using string constants instead of embed for simplicity.

// workgroupSize is the number of threads per workgroup.
const workgroupSize = 256

// clearShader zeroes a buffer: dst[i] = 0.
const clearShader = `
@group(0) @binding(0) var<storage, read_write> dst: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(1) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        dst[idx] = 0.0;
    }
}
`

// addShader accumulates in place: dst[i] = dst[i] + alpha * src[i].
const addShader = `
@group(0) @binding(0) var<storage, read> src: array<f32>;
@group(0) @binding(1) var<storage, read_write> dst: array<f32>;

struct Params {
    size: u32,
    alpha: f32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        dst[idx] = dst[idx] + params.alpha * src[idx];
    }
}
`
