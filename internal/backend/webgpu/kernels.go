package webgpu

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/slate-ml/slate/internal/codelet"
	"github.com/slate-ml/slate/internal/dtype"
	"github.com/slate-ml/slate/internal/runtime"
)

// Compile-time check that Device is a valid GPU execution resource.
var _ runtime.GPUDevice = (*Device)(nil)

// Attach wires the device into a runtime context: it starts the configured
// GPU streams and registers the float32 GPU entry points on the engine's
// codelets. Tasks for other element types keep running on their CPU
// routines.
func (d *Device) Attach(ctx *runtime.Context) {
	codelet.Clear.RegisterGPU(dtype.Float32, d.clearKernel)
	codelet.Add.RegisterGPU(dtype.Float32, d.addKernel)
	ctx.AttachGPU(d)
	klog.V(1).Infof("webgpu: registered float32 routines on %q", d.Name())
}

// device recovers the owning Device from the execution environment; the
// dispatch layer only steers tasks to GPU streams after Attach, so the
// assertion cannot fail in a well-formed run.
func device(env *runtime.ExecEnv) *Device {
	d, ok := env.Device.(*Device)
	if !ok {
		panic(fmt.Sprintf("webgpu: GPU stream carries foreign device %T", env.Device))
	}
	return d
}

func (d *Device) clearKernel(env *runtime.ExecEnv, call *runtime.Call) {
	dst := call.Buffers[0]
	if err := device(env).runClear(dst, len(dst)/4); err != nil {
		panic(fmt.Sprintf("webgpu: clear: %v", err))
	}
}

func (d *Device) addKernel(env *runtime.ExecEnv, call *runtime.Call) {
	args := call.Args.(codelet.AddArgs)
	if err := device(env).runAdd(args.Alpha, call.Buffers[0], call.Buffers[1], args.NElems); err != nil {
		panic(fmt.Sprintf("webgpu: add: %v", err))
	}
}
