package runtime

// BufferAccess pairs a handle with the access mode a task declares for it.
type BufferAccess struct {
	Handle *Handle
	Mode   AccessMode
}

// ExecEnv describes the resource a kernel is executing on.
type ExecEnv struct {
	// Kind is CPUMask or GPUMask.
	Kind ResourceMask
	// Worker is the worker or stream index within its kind.
	Worker int
	// Device is the attached GPU device wrapper; nil on CPU.
	Device GPUDevice
}

// GPUDevice is the runtime's view of an attached GPU executor. The concrete
// wrapper lives in internal/backend/webgpu; kernels that target the GPU
// assert it to the concrete type.
type GPUDevice interface {
	Name() string
}

// Call carries the resolved inputs of one task execution: host byte views
// of every declared buffer (in declaration order, scratch buffers allocated
// fresh), the handles themselves for movement kernels, and the argument
// block captured at submission.
type Call struct {
	Rank    int
	Buffers [][]byte
	Handles []*Handle
	Args    any
}

// Kernel is a compute-routine entry point. Kernels receive buffers already
// resolved for their rank plus the task's argument block, and signal no
// errors through this channel: any precondition must have been validated
// before submission.
type Kernel func(env *ExecEnv, call *Call)

// TaskSpec describes one task submission.
type TaskSpec struct {
	// Name identifies the operation in diagnostics.
	Name string
	// Rank is the node the task executes on behalf of; buffer views are
	// resolved against that rank's replicas.
	Rank int
	// Where restricts which resource kinds may execute the task.
	Where ResourceMask
	// CPU and GPU are the per-resource entry points. CPU is mandatory;
	// GPU may be nil.
	CPU Kernel
	GPU Kernel
	// Args is the scalar argument block, captured by value at submission
	// and owned by the task until completion.
	Args any
	// Buffers lists the handles the task touches with their access modes.
	Buffers []BufferAccess
}

// task is one node of the dependency graph.
type task struct {
	ctx  *Context
	name string
	rank int
	mask ResourceMask
	cpu  Kernel
	gpu  Kernel
	args any

	accesses []BufferAccess

	// moveFn marks a data-movement task: ordered like ReadWrite but
	// operating on replica state directly, bypassing buffer resolution.
	moveFn func(*Handle)

	// Graph state, guarded by ctx.graphMu.
	npred int
	succs []*task
	done  bool
	toGPU bool // routing decided at submission

	// Scoped acquisition support: inline tasks run on their own goroutine
	// and park between acquired and release.
	inline   bool
	acquired chan []byte
	release  chan struct{}
}

// addDep links pred -> t unless pred already completed.
// Caller must hold ctx.graphMu.
func (t *task) addDep(pred *task) {
	if pred == nil || pred.done || pred == t {
		return
	}
	for _, s := range pred.succs {
		if s == t {
			return
		}
	}
	pred.succs = append(pred.succs, t)
	t.npred++
}
