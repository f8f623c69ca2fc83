// Package runtime implements the task-graph contract the Slate engine is
// built on: registered buffer handles with unique tags, asynchronous task
// submission with per-buffer access modes, automatic dependency resolution
// from those modes, a CPU/GPU worker pool, and scoped local acquisition of
// a handle's memory.
//
// Submission never blocks. Ordering guarantees are only those implied by
// declared data dependencies: tasks with a Read-after-Write, Write-after-Read
// or Write-after-Write relation on the same handle execute in submission
// order; tasks that only read a handle may run concurrently.
package runtime

// AccessMode declares how a task uses one of its buffers. The declared mode
// is the sole synchronization contract for the buffer's memory.
type AccessMode int

// Supported access modes.
const (
	// Read declares read-only access. Concurrent readers are allowed.
	Read AccessMode = iota + 1
	// Write declares write-only access: the task fully overwrites the
	// buffer and never observes its previous contents.
	Write
	// ReadWrite declares exclusive read-modify-write access.
	ReadWrite
	// Scratch declares task-private temporary storage. A scratch buffer
	// carries no dependencies and is allocated fresh for each execution.
	Scratch
)

// String returns a human-readable mode name.
func (m AccessMode) String() string {
	switch m {
	case Read:
		return "R"
	case Write:
		return "W"
	case ReadWrite:
		return "RW"
	case Scratch:
		return "SCRATCH"
	default:
		return "?"
	}
}

// writes reports whether the mode may modify the buffer.
func (m AccessMode) writes() bool {
	return m == Write || m == ReadWrite
}

// ResourceMask selects which resource kinds may execute an operation.
type ResourceMask uint8

// Resource kinds.
const (
	CPUMask ResourceMask = 1 << iota
	GPUMask
)

// AnyResource places no restriction on where an operation may run.
const AnyResource = CPUMask | GPUMask

// String returns a human-readable mask description.
func (m ResourceMask) String() string {
	switch m {
	case CPUMask:
		return "CPU"
	case GPUMask:
		return "GPU"
	case AnyResource:
		return "CPU|GPU"
	default:
		return "none"
	}
}
