package runtime

import (
	"fmt"
	"sync"

	"k8s.io/klog/v2"
)

// Tag uniquely identifies a registered buffer handle across the whole run.
// Tags are allocated sequentially from the Context's counter and recycled
// only after an explicit barrier confirms no pending task references them.
type Tag int64

// Handle is one registered, dependency-tracked buffer: a tile's contiguous
// memory plus its tag, owning rank and per-rank replicas.
//
// The handle carries its own graph bookkeeping: a last writer and a
// current-readers set, updated at submission time under the Context's
// graph lock. Replica contents are only touched from inside an
// executing task or a scoped acquisition.
type Handle struct {
	ctx  *Context
	tag  Tag
	size int // bytes
	home int // owning rank, fixed for the handle's lifetime

	// Replica state. auth is the rank holding the authoritative copy;
	// valid marks ranks whose replica matches it.
	mu       sync.Mutex
	replicas map[int][]byte
	valid    map[int]bool
	auth     int

	// Dependency state, guarded by ctx.graphMu.
	lastWriter *task
	readers    []*task
}

// Tag returns the handle's unique tag.
func (h *Handle) Tag() Tag { return h.tag }

// Size returns the buffer size in bytes.
func (h *Handle) Size() int { return h.size }

// HomeRank returns the rank that owns the handle. Ownership never changes;
// transfers only create transient replicas for computation.
func (h *Handle) HomeRank() int { return h.home }

// newHandle registers a fresh engine-owned buffer of the given byte size on
// the given home rank. data may be a caller-owned slice to wrap; when nil
// the buffer is allocated by the runtime.
func newHandle(ctx *Context, tag Tag, size, home int, data []byte) *Handle {
	if data == nil {
		data = make([]byte, size)
	} else if len(data) < size {
		panic(fmt.Sprintf("runtime: provided buffer holds %d bytes, handle needs %d", len(data), size))
	}
	return &Handle{
		ctx:      ctx,
		tag:      tag,
		size:     size,
		home:     home,
		replicas: map[int][]byte{home: data[:size]},
		valid:    map[int]bool{home: true},
		auth:     home,
	}
}

// bytesOn returns the replica byte slice for the given rank, allocating it
// lazily. Caller must hold h.mu.
func (h *Handle) bytesOn(rank int) []byte {
	buf, ok := h.replicas[rank]
	if !ok {
		buf = make([]byte, h.size)
		h.replicas[rank] = buf
	}
	return buf
}

// resolve returns the byte view a task running on rank must use, honoring
// the declared access mode. A read on a rank with no valid replica
// materializes one from the authoritative copy; the dependency graph
// guarantees the authoritative contents are stable at this point.
func (h *Handle) resolve(rank int, mode AccessMode) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf := h.bytesOn(rank)
	if mode == Read || mode == ReadWrite {
		if !h.valid[rank] {
			klog.V(2).Infof("tag %d: materializing replica on rank %d from rank %d", h.tag, rank, h.auth)
			copy(buf, h.replicas[h.auth])
			h.valid[rank] = true
		}
	}
	if mode.writes() {
		// The writer's replica becomes the authoritative copy.
		h.auth = rank
		for r := range h.valid {
			delete(h.valid, r)
		}
		h.valid[rank] = true
	}
	return buf
}

// CopyReplica copies the authoritative replica to the given rank and marks
// it valid, leaving the authoritative rank unchanged. Must only be called
// from inside a task that declared access to the handle.
func (h *Handle) CopyReplica(dst int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.valid[dst] {
		return
	}
	copy(h.bytesOn(dst), h.replicas[h.auth])
	h.valid[dst] = true
}

// PublishHome copies the authoritative replica back to the owning rank and
// invalidates every other replica. Must only be called from inside a task
// that declared access to the handle.
func (h *Handle) PublishHome() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.auth != h.home {
		copy(h.bytesOn(h.home), h.replicas[h.auth])
	}
	h.auth = h.home
	for r := range h.valid {
		delete(h.valid, r)
	}
	h.valid[h.home] = true
	// Transient replicas are dropped so stale copies can never be read.
	for r := range h.replicas {
		if r != h.home {
			delete(h.replicas, r)
		}
	}
}

// AuthRank returns the rank currently holding the authoritative copy.
func (h *Handle) AuthRank() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.auth
}

// ValidOn reports whether the replica on rank holds the authoritative
// contents.
func (h *Handle) ValidOn(rank int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.valid[rank]
}
