package runtime

import (
	stderrors "errors"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Context owns the task graph, the worker pool, the tag registry and the
// deferred-error accumulator for one run of the engine.
//
// A Context is created once, used to register handles and submit tasks from
// the controlling goroutine, and shut down with Close after a final
// WaitForAll.
type Context struct {
	id  string
	cfg Config

	// graphMu guards dependency bookkeeping, the pending counter and the
	// handle registry.
	graphMu     sync.Mutex
	pendingCond *sync.Cond
	pending     int
	closed      bool

	nextTag  Tag
	registry map[Tag]*Handle

	cpuQ *queue
	gpuQ *queue

	gpuMu     sync.Mutex
	gpuDevice GPUDevice
	gpuUp     bool

	errMu sync.Mutex
	errs  []error

	wg sync.WaitGroup
}

// New creates a Context and starts its CPU workers.
func New(cfg Config) *Context {
	if cfg.NumCPUWorkers < 1 {
		cfg.NumCPUWorkers = 1
	}
	ctx := &Context{
		id:       uuid.NewString(),
		cfg:      cfg,
		registry: make(map[Tag]*Handle),
		cpuQ:     newQueue(),
		gpuQ:     newQueue(),
	}
	ctx.pendingCond = sync.NewCond(&ctx.graphMu)
	for i := 0; i < cfg.NumCPUWorkers; i++ {
		ctx.wg.Add(1)
		go ctx.worker(&ExecEnv{Kind: CPUMask, Worker: i}, ctx.cpuQ)
	}
	klog.V(1).Infof("runtime %s: started %d CPU workers", ctx.id, cfg.NumCPUWorkers)
	return ctx
}

// ID returns the run identifier used in diagnostics.
func (c *Context) ID() string { return c.id }

// AttachGPU attaches a GPU executor and starts the configured number of
// execution streams. Tasks that provide a GPU entry point and are not
// restricted to the CPU will be steered to the streams.
func (c *Context) AttachGPU(dev GPUDevice) {
	c.gpuMu.Lock()
	defer c.gpuMu.Unlock()
	if c.gpuUp || dev == nil {
		return
	}
	c.gpuDevice = dev
	c.gpuUp = true
	streams := c.cfg.NumGPUStreams
	if streams < 1 {
		streams = 1
	}
	for i := 0; i < streams; i++ {
		c.wg.Add(1)
		go c.worker(&ExecEnv{Kind: GPUMask, Worker: i, Device: dev}, c.gpuQ)
	}
	klog.V(1).Infof("runtime %s: attached GPU %q with %d streams", c.id, dev.Name(), streams)
}

// gpuAvailable reports whether GPU streams are running.
func (c *Context) gpuAvailable() bool {
	c.gpuMu.Lock()
	defer c.gpuMu.Unlock()
	return c.gpuUp
}

// NewHandle registers an engine-owned buffer of size bytes living on the
// given home rank, under the given tag. Registering a live tag twice is a
// configuration error.
func (c *Context) NewHandle(tag Tag, size, home int) (*Handle, error) {
	return c.register(tag, size, home, nil)
}

// WrapHandle registers a handle around caller-owned memory on the given
// home rank. The caller keeps ownership of the slice; its lifetime must
// cover every task referencing the handle.
func (c *Context) WrapHandle(tag Tag, data []byte, home int) (*Handle, error) {
	return c.register(tag, len(data), home, data)
}

func (c *Context) register(tag Tag, size, home int, data []byte) (*Handle, error) {
	c.graphMu.Lock()
	defer c.graphMu.Unlock()
	if c.closed {
		return nil, errors.New("runtime: context is closed")
	}
	if _, live := c.registry[tag]; live {
		return nil, errors.Errorf("runtime: tag %d is already registered; barrier and retire before reuse", tag)
	}
	h := newHandle(c, tag, size, home, data)
	c.registry[tag] = h
	if tag >= c.nextTag {
		c.nextTag = tag + 1
	}
	return h, nil
}

// ReserveTags returns the first tag of a fresh contiguous block of n tags.
func (c *Context) ReserveTags(n int) Tag {
	c.graphMu.Lock()
	defer c.graphMu.Unlock()
	first := c.nextTag
	c.nextTag += Tag(n)
	return first
}

// LookupTag returns the live handle registered under tag, or nil.
func (c *Context) LookupTag(tag Tag) *Handle {
	c.graphMu.Lock()
	defer c.graphMu.Unlock()
	return c.registry[tag]
}

// Submit queues one task and returns once it is enqueued, not once it has
// run. Configuration problems (no entry point for the requested resources,
// submission after Close) are reported synchronously; failures inside the
// task attach to the context and surface at the next WaitForAll.
func (c *Context) Submit(spec TaskSpec) error {
	if spec.CPU == nil && spec.GPU == nil {
		return errors.Errorf("runtime: task %q has no entry points", spec.Name)
	}
	mask := spec.Where
	if mask == 0 {
		mask = AnyResource
	}
	useGPU := mask&GPUMask != 0 && spec.GPU != nil && c.gpuAvailable()
	useCPU := mask&CPUMask != 0 && spec.CPU != nil
	if !useCPU && !useGPU {
		return errors.Errorf("runtime: task %q cannot run anywhere (where=%s, cpu=%t, gpu=%t)",
			spec.Name, mask, spec.CPU != nil, spec.GPU != nil)
	}
	t := &task{
		ctx:      c,
		name:     spec.Name,
		rank:     spec.Rank,
		mask:     mask,
		cpu:      spec.CPU,
		gpu:      spec.GPU,
		args:     spec.Args,
		accesses: spec.Buffers,
	}
	return c.enroll(t, useGPU)
}

// enroll wires the task into the dependency graph and enqueues it if ready.
func (c *Context) enroll(t *task, useGPU bool) error {
	c.graphMu.Lock()
	if c.closed {
		c.graphMu.Unlock()
		return errors.Errorf("runtime: submit of %q after context close", t.name)
	}
	t.toGPU = useGPU
	for _, ba := range t.accesses {
		h := ba.Handle
		switch ba.Mode {
		case Read:
			t.addDep(h.lastWriter)
			h.readers = append(h.readers, t)
		case Write, ReadWrite:
			t.addDep(h.lastWriter)
			for _, r := range h.readers {
				t.addDep(r)
			}
			h.lastWriter = t
			h.readers = h.readers[:0]
		case Scratch:
			// Task-private, carries no dependencies.
		default:
			c.graphMu.Unlock()
			return errors.Errorf("runtime: task %q: invalid access mode %d", t.name, ba.Mode)
		}
	}
	c.pending++
	ready := t.npred == 0
	c.graphMu.Unlock()

	if ready {
		c.dispatch(t, useGPU)
	}
	return nil
}

// dispatch places a ready task on its queue, or spawns a goroutine for
// inline (scoped acquisition) tasks so they cannot starve pool workers.
func (c *Context) dispatch(t *task, useGPU bool) {
	switch {
	case t.inline:
		go c.runInline(t)
	case useGPU:
		c.gpuQ.push(t)
	default:
		c.cpuQ.push(t)
	}
}

// complete marks a task finished and releases its successors.
func (c *Context) complete(t *task) {
	c.graphMu.Lock()
	t.done = true
	var ready []*task
	for _, s := range t.succs {
		s.npred--
		if s.npred == 0 {
			ready = append(ready, s)
		}
	}
	t.succs = nil
	c.pending--
	if c.pending == 0 {
		c.pendingCond.Broadcast()
	}
	c.graphMu.Unlock()
	for _, s := range ready {
		c.dispatch(s, s.toGPU)
	}
}

// deferErr attaches a deferred failure to the context; it surfaces at the
// next WaitForAll.
func (c *Context) deferErr(err error) {
	c.errMu.Lock()
	c.errs = append(c.errs, err)
	c.errMu.Unlock()
	klog.Errorf("runtime %s: deferred task failure: %v", c.id, err)
}

// WaitForAll blocks until every submitted task and transfer has completed,
// then reports any failures deferred since the previous synchronization
// point.
func (c *Context) WaitForAll() error {
	c.graphMu.Lock()
	for c.pending > 0 {
		c.pendingCond.Wait()
	}
	c.graphMu.Unlock()

	c.errMu.Lock()
	errs := c.errs
	c.errs = nil
	c.errMu.Unlock()
	return stderrors.Join(errs...)
}

// RetireUpTo unregisters every handle with tag <= last so the tag range can
// be reused. The graph must be quiescent: callers synchronize with
// WaitForAll first.
func (c *Context) RetireUpTo(last Tag) error {
	c.graphMu.Lock()
	defer c.graphMu.Unlock()
	if c.pending > 0 {
		return errors.Errorf("runtime: retire with %d tasks still pending", c.pending)
	}
	for tag := range c.registry {
		if tag <= last {
			delete(c.registry, tag)
		}
	}
	return nil
}

// Barrier waits for all outstanding work and retires every tag allocated so
// far. After a Barrier, previously used tag ranges may be reused by new
// tensors.
func (c *Context) Barrier() error {
	if err := c.WaitForAll(); err != nil {
		return err
	}
	c.graphMu.Lock()
	last := c.nextTag - 1
	c.graphMu.Unlock()
	return c.RetireUpTo(last)
}

// Close drains outstanding work and stops the workers. The context must not
// be used afterwards.
func (c *Context) Close() error {
	err := c.WaitForAll()
	c.graphMu.Lock()
	c.closed = true
	c.graphMu.Unlock()
	c.cpuQ.close()
	c.gpuQ.close()
	c.wg.Wait()
	klog.V(1).Infof("runtime %s: closed", c.id)
	return err
}
