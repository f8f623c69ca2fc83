package runtime

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// worker is the loop of one CPU worker or GPU stream: pop a ready task,
// resolve its buffer views, run the kernel, release successors.
func (c *Context) worker(env *ExecEnv, q *queue) {
	defer c.wg.Done()
	for {
		t := q.pop()
		if t == nil {
			return
		}
		c.execute(env, t)
	}
}

// execute runs one task to completion. Kernels are required to signal no
// errors; a panic escaping one is converted into a deferred fatal failure
// so it surfaces at the next synchronization point instead of killing the
// worker.
func (c *Context) execute(env *ExecEnv, t *task) {
	defer c.complete(t)
	defer func() {
		if r := recover(); r != nil {
			c.deferErr(errors.Errorf("task %q on rank %d: %v", t.name, t.rank, r))
		}
	}()

	if t.moveFn != nil {
		t.moveFn(t.accesses[0].Handle)
		return
	}

	call := &Call{
		Rank:    t.rank,
		Buffers: make([][]byte, len(t.accesses)),
		Handles: make([]*Handle, len(t.accesses)),
		Args:    t.args,
	}
	for i, ba := range t.accesses {
		call.Handles[i] = ba.Handle
		if ba.Mode == Scratch {
			call.Buffers[i] = make([]byte, ba.Handle.size)
			continue
		}
		call.Buffers[i] = ba.Handle.resolve(t.rank, ba.Mode)
	}

	kernel := t.cpu
	if env.Kind == GPUMask {
		kernel = t.gpu
	}
	klog.V(3).Infof("runtime %s: %s worker %d running %q on rank %d", c.id, env.Kind, env.Worker, t.name, t.rank)
	kernel(env, call)
}

// runInline executes a scoped-acquisition task on its own goroutine: it
// resolves the buffer, hands it to the acquirer and parks until release.
func (c *Context) runInline(t *task) {
	buf := t.accesses[0].Handle.resolve(t.rank, t.accesses[0].Mode)
	t.acquired <- buf
	<-t.release
	c.complete(t)
}
