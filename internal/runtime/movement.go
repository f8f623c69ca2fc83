package runtime

import "github.com/pkg/errors"

// SubmitMovement queues a pure data-movement task on a handle. It is
// ordered exactly like a ReadWrite task (after the last writer and all
// current readers, before everything submitted later), but instead of
// receiving a resolved buffer view the kernel manipulates replica state
// directly through the handle. Movement never changes which rank owns the
// handle.
func (c *Context) SubmitMovement(name string, h *Handle, fn func(*Handle)) error {
	if fn == nil {
		return errors.Errorf("runtime: movement task %q has no kernel", name)
	}
	t := &task{
		ctx:      c,
		name:     name,
		rank:     h.home,
		mask:     CPUMask,
		moveFn:   fn,
		accesses: []BufferAccess{{Handle: h, Mode: ReadWrite}},
	}
	return c.enroll(t, false)
}
