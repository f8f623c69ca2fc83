package runtime

import (
	"github.com/pkg/errors"
)

// LocalData is a scoped local acquisition of a handle's memory on one rank.
// It participates in the dependency graph like a task: acquiring blocks
// until every conflicting predecessor has finished, and subsequent tasks on
// the handle wait for Release.
//
// Release must be called on every exit path; defer it immediately after a
// successful Acquire.
type LocalData struct {
	t        *task
	buf      []byte
	released bool
}

// Acquire blocks until the handle's memory on rank is available under the
// given access mode, then returns a scoped view of it. Concurrent Read
// acquisitions of the same handle are permitted; Write and ReadWrite are
// exclusive, following the same compatibility rule as tasks.
func (c *Context) Acquire(h *Handle, rank int, mode AccessMode) (*LocalData, error) {
	if mode != Read && mode != Write && mode != ReadWrite {
		return nil, errors.Errorf("runtime: cannot acquire tag %d with mode %s", h.tag, mode)
	}
	t := &task{
		ctx:      c,
		name:     "acquire",
		rank:     rank,
		mask:     CPUMask,
		inline:   true,
		acquired: make(chan []byte, 1),
		release:  make(chan struct{}),
		accesses: []BufferAccess{{Handle: h, Mode: mode}},
	}
	if err := c.enroll(t, false); err != nil {
		return nil, err
	}
	return &LocalData{t: t, buf: <-t.acquired}, nil
}

// Bytes returns the acquired byte view. Only valid until Release.
func (ld *LocalData) Bytes() []byte {
	if ld.released {
		panic("runtime: use of LocalData after Release")
	}
	return ld.buf
}

// Release ends the scoped acquisition, letting dependent tasks proceed.
// Safe to call more than once.
func (ld *LocalData) Release() {
	if ld.released {
		return
	}
	ld.released = true
	ld.buf = nil
	close(ld.t.release)
}
