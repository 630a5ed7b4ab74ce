// Package fd implements the per-process GuestFileDescriptor table (spec
// §3 GuestFileDescriptor): a thin wrapper around an fdops.Fdops_i handle
// that adds the write-position cursor the WRITE syscall needs (it takes
// no offset argument, unlike READ). Grounded on the teacher's fd/fd.go
// Fd_t, stripped of Cwd_t/Copyfd/Reopen — this kernel has no fork and a
// flat directory, so descriptors are never duplicated across processes
// and there is no working directory to track.
package fd

import "nachos/defs"
import "nachos/fdops"

// Fd_t is one open guest file descriptor.
type Fd_t struct {
	Fops fdops.Fdops_i // descriptor operations
	pos  int           // next byte offset a sequential Write targets
}

// Mk wraps ops as a fresh descriptor with its write cursor at zero.
func Mk(ops fdops.Fdops_i) *Fd_t {
	return &Fd_t{Fops: ops}
}

// ReadAt serves the READ syscall's explicit-offset semantics directly;
// it does not touch or depend on the write cursor.
func (f *Fd_t) ReadAt(dst []byte, offset int) (int, defs.Err_t) {
	return f.Fops.ReadAt(dst, offset)
}

// Write serves the WRITE syscall, which carries no offset: it writes at
// the descriptor's current position and advances it by the number of
// bytes actually written.
func (f *Fd_t) Write(src []byte) (int, defs.Err_t) {
	n, err := f.Fops.WriteAt(src, f.pos)
	if err != 0 {
		return n, err
	}
	f.pos += n
	return n, 0
}

// Close releases the underlying handle. Once closed a Fd_t must not be
// used again.
func (f *Fd_t) Close() defs.Err_t {
	return f.Fops.Close()
}
