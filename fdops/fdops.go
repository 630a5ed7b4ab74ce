// Package fdops defines the interface a kernel file handle (console or
// regular file) must implement to sit behind a GuestFileDescriptor (spec
// §3 GuestFileDescriptor, §4.H Read/Write). Both package console and
// package fs's open-file handles satisfy Fdops_i; package fd wraps one
// in a per-descriptor position cursor so the Write syscall, which takes
// no offset argument, still writes sequentially.
package fdops

import "nachos/defs"

// Fdops_i is implemented by anything a GuestFileDescriptor can point at.
type Fdops_i interface {
	// ReadAt copies up to len(dst) bytes starting at offset into dst and
	// returns the count read. Console implementations ignore offset and
	// block until dst is full or the input reaches end of file.
	ReadAt(dst []byte, offset int) (int, defs.Err_t)

	// WriteAt writes src starting at offset. File implementations write
	// every byte; the console implementation stops at the first NUL
	// byte in src (spec §4.H: "console writes stop at NUL, file writes
	// do not") and ignores offset.
	WriteAt(src []byte, offset int) (int, defs.Err_t)

	// Close releases the handle. For files this decrements the
	// open-file entry's user count (spec §4.E); for the console it is a
	// no-op, since console descriptors 0/1 are never actually closed.
	Close() defs.Err_t
}
