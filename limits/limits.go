// Package limits bounds the kernel's fixed-size tables: the process
// table (spec §4.I, "the table is bounded and Exec returns -1 if full")
// and the guest file descriptors open across all processes (spec §4.H
// Open/Close).
package limits

import "sync/atomic"
import "unsafe"

// Sysatomic_t is a counted semaphore: Taken/Given move it down/up
// atomically, and Taken refuses to push it negative. It is the teacher's
// mechanism for gating a fixed-size system resource without a mutex.
type Sysatomic_t int64

func (s *Sysatomic_t) aptr() *int64 {
	return (*int64)(unsafe.Pointer(s))
}

// Given increases the limit by the provided amount.
func (s *Sysatomic_t) Given(n uint) {
	atomic.AddInt64(s.aptr(), int64(n))
}

// Taken tries to decrement the limit by n and reports whether it
// succeeded; on failure the limit is left unchanged.
func (s *Sysatomic_t) Taken(n uint) bool {
	if atomic.AddInt64(s.aptr(), -int64(n)) >= 0 {
		return true
	}
	atomic.AddInt64(s.aptr(), int64(n))
	return false
}

// Take decrements the limit by one slot.
func (s *Sysatomic_t) Take() bool {
	return s.Taken(1)
}

// Give returns one slot to the limit.
func (s *Sysatomic_t) Give() {
	s.Given(1)
}

// Remaining reports the current count; used only for diagnostics, never
// for a check-then-act decision (Taken/Take already do that atomically).
func (s *Sysatomic_t) Remaining() int64 {
	return atomic.LoadInt64(s.aptr())
}

// Syslimit_t holds the kernel's configured resource bounds.
type Syslimit_t struct {
	// Sysprocs bounds the number of live entries in the process table
	// (spec §4.I / §3 ProcessRecord).
	Sysprocs Sysatomic_t
	// Nofile bounds the number of open guest descriptors (spec §3, §4.H
	// Open). It is one counter shared by every process, not a separate
	// bound per process's GuestFileDescriptor table.
	Nofile Sysatomic_t
}

// MkSysLimit returns the kernel's default resource bounds.
func MkSysLimit() *Syslimit_t {
	return &Syslimit_t{
		Sysprocs: 128,
		Nofile:   32,
	}
}

// Syslimit is the process-wide singleton consulted by proc and fs.
var Syslimit = MkSysLimit()
