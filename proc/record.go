// Package proc implements the process table and the per-process
// lifecycle state a guest program's syscalls act on: its address space,
// its open-file descriptor table, and the Exec/Join/Exit rendezvous.
// Grounded on the teacher's tinfo.Tnote_t/Threadinfo_t, with the
// goroutine-local "current thread" lookup (runtime.Gptr/Setgptr, a
// Biscuit-patched-runtime pair not available in stock Go) dropped in
// favor of passing *proc.Record explicitly: every kernel goroutine here
// is spawned by syscall.Exec specifically to run one guest process, so
// it already has its own Record in scope without needing to recover it
// from thread-local storage.
package proc

import (
	"sync"

	"nachos/accnt"
	"nachos/defs"
	"nachos/fd"
	"nachos/limits"
	"nachos/vm"
)

// Record is one guest process's kernel-visible state (spec §3
// ProcessRecord).
type Record struct {
	ID       defs.SpaceId
	AS       *vm.AddressSpace
	Joinable bool

	// Acct accumulates this process's CPU-time usage (spec §4.H Exit:
	// "stats may be printed"); started marks when the record was built,
	// so Exit can charge the process's whole lifetime to Acct.Sysns.
	Acct    accnt.Accnt_t
	started int

	filesMu sync.Mutex
	files   map[int]*fd.Fd_t
	nextFid int

	once   sync.Once
	done   chan struct{}
	status int
}

// MkRecord returns a fresh process record for a just-constructed address
// space. Guest descriptors 0/1 are reserved for the console (defs.
// ConsoleIn/ConsoleOut) and never occupy a slot in files, so nextFid
// starts at 2.
func MkRecord(id defs.SpaceId, as *vm.AddressSpace, joinable bool) *Record {
	r := &Record{
		ID:       id,
		AS:       as,
		Joinable: joinable,
		files:    make(map[int]*fd.Fd_t),
		nextFid:  2,
		done:     make(chan struct{}),
	}
	r.started = r.Acct.Now()
	return r
}

// AddFile installs f under a fresh descriptor, bounded by
// limits.Syslimit.Nofile (spec §4.H Open). That counter is shared by all
// processes, so EMFILE means the kernel-wide descriptor limit is reached;
// there is no separate per-process bound.
func (r *Record) AddFile(f *fd.Fd_t) (int, defs.Err_t) {
	if !limits.Syslimit.Nofile.Take() {
		return 0, defs.EMFILE
	}
	r.filesMu.Lock()
	defer r.filesMu.Unlock()
	fid := r.nextFid
	r.nextFid++
	r.files[fid] = f
	return fid, 0
}

// GetFile returns the descriptor's backing Fd_t, if open.
func (r *Record) GetFile(fid int) (*fd.Fd_t, bool) {
	r.filesMu.Lock()
	defer r.filesMu.Unlock()
	f, ok := r.files[fid]
	return f, ok
}

// CloseFile releases fid, closing its underlying Fdops_i and returning
// the descriptor slot to limits.Syslimit.Nofile.
func (r *Record) CloseFile(fid int) defs.Err_t {
	r.filesMu.Lock()
	f, ok := r.files[fid]
	delete(r.files, fid)
	r.filesMu.Unlock()
	if !ok {
		return defs.EINVAL
	}
	limits.Syslimit.Nofile.Give()
	return f.Close()
}

// Exit records status and wakes every Join call waiting on this record
// (spec §4.H Exit: "Record status for potential joiner; terminate
// current thread"). Only the first call takes effect, matching Nachos's
// single-exit-per-thread semantics.
func (r *Record) Exit(status int) {
	r.once.Do(func() {
		r.Acct.Finish(r.started)
		r.status = status
		close(r.done)
	})
}

// Join blocks until this process exits and returns its status, folding
// its accumulated CPU-time accounting into joiner's own (spec §4.H Exit
// "stats may be printed", generalized to a joiner inheriting the usage
// of what it joined, the way a Unix wait() reports a child's rusage).
// Joining a non-joinable process is a caller error (spec §4.I, §4.H
// Join "Error if not joinable").
func (r *Record) Join(joiner *Record) (int, defs.Err_t) {
	if !r.Joinable {
		return 0, defs.ECHILD
	}
	<-r.done
	if joiner != nil {
		joiner.Acct.Add(&r.Acct)
	}
	return r.status, 0
}

// Teardown releases this record's address space; called once its
// joiner (if any) has retrieved the exit status and the record is about
// to be dropped from the process table.
func (r *Record) Teardown() {
	r.AS.Teardown()
}
