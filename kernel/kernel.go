// Package kernel holds the global singletons every other package
// reaches for (spec §3/§4.J Global Kernel State): the free-frame bitmap
// and main memory, the shared TLB, the synchronized console, the file
// system, and the process table, plus the fixed Boot/Shutdown sequence
// that wires them together. Grounded on the teacher's top-level "system"
// singleton pattern (one struct of pointers, built once at startup and
// referenced by value from every package below it) without any of its
// x86-specific members (APIC, ACPI tables, page allocator trees).
package kernel

import (
	"fmt"
	"io"
	"os"

	"nachos/caller"
	"nachos/console"
	"nachos/defs"
	"nachos/fs"
	"nachos/mem"
	"nachos/proc"
	"nachos/stats"
	"nachos/vm"
)

// Kernel bundles every process-wide singleton spec §4.J names.
type Kernel struct {
	Mem     *mem.Mem_t
	Tlb     *vm.Tlb_t
	Console *console.Console_t
	FS      *fs.FileSystem_t
	Procs   *proc.Table
	Stats   *stats.KernelStats

	SwapDir string
	disk    fs.Disk_i
}

// Boot constructs every kernel singleton in a fixed order — frame map
// and main memory first (nothing else can exist without physical
// memory), then the TLB, the console, the mounted file system, the
// process table, and finally the stats counters — and returns the
// assembled Kernel. disk
// must already be fs.Format'd or fs.Mount-able; swapDir names the host
// directory demand-paged address spaces create their swap<N>.asid files
// under.
func Boot(disk fs.Disk_i, nframes int, consoleIn io.Reader, consoleOut io.Writer, swapDir string) *Kernel {
	k := &Kernel{
		Mem:     mem.MkMem(nframes),
		Tlb:     vm.MkTlb(),
		Console: console.Mk(consoleIn, consoleOut),
		FS:      fs.Mount(disk),
		Procs:   proc.MkTable(),
		Stats:   &stats.KernelStats{},
		SwapDir: swapDir,
		disk:    disk,
	}
	return k
}

// Shutdown implements Halt's "initiate clean shutdown" (spec §4.H): dump
// the accumulated statistics and close the underlying disk, if it
// supports it.
func (k *Kernel) Shutdown() {
	fmt.Print(stats.Stats2String(k.Stats))
	if c, ok := k.disk.(interface{ Close() error }); ok {
		c.Close()
	}
}

// Fatal terminates the named process for a policy violation (spec §7:
// "fatal — the process is terminated by assertion; an implementation
// may instead deliver a per-process fatal signal"), logging the kernel
// call stack the way the source's ASSERT(false) would have dumped one.
// Unlike the source, this takes down only the offending process, not
// the whole simulated machine.
func (k *Kernel) Fatal(id defs.SpaceId, msg string) {
	fmt.Fprintf(os.Stderr, "nachos: fatal in process %d: %s\n", id, msg)
	caller.Callerdump(2)
	if r, ok := k.Procs.Get(id); ok {
		r.Exit(-1)
		r.Teardown()
		k.Procs.Remove(id)
	}
}

