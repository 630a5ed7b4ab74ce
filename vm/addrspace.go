// Package vm implements the guest address space: page-table construction
// (eager and demand-paged), the page-fault algorithm, TLB coherence, and
// the user-memory transfer routines syscalls use to move bytes across
// the guest/kernel boundary. Grounded on original_source's
// userprog/address_space.cc (both the Plancha_3 eager-loading variant
// and the Plancha_4 USE_TLB variant) for the construction and
// translation shape, generalized to a real demand-paging mode per
// spec §4.G since original_source's LoadPage was never implemented
// there.
package vm

import (
	"sync"

	"nachos/defs"
	"nachos/mem"
)

// PageSize re-exports the machine page size so callers needn't import
// both defs and vm for one constant.
const PageSize = defs.PageSize

// sentinelFrame marks a PageTableEntry with no physical frame assigned.
const sentinelFrame = -1

// PTE is one PageTableEntry (spec §3): the kernel's whole memory-
// management state for a single virtual page.
type PTE struct {
	PhysicalFrame int
	Valid         bool
	InMemory      bool
	InTLB         bool
	Dirty         bool
	ReadOnly      bool
}

// AddressSpace is one guest process's virtual memory (spec §3
// AddressSpace, §4.G). Exactly one of the two construction modes
// applies for the lifetime of the space: Eager address spaces have
// every page resident from the start and never fault; demand-paged
// spaces start with every page invalid and are populated lazily by
// PageFault.
type AddressSpace struct {
	mu sync.Mutex

	pages    []PTE
	numPages int
	demand   bool

	exe  *Executable
	mem  *mem.Mem_t
	tlb  *Tlb_t
	swap *swapFile_t

	asid int
}

// NumPages reports the address space's page-table length.
func (as *AddressSpace) NumPages() int { return as.numPages }

// mkPages allocates a page table of the given length, every entry
// starting invalid — the shared tail of both construction modes.
func mkPages(n int) []PTE {
	pages := make([]PTE, n)
	for i := range pages {
		pages[i] = PTE{PhysicalFrame: sentinelFrame}
	}
	return pages
}

// MkAddressSpace builds the address space for exe, choosing eager
// construction when physical memory has enough free frames to hold the
// whole program plus stack, and demand paging otherwise (spec §4.G:
// "Eager (no TLB/demand paging)... Demand paging"). swapDir names the
// host directory new swap files are created under; asid is this
// process's SpaceId, used to name the swap file uniquely.
func MkAddressSpace(exe *Executable, m *mem.Mem_t, tlb *Tlb_t, swapDir string, asid int) (*AddressSpace, defs.Err_t) {
	size := exe.CodeSize() + exe.InitDataSize() + exe.UninitDataSize() + defs.UserStackSize
	numPages := (size + PageSize - 1) / PageSize

	as := &AddressSpace{
		numPages: numPages,
		exe:      exe,
		mem:      m,
		tlb:      tlb,
		asid:     asid,
	}

	if numPages <= m.Frames.NumFree() {
		if err := as.loadEager(); err != 0 {
			return nil, err
		}
		return as, 0
	}

	as.demand = true
	as.pages = mkPages(numPages)
	swap, err := mkSwapFile(swapDir, asid, numPages)
	if err != 0 {
		return nil, err
	}
	as.swap = swap
	return as, 0
}

// loadEager implements spec §4.G mode 1: allocate every frame up front,
// zero it, and copy the code/init-data segments in page by page via
// AddressTranslation.
func (as *AddressSpace) loadEager() defs.Err_t {
	as.pages = mkPages(as.numPages)
	for i := range as.pages {
		frame, ok := as.mem.AllocZeroed()
		if !ok {
			as.releasePages(i)
			return defs.ENOMEM
		}
		as.pages[i] = PTE{PhysicalFrame: frame, Valid: true, InMemory: true}
	}

	copySegment(as, as.exe.CodeAddr(), as.exe.CodeSize(), as.exe.ReadCodeBlock)
	copySegment(as, as.exe.InitDataAddr(), as.exe.InitDataSize(), as.exe.ReadDataBlock)
	return 0
}

// copySegment streams size bytes of a segment starting at virtualAddr
// into this address space's frames, one page at a time, via
// AddressTranslation — original_source's loop in AddressSpace's
// constructor, generalized over which segment's read function to call.
func copySegment(as *AddressSpace, virtualAddr, size int, readBlock func(dst []byte, size, offset int)) {
	written := 0
	for written < size {
		pa := addressTranslation(as, virtualAddr+written)
		frame, off := pa/PageSize, pa%PageSize
		chunk := PageSize - off
		if chunk > size-written {
			chunk = size - written
		}
		readBlock(as.mem.Frame(frame)[off:off+chunk], chunk, written)
		written += chunk
	}
}

// addressTranslation is original_source's AddressTranslation: virtual
// address to physical offset within main memory, valid only when the
// target page is already resident (eager construction only calls it on
// pages it just allocated).
func addressTranslation(as *AddressSpace, virtualAddr int) int {
	v := virtualAddr / PageSize
	off := virtualAddr % PageSize
	return as.pages[v].PhysicalFrame*PageSize + off
}

// releasePages frees the first n frames already allocated, used to roll
// back a failed eager construction.
func (as *AddressSpace) releasePages(n int) {
	for i := 0; i < n; i++ {
		if as.pages[i].InMemory {
			as.mem.Frames.Free(as.pages[i].PhysicalFrame)
		}
	}
}

// SaveState is called on a context switch away from this address space.
// In demand-paging mode every resident page is evicted to swap and the
// TLB is flushed entirely (spec §4.G Context Switch); eager mode has
// nothing machine-specific to save.
func (as *AddressSpace) SaveState() {
	if !as.demand {
		return
	}
	as.mu.Lock()
	defer as.mu.Unlock()
	for v := range as.pages {
		if as.pages[v].InMemory {
			as.evictLocked(v)
		}
	}
	as.tlb.FlushAll()
}

// RestoreState is called on a context switch onto this address space.
// Eager mode has a real hardware page-table pointer to install in real
// Nachos; this kernel instead resolves every translation through
// AddressSpace methods directly, so RestoreState's only remaining job
// is documenting that demand-paged spaces rely on faults to refill the
// TLB (spec §4.G: "the TLB is already flushed; entries will be refilled
// by subsequent faults").
func (as *AddressSpace) RestoreState() {}

// Teardown releases every still-resident frame, deletes the swap file
// (if any), and drops the executable handle (spec §4.G Teardown).
func (as *AddressSpace) Teardown() {
	as.mu.Lock()
	defer as.mu.Unlock()
	for v := range as.pages {
		if as.pages[v].InMemory {
			as.mem.Frames.Free(as.pages[v].PhysicalFrame)
			as.tlb.Invalidate(v)
		}
	}
	if as.swap != nil {
		as.swap.Close()
	}
	as.exe.Close()
}
