// Package mem implements the free-frame bitmap that backs every address
// space's physical-frame allocation (spec §3 PhysicalFrameMap, §4.G
// "take one from the free-frame bitmap"). It replaces the teacher's
// refcounted Physmem_t/Pa_t page allocator: the MIPS demand-paging model
// in SPEC_FULL.md has no copy-on-write sharing, so a frame is owned by
// exactly one PageTableEntry at a time and a plain bitmap (one bit per
// frame, no refcounts, no per-frame free-list links) is the faithful
// structure to allocate from. The bit-scanning shape is the teacher's
// (Physmem_t.Refpg_new walks a free list under a spinlock; this walks a
// bitmap under a sync.Mutex), not the PTE/Pmap_t-oriented fields.
package mem

import (
	"fmt"
	"sync"

	"nachos/defs"
)

// PageSize is the size in bytes of one physical frame, re-exported from
// defs so callers rarely need to import both packages for one constant.
const PageSize = defs.PageSize

const wordBits = 64

// FrameMap_t is a process-wide bitmap of free physical frames of the
// emulated main memory. Invariant (spec §3): exactly the set of frames
// referenced by some PageTableEntry.physicalFrame with inMemory=true is
// marked busy here.
type FrameMap_t struct {
	sync.Mutex
	bits   []uint64
	nframe int
	nfree  int
	// hint is the word index to resume scanning from; Alloc/Free update
	// it to avoid always rescanning from frame 0.
	hint int
}

// MkFrameMap allocates a frame map tracking nframe physical frames, all
// initially free.
func MkFrameMap(nframe int) *FrameMap_t {
	if nframe <= 0 {
		panic("mem: bad frame count")
	}
	nwords := (nframe + wordBits - 1) / wordBits
	return &FrameMap_t{
		bits:   make([]uint64, nwords),
		nframe: nframe,
		nfree:  nframe,
	}
}

// NumFrames returns the total number of frames tracked.
func (m *FrameMap_t) NumFrames() int {
	return m.nframe
}

// NumFree returns the number of frames currently unmarked (free).
func (m *FrameMap_t) NumFree() int {
	m.Lock()
	defer m.Unlock()
	return m.nfree
}

// Alloc finds and marks busy the lowest-numbered free frame. It reports
// ok=false when no free frame remains, which the caller (package vm)
// turns into the page-replacement path of spec §4.G.
func (m *FrameMap_t) Alloc() (frame int, ok bool) {
	m.Lock()
	defer m.Unlock()
	if m.nfree == 0 {
		return 0, false
	}
	n := len(m.bits)
	for i := 0; i < n; i++ {
		wi := (m.hint + i) % n
		w := m.bits[wi]
		if w == ^uint64(0) {
			continue
		}
		for b := 0; b < wordBits; b++ {
			if w&(1<<uint(b)) == 0 {
				f := wi*wordBits + b
				if f >= m.nframe {
					break
				}
				m.bits[wi] |= 1 << uint(b)
				m.nfree--
				m.hint = wi
				return f, true
			}
		}
	}
	return 0, false
}

// Mark forces a specific frame busy, letting a caller claim a frame it
// already knows the index of. Address-space construction does not use
// it: both eager and demand paging take frames one at a time through
// Mem_t.AllocZeroed.
func (m *FrameMap_t) Mark(frame int) {
	m.checkRange(frame)
	m.Lock()
	defer m.Unlock()
	wi, b := frame/wordBits, uint(frame%wordBits)
	if m.bits[wi]&(1<<b) == 0 {
		m.bits[wi] |= 1 << b
		m.nfree--
	}
}

// Free marks frame unused again. Freeing an already-free frame is a
// kernel bug (a double-free of a physical frame means two page-table
// entries briefly believed they owned it) and panics rather than
// silently continuing.
func (m *FrameMap_t) Free(frame int) {
	m.checkRange(frame)
	m.Lock()
	defer m.Unlock()
	wi, b := frame/wordBits, uint(frame%wordBits)
	if m.bits[wi]&(1<<b) == 0 {
		panic(fmt.Sprintf("mem: double free of frame %d", frame))
	}
	m.bits[wi] &^= 1 << b
	m.nfree++
	if wi < m.hint {
		m.hint = wi
	}
}

func (m *FrameMap_t) checkRange(frame int) {
	if frame < 0 || frame >= m.nframe {
		panic(fmt.Sprintf("mem: frame %d out of range [0,%d)", frame, m.nframe))
	}
}
