package vm

import "sync"

// NumTLBSlots is the number of hardware TLB entries the simulated MIPS
// MMU holds, matching the small fully-associative TLB real Nachos boots
// with.
const NumTLBSlots = 4

// tlbEntry_t mirrors one hardware TLB row.
type tlbEntry_t struct {
	valid    bool
	vpage    int
	frame    int
	readOnly bool
}

// Tlb_t is the kernel-side view of the MMU's translation cache (spec
// §4.G: "Choose a TLB victim slot via the MMU's TLB-replacement
// oracle"). The real TLB is the external machine simulator's; this type
// stands in for the oracle and the coherence bookkeeping our page-fault
// algorithm must drive (install/invalidate/flush), since the fixed
// external collaborator only promises *some* replacement behavior, not
// a specific one we can call into from Go.
//
// Victim selection is round-robin, the simplest oracle consistent with
// spec §4.G's "reuse the page being displaced from the TLB if resident,
// else pick the first resident page" — the oracle only needs to name
// *a* slot, and round-robin guarantees every slot is revisited.
type Tlb_t struct {
	mu      sync.Mutex
	entries [NumTLBSlots]tlbEntry_t
	next    int
}

// MkTlb returns a TLB with every slot empty.
func MkTlb() *Tlb_t {
	return &Tlb_t{}
}

// Victim picks the next slot the oracle will evict, without modifying
// it; the caller inspects its current occupant before overwriting it.
func (t *Tlb_t) Victim() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	slot := t.next
	t.next = (t.next + 1) % NumTLBSlots
	return slot
}

// EntryAt reports slot's current occupant, if any.
func (t *Tlb_t) EntryAt(slot int) (vpage, frame int, valid bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.entries[slot]
	return e.vpage, e.frame, e.valid
}

// Lookup reports the frame mapped for vpage, if any slot holds it.
func (t *Tlb_t) Lookup(vpage int) (frame int, readOnly, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.entries {
		if e.valid && e.vpage == vpage {
			return e.frame, e.readOnly, true
		}
	}
	return 0, false, false
}

// Install writes a fresh translation into slot.
func (t *Tlb_t) Install(slot, vpage, frame int, readOnly bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[slot] = tlbEntry_t{valid: true, vpage: vpage, frame: frame, readOnly: readOnly}
}

// Invalidate clears any slot mapping vpage, used whenever a page is
// evicted or its frame reassigned (spec §4.G's "any TLB entries
// referring to it must be invalidated before the frame is reassigned").
func (t *Tlb_t) Invalidate(vpage int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.entries {
		if t.entries[i].valid && t.entries[i].vpage == vpage {
			t.entries[i] = tlbEntry_t{}
		}
	}
}

// FlushAll invalidates every slot, used by SaveState on a context
// switch away from a demand-paged address space.
func (t *Tlb_t) FlushAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = [NumTLBSlots]tlbEntry_t{}
}
