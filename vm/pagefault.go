package vm

import "nachos/defs"

// Translate resolves a guest virtual address to a physical byte offset
// within main memory, faulting the containing page in if necessary.
// write distinguishes a write access (rejected with EFAULT against a
// read-only page, and marks the resulting page dirty) from a read.
// Every byte the vm package's user-memory transfer routines move passes
// through here, per spec §4.A "every byte is transferred through the
// MMU's ReadMem/WriteMem so TLB refills and paging side-effects occur
// naturally".
func (as *AddressSpace) Translate(vaddr int, write bool) (int, defs.Err_t) {
	v := vaddr / PageSize
	if v < 0 || v >= as.numPages {
		return 0, defs.EFAULT
	}

	as.mu.Lock()
	resident := as.pages[v].InMemory
	readOnly := as.pages[v].ReadOnly
	as.mu.Unlock()

	if write && readOnly {
		return 0, defs.EFAULT
	}
	if !resident {
		if err := as.PageFault(v); err != 0 {
			return 0, err
		}
	}

	as.mu.Lock()
	defer as.mu.Unlock()
	if write {
		as.pages[v].Dirty = true
	}
	frame := as.pages[v].PhysicalFrame
	return frame*PageSize + vaddr%PageSize, 0
}

// PageFault implements spec §4.G's five-step algorithm for virtual page
// v. On an eager address space every page is resident for the space's
// whole lifetime, so Translate never calls it; a direct call there only
// installs v's translation in the TLB slot the oracle picks.
func (as *AddressSpace) PageFault(v int) defs.Err_t {
	if v < 0 || v >= as.numPages {
		return defs.EFAULT
	}

	as.mu.Lock()
	defer as.mu.Unlock()

	// Step 1: choose a TLB victim slot via the oracle, regardless of
	// whether this fault ends up needing a fresh frame — a TLB refill
	// of an already-resident page still needs a slot to land in.
	slot := as.tlb.Victim()

	pte := &as.pages[v]
	if !pte.InMemory {
		// Step 2: take a free frame, or evict a replacement victim and
		// reuse its frame directly.
		frame, ok := as.mem.AllocZeroed()
		if !ok {
			victim, ok2 := as.chooseVictim(slot)
			if !ok2 {
				return defs.ENOMEM
			}
			frame = as.evictForReuse(victim)
			zero(as.mem.Frame(frame))
		}

		if !pte.Valid {
			// Step 3: first touch — load from the executable and seed
			// swap so future evictions have something to reload.
			as.loadFresh(v, frame)
		} else {
			// Step 4: previously resident, now only in swap.
			as.swap.ReadPage(v, as.mem.Frame(frame))
		}

		pte.PhysicalFrame = frame
		pte.InMemory = true
		pte.Valid = true
	}

	// Step 5.
	pte.InTLB = true
	as.tlb.Install(slot, v, pte.PhysicalFrame, pte.ReadOnly)
	return 0
}

// chooseVictim implements the page-replacement policy: prefer the page
// currently occupying the TLB slot about to be overwritten (if it is
// resident), else the first resident page found by a linear scan.
func (as *AddressSpace) chooseVictim(slot int) (v int, ok bool) {
	if vpage, _, valid := as.tlb.EntryAt(slot); valid && vpage < len(as.pages) && as.pages[vpage].InMemory {
		return vpage, true
	}
	for i := range as.pages {
		if as.pages[i].InMemory {
			return i, true
		}
	}
	return 0, false
}

// evictForReuse writes victim's frame to swap and hands the now-freed
// frame number back to the caller for immediate reuse by a different
// page, per spec §4.G "select a page-replacement victim... and write
// its page to swap" — the frame never round-trips through the
// free-frame bitmap since it is reassigned within the same fault.
func (as *AddressSpace) evictForReuse(victim int) int {
	pte := &as.pages[victim]
	frame := pte.PhysicalFrame
	as.swap.WritePage(victim, as.mem.Frame(frame))
	as.tlb.Invalidate(victim)
	*pte = PTE{PhysicalFrame: sentinelFrame, Valid: true}
	return frame
}

// evictLocked writes v's frame to swap and returns it to the free-frame
// bitmap; used by SaveState, where the whole address space is going
// dormant rather than racing to reuse one specific frame.
func (as *AddressSpace) evictLocked(v int) {
	pte := &as.pages[v]
	if !pte.InMemory {
		return
	}
	as.swap.WritePage(v, as.mem.Frame(pte.PhysicalFrame))
	as.tlb.Invalidate(v)
	as.mem.Frames.Free(pte.PhysicalFrame)
	*pte = PTE{PhysicalFrame: sentinelFrame, Valid: true}
}

// loadFresh populates frame with page v's initial contents — code,
// initialized data, or a zero-filled stack/BSS page — then seeds the
// swap file so a later eviction always has something to write over
// (spec §4.G step 3's "also write the page to swap").
func (as *AddressSpace) loadFresh(v, frame int) {
	addr := v * PageSize
	b := as.mem.Frame(frame)

	codeStart, codeEnd := as.exe.CodeAddr(), as.exe.CodeAddr()+as.exe.CodeSize()
	dataStart, dataEnd := as.exe.InitDataAddr(), as.exe.InitDataAddr()+as.exe.InitDataSize()

	switch {
	case as.exe.CodeSize() > 0 && addr >= codeStart && addr < codeEnd:
		n := codeEnd - addr
		if n > PageSize {
			n = PageSize
		}
		as.exe.ReadCodeBlock(b[:n], n, addr-codeStart)
	case as.exe.InitDataSize() > 0 && addr >= dataStart && addr < dataEnd:
		n := dataEnd - addr
		if n > PageSize {
			n = PageSize
		}
		as.exe.ReadDataBlock(b[:n], n, addr-dataStart)
	default:
		zero(b)
	}

	as.swap.WritePage(v, b)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
