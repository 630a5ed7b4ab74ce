package vm

import "testing"

func TestTlbRoundRobinVictim(t *testing.T) {
	tlb := MkTlb()
	for i := 0; i < NumTLBSlots; i++ {
		if got := tlb.Victim(); got != i {
			t.Fatalf("Victim() #%d = %d, want %d", i, got, i)
		}
	}
	if got := tlb.Victim(); got != 0 {
		t.Fatalf("Victim() after a full round = %d, want 0 (wraps around)", got)
	}
}

func TestTlbInstallLookupInvalidate(t *testing.T) {
	tlb := MkTlb()
	tlb.Install(0, 3, 7, false)

	frame, readOnly, ok := tlb.Lookup(3)
	if !ok || frame != 7 || readOnly {
		t.Fatalf("Lookup(3) = (%d, %v, %v), want (7, false, true)", frame, readOnly, ok)
	}
	if _, _, ok := tlb.Lookup(4); ok {
		t.Fatal("Lookup() found an entry for a vpage never installed")
	}

	tlb.Invalidate(3)
	if _, _, ok := tlb.Lookup(3); ok {
		t.Fatal("Lookup() still finds an entry after Invalidate()")
	}
}

func TestTlbFlushAll(t *testing.T) {
	tlb := MkTlb()
	tlb.Install(0, 1, 1, false)
	tlb.Install(1, 2, 2, true)

	tlb.FlushAll()
	if _, _, ok := tlb.Lookup(1); ok {
		t.Fatal("Lookup(1) still finds an entry after FlushAll()")
	}
	if _, _, ok := tlb.Lookup(2); ok {
		t.Fatal("Lookup(2) still finds an entry after FlushAll()")
	}
}

func TestTlbEntryAtReflectsInstall(t *testing.T) {
	tlb := MkTlb()
	if _, _, valid := tlb.EntryAt(2); valid {
		t.Fatal("EntryAt() reports a valid entry for a never-installed slot")
	}
	tlb.Install(2, 9, 5, true)
	vpage, frame, valid := tlb.EntryAt(2)
	if !valid || vpage != 9 || frame != 5 {
		t.Fatalf("EntryAt(2) = (%d, %d, %v), want (9, 5, true)", vpage, frame, valid)
	}
}
