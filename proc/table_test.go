package proc

import "testing"

func TestAllocAddGetRemove(t *testing.T) {
	tbl := MkTable()
	id, err := tbl.Alloc()
	if err != 0 {
		t.Fatalf("Alloc() failed: %v", err)
	}
	r := MkRecord(id, nil, false)
	tbl.Add(r)

	got, ok := tbl.Get(id)
	if !ok || got != r {
		t.Fatalf("Get(%d) = (%v, %v), want the record just added", id, got, ok)
	}

	tbl.Remove(id)
	if _, ok := tbl.Get(id); ok {
		t.Fatal("Get() still finds a record after Remove()")
	}
}

func TestAllocAssignsDistinctIDs(t *testing.T) {
	tbl := MkTable()
	id1, _ := tbl.Alloc()
	id2, _ := tbl.Alloc()
	if id1 == id2 {
		t.Fatalf("Alloc() returned the same id twice: %d", id1)
	}
	tbl.Remove(id1)
	tbl.Remove(id2)
}

func TestGetMissingIDFails(t *testing.T) {
	tbl := MkTable()
	if _, ok := tbl.Get(999); ok {
		t.Fatal("Get() found an entry for an id that was never added")
	}
}
