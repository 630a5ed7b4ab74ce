package proc

import (
	"sync/atomic"

	"nachos/defs"
	"nachos/hashtable"
	"nachos/limits"
)

// tableBuckets sizes the process table's hash table independent of
// limits.Syslimit.Sysprocs — that atomic counter is what actually
// bounds live entries; the bucket count is just a hash-distribution
// knob, unrelated to the admission-control limit.
const tableBuckets = 64

// Table is the kernel's single process table (spec §3/§4.I), keyed by
// SpaceId. Bounded by limits.Syslimit.Sysprocs, per spec §4.I "the table
// is bounded and Exec returns -1 if full."
type Table struct {
	procs  *hashtable.Hashtable_t
	nextID int64
}

// MkTable returns an empty process table.
func MkTable() *Table {
	return &Table{procs: hashtable.MkHash(tableBuckets)}
}

// Alloc reserves one process-table slot and returns a freshly assigned
// SpaceId, or EAGAIN if limits.Syslimit.Sysprocs is exhausted. The slot
// is not visible to Get until Add registers a Record under the
// returned id.
func (t *Table) Alloc() (defs.SpaceId, defs.Err_t) {
	if !limits.Syslimit.Sysprocs.Take() {
		return 0, defs.EAGAIN
	}
	id := defs.SpaceId(atomic.AddInt64(&t.nextID, 1))
	return id, 0
}

// Add registers r under r.ID, which must have come from a prior Alloc.
func (t *Table) Add(r *Record) {
	t.procs.Set(int(r.ID), r)
}

// Get looks up the record for id.
func (t *Table) Get(id defs.SpaceId) (*Record, bool) {
	v, ok := t.procs.Get(int(id))
	if !ok {
		return nil, false
	}
	return v.(*Record), true
}

// Remove drops id from the table and returns its slot to
// limits.Syslimit.Sysprocs, called once a Join (or an unjoined Exit) has
// fully retired the process. An id that was Alloc'd but never Added
// (an Exec that failed after reserving its slot) only returns the slot.
func (t *Table) Remove(id defs.SpaceId) {
	if _, ok := t.procs.Get(int(id)); ok {
		t.procs.Del(int(id))
	}
	limits.Syslimit.Sysprocs.Give()
}
