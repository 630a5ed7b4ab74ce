package fs

import (
	"nachos/bpath"
	"nachos/defs"
	"nachos/ustr"
	"nachos/util"
)

// dirEntrySize is one on-disk directory record: inUse (1 byte), name
// (FileNameMax+1 bytes, NUL-padded), header sector (4 bytes) — spec
// §6's "fixed-size table of (inUse, name[FILE_NAME_MAX_LEN+1], sector)
// records".
const dirEntrySize = 1 + (defs.FileNameMax + 1) + 4

// dirEntry_t is the in-memory form of one directory record.
type dirEntry_t struct {
	inUse  bool
	name   ustr.Ustr
	sector int
}

// Directory_t is the flat file-name-to-header-sector table (spec §4.F,
// and §9's open question: "the spec assumes the flat-directory path").
// It round-trips to disk the same way a Bitmap_t does, over a run of
// sectors computed from its fixed entry count.
type Directory_t struct {
	entries []dirEntry_t
}

// MkDirectory allocates an empty directory with room for size files.
func MkDirectory(size int) *Directory_t {
	return &Directory_t{entries: make([]dirEntry_t, size)}
}

func dirSectors(size int) int {
	bytes := size * dirEntrySize
	return (bytes + defs.SectorSize - 1) / defs.SectorSize
}

// FetchFrom reads the directory table back from the sectors starting at
// first.
func (d *Directory_t) FetchFrom(disk Disk_i, first int) {
	nsec := dirSectors(len(d.entries))
	raw := make([]byte, nsec*defs.SectorSize)
	for i := 0; i < nsec; i++ {
		disk.ReadSector(first+i, raw[i*defs.SectorSize:(i+1)*defs.SectorSize])
	}
	for i := range d.entries {
		off := i * dirEntrySize
		rec := raw[off : off+dirEntrySize]
		d.entries[i].inUse = rec[0] != 0
		nameEnd := 1
		for nameEnd < 1+defs.FileNameMax+1 && rec[nameEnd] != 0 {
			nameEnd++
		}
		name := make(ustr.Ustr, nameEnd-1)
		copy(name, rec[1:nameEnd])
		d.entries[i].name = name
		d.entries[i].sector = util.Readn(rec, 4, 1+defs.FileNameMax+1)
	}
}

// WriteBack persists the directory table to the sectors starting at
// first.
func (d *Directory_t) WriteBack(disk Disk_i, first int) {
	nsec := dirSectors(len(d.entries))
	raw := make([]byte, nsec*defs.SectorSize)
	for i, e := range d.entries {
		off := i * dirEntrySize
		rec := raw[off : off+dirEntrySize]
		if e.inUse {
			rec[0] = 1
		}
		copy(rec[1:1+defs.FileNameMax+1], e.name)
		util.Writen(rec, 4, 1+defs.FileNameMax+1, e.sector)
	}
	for i := 0; i < nsec; i++ {
		disk.WriteSector(first+i, raw[i*defs.SectorSize:(i+1)*defs.SectorSize])
	}
}

// Find returns the header sector for name, if present.
func (d *Directory_t) Find(name ustr.Ustr) (sector int, ok bool) {
	key := bpath.FoldKey(name)
	for _, e := range d.entries {
		if e.inUse && bpath.FoldKey(e.name).Eq(key) {
			return e.sector, true
		}
	}
	return 0, false
}

// Add records name -> sector in the first free slot. It fails if name
// is already present, exceeds FileNameMax, or the table is full.
func (d *Directory_t) Add(name ustr.Ustr, sector int) bool {
	if len(name) > defs.FileNameMax {
		return false
	}
	if _, ok := d.Find(name); ok {
		return false
	}
	for i := range d.entries {
		if !d.entries[i].inUse {
			d.entries[i] = dirEntry_t{inUse: true, name: name, sector: sector}
			return true
		}
	}
	return false
}

// Remove deletes name's entry, if present.
func (d *Directory_t) Remove(name ustr.Ustr) bool {
	key := bpath.FoldKey(name)
	for i := range d.entries {
		if d.entries[i].inUse && bpath.FoldKey(d.entries[i].name).Eq(key) {
			d.entries[i] = dirEntry_t{}
			return true
		}
	}
	return false
}
