// FileSystem_t is the file-system facade (spec §3/§4.F): Create, Open,
// Close, Remove, all serialized with respect to each other by one
// global mutex guarding the directory and free map, with per-file
// reader/writer/remove coordination layered on top via OpenFile_t. The
// facade owns a fixed on-disk layout — free map, then directory, then
// data/header sectors — sized at format time and assumed fixed
// thereafter, mirroring the teacher's fs/super.go field-accessor
// convention (fixed metadata sectors read once at mount) without its
// journaling-log fields, which spec's Non-goals exclude ("no
// crash-consistent file system").
package fs

import (
	"sync"

	"nachos/bpath"
	"nachos/defs"
	"nachos/hashtable"
	"nachos/ustr"
)

// NumDirEntries bounds how many files the flat directory can hold.
const NumDirEntries = 64

// FileSystem_t is the kernel's single file-system instance (spec §4.J:
// one of the process-wide singletons).
type FileSystem_t struct {
	mu sync.Mutex // serializes directory + free-map mutation

	disk Disk_i

	freeMapSector int
	freeMapLen    int
	dirSector     int
	dirLen        int
	dataStart     int

	freeMap *Bitmap_t
	dir     *Directory_t

	// open maps a folded file name to its live OpenFile_t; see
	// hashtable's own doc comment for why this structure (lock-free
	// Get, bucket-locked Set/Del) fits the open-file table.
	open *hashtable.Hashtable_t
}

func layout(totalSectors int) (freeMapSector, freeMapLen, dirSector, dirLen, dataStart int) {
	freeMapSector = 0
	freeMapLen = sectorsNeeded(totalSectors)
	dirSector = freeMapSector + freeMapLen
	dirLen = dirSectors(NumDirEntries)
	dataStart = dirSector + dirLen
	return
}

// Format builds a brand-new, empty file system on disk: every sector
// from dataStart onward is free, the directory is empty, and both are
// persisted to their reserved sectors.
func Format(disk Disk_i) *FileSystem_t {
	total := disk.NumSectors()
	fmSec, fmLen, dirSec, dirLen, dataStart := layout(total)

	fsys := &FileSystem_t{
		disk:          disk,
		freeMapSector: fmSec,
		freeMapLen:    fmLen,
		dirSector:     dirSec,
		dirLen:        dirLen,
		dataStart:     dataStart,
		freeMap:       MkBitmap(total),
		dir:           MkDirectory(NumDirEntries),
		open:          hashtable.MkHash(NumDirEntries),
	}
	for s := 0; s < dataStart; s++ {
		fsys.freeMap.Mark(s)
	}
	fsys.freeMap.WriteBack(disk, fmSec)
	fsys.dir.WriteBack(disk, dirSec)
	return fsys
}

// Mount opens an already-formatted file system.
func Mount(disk Disk_i) *FileSystem_t {
	total := disk.NumSectors()
	fmSec, fmLen, dirSec, dirLen, dataStart := layout(total)

	fsys := &FileSystem_t{
		disk:          disk,
		freeMapSector: fmSec,
		freeMapLen:    fmLen,
		dirSector:     dirSec,
		dirLen:        dirLen,
		dataStart:     dataStart,
		freeMap:       MkBitmap(total),
		dir:           MkDirectory(NumDirEntries),
		open:          hashtable.MkHash(NumDirEntries),
	}
	fsys.freeMap.FetchFrom(disk, fmSec)
	fsys.dir.FetchFrom(disk, dirSec)
	return fsys
}

// leafName resolves a slash-separated path down to its final component
// via the path resolver (spec §4.C); the flat directory only ever keys
// on that leaf (§9's open question: hierarchical directories are not
// wired in).
func leafName(path ustr.Ustr) ustr.Ustr {
	p := bpath.Mk()
	p.MergeStr(string(path))
	if len(p.List()) == 0 {
		return path
	}
	return p.Split()
}

// Create allocates a header chain of defs.InitFileSize bytes for name,
// updates the free map and directory, and persists both.
func (fsys *FileSystem_t) Create(path ustr.Ustr) defs.Err_t {
	name := leafName(path)
	if len(name) == 0 || len(name) > defs.FileNameMax {
		return defs.ENAMETOOLONG
	}

	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	if _, ok := fsys.dir.Find(name); ok {
		return defs.EINVAL
	}
	sector, ok := fsys.freeMap.Find()
	if !ok {
		return defs.ENFILE
	}
	hdr := MkFileHeader()
	if !hdr.Allocate(fsys.disk, fsys.freeMap, defs.InitFileSize) {
		hdr.Deallocate(fsys.disk, fsys.freeMap)
		fsys.freeMap.Clear(sector)
		return defs.ENFILE
	}
	if !fsys.dir.Add(name, sector) {
		hdr.Deallocate(fsys.disk, fsys.freeMap)
		fsys.freeMap.Clear(sector)
		return defs.ENFILE
	}
	hdr.WriteBack(fsys.disk, sector)
	fsys.dir.WriteBack(fsys.disk, fsys.dirSector)
	fsys.freeMap.WriteBack(fsys.disk, fsys.freeMapSector)
	return 0
}

// Open resolves path to a header, registers (or joins) its OpenFile_t,
// and returns a FileHandle ready to satisfy fdops.Fdops_i.
func (fsys *FileSystem_t) Open(path ustr.Ustr) (*FileHandle, defs.Err_t) {
	name := leafName(path)

	fsys.mu.Lock()
	sector, ok := fsys.dir.Find(name)
	if !ok {
		fsys.mu.Unlock()
		return nil, defs.ENOENT
	}

	key := string(bpath.FoldKey(name))
	var entry *OpenFile_t
	if v, found := fsys.open.Get(key); found {
		entry = v.(*OpenFile_t)
	} else {
		hdr := MkFileHeader()
		hdr.FetchFrom(fsys.disk, sector)
		entry = mkOpenFile(name, sector, hdr)
		fsys.open.Set(key, entry)
	}
	fsys.mu.Unlock()

	entry.Open()
	return &FileHandle{fsys: fsys, entry: entry}, 0
}

// closeLastUser drops entry from the open-file table once its last
// handle closes; called with no locks held.
func (fsys *FileSystem_t) closeLastUser(entry *OpenFile_t) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	key := string(bpath.FoldKey(entry.Name))
	if v, ok := fsys.open.Get(key); ok && v.(*OpenFile_t) == entry {
		fsys.open.Del(key)
	}
}

// Remove waits for every open handle on name to close, then deallocates
// its sectors and removes its directory entry. Pending Opens racing
// with a Remove in flight will have already observed and pinned the
// live entry via Open() above, so they are unaffected until they Close.
func (fsys *FileSystem_t) Remove(path ustr.Ustr) defs.Err_t {
	name := leafName(path)

	fsys.mu.Lock()
	sector, ok := fsys.dir.Find(name)
	if !ok {
		fsys.mu.Unlock()
		return defs.ENOENT
	}
	key := string(bpath.FoldKey(name))
	v, hasOpen := fsys.open.Get(key)
	fsys.mu.Unlock()

	if hasOpen {
		v.(*OpenFile_t).Remove()
	}

	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	// Re-check: another Remove may have already won the race while we
	// were unlocked waiting on the open-file entry.
	if _, ok := fsys.dir.Find(name); !ok {
		return defs.ENOENT
	}
	hdr := MkFileHeader()
	hdr.FetchFrom(fsys.disk, sector)
	hdr.Deallocate(fsys.disk, fsys.freeMap)
	fsys.freeMap.Clear(sector)
	fsys.dir.Remove(name)
	fsys.dir.WriteBack(fsys.disk, fsys.dirSector)
	fsys.freeMap.WriteBack(fsys.disk, fsys.freeMapSector)
	return 0
}

// FileHandle is one process's open reference to a file, implementing
// fdops.Fdops_i.
type FileHandle struct {
	fsys  *FileSystem_t
	entry *OpenFile_t
}

// ReadAt reads under the entry's reader lock (spec §4.E StartReading /
// StopReading), never growing the file.
func (h *FileHandle) ReadAt(dst []byte, offset int) (int, defs.Err_t) {
	h.entry.StartReading()
	defer h.entry.StopReading()

	length := h.entry.Header.FileLength()
	if offset >= length {
		return 0, 0
	}
	n := len(dst)
	if offset+n > length {
		n = length - offset
	}
	readBytes(h.fsys.disk, h.entry.Header, dst[:n], offset)
	return n, 0
}

// WriteAt writes under the entry's writer lock, extending the header
// chain (and persisting the free map) first if offset+len(src) exceeds
// the file's current length.
func (h *FileHandle) WriteAt(src []byte, offset int) (int, defs.Err_t) {
	h.entry.StartWriting()
	defer h.entry.StopWriting()

	need := offset + len(src)
	cur := h.entry.Header.FileLength()
	if need > cur {
		h.fsys.mu.Lock()
		ok := h.entry.Header.Allocate(h.fsys.disk, h.fsys.freeMap, need-cur)
		if ok {
			h.entry.Header.WriteBack(h.fsys.disk, h.entry.Sector)
			h.fsys.freeMap.WriteBack(h.fsys.disk, h.fsys.freeMapSector)
		}
		h.fsys.mu.Unlock()
		if !ok {
			return 0, defs.ENFILE
		}
	}
	writeBytes(h.fsys.disk, h.entry.Header, src, offset)
	return len(src), 0
}

// Close releases this handle's reference; the last Close across all
// holders drops the entry from the open-file table.
func (h *FileHandle) Close() defs.Err_t {
	if h.entry.Close() == 0 {
		h.fsys.closeLastUser(h.entry)
	}
	return 0
}
