package fs

import (
	"sync"

	"nachos/defs"
	"nachos/ustr"
	"nachos/util"
)

// OpenFile_t is the per-open-file shared coordination state (spec §3
// OpenFileEntry, §4.E): many readers or one writer, plus a separate
// removal rendezvous so Remove waits for the last Close. Grounded on
// original_source/code/filesys/open_file_entry.cc's
// StartReading/StopReading/StartWriting/StopWriting/Open/Close/Remove,
// with sync.Cond standing in for Nachos's Condition+Lock pair.
type OpenFile_t struct {
	mu       sync.Mutex
	canWrite *sync.Cond
	readers  int

	removeMu  sync.Mutex
	canRemove *sync.Cond
	users     int

	Name   ustr.Ustr
	Sector int // sector holding this file's FileHeader_t
	Header *FileHeader_t
}

// mkOpenFile constructs a fresh coordination record for a file whose
// header chain has already been fetched.
func mkOpenFile(name ustr.Ustr, sector int, hdr *FileHeader_t) *OpenFile_t {
	o := &OpenFile_t{Name: name, Sector: sector, Header: hdr}
	o.canWrite = sync.NewCond(&o.mu)
	o.canRemove = sync.NewCond(&o.removeMu)
	return o
}

// StartReading registers one active reader.
func (o *OpenFile_t) StartReading() {
	o.mu.Lock()
	o.readers++
	o.mu.Unlock()
}

// StopReading releases one active reader, waking any writer waiting for
// readers to drain to zero.
func (o *OpenFile_t) StopReading() {
	o.mu.Lock()
	o.readers--
	if o.readers == 0 {
		o.canWrite.Broadcast()
	}
	o.mu.Unlock()
}

// StartWriting blocks until there are no active readers and then holds
// the entry's write lock until StopWriting releases it — a writer
// therefore excludes every other writer and every reader for the
// duration of its call.
func (o *OpenFile_t) StartWriting() {
	o.mu.Lock()
	for o.readers != 0 {
		o.canWrite.Wait()
	}
}

// StopWriting releases the lock StartWriting acquired.
func (o *OpenFile_t) StopWriting() {
	o.canWrite.Broadcast()
	o.mu.Unlock()
}

// Open registers one more live user of this file.
func (o *OpenFile_t) Open() {
	o.removeMu.Lock()
	o.users++
	o.removeMu.Unlock()
}

// Close releases one live user, returning the number remaining. When it
// reaches zero any blocked Remove is woken.
func (o *OpenFile_t) Close() int {
	o.removeMu.Lock()
	o.users--
	n := o.users
	if n == 0 {
		o.canRemove.Broadcast()
	}
	o.removeMu.Unlock()
	return n
}

// Remove blocks until the live-user count reaches zero, at which point
// the caller may safely delete the file's sectors and directory entry.
func (o *OpenFile_t) Remove() {
	o.removeMu.Lock()
	for o.users != 0 {
		o.canRemove.Wait()
	}
	o.removeMu.Unlock()
}

// readBytes copies len(dst) bytes starting at offset out of the file
// described by h, reading one disk sector at a time via h.ByteToSector.
func readBytes(disk Disk_i, h *FileHeader_t, dst []byte, offset int) {
	pos, i, n := offset, 0, len(dst)
	buf := make([]byte, defs.SectorSize)
	for i < n {
		sector := h.ByteToSector(disk, pos)
		secOff := pos % defs.SectorSize
		chunk := util.Min(defs.SectorSize-secOff, n-i)
		disk.ReadSector(sector, buf)
		copy(dst[i:i+chunk], buf[secOff:secOff+chunk])
		i += chunk
		pos += chunk
	}
}

// writeBytes writes src into the file described by h starting at
// offset, read-modify-writing any sector src only partially covers.
func writeBytes(disk Disk_i, h *FileHeader_t, src []byte, offset int) {
	pos, i, n := offset, 0, len(src)
	buf := make([]byte, defs.SectorSize)
	for i < n {
		sector := h.ByteToSector(disk, pos)
		secOff := pos % defs.SectorSize
		chunk := util.Min(defs.SectorSize-secOff, n-i)
		if secOff != 0 || chunk != defs.SectorSize {
			disk.ReadSector(sector, buf)
		}
		copy(buf[secOff:secOff+chunk], src[i:i+chunk])
		disk.WriteSector(sector, buf)
		i += chunk
		pos += chunk
	}
}
