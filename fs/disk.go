// Package fs implements the synchronized file system (spec §4.D/E/F):
// file-header (inode) chains, per-open-file reader/writer/remove
// coordination, and the Create/Open/Close/Remove facade serialized by
// one global mutex. The raw disk itself is an external collaborator
// (spec §1 "Out of scope"); Disk_i is the narrow synchronous contract
// this package needs from it, grounded on the teacher's fs/blk.go
// Disk_i but reduced from an asynchronous, cached, journal-aware block
// device (Bdev_block_t/BlkList_t/Objref_t eviction) to a synchronous
// sector read/write, since SECTOR_SIZE here is 128 bytes of raw disk,
// not a 4096-byte cached block, and spec's Non-goals explicitly drop
// crash consistency and any block cache.
package fs

import (
	"os"
	"sync"

	"nachos/defs"
)

// Disk_i is a raw sector-addressable disk. The emulator supplies the
// real implementation; MemDisk_t and FileDisk_t below are the ones this
// kernel constructs itself (tests, and cmd/mkfs's image builder).
type Disk_i interface {
	ReadSector(sector int, buf []byte)
	WriteSector(sector int, buf []byte)
	NumSectors() int
}

// SyncDisk_t serializes all sector operations behind one lock, matching
// spec §5's "disk-sector operations... serialized by the
// synchronized-disk lock".
type SyncDisk_t struct {
	mu  sync.Mutex
	dev Disk_i
}

// MkSyncDisk wraps dev so every sector operation is mutually exclusive.
func MkSyncDisk(dev Disk_i) *SyncDisk_t {
	return &SyncDisk_t{dev: dev}
}

func (s *SyncDisk_t) ReadSector(sector int, buf []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dev.ReadSector(sector, buf)
}

func (s *SyncDisk_t) WriteSector(sector int, buf []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dev.WriteSector(sector, buf)
}

func (s *SyncDisk_t) NumSectors() int {
	return s.dev.NumSectors()
}

// MemDisk_t is an in-memory Disk_i, used by package fs's own tests and
// by anything that wants a disposable disk image without touching the
// filesystem.
type MemDisk_t struct {
	sectors [][]byte
}

// MkMemDisk allocates an all-zero in-memory disk of n sectors.
func MkMemDisk(n int) *MemDisk_t {
	d := &MemDisk_t{sectors: make([][]byte, n)}
	for i := range d.sectors {
		d.sectors[i] = make([]byte, defs.SectorSize)
	}
	return d
}

func (d *MemDisk_t) ReadSector(sector int, buf []byte) {
	copy(buf, d.sectors[sector])
}

func (d *MemDisk_t) WriteSector(sector int, buf []byte) {
	copy(d.sectors[sector], buf)
}

func (d *MemDisk_t) NumSectors() int {
	return len(d.sectors)
}

// FileDisk_t is a Disk_i backed by a host file, one sector per
// defs.SectorSize bytes — the on-disk image cmd/mkfs builds and the
// booted kernel opens.
type FileDisk_t struct {
	f       *os.File
	nsector int
}

// OpenFileDisk opens (without creating) a disk image file known to hold
// nsector sectors.
func OpenFileDisk(path string, nsector int) (*FileDisk_t, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &FileDisk_t{f: f, nsector: nsector}, nil
}

// CreateFileDisk creates a fresh, zero-filled disk image of nsector
// sectors at path.
func CreateFileDisk(path string, nsector int) (*FileDisk_t, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(nsector * defs.SectorSize)); err != nil {
		f.Close()
		return nil, err
	}
	return &FileDisk_t{f: f, nsector: nsector}, nil
}

func (d *FileDisk_t) ReadSector(sector int, buf []byte) {
	if _, err := d.f.ReadAt(buf[:defs.SectorSize], int64(sector*defs.SectorSize)); err != nil {
		panic(err)
	}
}

func (d *FileDisk_t) WriteSector(sector int, buf []byte) {
	if _, err := d.f.WriteAt(buf[:defs.SectorSize], int64(sector*defs.SectorSize)); err != nil {
		panic(err)
	}
}

func (d *FileDisk_t) NumSectors() int { return d.nsector }

// Close flushes and releases the backing host file.
func (d *FileDisk_t) Close() error { return d.f.Close() }
