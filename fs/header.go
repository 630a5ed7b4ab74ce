package fs

import (
	"nachos/defs"
	"nachos/util"
)

// sentinelNextHeader marks the end of a FileHeader_t chain.
const sentinelNextHeader = -1

// FileHeader_t is the on-disk inode (spec §3 FileHeader, §4.D): a fixed
// one-sector record naming up to NumDirect data sectors plus, for files
// too large to fit in one header, the sector of a continuation header.
// Grounded directly on original_source/code/filesys/file_header.cc's
// Allocate/Deallocate/FetchFrom/WriteBack/ByteToSector/FileLength, with
// the in-memory `next` pointer chain it keeps (loaded lazily, never
// persisted) carried over unchanged.
type FileHeader_t struct {
	NumBytes    int
	NumSectors  int
	DataSectors [defs.NumDirect]int
	NextHeader  int // sector of continuation header, or sentinelNextHeader

	next *FileHeader_t // in-memory only; lazily fetched/built
}

// MkFileHeader returns a fresh, empty header for a new file.
func MkFileHeader() *FileHeader_t {
	return &FileHeader_t{NextHeader: sentinelNextHeader}
}

// Allocate reserves sectors for size additional bytes out of freeMap,
// chaining a continuation header via an extra sector when size exceeds
// what NumDirect sectors hold. It returns false, leaving freeMap
// partially consumed, if the map runs out of sectors at any point in
// the chain — callers must roll the whole Create back via Deallocate in
// that case, exactly as the facade's Create does.
//
// A header that is already part of a chain (this file grew past
// NumDirect sectors on an earlier Allocate) is itself full; growing the
// file further means growing its continuation header instead, exactly
// as original_source's FileHeader::Allocate recurses when
// raw.nextHeader != -1.
func (h *FileHeader_t) Allocate(disk Disk_i, freeMap *Bitmap_t, size int) bool {
	if h.NextHeader != sentinelNextHeader {
		if h.next == nil {
			h.next = MkFileHeader()
			h.next.FetchFrom(disk, h.NextHeader)
		}
		ok := h.next.Allocate(disk, freeMap, size)
		if ok {
			h.next.WriteBack(disk, h.NextHeader)
		}
		return ok
	}

	newSectors := util.Roundup(size, defs.SectorSize) / defs.SectorSize
	if freeMap.CountClear() < newSectors {
		return false
	}

	old := h.NumSectors
	i := old
	for ; i < newSectors+old && i < defs.NumDirect; i++ {
		s, ok := freeMap.Find()
		if !ok {
			return false
		}
		h.DataSectors[i] = s
	}
	allocated := i - old
	h.NumSectors = allocated + old
	h.NumBytes = h.NumSectors * defs.SectorSize

	remaining := size - allocated*defs.SectorSize
	if remaining <= 0 {
		return true
	}

	sector, ok := freeMap.Find()
	if !ok {
		return false
	}
	h.NextHeader = sector
	h.next = MkFileHeader()
	if !h.next.Allocate(disk, freeMap, remaining) {
		return false
	}
	h.next.WriteBack(disk, sector)
	return true
}

// Deallocate releases every data sector and continuation-header sector
// in the chain back to freeMap.
func (h *FileHeader_t) Deallocate(disk Disk_i, freeMap *Bitmap_t) {
	for i := 0; i < h.NumSectors; i++ {
		freeMap.Clear(h.DataSectors[i])
	}
	if h.NextHeader == sentinelNextHeader {
		return
	}
	if h.next == nil {
		h.next = MkFileHeader()
		h.next.FetchFrom(disk, h.NextHeader)
	}
	freeMap.Clear(h.NextHeader)
	h.next.Deallocate(disk, freeMap)
}

// FetchFrom reads this header's record from sector, recursively
// materializing every continuation header in the chain.
func (h *FileHeader_t) FetchFrom(disk Disk_i, sector int) {
	buf := make([]byte, defs.SectorSize)
	disk.ReadSector(sector, buf)
	h.decode(buf)
	if h.NextHeader != sentinelNextHeader {
		h.next = MkFileHeader()
		h.next.FetchFrom(disk, h.NextHeader)
	}
}

// WriteBack persists this header's record to sector and, if resident,
// its continuation chain to their own sectors.
func (h *FileHeader_t) WriteBack(disk Disk_i, sector int) {
	buf := make([]byte, defs.SectorSize)
	h.encode(buf)
	disk.WriteSector(sector, buf)
	if h.NextHeader != sentinelNextHeader && h.next != nil {
		h.next.WriteBack(disk, h.NextHeader)
	}
}

// ByteToSector translates a byte offset within the file to the disk
// sector holding it, recursing into the continuation chain (fetching it
// on demand) when offset falls past this header's direct sectors.
func (h *FileHeader_t) ByteToSector(disk Disk_i, offset int) int {
	if offset/defs.SectorSize >= defs.NumDirect {
		if h.next == nil {
			if h.NextHeader == sentinelNextHeader {
				panic("fs: ByteToSector offset beyond end of chain")
			}
			h.next = MkFileHeader()
			h.next.FetchFrom(disk, h.NextHeader)
		}
		return h.next.ByteToSector(disk, offset-defs.SectorSize*defs.NumDirect)
	}
	return h.DataSectors[offset/defs.SectorSize]
}

// FileLength sums numBytes across the whole chain.
func (h *FileHeader_t) FileLength() int {
	if h.NextHeader != sentinelNextHeader && h.next != nil {
		return h.NumBytes + h.next.FileLength()
	}
	return h.NumBytes
}

// encode/decode pack/unpack one sector-sized record: numBytes (u32),
// numSectors (u32), dataSectors[NumDirect] (u32 each), nextHeader (i32,
// sentinel -1) — spec §6's exact on-disk layout. nextHeader uses the
// sign-extending util.WriteI32/ReadI32, not util.Writen/Readn, since
// Readn zero-extends through uint32 and cannot recover the sentinel.
func (h *FileHeader_t) encode(buf []byte) {
	off := 0
	util.Writen(buf, 4, off, h.NumBytes)
	off += 4
	util.Writen(buf, 4, off, h.NumSectors)
	off += 4
	for i := 0; i < defs.NumDirect; i++ {
		util.Writen(buf, 4, off, h.DataSectors[i])
		off += 4
	}
	util.WriteI32(buf, off, h.NextHeader)
}

func (h *FileHeader_t) decode(buf []byte) {
	off := 0
	h.NumBytes = util.Readn(buf, 4, off)
	off += 4
	h.NumSectors = util.Readn(buf, 4, off)
	off += 4
	for i := 0; i < defs.NumDirect; i++ {
		h.DataSectors[i] = util.Readn(buf, 4, off)
		off += 4
	}
	h.NextHeader = util.ReadI32(buf, off)
}
