package fs

import (
	"testing"

	"nachos/defs"
)

func TestFileHeaderAllocateWithinDirect(t *testing.T) {
	disk := MkMemDisk(64)
	fm := MkBitmap(64)
	h := MkFileHeader()
	if !h.Allocate(disk, fm, 3*defs.SectorSize) {
		t.Fatal("Allocate() failed for a size well within NumDirect")
	}
	if h.NumSectors != 3 {
		t.Fatalf("NumSectors = %d, want 3", h.NumSectors)
	}
	if h.NextHeader != sentinelNextHeader {
		t.Fatalf("NextHeader = %d, want sentinel", h.NextHeader)
	}
	if fm.CountClear() != 64-3 {
		t.Fatalf("CountClear() = %d, want %d", fm.CountClear(), 64-3)
	}
}

func TestFileHeaderAllocateChainsPastDirect(t *testing.T) {
	disk := MkMemDisk(256)
	fm := MkBitmap(256)
	h := MkFileHeader()
	size := (defs.NumDirect + 5) * defs.SectorSize
	if !h.Allocate(disk, fm, size) {
		t.Fatal("Allocate() failed for a size spanning a continuation header")
	}
	if h.NumSectors != defs.NumDirect {
		t.Fatalf("NumSectors = %d, want %d (first header is full)", h.NumSectors, defs.NumDirect)
	}
	if h.NextHeader == sentinelNextHeader {
		t.Fatal("NextHeader is sentinel, want a continuation sector")
	}
	if h.next == nil || h.next.NumSectors != 5 {
		t.Fatalf("continuation header NumSectors = %v, want 5", h.next)
	}
	if h.FileLength() != size {
		t.Fatalf("FileLength() = %d, want %d", h.FileLength(), size)
	}
}

func TestFileHeaderByteToSectorCrossesChain(t *testing.T) {
	disk := MkMemDisk(256)
	fm := MkBitmap(256)
	h := MkFileHeader()
	size := (defs.NumDirect + 2) * defs.SectorSize
	if !h.Allocate(disk, fm, size) {
		t.Fatal("Allocate() failed")
	}
	// An offset in the continuation header must resolve to one of its
	// own data sectors, not one of the first header's.
	s := h.ByteToSector(disk, defs.NumDirect*defs.SectorSize)
	if s != h.next.DataSectors[0] {
		t.Fatalf("ByteToSector() = %d, want %d (continuation header's first sector)", s, h.next.DataSectors[0])
	}
}

func TestFileHeaderDeallocateFreesWholeChain(t *testing.T) {
	disk := MkMemDisk(256)
	fm := MkBitmap(256)
	h := MkFileHeader()
	size := (defs.NumDirect + 5) * defs.SectorSize
	if !h.Allocate(disk, fm, size) {
		t.Fatal("Allocate() failed")
	}
	before := fm.CountClear()
	h.Deallocate(disk, fm)
	if fm.CountClear() <= before {
		t.Fatalf("CountClear() did not grow after Deallocate: before=%d after=%d", before, fm.CountClear())
	}
	if fm.CountClear() != 256 {
		t.Fatalf("CountClear() = %d after Deallocate, want every sector free (256)", fm.CountClear())
	}
}

func TestFileHeaderFetchWriteBackRoundTrip(t *testing.T) {
	disk := MkMemDisk(256)
	fm := MkBitmap(256)
	h := MkFileHeader()
	size := (defs.NumDirect + 3) * defs.SectorSize
	if !h.Allocate(disk, fm, size) {
		t.Fatal("Allocate() failed")
	}
	h.WriteBack(disk, 200)

	got := MkFileHeader()
	got.FetchFrom(disk, 200)
	if got.NumBytes != h.NumBytes || got.NumSectors != h.NumSectors {
		t.Fatalf("FetchFrom() = %+v, want %+v", got, h)
	}
	if got.FileLength() != size {
		t.Fatalf("FetchFrom().FileLength() = %d, want %d", got.FileLength(), size)
	}
	for i := 0; i < h.NumSectors; i++ {
		if got.DataSectors[i] != h.DataSectors[i] {
			t.Fatalf("DataSectors[%d] = %d, want %d", i, got.DataSectors[i], h.DataSectors[i])
		}
	}
}

func TestFileHeaderAllocateFailsWhenFreeMapExhausted(t *testing.T) {
	disk := MkMemDisk(4)
	fm := MkBitmap(4)
	h := MkFileHeader()
	if h.Allocate(disk, fm, 10*defs.SectorSize) {
		t.Fatal("Allocate() succeeded despite requesting more sectors than exist")
	}
}
