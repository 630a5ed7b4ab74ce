package vm

import (
	"nachos/defs"
	"nachos/fdops"
)

// noffMagic identifies a Nachos object file: a fixed header naming the
// code segment, the initialized-data segment and the size of the
// uninitialized-data (BSS) segment, per spec §6 "Executable format".
const noffMagic = 0xbadfad

// segDesc_t names one segment's virtual address and size within the
// executable and its byte size on disk.
type segDesc_t struct {
	virtualAddr int
	inFileAddr  int
	size        int
}

// Executable is a loaded guest binary: a NOFF-format header plus the
// backing file to stream code/data blocks out of on demand. It is the
// `*vm.AddressSpace` constructor's and the page-fault handler's only
// window onto guest program bytes (spec §4.G steps "read from the code
// block" / "read from the data block").
type Executable struct {
	fh fdops.Fdops_i

	codeAddr, codeSize         int
	initDataAddr, initDataSize int
	uninitDataSize             int
}

// noffLayout is the on-disk NOFF header: magic (i32), then three
// segDesc_t records (code, initData, uninitData) of virtualAddr(i32),
// inFileAddr(i32), size(i32) each — 4 + 3*12 = 40 bytes. Only the code
// and initData segments carry file bytes; uninitData is zero-fill, so
// its inFileAddr is unused.
const noffRecordSize = 4 + 3*12

// OpenExecutable reads and validates the NOFF header from fh, an already
// successfully fs.Open'd handle to the guest binary.
func OpenExecutable(fh fdops.Fdops_i) (*Executable, defs.Err_t) {
	buf := make([]byte, noffRecordSize)
	n, err := fh.ReadAt(buf, 0)
	if err != 0 {
		return nil, err
	}
	if n != noffRecordSize {
		return nil, defs.EINVAL
	}
	magic := readI32(buf, 0)
	if magic != noffMagic {
		return nil, defs.EINVAL
	}
	e := &Executable{fh: fh}
	e.codeAddr, _, e.codeSize = readSeg(buf, 4)
	e.initDataAddr, _, e.initDataSize = readSeg(buf, 4+12)
	_, _, e.uninitDataSize = readSeg(buf, 4+24)
	return e, 0
}

func readSeg(buf []byte, off int) (virtualAddr, inFileAddr, size int) {
	return readI32(buf, off), readI32(buf, off+4), readI32(buf, off+8)
}

func readI32(buf []byte, off int) int {
	return int(uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24)
}

// CodeAddr, CodeSize, InitDataAddr, InitDataSize, UninitDataSize expose
// the segment layout to AddressSpace construction and the page-fault
// handler's segment classification (spec §4.G step 3).
func (e *Executable) CodeAddr() int       { return e.codeAddr }
func (e *Executable) CodeSize() int       { return e.codeSize }
func (e *Executable) InitDataAddr() int   { return e.initDataAddr }
func (e *Executable) InitDataSize() int   { return e.initDataSize }
func (e *Executable) UninitDataSize() int { return e.uninitDataSize }

// ReadCodeBlock reads size bytes of the code segment at offset (an
// offset within the code segment, not an absolute file offset) into dst.
func (e *Executable) ReadCodeBlock(dst []byte, size, offset int) {
	e.fh.ReadAt(dst[:size], noffRecordSize+offset)
}

// ReadDataBlock reads size bytes of the initialized-data segment at
// offset into dst.
func (e *Executable) ReadDataBlock(dst []byte, size, offset int) {
	e.fh.ReadAt(dst[:size], noffRecordSize+e.codeSize+offset)
}

// Close releases the backing file handle.
func (e *Executable) Close() defs.Err_t {
	return e.fh.Close()
}
