package vm

import "nachos/defs"

// Userio_i is the user-memory transfer contract (spec §4.A), satisfied
// both by a real guest AddressSpace and by Fakeubuf_t, a kernel-internal
// stand-in used by tests that have bytes to move but no guest
// machine behind them. Grounded on vm/userbuf.go's Userbuf_t/Fakeubuf_t
// split in the teacher, re-expressed without the iovec/bounds-checking
// machinery that package depended on — the MIPS model's transfer
// operations are simple enough not to need it.
type Userio_i interface {
	ReadByteBuffer(guestAddr, length int) ([]byte, defs.Err_t)
	ReadCString(guestAddr, maxLen int) (bytes []byte, terminated bool, err defs.Err_t)
	WriteByteBuffer(data []byte, guestAddr int) defs.Err_t
	WriteCString(s string, guestAddr int) defs.Err_t
}

// ReadByteBuffer reads length bytes starting at guestAddr, page-faulting
// as needed. Fails per spec §4.A on a zero address, zero length, or any
// translation fault partway through.
func (as *AddressSpace) ReadByteBuffer(guestAddr, length int) ([]byte, defs.Err_t) {
	if guestAddr == 0 || length == 0 {
		return nil, defs.EFAULT
	}
	out := make([]byte, length)
	for i := 0; i < length; {
		pa, err := as.Translate(guestAddr+i, false)
		if err != 0 {
			return nil, err
		}
		frame, off := pa/PageSize, pa%PageSize
		chunk := PageSize - off
		if chunk > length-i {
			chunk = length - i
		}
		copy(out[i:i+chunk], as.mem.Frame(frame)[off:off+chunk])
		i += chunk
	}
	return out, 0
}

// ReadCString reads up to maxLen bytes starting at guestAddr, stopping
// at the first NUL. terminated reports whether a NUL was actually found
// (false means the read hit maxLen first, i.e. was truncated).
func (as *AddressSpace) ReadCString(guestAddr, maxLen int) ([]byte, bool, defs.Err_t) {
	out := make([]byte, 0, maxLen)
	for i := 0; i < maxLen; i++ {
		pa, err := as.Translate(guestAddr+i, false)
		if err != 0 {
			return nil, false, err
		}
		frame, off := pa/PageSize, pa%PageSize
		c := as.mem.Frame(frame)[off]
		if c == 0 {
			return out, true, 0
		}
		out = append(out, c)
	}
	return out, false, 0
}

// WriteByteBuffer writes data to guestAddr, page-faulting as needed and
// rejecting a write to any read-only page.
func (as *AddressSpace) WriteByteBuffer(data []byte, guestAddr int) defs.Err_t {
	for i := 0; i < len(data); {
		pa, err := as.Translate(guestAddr+i, true)
		if err != 0 {
			return err
		}
		frame, off := pa/PageSize, pa%PageSize
		chunk := PageSize - off
		if chunk > len(data)-i {
			chunk = len(data) - i
		}
		copy(as.mem.Frame(frame)[off:off+chunk], data[i:i+chunk])
		i += chunk
	}
	return 0
}

// WriteCString writes s followed by a NUL terminator to guestAddr.
func (as *AddressSpace) WriteCString(s string, guestAddr int) defs.Err_t {
	data := append([]byte(s), 0)
	return as.WriteByteBuffer(data, guestAddr)
}

// Fakeubuf_t implements Userio_i over a plain kernel byte slice, for
// callers with no guest AddressSpace to transfer through, such as tests
// exercising the vm package directly.
type Fakeubuf_t struct {
	buf []byte
}

// MkFakeUbuf wraps buf as a Userio_i whose "guest addresses" are plain
// offsets into buf.
func MkFakeUbuf(buf []byte) *Fakeubuf_t {
	return &Fakeubuf_t{buf: buf}
}

func (f *Fakeubuf_t) ReadByteBuffer(addr, length int) ([]byte, defs.Err_t) {
	if addr < 0 || length < 0 || addr+length > len(f.buf) {
		return nil, defs.EFAULT
	}
	out := make([]byte, length)
	copy(out, f.buf[addr:addr+length])
	return out, 0
}

func (f *Fakeubuf_t) ReadCString(addr, maxLen int) ([]byte, bool, defs.Err_t) {
	if addr < 0 || addr > len(f.buf) {
		return nil, false, defs.EFAULT
	}
	end := addr
	for end < len(f.buf) && end-addr < maxLen && f.buf[end] != 0 {
		end++
	}
	terminated := end < len(f.buf) && f.buf[end] == 0
	out := make([]byte, end-addr)
	copy(out, f.buf[addr:end])
	return out, terminated, 0
}

func (f *Fakeubuf_t) WriteByteBuffer(data []byte, addr int) defs.Err_t {
	if addr < 0 || addr+len(data) > len(f.buf) {
		return defs.EFAULT
	}
	copy(f.buf[addr:addr+len(data)], data)
	return 0
}

func (f *Fakeubuf_t) WriteCString(s string, addr int) defs.Err_t {
	return f.WriteByteBuffer(append([]byte(s), 0), addr)
}
