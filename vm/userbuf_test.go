package vm

import (
	"bytes"
	"testing"

	"nachos/defs"
	"nachos/mem"
)

func pageCrossingSpace(t *testing.T) *AddressSpace {
	t.Helper()
	code := make([]byte, 3*PageSize)
	for i := range code {
		code[i] = byte(i)
	}
	f := buildNoff(code, nil, 0)
	exe, err := OpenExecutable(f)
	if err != 0 {
		t.Fatalf("OpenExecutable() failed: %v", err)
	}
	m := mem.MkMem(64)
	tlb := MkTlb()
	as, err := MkAddressSpace(exe, m, tlb, t.TempDir(), 9)
	if err != 0 {
		t.Fatalf("MkAddressSpace() failed: %v", err)
	}
	return as
}

func TestReadByteBufferCrossesPageBoundary(t *testing.T) {
	as := pageCrossingSpace(t)
	start := PageSize - 2
	got, err := as.ReadByteBuffer(start, 4)
	if err != 0 {
		t.Fatalf("ReadByteBuffer() failed: %v", err)
	}
	want := []byte{byte(start), byte(start + 1), byte(start + 2), byte(start + 3)}
	if !bytes.Equal(got, want) {
		t.Fatalf("ReadByteBuffer() across a page boundary = %v, want %v", got, want)
	}
}

func TestWriteByteBufferCrossesPageBoundary(t *testing.T) {
	as := pageCrossingSpace(t)
	start := PageSize - 2
	want := []byte{0xaa, 0xbb, 0xcc, 0xdd}
	if err := as.WriteByteBuffer(want, start); err != 0 {
		t.Fatalf("WriteByteBuffer() failed: %v", err)
	}
	got, err := as.ReadByteBuffer(start, len(want))
	if err != 0 {
		t.Fatalf("ReadByteBuffer() after write failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("ReadByteBuffer() after a cross-page write = %v, want %v", got, want)
	}
}

func TestReadCStringStopsAtNUL(t *testing.T) {
	as := pageCrossingSpace(t)
	if err := as.WriteCString("hi", 10); err != 0 {
		t.Fatalf("WriteCString() failed: %v", err)
	}
	s, terminated, err := as.ReadCString(10, 32)
	if err != 0 {
		t.Fatalf("ReadCString() failed: %v", err)
	}
	if !terminated || string(s) != "hi" {
		t.Fatalf("ReadCString() = (%q, %v), want (\"hi\", true)", s, terminated)
	}
}

func TestReadCStringTruncatesAtMaxLen(t *testing.T) {
	as := pageCrossingSpace(t)
	if err := as.WriteByteBuffer([]byte("nonulhere"), 20); err != 0 {
		t.Fatalf("WriteByteBuffer() failed: %v", err)
	}
	s, terminated, err := as.ReadCString(20, 5)
	if err != 0 {
		t.Fatalf("ReadCString() failed: %v", err)
	}
	if terminated || len(s) != 5 {
		t.Fatalf("ReadCString() = (%q, %v), want a 5-byte truncated read", s, terminated)
	}
}

func TestReadByteBufferRejectsZeroAddrOrLength(t *testing.T) {
	as := pageCrossingSpace(t)
	if _, err := as.ReadByteBuffer(0, 4); err != defs.EFAULT {
		t.Fatalf("ReadByteBuffer(0, 4) = %v, want EFAULT", err)
	}
	if _, err := as.ReadByteBuffer(4, 0); err != defs.EFAULT {
		t.Fatalf("ReadByteBuffer(4, 0) = %v, want EFAULT", err)
	}
}

func TestFakeUbufRoundTrip(t *testing.T) {
	f := MkFakeUbuf(make([]byte, 16))
	if err := f.WriteCString("ok", 2); err != 0 {
		t.Fatalf("WriteCString() failed: %v", err)
	}
	s, terminated, err := f.ReadCString(2, 8)
	if err != 0 || !terminated || string(s) != "ok" {
		t.Fatalf("ReadCString() = (%q, %v, %v), want (\"ok\", true, 0)", s, terminated, err)
	}
}

func TestFakeUbufRejectsOutOfRange(t *testing.T) {
	f := MkFakeUbuf(make([]byte, 4))
	if _, err := f.ReadByteBuffer(2, 4); err != defs.EFAULT {
		t.Fatalf("ReadByteBuffer() past the end = %v, want EFAULT", err)
	}
	if err := f.WriteByteBuffer([]byte("too long"), 0); err != defs.EFAULT {
		t.Fatalf("WriteByteBuffer() past the end = %v, want EFAULT", err)
	}
}
