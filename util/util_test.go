package util

import "testing"

func TestMinMax(t *testing.T) {
	if Min(3, 5) != 3 {
		t.Fatal("Min(3, 5) != 3")
	}
	if Max(3, 5) != 5 {
		t.Fatal("Max(3, 5) != 5")
	}
}

func TestRounddownRoundup(t *testing.T) {
	if Rounddown(13, 4) != 12 {
		t.Fatalf("Rounddown(13, 4) = %d, want 12", Rounddown(13, 4))
	}
	if Roundup(13, 4) != 16 {
		t.Fatalf("Roundup(13, 4) = %d, want 16", Roundup(13, 4))
	}
	if Roundup(12, 4) != 12 {
		t.Fatalf("Roundup(12, 4) = %d, want 12 (already aligned)", Roundup(12, 4))
	}
}

func TestReadnWritenRoundTrip(t *testing.T) {
	buf := make([]uint8, 8)
	Writen(buf, 4, 0, 0xdeadbeef)
	if got := Readn(buf, 4, 0); got != int(uint32(0xdeadbeef)) {
		t.Fatalf("Readn(4) = %#x, want %#x", got, uint32(0xdeadbeef))
	}
	Writen(buf, 1, 4, 200)
	if got := Readn(buf, 1, 4); got != 200 {
		t.Fatalf("Readn(1) = %d, want 200", got)
	}
}

func TestReadnOutOfBoundsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Readn() did not panic on an out-of-bounds read")
		}
	}()
	Readn(make([]uint8, 2), 4, 0)
}

func TestReadI32PreservesNegativeSentinel(t *testing.T) {
	buf := make([]uint8, 4)
	WriteI32(buf, 0, -1)
	if got := ReadI32(buf, 0); got != -1 {
		t.Fatalf("ReadI32() = %d, want -1", got)
	}
	if got := Readn(buf, 4, 0); got == -1 {
		t.Fatal("Readn(4) unexpectedly preserved the negative sentinel through zero-extension")
	}
}

func TestWriteI32OutOfBoundsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("WriteI32() did not panic on an out-of-bounds write")
		}
	}()
	WriteI32(make([]uint8, 2), 0, 1)
}
