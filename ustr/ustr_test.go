package ustr

import "testing"

func TestEq(t *testing.T) {
	if !Ustr("abc").Eq(Ustr("abc")) {
		t.Fatal("Eq() = false for identical strings")
	}
	if Ustr("abc").Eq(Ustr("abd")) {
		t.Fatal("Eq() = true for differing strings")
	}
	if Ustr("abc").Eq(Ustr("ab")) {
		t.Fatal("Eq() = true for strings of differing length")
	}
}

func TestIsdotIsdotdot(t *testing.T) {
	if !Ustr(".").Isdot() {
		t.Fatal(`Isdot() = false for "."`)
	}
	if Ustr("..").Isdot() {
		t.Fatal(`Isdot() = true for ".."`)
	}
	if !Ustr("..").Isdotdot() {
		t.Fatal(`Isdotdot() = false for ".."`)
	}
}

func TestIsAbsolute(t *testing.T) {
	if !Ustr("/a/b").IsAbsolute() {
		t.Fatal("IsAbsolute() = false for a leading-slash path")
	}
	if Ustr("a/b").IsAbsolute() {
		t.Fatal("IsAbsolute() = true for a relative path")
	}
	if Ustr("").IsAbsolute() {
		t.Fatal("IsAbsolute() = true for an empty path")
	}
}

func TestMkUstrSliceTruncatesAtNUL(t *testing.T) {
	got := MkUstrSlice([]uint8{'h', 'i', 0, 'x'})
	if string(got) != "hi" {
		t.Fatalf("MkUstrSlice() = %q, want %q", got, "hi")
	}
}

func TestExtend(t *testing.T) {
	got := Ustr("dir").Extend(Ustr("file"))
	if string(got) != "dir/file" {
		t.Fatalf("Extend() = %q, want %q", got, "dir/file")
	}
}

func TestIndexByte(t *testing.T) {
	if i := Ustr("a/b").IndexByte('/'); i != 1 {
		t.Fatalf("IndexByte('/') = %d, want 1", i)
	}
	if i := Ustr("abc").IndexByte('/'); i != -1 {
		t.Fatalf("IndexByte('/') = %d, want -1", i)
	}
}
