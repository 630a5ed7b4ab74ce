package console

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestGetCharReadsInOrder(t *testing.T) {
	c := Mk(strings.NewReader("ab"), &bytes.Buffer{})
	for _, want := range []byte{'a', 'b'} {
		got, ok := c.GetChar()
		if !ok || got != want {
			t.Fatalf("GetChar() = (%c, %v), want (%c, true)", got, ok, want)
		}
	}
}

func TestGetCharReportsEOF(t *testing.T) {
	c := Mk(strings.NewReader(""), &bytes.Buffer{})
	deadline := time.After(2 * time.Second)
	for {
		if _, ok := c.GetChar(); !ok {
			return
		}
		select {
		case <-deadline:
			t.Fatal("GetChar() never reported EOF on an empty input stream")
		default:
		}
	}
}

func TestPutCharWritesThrough(t *testing.T) {
	var out bytes.Buffer
	c := Mk(strings.NewReader(""), &out)
	c.PutChar('x')
	c.PutChar('y')
	if out.String() != "xy" {
		t.Fatalf("out = %q, want %q", out.String(), "xy")
	}
}

func TestConsoleInReadAtStopsShortOnEOF(t *testing.T) {
	c := Mk(strings.NewReader("hi"), &bytes.Buffer{})
	in := In{C: c}
	buf := make([]byte, 10)
	n, err := in.ReadAt(buf, 0)
	if err != 0 {
		t.Fatalf("ReadAt() failed: %v", err)
	}
	if n != 2 || string(buf[:n]) != "hi" {
		t.Fatalf("ReadAt() = (%d, %q), want (2, \"hi\")", n, buf[:n])
	}
}

func TestConsoleOutWriteAtStopsAtNUL(t *testing.T) {
	var out bytes.Buffer
	c := Mk(strings.NewReader(""), &out)
	w := Out{C: c}
	n, err := w.WriteAt([]byte("hi\x00there"), 0)
	if err != 0 {
		t.Fatalf("WriteAt() failed: %v", err)
	}
	if n != 2 || out.String() != "hi" {
		t.Fatalf("WriteAt() = (%d, %q written), want (2, \"hi\")", n, out.String())
	}
}
