package caller

import (
	"io"
	"os"
	"strings"
	"testing"
)

func TestCallerdumpPrintsFileLines(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	Callerdump(0)
	w.Close()
	os.Stdout = orig

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if !strings.Contains(string(out), "caller_test.go") {
		t.Fatalf("Callerdump() output = %q, want it to mention this test file", out)
	}
}
