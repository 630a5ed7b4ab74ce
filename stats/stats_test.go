package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestCounterIncAccumulates(t *testing.T) {
	var c Counter_t
	c.Inc()
	c.Inc()
	c.Inc()
	if c != 3 {
		t.Fatalf("Counter_t = %d, want 3", c)
	}
}

func TestCounterIncIsNoopWhenDisabled(t *testing.T) {
	Enabled = false
	defer func() { Enabled = true }()

	var c Counter_t
	c.Inc()
	if c != 0 {
		t.Fatalf("Counter_t = %d with Enabled=false, want 0", c)
	}
}

func TestCyclesAddAccumulatesNonNegative(t *testing.T) {
	var cy Cycles_t
	mark := Mark()
	cy.Add(mark)
	if cy < 0 {
		t.Fatalf("Cycles_t = %d, want >= 0", cy)
	}
}

func TestStats2StringRendersFieldNames(t *testing.T) {
	st := &KernelStats{}
	st.Syscalls.Inc()
	st.Syscalls.Inc()
	s := Stats2String(st)
	if !strings.Contains(s, "Syscalls: 2") {
		t.Fatalf("Stats2String() = %q, want it to mention \"Syscalls: 2\"", s)
	}
}

func TestDumpProfileProducesValidOutput(t *testing.T) {
	st := &KernelStats{}
	st.PageFaults.Inc()
	var buf bytes.Buffer
	if err := DumpProfile(st, &buf); err != nil {
		t.Fatalf("DumpProfile() failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("DumpProfile() wrote no bytes")
	}
}
