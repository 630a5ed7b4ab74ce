package limits

import "testing"

func TestTakeGiveBalance(t *testing.T) {
	var s Sysatomic_t
	s.Given(2)
	if !s.Take() {
		t.Fatal("Take() failed with 2 slots available")
	}
	if s.Remaining() != 1 {
		t.Fatalf("Remaining() = %d, want 1", s.Remaining())
	}
	s.Give()
	if s.Remaining() != 2 {
		t.Fatalf("Remaining() = %d after Give(), want 2", s.Remaining())
	}
}

func TestTakeFailsWhenExhausted(t *testing.T) {
	var s Sysatomic_t
	s.Given(1)
	if !s.Take() {
		t.Fatal("Take() failed with 1 slot available")
	}
	if s.Take() {
		t.Fatal("Take() succeeded with no slots remaining")
	}
	if s.Remaining() != 0 {
		t.Fatalf("Remaining() = %d after a rejected Take(), want 0 (unchanged)", s.Remaining())
	}
}

func TestTakenRejectsAndRollsBackPartialRequest(t *testing.T) {
	var s Sysatomic_t
	s.Given(3)
	if s.Taken(5) {
		t.Fatal("Taken(5) succeeded with only 3 slots available")
	}
	if s.Remaining() != 3 {
		t.Fatalf("Remaining() = %d after a rejected Taken(), want 3 (rolled back)", s.Remaining())
	}
}

func TestDefaultSyslimitIsPositive(t *testing.T) {
	if Syslimit.Sysprocs.Remaining() <= 0 {
		t.Fatal("default Syslimit.Sysprocs has no room")
	}
	if Syslimit.Nofile.Remaining() <= 0 {
		t.Fatal("default Syslimit.Nofile has no room")
	}
}
