package accnt

import (
	"testing"

	"nachos/util"
)

func TestUtaddSystaddAccumulate(t *testing.T) {
	var a Accnt_t
	a.Utadd(100)
	a.Utadd(50)
	a.Systadd(10)
	if a.Userns != 150 {
		t.Fatalf("Userns = %d, want 150", a.Userns)
	}
	if a.Sysns != 10 {
		t.Fatalf("Sysns = %d, want 10", a.Sysns)
	}
}

func TestFinishChargesElapsedSystemTime(t *testing.T) {
	var a Accnt_t
	start := a.Now()
	a.Finish(start)
	if a.Sysns < 0 {
		t.Fatalf("Sysns = %d after Finish(), want >= 0", a.Sysns)
	}
}

func TestAddMergesTwoRecords(t *testing.T) {
	var a, b Accnt_t
	a.Userns, a.Sysns = 10, 20
	b.Userns, b.Sysns = 1, 2
	a.Add(&b)
	if a.Userns != 11 || a.Sysns != 22 {
		t.Fatalf("after Add(): Userns=%d Sysns=%d, want 11, 22", a.Userns, a.Sysns)
	}
}

func TestToRusageEncodesSecondsAndMicros(t *testing.T) {
	var a Accnt_t
	a.Userns = 2_500_000_000 // 2.5s
	a.Sysns = 1_000_000      // 1ms
	buf := a.To_rusage()
	if len(buf) != 32 {
		t.Fatalf("To_rusage() length = %d, want 32", len(buf))
	}
	if s, us := util.Readn(buf, 8, 0), util.Readn(buf, 8, 8); s != 2 || us != 500000 {
		t.Fatalf("user time = (%d s, %d us), want (2, 500000)", s, us)
	}
	if s, us := util.Readn(buf, 8, 16), util.Readn(buf, 8, 24); s != 0 || us != 1000 {
		t.Fatalf("system time = (%d s, %d us), want (0, 1000)", s, us)
	}
}
