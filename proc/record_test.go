package proc

import (
	"testing"
	"time"

	"nachos/defs"
	"nachos/fd"
)

type nopFile struct{}

func (nopFile) ReadAt(dst []byte, offset int) (int, defs.Err_t)  { return 0, 0 }
func (nopFile) WriteAt(src []byte, offset int) (int, defs.Err_t) { return len(src), 0 }
func (nopFile) Close() defs.Err_t                                { return 0 }

func TestAddGetCloseFile(t *testing.T) {
	r := MkRecord(1, nil, false)
	fid, err := r.AddFile(fd.Mk(nopFile{}))
	if err != 0 {
		t.Fatalf("AddFile() failed: %v", err)
	}
	if fid < 2 {
		t.Fatalf("AddFile() returned fid %d, want >= 2 (0/1 reserved for console)", fid)
	}
	if _, ok := r.GetFile(fid); !ok {
		t.Fatal("GetFile() did not find the descriptor just added")
	}
	if err := r.CloseFile(fid); err != 0 {
		t.Fatalf("CloseFile() failed: %v", err)
	}
	if _, ok := r.GetFile(fid); ok {
		t.Fatal("GetFile() still finds the descriptor after CloseFile()")
	}
}

func TestCloseFileUnknownFidFails(t *testing.T) {
	r := MkRecord(2, nil, false)
	if err := r.CloseFile(99); err == 0 {
		t.Fatal("CloseFile() succeeded on a descriptor that was never opened")
	}
}

func TestJoinUnjoinableFails(t *testing.T) {
	r := MkRecord(3, nil, false)
	if _, err := r.Join(nil); err == 0 {
		t.Fatal("Join() succeeded on a non-joinable record")
	}
}

func TestExitThenJoinReturnsStatus(t *testing.T) {
	r := MkRecord(4, nil, true)
	r.Exit(42)
	status, err := r.Join(nil)
	if err != 0 {
		t.Fatalf("Join() failed: %v", err)
	}
	if status != 42 {
		t.Fatalf("Join() status = %d, want 42", status)
	}
}

func TestJoinBlocksUntilExit(t *testing.T) {
	r := MkRecord(5, nil, true)
	done := make(chan int, 1)
	go func() {
		status, _ := r.Join(nil)
		done <- status
	}()

	select {
	case <-done:
		t.Fatal("Join() returned before Exit() was called")
	case <-time.After(50 * time.Millisecond):
	}

	r.Exit(7)
	select {
	case status := <-done:
		if status != 7 {
			t.Fatalf("Join() status = %d, want 7", status)
		}
	case <-time.After(time.Second):
		t.Fatal("Join() never returned after Exit()")
	}
}

func TestExitIsIdempotent(t *testing.T) {
	r := MkRecord(6, nil, true)
	r.Exit(1)
	r.Exit(2) // must not panic on a double-close of r.done
	status, _ := r.Join(nil)
	if status != 1 {
		t.Fatalf("Join() status = %d, want 1 (first Exit() should win)", status)
	}
}

func TestJoinFoldsAccountingIntoJoiner(t *testing.T) {
	child := MkRecord(7, nil, true)
	child.Exit(0)
	child.Acct.Userns = 100
	child.Acct.Sysns = 50

	joiner := MkRecord(8, nil, false)
	if _, err := child.Join(joiner); err != 0 {
		t.Fatalf("Join() failed: %v", err)
	}
	if joiner.Acct.Userns != 100 || joiner.Acct.Sysns != 50 {
		t.Fatalf("joiner.Acct = {%d %d}, want {100 50}", joiner.Acct.Userns, joiner.Acct.Sysns)
	}
}
