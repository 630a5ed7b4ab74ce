package vm

import (
	"fmt"
	"os"
	"sync"

	"nachos/defs"
)

// swapFile_t is one demand-paged process's private backing store (spec
// §6 "Swap file per process: size numPages·PAGE_SIZE, named
// swap<N>.asid; page v is at offset v·PAGE_SIZE"), grounded on ufs's
// ahci_disk_t: an *os.File serialized by one mutex, addressed with
// ReadAt/WriteAt at offset v·PageSize. A swap file (unlike fs.Disk_i) is
// never shared across goroutines doing concurrent unrelated I/O — the
// owning AddressSpace's own page-fault handler is the sole caller,
// serialized by AddressSpace.mu already.
type swapFile_t struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// mkSwapFile creates (or truncates) a swap file sized numPages*PageSize
// at base directory dir for process asid.
func mkSwapFile(dir string, asid int, numPages int) (*swapFile_t, defs.Err_t) {
	path := fmt.Sprintf("%s/swap%d.asid", dir, asid)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, defs.ENOMEM
	}
	if err := f.Truncate(int64(numPages * PageSize)); err != nil {
		f.Close()
		os.Remove(path)
		return nil, defs.ENOMEM
	}
	return &swapFile_t{f: f, path: path}, 0
}

// ReadPage reads page vpage's PageSize bytes into dst.
func (s *swapFile_t) ReadPage(vpage int, dst []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.f.ReadAt(dst[:PageSize], int64(vpage*PageSize)); err != nil {
		panic(err)
	}
}

// WritePage writes src (exactly PageSize bytes) to page vpage.
func (s *swapFile_t) WritePage(vpage int, src []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.f.WriteAt(src[:PageSize], int64(vpage*PageSize)); err != nil {
		panic(err)
	}
}

// Close closes and deletes the swap file; called from AddressSpace
// teardown (spec §4.G "delete the swap file").
func (s *swapFile_t) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f.Close()
	os.Remove(s.path)
}
