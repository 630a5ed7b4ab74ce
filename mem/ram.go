package mem

// Mem_t is the emulated machine's main memory: a free-frame bitmap
// (FrameMap_t) paired with the byte storage the frames actually name.
// Nachos's MMU addresses physical memory as one flat array indexed by
// frame*PageSize+offset (see original_source's AddressTranslation); Go
// has no equivalent of a hardware-mapped page, so the "physical frame"
// a PageTableEntry names is simply an index into this slice.
type Mem_t struct {
	Frames *FrameMap_t
	ram    []byte
}

// MkMem allocates nframe frames worth of backing storage.
func MkMem(nframe int) *Mem_t {
	return &Mem_t{
		Frames: MkFrameMap(nframe),
		ram:    make([]byte, nframe*PageSize),
	}
}

// Frame returns the PageSize-byte slice backing frame f.
func (m *Mem_t) Frame(f int) []byte {
	return m.ram[f*PageSize : (f+1)*PageSize]
}

// AllocZeroed allocates a free frame and zeroes it, as spec §4.G's eager
// construction and page-fault handler both require before use.
func (m *Mem_t) AllocZeroed() (frame int, ok bool) {
	f, ok := m.Frames.Alloc()
	if !ok {
		return 0, false
	}
	b := m.Frame(f)
	for i := range b {
		b[i] = 0
	}
	return f, true
}
