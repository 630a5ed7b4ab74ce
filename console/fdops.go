package console

import "nachos/defs"

// In adapts the console's input side to fdops.Fdops_i for
// GuestFileDescriptor 0.
type In struct {
	C *Console_t
}

// ReadAt ignores offset — the console has no notion of file position —
// and blocks character by character until dst is full or the stream
// reaches EOF.
func (r In) ReadAt(dst []byte, offset int) (int, defs.Err_t) {
	for i := 0; i < len(dst); i++ {
		c, ok := r.C.GetChar()
		if !ok {
			return i, 0
		}
		dst[i] = c
	}
	return len(dst), 0
}

// WriteAt is invalid on console input.
func (r In) WriteAt(src []byte, offset int) (int, defs.Err_t) {
	return 0, defs.EINVAL
}

// Close is a no-op: descriptor 0 is never actually released.
func (r In) Close() defs.Err_t { return 0 }

// Out adapts the console's output side to fdops.Fdops_i for
// GuestFileDescriptor 1.
type Out struct {
	C *Console_t
}

// ReadAt is invalid on console output.
func (w Out) ReadAt(dst []byte, offset int) (int, defs.Err_t) {
	return 0, defs.EINVAL
}

// WriteAt ignores offset and stops at the first NUL byte in src (spec
// §4.H: "console writes stop at NUL, file writes do not").
func (w Out) WriteAt(src []byte, offset int) (int, defs.Err_t) {
	n := 0
	for _, b := range src {
		if b == 0 {
			break
		}
		w.C.PutChar(b)
		n++
	}
	return n, 0
}

// Close is a no-op: descriptor 1 is never actually released.
func (w Out) Close() defs.Err_t { return 0 }
