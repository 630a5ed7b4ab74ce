// Package console implements the Synchronized Console (spec §4.B):
// independent read/write locks so one reader and one writer make
// progress concurrently, with GetChar blocking until a byte is
// available and PutChar blocking until the underlying device has
// accepted the byte. Grounded on
// original_source/.../synch_console.cc (readLock+readAvailSem,
// writeLock+writeDoneSem) re-expressed with sync.Cond in place of a
// semaphore pair, and on circbuf.Ring_t for the small amount of
// read-ahead slack a background pump needs while GetChar is not yet
// waiting.
package console

import (
	"io"
	"sync"

	"nachos/circbuf"
)

const ringCapacity = 256

// Console_t is the kernel-side synchronized console. Construct one per
// kernel instance (spec §4.J: it is a global singleton) over the host's
// stdin/stdout, or over test readers/writers.
type Console_t struct {
	readMu   sync.Mutex
	readCond *sync.Cond
	ring     *circbuf.Ring_t
	readEOF  bool

	writeMu sync.Mutex
	out     io.Writer
}

// Mk starts a console reading from in and writing to out. The reader is
// pumped by a background goroutine so GetChar never blocks the pump
// itself — mirroring how the real device's interrupt handler pushes
// bytes into readAvailSem independent of whether GetChar is waiting.
func Mk(in io.Reader, out io.Writer) *Console_t {
	c := &Console_t{
		ring: circbuf.Mk(ringCapacity),
		out:  out,
	}
	c.readCond = sync.NewCond(&c.readMu)
	go c.pump(in)
	return c
}

func (c *Console_t) pump(in io.Reader) {
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			c.readMu.Lock()
			for c.ring.Full() {
				c.readCond.Wait()
			}
			c.ring.PushByte(buf[0])
			c.readCond.Broadcast()
			c.readMu.Unlock()
		}
		if err != nil {
			c.readMu.Lock()
			c.readEOF = true
			c.readCond.Broadcast()
			c.readMu.Unlock()
			return
		}
	}
}

// GetChar blocks until one character is available and returns it. ok is
// false only once the input stream has reached EOF and no buffered
// bytes remain, which the caller (a ConsoleIn Fdops_i) turns into a
// short or empty read rather than blocking forever.
func (c *Console_t) GetChar() (ch byte, ok bool) {
	c.readMu.Lock()
	defer c.readMu.Unlock()
	for c.ring.Empty() {
		if c.readEOF {
			return 0, false
		}
		c.readCond.Wait()
	}
	b, _ := c.ring.PopByte()
	c.readCond.Broadcast()
	return b, true
}

// PutChar writes one character synchronously; Write on the underlying
// device stands in for the real console's writeDoneSem handshake.
func (c *Console_t) PutChar(ch byte) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.out.Write([]byte{ch})
}
