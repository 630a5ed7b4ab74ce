// Package caller provides a small stack-dump helper used when the kernel
// is about to kill a simulated process for a policy violation (spec §7:
// "fatal — the process is terminated by assertion"), so the host log
// shows where the invariant broke.
package caller

import (
	"fmt"
	"runtime"
)

// Callerdump prints the call stack starting at the given depth to
// standard output.
func Callerdump(start int) {
	i := start
	s := ""
	for {
		_, f, l, ok := runtime.Caller(i)
		if !ok {
			break
		}
		i++
		if s == "" {
			s = fmt.Sprintf("%s:%d\n", f, l)
		} else {
			s += fmt.Sprintf("\t<-%s:%d\n", f, l)
		}
	}
	fmt.Printf("%s", s)
}
