// Package syscall implements the system-call dispatcher (spec §4.H):
// one Dispatch call per guest trap, reading the syscall id and
// arguments out of the guest register file, acting on the kernel
// singletons in *kernel.Kernel, and writing a result back before
// advancing the program counter. Grounded on
// original_source/code/userprog/exception.cc's SyscallHandler — the
// register convention (id in r2, args r4-r7, result in r2) and the
// per-syscall bodies are carried over case by case, generalized from
// Nachos's single global `machine`/`fileSystem`/`filesTable` to this
// kernel's explicit *kernel.Kernel and *proc.Record parameters.
package syscall

import (
	"encoding/binary"

	"nachos/console"
	"nachos/defs"
	"nachos/fd"
	"nachos/kernel"
	"nachos/proc"
	"nachos/ustr"
	"nachos/vm"
)

// Cpu_i is the guest register file, the boundary between this
// dispatcher and the external CPU/MMU simulator (spec §1 "Out of
// scope"). Reg/SetReg expose registers 2 and 4-7 (syscall convention);
// IncrementPC implements the PC/NEXT_PC/PREV_PC branch-delay-slot
// advance every dispatch path ends with.
type Cpu_i interface {
	Reg(n int) int
	SetReg(n int, v int)
	IncrementPC()
}

// StartInfo is what a freshly Exec'd guest thread needs installed into
// its own register file before it starts running: argc/argv per spec
// §9's argument marshalling, and the stack pointer WriteArgs left below
// them.
type StartInfo struct {
	Argc      int
	ArgvAddr  int
	StackAddr int
}

// argRegBase is the first argument register (r4) per the MIPS syscall
// convention spec §4.H/§6 describes.
const argRegBase = 4

// resultReg is where a syscall's return value goes (r2).
const resultReg = 2

// Dispatch handles one syscall trap on behalf of process cur, running
// on cpu. startProcess(child, info) is called, in a new goroutine, to
// hand a freshly Exec'd process to the external CPU — this package
// never runs guest code itself, only sets up the state a real MIPS CPU
// needs to start running it (spec §4.H Exec steps 1-2; step 3, "jumps
// to user code", is the external simulator's job).
func Dispatch(k *kernel.Kernel, cur *proc.Record, cpu Cpu_i, startProcess func(rec *proc.Record, info StartInfo)) {
	k.Stats.Syscalls.Inc()
	defer cpu.IncrementPC()

	switch cpu.Reg(resultReg) {
	case defs.SYS_HALT:
		k.Shutdown()

	case defs.SYS_EXIT:
		status := cpu.Reg(argRegBase)
		cur.Exit(status)

	case defs.SYS_EXEC:
		id := sysExec(k, cur, cpu, startProcess)
		cpu.SetReg(resultReg, int(id))

	case defs.SYS_JOIN:
		cpu.SetReg(resultReg, sysJoin(k, cur, cpu))

	case defs.SYS_CREATE:
		cpu.SetReg(resultReg, int(sysCreate(k, cur, cpu)))

	case defs.SYS_REMOVE:
		cpu.SetReg(resultReg, int(sysRemove(k, cur, cpu)))

	case defs.SYS_OPEN:
		cpu.SetReg(resultReg, sysOpen(k, cur, cpu))

	case defs.SYS_CLOSE:
		cpu.SetReg(resultReg, int(sysClose(cur, cpu)))

	case defs.SYS_READ:
		cpu.SetReg(resultReg, sysRead(k, cur, cpu))

	case defs.SYS_WRITE:
		cpu.SetReg(resultReg, sysWrite(k, cur, cpu))

	default:
		k.Fatal(cur.ID, "unknown syscall id")
	}
}

func sysExec(k *kernel.Kernel, cur *proc.Record, cpu Cpu_i, startProcess func(*proc.Record, StartInfo)) defs.SpaceId {
	pathAddr := cpu.Reg(argRegBase)
	argvAddr := cpu.Reg(argRegBase + 1)
	joinable := cpu.Reg(argRegBase+2) != 0

	pathBytes, terminated, err := cur.AS.ReadCString(pathAddr, defs.FileNameMax+1)
	if err != 0 || !terminated {
		return -1
	}
	argv, err := readArgv(cur.AS, argvAddr)
	if err != 0 {
		return -1
	}

	fh, err := k.FS.Open(ustr.Ustr(pathBytes))
	if err != 0 {
		return -1
	}
	exe, err := vm.OpenExecutable(fh)
	if err != 0 {
		fh.Close()
		return -1
	}

	id, err := k.Procs.Alloc()
	if err != 0 {
		exe.Close()
		return -1
	}
	as, err := vm.MkAddressSpace(exe, k.Mem, k.Tlb, k.SwapDir, int(id))
	if err != 0 {
		exe.Close()
		k.Procs.Remove(id)
		return -1
	}

	child := proc.MkRecord(id, as, joinable)
	k.Procs.Add(child)

	argc, argvChildAddr, stackAddr, err := writeArgs(as, argv)
	if err != 0 {
		child.Teardown()
		k.Procs.Remove(id)
		return -1
	}

	if startProcess != nil {
		go startProcess(child, StartInfo{Argc: argc, ArgvAddr: argvChildAddr, StackAddr: stackAddr})
	}
	return id
}

func sysJoin(k *kernel.Kernel, cur *proc.Record, cpu Cpu_i) int {
	id := defs.SpaceId(cpu.Reg(argRegBase))
	rec, ok := k.Procs.Get(id)
	if !ok {
		return -1
	}
	status, err := rec.Join(cur)
	if err != 0 {
		return -1
	}
	rec.Teardown()
	k.Procs.Remove(id)
	return status
}

func sysCreate(k *kernel.Kernel, cur *proc.Record, cpu Cpu_i) defs.Err_t {
	pathAddr := cpu.Reg(argRegBase)
	path, terminated, err := cur.AS.ReadCString(pathAddr, defs.FileNameMax+1)
	if err != 0 || !terminated {
		return defs.EFAULT
	}
	return k.FS.Create(ustr.Ustr(path))
}

func sysRemove(k *kernel.Kernel, cur *proc.Record, cpu Cpu_i) defs.Err_t {
	pathAddr := cpu.Reg(argRegBase)
	path, terminated, err := cur.AS.ReadCString(pathAddr, defs.FileNameMax+1)
	if err != 0 || !terminated {
		return defs.EFAULT
	}
	return k.FS.Remove(ustr.Ustr(path))
}

func sysOpen(k *kernel.Kernel, cur *proc.Record, cpu Cpu_i) int {
	pathAddr := cpu.Reg(argRegBase)
	path, terminated, err := cur.AS.ReadCString(pathAddr, defs.FileNameMax+1)
	if err != 0 || !terminated {
		return -1
	}
	fh, err := k.FS.Open(ustr.Ustr(path))
	if err != 0 {
		return -1
	}
	fid, ferr := cur.AddFile(fd.Mk(fh))
	if ferr != 0 {
		fh.Close()
		return -1
	}
	return fid
}

func sysClose(cur *proc.Record, cpu Cpu_i) defs.Err_t {
	fid := cpu.Reg(argRegBase)
	return cur.CloseFile(fid)
}

func sysRead(k *kernel.Kernel, cur *proc.Record, cpu Cpu_i) int {
	addr := cpu.Reg(argRegBase)
	size := cpu.Reg(argRegBase + 1)
	fid := cpu.Reg(argRegBase + 2)
	offset := cpu.Reg(argRegBase + 3)

	if fid == defs.ConsoleIn {
		buf := make([]byte, size)
		n, err := (console.In{C: k.Console}).ReadAt(buf, 0)
		if err != 0 {
			return -1
		}
		if werr := cur.AS.WriteByteBuffer(buf[:n], addr); werr != 0 {
			return -1
		}
		return n
	}

	f, ok := cur.GetFile(fid)
	if !ok {
		return -1
	}
	buf := make([]byte, size)
	n, err := f.ReadAt(buf, offset)
	if err != 0 {
		return -1
	}
	if werr := cur.AS.WriteByteBuffer(buf[:n], addr); werr != 0 {
		return -1
	}
	return n
}

func sysWrite(k *kernel.Kernel, cur *proc.Record, cpu Cpu_i) int {
	addr := cpu.Reg(argRegBase)
	size := cpu.Reg(argRegBase + 1)
	fid := cpu.Reg(argRegBase + 2)

	buf, err := cur.AS.ReadByteBuffer(addr, size)
	if err != 0 {
		return -1
	}

	if fid == defs.ConsoleOut {
		n, werr := (console.Out{C: k.Console}).WriteAt(buf, 0)
		if werr != 0 {
			return -1
		}
		return n
	}

	f, ok := cur.GetFile(fid)
	if !ok {
		return -1
	}
	n, werr := f.Write(buf)
	if werr != 0 {
		return -1
	}
	return n
}

// readArgv reads a NUL-terminated array of guest pointers starting at
// argvAddr, then the NUL-terminated string each points to, per spec §9
// "the kernel copies argc/argv from the parent's user memory into a
// kernel buffer", capped at defs.MaxArgCount entries and
// defs.MaxArgTotal total bytes.
func readArgv(as *vm.AddressSpace, argvAddr int) ([]string, defs.Err_t) {
	var argv []string
	total := 0
	for i := 0; i < defs.MaxArgCount; i++ {
		raw, err := as.ReadByteBuffer(argvAddr+i*4, 4)
		if err != 0 {
			return nil, err
		}
		ptr := int(binary.LittleEndian.Uint32(raw))
		if ptr == 0 {
			return argv, 0
		}
		remaining := defs.MaxArgTotal - total
		if remaining <= 0 {
			return nil, defs.E2BIG
		}
		s, _, err := as.ReadCString(ptr, remaining)
		if err != 0 {
			return nil, err
		}
		total += len(s) + 1
		if total > defs.MaxArgTotal {
			return nil, defs.E2BIG
		}
		argv = append(argv, string(s))
	}
	return nil, defs.E2BIG
}

// writeArgs writes argv into the top of the freshly constructed child
// address space's stack, returning argc, the address of the argv
// pointer array (r5 per spec §4.H), and the stack pointer left below
// it. Grounded on original_source's WriteArgs/SC_EXEC sequence: strings
// are written first (in reverse, so addresses only grow downward once),
// then the pointer array, then 16 bytes are reserved below everything
// for the callee's register-save area.
func writeArgs(as *vm.AddressSpace, argv []string) (argc, argvAddr, stackAddr int, err defs.Err_t) {
	sp := as.NumPages() * vm.PageSize

	ptrs := make([]int, len(argv))
	for i := len(argv) - 1; i >= 0; i-- {
		s := append([]byte(argv[i]), 0)
		sp -= len(s)
		sp &^= 3
		if werr := as.WriteByteBuffer(s, sp); werr != 0 {
			return 0, 0, 0, werr
		}
		ptrs[i] = sp
	}

	sp -= (len(ptrs) + 1) * 4
	sp &^= 3
	argvAddr = sp
	for i, p := range ptrs {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(p))
		if werr := as.WriteByteBuffer(b, sp+i*4); werr != 0 {
			return 0, 0, 0, werr
		}
	}
	nul := make([]byte, 4)
	if werr := as.WriteByteBuffer(nul, sp+len(ptrs)*4); werr != 0 {
		return 0, 0, 0, werr
	}

	sp -= 16
	return len(argv), argvAddr, sp, 0
}
