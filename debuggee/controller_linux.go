// This file is part of Thorin.
//
// Thorin is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Thorin is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Thorin.  If not, see <https://www.gnu.org/licenses/>.

//go:build linux

package debuggee

import (
	"os"
	"runtime"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/jetsetilly/thorin/assert"
	"github.com/jetsetilly/thorin/errors"
	"github.com/jetsetilly/thorin/logger"
)

// linuxController implements Controller with ptrace, grounded on the
// fork/TRACEME/execve/waitpid sequence in spec §4.D. A goroutine that drives
// ptrace must never migrate threads, so SpawnAndTrap holds
// runtime.LockOSThread for the whole stop, including the OnStop callback
// from which ReadMemory is called.
type linuxController struct {
	pid   int
	state State
}

// New returns the Linux ptrace-backed Controller.
func New() Controller {
	return &linuxController{state: Spawning}
}

func (c *linuxController) State() State {
	return c.state
}

// SpawnAndTrap starts execPath with PTRACE_TRACEME arranged before its
// execve (via SysProcAttr.Ptrace, which os/exec and os.StartProcess both
// implement this way on Linux), waits for the SIGTRAP delivered at the
// image's entry point, reads registers, and invokes onStop. Spec §4.D.
func (c *linuxController) SpawnAndTrap(execPath string, onStop OnStop) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	callingGoroutine := assert.GetGoRoutineID()

	if _, err := os.Stat(execPath); err != nil {
		return spawnError(execPath, err)
	}

	proc, err := os.StartProcess(execPath, []string{execPath}, &os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
		Sys: &syscall.SysProcAttr{
			Ptrace:    true,
			Pdeathsig: syscall.SIGKILL,
		},
	})
	if err != nil {
		return spawnError(execPath, err)
	}
	c.pid = proc.Pid

	var ws unix.WaitStatus
	if _, err := unix.Wait4(c.pid, &ws, 0, nil); err != nil {
		c.state = Exited
		return spawnError(execPath, err)
	}
	if !ws.Stopped() {
		c.state = Exited
		return errors.Errorf("debuggee: child exited before its first stop (status %v)", ws)
	}

	c.state = Stopped
	logger.Logf(logger.Allow, "debuggee", "child %d stopped at entry", c.pid)

	var regs unix.PtraceRegs
	if err := unix.PtraceGetRegs(c.pid, &regs); err != nil {
		return spawnError(execPath, err)
	}

	c.state = Inspecting
	if id := assert.GetGoRoutineID(); id != callingGoroutine {
		logger.Logf(logger.Allow, "debuggee", "on_stop invoked off the spawning goroutine (%d != %d)", id, callingGoroutine)
	}
	onStop(Registers{RBP: regs.Rbp, RIP: regs.Rip})

	c.state = Running
	if err := unix.PtraceCont(c.pid, 0); err != nil {
		return errors.Errorf("debuggee: could not resume child %d: %v", c.pid, err)
	}

	if _, err := unix.Wait4(c.pid, &ws, 0, nil); err != nil {
		logger.Logf(logger.Allow, "debuggee", "wait for child %d exit: %v", c.pid, err)
	}
	c.state = Exited

	return nil
}

// ReadMemory reads via PTRACE_PEEKDATA, one word at a time, per spec §4.D.
// A failing peek contributes zero bytes for its word rather than aborting
// the read, and those bytes are left out of the returned count — the
// interpreter doesn't distinguish a short read from a full one (spec §7).
func (c *linuxController) ReadMemory(dst []byte, address uint64) (int, error) {
	const wordSize = 8

	read := 0
	got := 0
	for read < len(dst) {
		word := address + uint64(read)
		var buf [wordSize]byte
		n, err := unix.PtracePeekData(c.pid, uintptr(word), buf[:])
		if err != nil || n <= 0 {
			for i := range buf {
				buf[i] = 0
			}
		} else {
			got += min(n, len(dst)-read)
		}
		copy(dst[read:], buf[:])
		read += wordSize
	}

	return got, nil
}
