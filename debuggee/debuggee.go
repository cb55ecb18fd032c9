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

// Package debuggee is the debuggee controller (component D): it launches a
// child process, stops it at its first instruction, and exposes a register
// snapshot and a memory-read primitive for the duration of that stop. The
// platform-specific halves live in controller_linux.go (ptrace) and
// controller_darwin.go (Mach exception ports); this file holds the shared
// state machine and types.
package debuggee

import "github.com/jetsetilly/thorin/errors"

// State is one stage of the per-child state machine described in spec §4.D.
// There are no transitions out of Exited; a second stop is not supported.
type State int

const (
	Spawning State = iota
	Stopped
	Inspecting
	Running
	Exited
)

func (s State) String() string {
	switch s {
	case Spawning:
		return "spawning"
	case Stopped:
		return "stopped"
	case Inspecting:
		return "inspecting"
	case Running:
		return "running"
	case Exited:
		return "exited"
	default:
		return "unknown"
	}
}

// Registers is the register snapshot captured at the instant of stop (spec
// §3). It is valid only for the duration of the OnStop callback it was
// passed to; nothing retains a reference past that call.
type Registers struct {
	RBP uint64
	RIP uint64
}

// OnStop is invoked synchronously, on the controller's own thread, the
// moment the child is fully stopped with a consistent register file. When it
// returns, the child is resumed.
type OnStop func(regs Registers)

// Controller is the platform-independent surface the rest of the core
// depends on. New returns the implementation for the running GOOS.
type Controller interface {
	// SpawnAndTrap launches execPath, blocks until its first stop, invokes
	// onStop, and resumes the child once onStop returns. Spec §4.D.
	SpawnAndTrap(execPath string, onStop OnStop) error

	// ReadMemory copies len(dst) bytes from the stopped child's address
	// space at address into dst, returning how many bytes were copied.
	// Valid only from within an OnStop callback. Reads outside valid child
	// pages report zero bytes read rather than failing (spec §7).
	ReadMemory(dst []byte, address uint64) (int, error)

	// State reports the controller's current position in the state
	// machine.
	State() State
}

// SpawnError reports that the child could not be spawned, or that its
// initial stop could not be captured (spec §7, fatal).
func spawnError(execPath string, cause error) error {
	return errors.Errorf("debuggee: could not spawn %s: %v", execPath, cause)
}
