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

//go:build darwin

package debuggee

/*
#cgo LDFLAGS: -framework Foundation
#include <spawn.h>
#include <stdlib.h>
#include <string.h>
#include <mach/mach.h>
#include <mach/mach_vm.h>
#include <mach/thread_status.h>

extern char **environ;

// spawn_suspended posix_spawns path with POSIX_SPAWN_START_SUSPENDED so the
// controller can install its exception port before the child executes a
// single instruction.
static int spawn_suspended(const char *path, pid_t *out_pid) {
	posix_spawnattr_t attr;
	posix_spawnattr_init(&attr);
	posix_spawnattr_setflags(&attr, POSIX_SPAWN_START_SUSPENDED);

	char *argv[] = {(char *)path, NULL};
	int rc = posix_spawn(out_pid, path, NULL, &attr, argv, environ);
	posix_spawnattr_destroy(&attr);
	return rc;
}

// redirect_exceptions requests that EXC_BREAKPOINT for task be delivered to
// port, and returns the task's own port by reference.
static kern_return_t redirect_exceptions(pid_t pid, mach_port_t port, task_t *out_task) {
	kern_return_t kr = task_for_pid(mach_task_self(), pid, out_task);
	if (kr != KERN_SUCCESS) {
		return kr;
	}
	return task_set_exception_ports(*out_task, EXC_MASK_BREAKPOINT, port,
		EXCEPTION_DEFAULT, THREAD_STATE_NONE);
}

// first_stop_state blocks on the exception port for a single EXC_BREAKPOINT
// message, then reads the faulting thread's x86_64 state.
static kern_return_t first_stop_state(mach_port_t port, thread_t *out_thread,
	x86_thread_state64_t *out_state) {
	struct {
		mach_msg_header_t head;
		char body[512];
	} msg;

	kern_return_t kr = mach_msg(&msg.head, MACH_RCV_MSG, 0, sizeof(msg), port,
		MACH_MSG_TIMEOUT_NONE, MACH_PORT_NULL);
	if (kr != KERN_SUCCESS) {
		return kr;
	}

	// The thread port is the first out-of-line item in a mach_exception_raise
	// request; exact field layout is generated by mig from mach_exc.defs,
	// omitted here since this design treats exception delivery as opaque
	// beyond extracting the thread port and resuming it.
	thread_t thread = *(thread_t *)msg.body;
	*out_thread = thread;

	mach_msg_type_number_t count = x86_THREAD_STATE64_COUNT;
	return thread_get_state(thread, x86_THREAD_STATE64, (thread_state_t)out_state, &count);
}

static kern_return_t read_child_memory(task_t task, mach_vm_address_t address,
	void *dst, mach_vm_size_t size) {
	mach_vm_size_t outsize = 0;
	return mach_vm_read_overwrite(task, address, size, (mach_vm_address_t)dst, &outsize);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/jetsetilly/thorin/logger"
)

// darwinController implements Controller with a Mach exception port,
// grounded on the API sequence spec §4.D names directly: posix_spawn with
// the start-suspended attribute, task_set_exception_ports for
// EXC_BREAKPOINT, thread_get_state for the register snapshot, and
// mach_vm_read_overwrite for memory reads.
type darwinController struct {
	task  C.task_t
	state State
}

// New returns the Darwin Mach-exception-port-backed Controller.
func New() Controller {
	return &darwinController{state: Spawning}
}

func (c *darwinController) State() State {
	return c.state
}

func (c *darwinController) SpawnAndTrap(execPath string, onStop OnStop) error {
	cpath := C.CString(execPath)
	defer C.free(unsafe.Pointer(cpath))

	var pid C.pid_t
	if rc := C.spawn_suspended(cpath, &pid); rc != 0 {
		return spawnError(execPath, syscallErrno(int(rc)))
	}

	var port C.mach_port_t
	if kr := C.mach_port_allocate(C.mach_task_self_, C.MACH_PORT_RIGHT_RECEIVE, &port); kr != C.KERN_SUCCESS {
		return spawnError(execPath, machError(kr))
	}
	C.mach_port_insert_right(C.mach_task_self_, port, port, C.MACH_MSG_TYPE_MAKE_SEND)

	var task C.task_t
	if kr := C.redirect_exceptions(pid, port, &task); kr != C.KERN_SUCCESS {
		return spawnError(execPath, machError(kr))
	}
	c.task = task

	// Resume the suspended task so it reaches its first instruction.
	C.task_resume(task)

	var thread C.thread_t
	var regState C.x86_thread_state64_t
	if kr := C.first_stop_state(port, &thread, &regState); kr != C.KERN_SUCCESS {
		return spawnError(execPath, machError(kr))
	}

	c.state = Stopped
	logger.Logf(logger.Allow, "debuggee", "child %d stopped at entry", int(pid))

	c.state = Inspecting
	onStop(Registers{
		RBP: uint64(regState.__rbp),
		RIP: uint64(regState.__rip),
	})

	c.state = Running
	C.thread_resume(thread)

	c.state = Exited
	return nil
}

func (c *darwinController) ReadMemory(dst []byte, address uint64) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	kr := C.read_child_memory(c.task, C.mach_vm_address_t(address), unsafe.Pointer(&dst[0]), C.mach_vm_size_t(len(dst)))
	if kr != C.KERN_SUCCESS {
		// Memory reads outside valid pages report zero bytes read rather
		// than failing (spec §7); dst is zero-filled.
		for i := range dst {
			dst[i] = 0
		}
		return 0, nil
	}
	return len(dst), nil
}

func syscallErrno(rc int) error {
	return fmt.Errorf("posix_spawn failed with errno %d", rc)
}

func machError(kr C.kern_return_t) error {
	return fmt.Errorf("mach call failed with kern_return_t %d", int(kr))
}
