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

package repl

import (
	"syscall"

	"github.com/pkg/term/termios"
)

// terminal puts stdin into cbreak mode for the duration of a Session, and
// restores the caller's original mode afterwards. Trimmed down from the
// donor's easyterm.Terminal (no geometry tracking, no SIGWINCH handler —
// the REPL is a plain line-reader, not a full-screen UI).
type terminal struct {
	fd      uintptr
	canAttr syscall.Termios
}

// newTerminal captures stdin's current attributes so they can be restored
// later. Returns an error if stdin isn't a terminal at all, in which case
// the caller should simply skip cbreak mode (e.g. input piped from a file).
func newTerminal(fd uintptr) (*terminal, error) {
	t := &terminal{fd: fd}
	if err := termios.Tcgetattr(t.fd, &t.canAttr); err != nil {
		return nil, err
	}
	return t, nil
}

// cbreak switches stdin into cbreak mode: unbuffered, no line editing, but
// signal-generating keys still work.
func (t *terminal) cbreak() {
	cbreakAttr := t.canAttr
	termios.Cfmakecbreak(&cbreakAttr)
	_ = termios.Tcsetattr(t.fd, termios.TCIFLUSH, &cbreakAttr)
}

// restore returns stdin to the mode it was in before cbreak was called, so
// the resumed child's own terminal I/O isn't left in a clobbered mode (spec
// SPEC_FULL domain stack, REPL section).
func (t *terminal) restore() {
	_ = termios.Tcsetattr(t.fd, termios.TCIFLUSH, &t.canAttr)
}
