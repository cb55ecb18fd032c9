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

// Package repl is the interactive shell (component F): a single-threaded,
// blocking command loop that dispatches into the scope/context resolver and
// the typed memory interpreter and prints results. Spec §4.F.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jetsetilly/thorin/dwarf"
	"github.com/jetsetilly/thorin/logger"
	"github.com/jetsetilly/thorin/memview"
)

// Session is one REPL run over a single stop. It's constructed fresh inside
// the debuggee controller's on_stop callback and discarded when the loop
// exits; nothing about it outlives that call.
type Session struct {
	In  io.Reader
	Out io.Writer

	Mem   memview.Reader
	Types dwarf.TypeTable
	Ctx   *dwarf.Context
	RBP   uint64
}

// Run blocks on line input until exit, quit, or end-of-input, dispatching
// each line to print/show/get, read, or help. Every error it encounters is
// reported inline and the loop continues (spec §7, RuntimeCommandError);
// only the terminating verbs break out, returning control to the caller so
// the child can be resumed.
func (s *Session) Run() {
	// cbreak only changes how the tty driver delivers bytes (no line
	// editing, no echo); bufio.Scanner still does the line splitting
	// itself, so the combination is fine here and matters mainly when a
	// real interactive terminal, rather than piped input, is attached.
	if f, ok := s.In.(*os.File); ok {
		if term, err := newTerminal(f.Fd()); err == nil {
			term.cbreak()
			defer term.restore()
		}
	}

	scanner := bufio.NewScanner(s.In)
	for {
		fmt.Fprint(s.Out, "(thorin) ")
		if !scanner.Scan() {
			return
		}

		line := scanner.Text()
		tk := newTokens(line)

		verb, ok := tk.get()
		if !ok {
			continue // empty input is tolerated
		}

		switch verb {
		case "print", "show", "get":
			s.cmdPrint(tk)
		case "read":
			s.cmdRead(tk)
		case "help":
			s.cmdHelp()
		case "exit", "quit":
			return
		default:
			logger.Logf(logger.Allow, "repl", "unknown command %q", verb)
			fmt.Fprintf(s.Out, "unknown command %q\n", verb)
		}
	}
}

func (s *Session) cmdPrint(tk *tokens) {
	name, ok := tk.get()
	if !ok {
		fmt.Fprintln(s.Out, "usage: print <name>")
		return
	}

	v, ok := s.Ctx.Variables[name]
	if !ok {
		fmt.Fprintf(s.Out, "unknown variable %q\n", name)
		return
	}

	address := uint64(int64(s.RBP) + v.Offset)
	if err := memview.Render(s.Out, s.Mem, address, 1, v.TypeName, s.Types); err != nil {
		fmt.Fprintln(s.Out, err)
	}
}

func (s *Session) cmdRead(tk *tokens) {
	addrTok, ok := tk.get()
	if !ok {
		fmt.Fprintln(s.Out, "usage: read <address> <count> <type>")
		return
	}
	address, err := strconv.ParseUint(strings.TrimPrefix(addrTok, "0x"), 16, 64)
	if err != nil {
		fmt.Fprintf(s.Out, "malformed address %q\n", addrTok)
		return
	}

	countTok, ok := tk.get()
	if !ok {
		fmt.Fprintln(s.Out, "usage: read <address> <count> <type>")
		return
	}
	count, err := strconv.Atoi(countTok)
	if err != nil {
		fmt.Fprintf(s.Out, "malformed count %q\n", countTok)
		return
	}

	typeName := tk.remainder()
	if typeName == "" {
		fmt.Fprintln(s.Out, "usage: read <address> <count> <type>")
		return
	}

	if err := memview.Render(s.Out, s.Mem, address, count, typeName, s.Types); err != nil {
		fmt.Fprintln(s.Out, err)
	}
}

func (s *Session) cmdHelp() {
	fmt.Fprint(s.Out, ""+
		"print | show | get <name>   render a variable in scope\n"+
		"read <addr> <count> <type>  render raw memory as a type\n"+
		"help                        this message\n"+
		"exit | quit                 resume the child and exit\n")
}
