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

// Command thorin is a minimal source-level debugger for x86_64 programs.
// It loads an executable's DWARF data, spawns it, stops it at its first
// instruction, and drops into an interactive shell over the stopped
// process's register file and address space. Spec §6.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jetsetilly/thorin/debuggee"
	"github.com/jetsetilly/thorin/dwarf"
	"github.com/jetsetilly/thorin/errors"
	"github.com/jetsetilly/thorin/logger"
	"github.com/jetsetilly/thorin/objfile"
	"github.com/jetsetilly/thorin/repl"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: thorin <executable-path>")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(execPath string) error {
	obj, err := objfile.Open(execPath)
	if err != nil {
		return errors.Errorf("thorin: %v", err)
	}
	logger.Logf(logger.Allow, "thorin", "loaded %s", obj)

	root, types, err := dwarf.Build(obj.Data)
	if err != nil {
		return errors.Errorf("thorin: %v", err)
	}

	controller := debuggee.New()

	onStop := func(regs debuggee.Registers) {
		ctx := dwarf.Resolve(root, regs.RIP)
		logger.Logf(logger.Allow, "thorin", "stopped at %#x, scope chain %v", regs.RIP, ctx.Chain)

		session := &repl.Session{
			In:    os.Stdin,
			Out:   os.Stdout,
			Mem:   controller,
			Types: types,
			Ctx:   ctx,
			RBP:   regs.RBP,
		}
		session.Run()
	}

	if err := controller.SpawnAndTrap(execPath, onStop); err != nil {
		return errors.Errorf("thorin: %v", err)
	}

	return nil
}
