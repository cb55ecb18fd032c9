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

// Package memview is the typed memory interpreter (component E). Given an
// address, a count, and a type name, it chases the type table's typedef and
// structure definitions and formats the bytes a Reader pulls out of the
// debuggee.
package memview

import (
	"fmt"
	"io"

	"github.com/jetsetilly/thorin/dwarf"
)

// Reader reads len(dst) bytes of the debuggee's address space at address
// into dst, starting at dst[0]. It mirrors the controller's read_child_memory
// primitive (spec §4.D): reads outside valid pages report whatever bytes
// land in dst without distinguishing a short read from a full one.
type Reader interface {
	ReadMemory(dst []byte, address uint64) (int, error)
}

// Render resolves typeName against the primitive table and types, reads the
// necessary bytes through mem, and writes the formatted result to out. See
// spec §4.E.
func Render(out io.Writer, mem Reader, address uint64, count int, typeName string, types dwarf.TypeTable) error {
	return render(out, mem, address, count, typeName, types, "", "")
}

// render is Render's recursive core. indent and label are empty for a
// top-level call; a struct member recursion supplies both, so the line it
// prints reads "<indent><label> = <value>" rather than the bare value the
// top-level call produces.
func render(out io.Writer, mem Reader, address uint64, count int, typeName string, types dwarf.TypeTable, indent, label string) error {
	prefix := indent
	if label != "" {
		prefix += label + " = "
	}

	if p, ok := primitives[typeName]; ok {
		s, err := formatPrimitive(mem, address, count, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s%s\n", prefix, s)
		return nil
	}

	dt, ok := types[typeName]
	if !ok {
		fmt.Fprintf(out, "%sunknown type\n", prefix)
		return nil
	}

	if dt.IsStruct() {
		if count > 1 {
			return fmt.Errorf("cannot read structs through a pointer")
		}
		for _, m := range dt.Members {
			memberAddr := address + uint64(m.Offset)
			if err := render(out, mem, memberAddr, 1, m.TypeName, types, indent+"  ", m.Name); err != nil {
				return err
			}
		}
		return nil
	}

	return render(out, mem, address, count, dt.BaseType, types, indent, label)
}
