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

package memview_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/thorin/dwarf"
	"github.com/jetsetilly/thorin/memview"
	"github.com/jetsetilly/thorin/test"
)

// fakeMemory serves reads out of a byte slice positioned at base; anything
// outside that range reads back as zero, mirroring the controller's
// documented behaviour for out-of-range addresses (spec §7).
type fakeMemory struct {
	base uint64
	data []byte
}

func (f *fakeMemory) ReadMemory(dst []byte, address uint64) (int, error) {
	for i := range dst {
		a := address + uint64(i)
		if a < f.base || a >= f.base+uint64(len(f.data)) {
			dst[i] = 0
			continue
		}
		dst[i] = f.data[a-f.base]
	}
	return len(dst), nil
}

// S1: int is deliberately read as 2 bytes, so 0x41424344 stored
// little-endian at the address renders as its low 16 bits only (0x4344).
func TestRenderIntIsTwoBytes(t *testing.T) {
	mem := &fakeMemory{base: 0x1000, data: []byte{0x44, 0x43, 0x42, 0x41}}

	var out strings.Builder
	err := memview.Render(&out, mem, 0x1000, 1, "int", nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, strings.TrimSpace(out.String()), "17220")
}

// S2: a 32-bit float renders in decimal.
func TestRenderFloat(t *testing.T) {
	mem := &fakeMemory{base: 0x2000, data: []byte{0xc3, 0xf5, 0x48, 0x40}} // 3.14f, little-endian
	var out strings.Builder
	err := memview.Render(&out, mem, 0x2000, 1, "float", nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, strings.TrimSpace(out.String()), "3.14")
}

// S4: unsigned long long renders the full 8-byte value.
func TestRenderUnsignedLongLong(t *testing.T) {
	mem := &fakeMemory{base: 0x3000, data: []byte{0xbe, 0xba, 0xfe, 0xca, 0xef, 0xbe, 0xad, 0xde}}
	var out strings.Builder
	err := memview.Render(&out, mem, 0x3000, 1, "unsigned long long", nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, strings.TrimSpace(out.String()), "16045690984833335486")
}

// S3: a struct renders one indented "name = value" line per member.
func TestRenderStruct(t *testing.T) {
	types := dwarf.TypeTable{
		"Point": &dwarf.DerivedType{
			Name: "Point",
			Members: []*dwarf.Variable{
				{Name: "x", Offset: 0, TypeName: "int"},
				{Name: "y", Offset: 2, TypeName: "int"},
			},
		},
	}
	mem := &fakeMemory{base: 0x4000, data: []byte{0x07, 0x00, 0x09, 0x00}}

	var out strings.Builder
	err := memview.Render(&out, mem, 0x4000, 1, "Point", types)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out.String(), "  x = 7\n  y = 9\n")
}

// A struct rendered with count > 1 (through a pointer) is unsupported.
func TestRenderStructThroughPointerFails(t *testing.T) {
	types := dwarf.TypeTable{
		"Point": &dwarf.DerivedType{
			Name:    "Point",
			Members: []*dwarf.Variable{{Name: "x", Offset: 0, TypeName: "int"}},
		},
	}
	mem := &fakeMemory{base: 0x4000, data: []byte{0, 0}}

	var out strings.Builder
	err := memview.Render(&out, mem, 0x4000, 2, "Point", types)
	test.ExpectFailure(t, err)
}

// Typedef transitivity: rendering through a typedef chain produces exactly
// what rendering the terminal primitive would.
func TestRenderTypedefChain(t *testing.T) {
	types := dwarf.TypeTable{
		"u64":        &dwarf.DerivedType{Name: "u64", BaseType: "unsigned long long"},
		"my_u64_alias": &dwarf.DerivedType{Name: "my_u64_alias", BaseType: "u64"},
	}
	data := []byte{0xbe, 0xba, 0xfe, 0xca, 0xef, 0xbe, 0xad, 0xde}
	mem := &fakeMemory{base: 0x5000, data: data}

	var viaTypedef, viaPrimitive strings.Builder
	test.ExpectSuccess(t, memview.Render(&viaTypedef, mem, 0x5000, 1, "my_u64_alias", types))
	test.ExpectSuccess(t, memview.Render(&viaPrimitive, mem, 0x5000, 1, "unsigned long long", types))
	test.ExpectEquality(t, viaTypedef.String(), viaPrimitive.String())
}

// An unresolvable type name prints "unknown type" rather than failing.
func TestRenderUnknownType(t *testing.T) {
	mem := &fakeMemory{base: 0x6000, data: nil}
	var out strings.Builder
	err := memview.Render(&out, mem, 0x6000, 1, "nonexistent_t", nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, strings.TrimSpace(out.String()), "unknown type")
}

// S5: an out-of-range read doesn't crash and produces a count-length
// sequence.
func TestRenderOutOfRangeRead(t *testing.T) {
	mem := &fakeMemory{base: 0x7000, data: []byte{1, 2}}
	var out strings.Builder
	err := memview.Render(&out, mem, 0xDEADBEEF, 4, "unsigned", nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, strings.TrimSpace(out.String()), "[0, 0, 0, 0]")
}

// Pointer values render in hex.
func TestRenderPointer(t *testing.T) {
	mem := &fakeMemory{base: 0x8000, data: []byte{0x00, 0x10, 0, 0, 0, 0, 0, 0}}
	var out strings.Builder
	err := memview.Render(&out, mem, 0x8000, 1, dwarf.PointerSentinel, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, strings.TrimSpace(out.String()), "0x1000")
}
