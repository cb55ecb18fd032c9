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

package memview

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/jetsetilly/thorin/dwarf"
)

type kind int

const (
	kindInt kind = iota
	kindFloat
	kindPointer
)

// primitive describes one row of the primitive table (spec §4.E). Width and
// signedness are exactly what the table says, including its two deliberate
// departures from the x86_64 platform ABI (int and long) — see DESIGN.md.
type primitive struct {
	size   int
	signed bool
	kind   kind
}

// primitives maps every alias in the primitive table to its row. The int
// and long rows intentionally read 2 and 4 bytes rather than the platform's
// 4 and 8, per spec §9 open question 1.
var primitives = buildPrimitives()

func buildPrimitives() map[string]primitive {
	m := make(map[string]primitive)

	add := func(p primitive, names ...string) {
		for _, n := range names {
			m[n] = p
		}
	}

	add(primitive{size: 1, signed: true, kind: kindInt}, "char", "signed char")
	add(primitive{size: 1, signed: false, kind: kindInt}, "unsigned char")

	add(primitive{size: 2, signed: true, kind: kindInt},
		"short", "short int", "signed short", "signed short int")
	add(primitive{size: 2, signed: false, kind: kindInt},
		"unsigned short", "unsigned short int")

	// Deliberate: 2 bytes, not the platform's 4. See spec §9 open question 1.
	add(primitive{size: 2, signed: true, kind: kindInt},
		"int", "signed", "signed int")
	add(primitive{size: 2, signed: false, kind: kindInt},
		"unsigned", "unsigned int")

	// Deliberate: 4 bytes, not the platform's 8. See spec §9 open question 1.
	add(primitive{size: 4, signed: true, kind: kindInt},
		"long", "long int", "signed long", "signed long int")
	add(primitive{size: 4, signed: false, kind: kindInt},
		"unsigned long", "unsigned long int")

	add(primitive{size: 8, signed: true, kind: kindInt},
		"long long", "long long int", "signed long long", "signed long long int")
	add(primitive{size: 8, signed: false, kind: kindInt},
		"unsigned long long", "unsigned long long int")

	add(primitive{size: 4, kind: kindFloat}, "float")
	add(primitive{size: 8, kind: kindFloat}, "double")

	add(primitive{size: 8, signed: false, kind: kindPointer}, dwarf.PointerSentinel)

	return m
}

// formatPrimitive reads size*count bytes through mem and formats them as a
// scalar (count == 1) or a bracketed, comma-separated sequence.
func formatPrimitive(mem Reader, address uint64, count int, p primitive) (string, error) {
	if count < 1 {
		count = 1
	}

	buf := make([]byte, p.size*count)
	_, _ = mem.ReadMemory(buf, address) // short/zero reads are not distinguished, spec §7.

	values := make([]string, count)
	for i := 0; i < count; i++ {
		values[i] = formatOne(buf[i*p.size:(i+1)*p.size], p)
	}

	if count == 1 {
		return values[0], nil
	}
	return "[" + strings.Join(values, ", ") + "]", nil
}

func formatOne(chunk []byte, p primitive) string {
	switch p.kind {
	case kindFloat:
		if p.size == 4 {
			f := math.Float32frombits(binary.LittleEndian.Uint32(chunk))
			return strconv.FormatFloat(float64(f), 'g', -1, 32)
		}
		f := math.Float64frombits(binary.LittleEndian.Uint64(chunk))
		return strconv.FormatFloat(f, 'g', -1, 64)

	case kindPointer:
		return "0x" + strconv.FormatUint(binary.LittleEndian.Uint64(chunk), 16)

	default:
		if p.signed {
			return strconv.FormatInt(signedOf(chunk, p.size), 10)
		}
		return strconv.FormatUint(unsignedOf(chunk, p.size), 10)
	}
}

func unsignedOf(chunk []byte, size int) uint64 {
	switch size {
	case 1:
		return uint64(chunk[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(chunk))
	case 4:
		return uint64(binary.LittleEndian.Uint32(chunk))
	default:
		return binary.LittleEndian.Uint64(chunk)
	}
}

func signedOf(chunk []byte, size int) int64 {
	switch size {
	case 1:
		return int64(int8(chunk[0]))
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(chunk)))
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(chunk)))
	default:
		return int64(binary.LittleEndian.Uint64(chunk))
	}
}
