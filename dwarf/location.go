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

package dwarf

import (
	"encoding/binary"

	"github.com/jetsetilly/thorin/dwarf/leb128"
)

// the subset of the DWARF expression opcode space this evaluator
// understands. Anything else is "an unsupported opcode" per spec §7 and
// causes the owning variable to be dropped.
const (
	dwOpAddr  = 0x03 // followed by a machine address, native byte order/width
	dwOpFbreg = 0x91 // followed by a SLEB128 offset from the frame base
)

// evalLocation evaluates a DW_AT_location expression, following spec
// §4.B's rules: DW_OP_addr yields an absolute address directly; DW_OP_fbreg
// "needs frame base", which is always resumed with 0 (spec §9.4), so its
// operand becomes the result verbatim. Any other opcode is unsupported and
// reported as such so the caller can drop the variable.
func evalLocation(expr []byte) (address int64, ok bool) {
	if len(expr) == 0 {
		return 0, false
	}

	switch expr[0] {
	case dwOpAddr:
		if len(expr) < 9 {
			return 0, false
		}
		return int64(binary.LittleEndian.Uint64(expr[1:9])), true

	case dwOpFbreg:
		offset, n := leb128.DecodeSLEB128(expr[1:])
		if n == 0 {
			return 0, false
		}
		return offset, true

	default:
		return 0, false
	}
}
