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
	"testing"

	"github.com/jetsetilly/thorin/test"
)

func TestEvalLocationAddr(t *testing.T) {
	expr := []byte{dwOpAddr, 0x00, 0x10, 0, 0, 0, 0, 0, 0} // 0x1000, little-endian
	addr, ok := evalLocation(expr)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, addr, int64(0x1000))
}

func TestEvalLocationFbreg(t *testing.T) {
	// SLEB128 for -8: 0x78
	expr := []byte{dwOpFbreg, 0x78}
	offset, ok := evalLocation(expr)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, offset, int64(-8))
}

func TestEvalLocationUnsupportedOpcode(t *testing.T) {
	_, ok := evalLocation([]byte{0xff})
	test.ExpectFailure(t, ok)
}

func TestEvalLocationEmpty(t *testing.T) {
	_, ok := evalLocation(nil)
	test.ExpectFailure(t, ok)
}
