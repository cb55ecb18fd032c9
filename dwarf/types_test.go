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

func TestScopeContains(t *testing.T) {
	s := &Scope{LowPC: 0x1000, HighPC: 0x10}

	test.ExpectFailure(t, s.Contains(0x0fff))
	test.ExpectSuccess(t, s.Contains(0x1000))
	test.ExpectSuccess(t, s.Contains(0x1010))
	test.ExpectFailure(t, s.Contains(0x1011))
}

func TestRootScopeSpansEverything(t *testing.T) {
	root := newRootScope()
	test.ExpectEquality(t, root.Name, RootScopeName)
	test.ExpectSuccess(t, root.Contains(0))
	test.ExpectSuccess(t, root.Contains(^uint64(0)))
}

func TestDerivedTypeIsStruct(t *testing.T) {
	typedef := &DerivedType{Name: "u64", BaseType: "unsigned long long"}
	test.ExpectFailure(t, typedef.IsStruct())

	point := &DerivedType{Name: "Point", Members: []*Variable{{Name: "x"}, {Name: "y"}}}
	test.ExpectSuccess(t, point.IsStruct())
}
