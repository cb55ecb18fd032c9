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

// Package dwarf is the program model builder (component B) and the
// scope/context resolver (component C). It walks the debugging information
// entries handed to it by the objfile package and produces a Scope tree and
// a Type Table, then resolves either against an instruction pointer.
package dwarf

import "math"

// PointerSentinel is the type_name value recorded for a variable or a
// derived type's base_type when the pointee type could not be (or wasn't
// worth) resolving any further. See spec §3.
const PointerSentinel = "*"

// infinity stands in for the root scope's unbounded high_pc, spec §3.
const infinity = math.MaxUint64

// RootScopeName is the name given to the scope synthesised to contain
// every compile unit.
const RootScopeName = "root"

// unnamedScope is used for lexical blocks and subprograms that carry no
// DW_AT_name attribute.
const unnamedScope = "unnamed scope"

// Variable is a named storage location bound to a type, spec §3.
type Variable struct {
	// Name is the variable's identifier.
	Name string

	// Offset is a frame-base-relative offset for locals/parameters, or an
	// in-structure byte offset for struct members, depending on context.
	Offset int64

	// TypeName references either a primitive name or a Type Table key.
	// PointerSentinel means "pointer, unknown pointee type"; the empty
	// string means the type could not be resolved.
	TypeName string
}

// Scope is a lexical region in the debuggee, spec §3.
type Scope struct {
	// Name is the function name, "unnamed scope" for anonymous lexical
	// blocks and subprograms, or RootScopeName for the tree's root.
	Name string

	// Variables maps name to Variable; keys are unique per scope.
	Variables map[string]*Variable

	// Children are nested scopes, in DWARF traversal order.
	Children []*Scope

	// LowPC and HighPC describe the PC interval [LowPC, LowPC+HighPC],
	// inclusive at both ends, using the Udata (offset-from-low_pc)
	// interpretation of high_pc — see spec §9.2. The root scope spans the
	// entire address space.
	LowPC  uint64
	HighPC uint64
}

// Contains reports whether pc falls within the scope's PC interval, using
// the containment predicate from spec §3: low_pc <= pc && pc - low_pc <=
// high_pc (high_pc read as an offset from low_pc, not an absolute address).
func (s *Scope) Contains(pc uint64) bool {
	if pc < s.LowPC {
		return false
	}
	return pc-s.LowPC <= s.HighPC
}

// newRootScope builds the synthetic root of the scope tree, spec §4.B.
func newRootScope() *Scope {
	return &Scope{
		Name:      RootScopeName,
		Variables: make(map[string]*Variable),
		LowPC:     0,
		HighPC:    infinity,
	}
}

// DerivedType is an entry in the Type Table: a typedef, a pointer type, or
// a structure type, spec §3.
type DerivedType struct {
	// Name is the Type Table key.
	Name string

	// BaseType names the underlying type for typedefs and pointers.
	// PointerSentinel marks a pointer-to-pointer entry. Empty if the entry
	// is a struct without a base.
	BaseType string

	// Members is non-empty exactly when this entry describes a struct;
	// each member's Offset is a byte offset within the struct.
	Members []*Variable
}

// IsStruct reports whether the derived type is a structure, per the
// invariant in spec §3: non-empty Members implies struct.
func (dt *DerivedType) IsStruct() bool {
	return len(dt.Members) > 0
}

// TypeTable is the Type Table: every typedef, pointer type, and structure
// type found across all compile units, keyed by name.
type TypeTable map[string]*DerivedType
