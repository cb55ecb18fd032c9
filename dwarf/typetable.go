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

import "debug/dwarf"

// buildTypeTable iterates every DIE collected while walking the scope tree
// (depth-first, across every compile unit) and picks out typedefs, pointer
// types, and structure types, per spec §4.B. Duplicate names overwrite, in
// traversal order, matching the spec's stated behaviour.
func buildTypeTable(data *dwarf.Data, entries []*dwarf.Entry) TypeTable {
	table := make(TypeTable)

	for _, e := range entries {
		switch e.Tag {
		case dwarf.TagTypedef, dwarf.TagStructType, dwarf.TagPointerType:
		default:
			continue
		}

		name, ok := e.Val(dwarf.AttrName).(string)
		if !ok || name == "" {
			continue
		}

		dt := &DerivedType{Name: name}
		dt.BaseType = resolveTypeNameOneHop(data, e)

		if e.Tag == dwarf.TagStructType {
			dt.Members = structMembers(data, e)
		}

		if dt.BaseType == "" && len(dt.Members) == 0 {
			continue
		}

		table[name] = dt
	}

	return table
}

// structMembers walks the direct DW_TAG_member children of a structure DIE,
// building a Variable for each with the member's byte offset, per spec
// §4.B. Re-seeks a fresh Reader at the structure's own offset since the
// flat entry list used to build the type table doesn't retain parent/child
// relationships.
func structMembers(data *dwarf.Data, structEntry *dwarf.Entry) []*Variable {
	if !structEntry.Children {
		return nil
	}

	r := data.Reader()
	r.Seek(structEntry.Offset)
	if _, err := r.Next(); err != nil {
		return nil
	}

	var members []*Variable
	for {
		kid, err := r.Next()
		if err != nil {
			return members
		}
		if kid == nil || kid.Tag == 0 {
			break
		}
		if kid.Tag == dwarf.TagMember {
			if v := buildVariable(data, kid); v != nil {
				members = append(members, v)
			}
		}
		if kid.Children {
			r.SkipChildren()
		}
	}

	return members
}
