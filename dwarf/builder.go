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
	"debug/dwarf"
	"io"

	"github.com/jetsetilly/thorin/logger"
)

// Build drives the DWARF library over every compilation unit, producing the
// Scope tree and the Type Table in one read of the decoded DIE stream, per
// spec §4.B.
//
// Errors from individual compile units never abort the build: the
// offending unit is skipped and a diagnostic logged (spec §7).
func Build(data *dwarf.Data) (*Scope, TypeTable, error) {
	root := newRootScope()

	var allEntries []*dwarf.Entry

	r := data.Reader()
	for {
		entry, err := r.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, err
		}
		if entry == nil {
			break
		}

		allEntries = append(allEntries, entry)

		if entry.Tag != dwarf.TagCompileUnit {
			if entry.Children {
				if err := skipSubtree(r); err != nil {
					return nil, nil, err
				}
			}
			continue
		}

		cu, err := buildScope(data, r, entry, &allEntries)
		if err != nil {
			logger.Logf(logger.Allow, "dwarf", "skipping compile unit: %v", err)
			continue
		}
		root.Children = append(root.Children, cu)
	}

	types := buildTypeTable(data, allEntries)

	logger.Logf(logger.Allow, "dwarf", "built scope tree with %d compile unit(s), %d derived type(s)", len(root.Children), len(types))

	return root, types, nil
}

// buildScope constructs a Scope for entry (a compile unit, subprogram, or
// lexical block) and recurses into its children, per spec §4.B. Every DIE
// visited — including those belonging to tags the scope builder itself
// ignores — is appended to *allEntries so the type table pass can see it.
func buildScope(data *dwarf.Data, r *dwarf.Reader, entry *dwarf.Entry, allEntries *[]*dwarf.Entry) (*Scope, error) {
	s := &Scope{
		Name:      scopeName(entry),
		Variables: make(map[string]*Variable),
		LowPC:     0,
		HighPC:    infinity,
	}

	if lo, ok := attrLowPC(entry); ok {
		s.LowPC = lo
	}
	if hi, ok := attrHighPC(entry); ok {
		s.HighPC = hi
	}

	if !entry.Children {
		return s, nil
	}

	for {
		kid, err := r.Next()
		if err != nil {
			return nil, err
		}
		if kid == nil || kid.Tag == 0 {
			break
		}

		*allEntries = append(*allEntries, kid)

		switch kid.Tag {
		case dwarf.TagVariable, dwarf.TagFormalParameter:
			if v := buildVariable(data, kid); v != nil {
				s.Variables[v.Name] = v
			}
			if kid.Children {
				if err := skipSubtree(r); err != nil {
					return nil, err
				}
			}

		case dwarf.TagSubprogram, dwarf.TagLexDwarfBlock:
			child, err := buildScope(data, r, kid, allEntries)
			if err != nil {
				return nil, err
			}
			s.Children = append(s.Children, child)

		default:
			if kid.Children {
				if err := collectSubtree(r, kid, allEntries); err != nil {
					return nil, err
				}
			}
		}
	}

	return s, nil
}

// scopeName reads DW_AT_name, falling back to the synthetic name spec §3
// assigns to anonymous scopes.
func scopeName(entry *dwarf.Entry) string {
	if name, ok := entry.Val(dwarf.AttrName).(string); ok && name != "" {
		return name
	}
	return unnamedScope
}

// attrLowPC reads DW_AT_low_pc, which is always encoded in the Addr form.
func attrLowPC(entry *dwarf.Entry) (uint64, bool) {
	v, ok := entry.Val(dwarf.AttrLowpc).(uint64)
	return v, ok
}

// attrHighPC reads DW_AT_high_pc. Per spec §9.2 this design only handles the
// Udata (offset-from-low_pc) encoding; an Addr-form high_pc is read as a raw
// number exactly the same way, which is the preserved behaviour the spec
// calls out rather than a bug to fix here.
func attrHighPC(entry *dwarf.Entry) (uint64, bool) {
	switch v := entry.Val(dwarf.AttrHighpc).(type) {
	case uint64:
		return v, true
	case int64:
		return uint64(v), true
	}
	return 0, false
}

// buildVariable constructs a Variable from a DW_TAG_variable,
// DW_TAG_formal_parameter, or DW_TAG_member entry, per spec §4.B. Returns
// nil if the variable has no usable location (or member offset), in which
// case it is dropped.
func buildVariable(data *dwarf.Data, entry *dwarf.Entry) *Variable {
	name, _ := entry.Val(dwarf.AttrName).(string)

	var offset int64
	if entry.Tag == dwarf.TagMember {
		off, ok := entry.Val(dwarf.AttrDataMemberLoc).(int64)
		if !ok {
			return nil
		}
		offset = off
	} else {
		loc, ok := entry.Val(dwarf.AttrLocation).([]byte)
		if !ok {
			return nil
		}
		addr, ok := evalLocation(loc)
		if !ok {
			return nil
		}
		offset = addr
	}

	return &Variable{
		Name:     name,
		Offset:   offset,
		TypeName: resolveTypeNameOneHop(data, entry),
	}
}

// resolveTypeNameOneHop follows a DIE's DW_AT_type attribute a single hop,
// per spec §4.B: a pointer target resolves to PointerSentinel regardless of
// what it points to; anything else resolves to the target's own name.
// Unresolvable types (no DW_AT_type, or the reference can't be followed)
// resolve to the empty string.
func resolveTypeNameOneHop(data *dwarf.Data, entry *dwarf.Entry) string {
	typeEntry, ok := followType(data, entry)
	if !ok {
		return ""
	}
	if typeEntry.Tag == dwarf.TagPointerType {
		return PointerSentinel
	}
	name, _ := typeEntry.Val(dwarf.AttrName).(string)
	return name
}

// followType resolves entry's DW_AT_type reference to its target DIE.
func followType(data *dwarf.Data, entry *dwarf.Entry) (*dwarf.Entry, bool) {
	off, ok := entry.Val(dwarf.AttrType).(dwarf.Offset)
	if !ok {
		return nil, false
	}

	r := data.Reader()
	r.Seek(off)
	typeEntry, err := r.Next()
	if err != nil || typeEntry == nil {
		return nil, false
	}
	return typeEntry, true
}

// skipSubtree discards entry's children without recording them, used where
// the scope builder has no interest in the contents (spec §4.B: "other tags
// are ignored"). DIEs under a skipped subtree are not appended to the entry
// list, so the type table pass does not see them.
func skipSubtree(r *dwarf.Reader) error {
	r.SkipChildren()
	return nil
}

// collectSubtree recurses into entry's children purely to append every
// nested DIE to all, so the type table pass (which iterates every DIE
// across every compile unit, spec §4.B) can see types declared inside
// scopes the Scope tree itself ignores (e.g. a typedef local to a function
// the builder didn't otherwise recurse into).
func collectSubtree(r *dwarf.Reader, entry *dwarf.Entry, all *[]*dwarf.Entry) error {
	if !entry.Children {
		return nil
	}
	for {
		kid, err := r.Next()
		if err != nil {
			return err
		}
		if kid == nil || kid.Tag == 0 {
			break
		}
		*all = append(*all, kid)
		if kid.Children {
			if err := collectSubtree(r, kid, all); err != nil {
				return err
			}
		}
	}
	return nil
}
