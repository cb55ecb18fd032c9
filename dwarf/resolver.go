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

// Context is the result of resolving a scope chain at a particular
// instruction pointer, spec §4.C: the ancestor-ordered chain of scope
// names, and the merged variable set visible from the innermost scope.
type Context struct {
	// Chain lists the active scopes, root first, innermost last.
	Chain []string

	// Variables is the merged set of bindings visible at this point,
	// with inner scopes' bindings taking precedence over outer ones
	// (spec §3, §8 property 2).
	Variables map[string]*Variable
}

// Resolve computes the active scope chain and merged variable set for rip,
// per spec §4.C. The root is always included; a child is descended into
// iff its Contains(rip) predicate holds. When more than one child
// qualifies, every one of them is descended into, in DWARF order, with
// later scopes' variables overwriting earlier ones on a name collision.
func Resolve(root *Scope, rip uint64) *Context {
	ctx := &Context{
		Variables: make(map[string]*Variable),
	}

	var descend func(s *Scope)
	descend = func(s *Scope) {
		ctx.Chain = append(ctx.Chain, s.Name)
		for name, v := range s.Variables {
			ctx.Variables[name] = v
		}
		for _, child := range s.Children {
			if child.Contains(rip) {
				descend(child)
			}
		}
	}

	descend(root)

	return ctx
}
