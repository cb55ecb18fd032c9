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

package repl

import "strings"

// tokens is a minimal whitespace tokeniser in the shape of the donor's own
// commandline.Tokens: a cursor walking a pre-split token list, with get()
// consuming one token at a time and remainder() returning whatever's left
// joined back together. Unlike the donor's tokeniser this has no notion of
// quoted arguments or placeholders — the REPL's grammar (spec §4.F) doesn't
// need them.
type tokens struct {
	all  []string
	curr int
}

func newTokens(line string) *tokens {
	return &tokens{all: strings.Fields(line)}
}

func (t *tokens) isEnd() bool {
	return t.curr >= len(t.all)
}

// get returns the next token, or ok=false if the list is exhausted.
func (t *tokens) get() (string, bool) {
	if t.isEnd() {
		return "", false
	}
	tok := t.all[t.curr]
	t.curr++
	return tok, true
}

// remainder returns every token from the cursor onward, re-joined with
// single spaces — used for type names like "unsigned long long".
func (t *tokens) remainder() string {
	return strings.Join(t.all[t.curr:], " ")
}
