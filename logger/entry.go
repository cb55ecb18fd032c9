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

// Package logger implements a small ring-buffered log shared by every
// component of the debugger. Apart from REPL output and the command's usage
// and fatal-error messages, nothing in this repository calls
// fmt.Println/log.Printf directly; diagnostic and informational messages go
// through here instead.
package logger

import (
	"fmt"
)

// Permission is checked before an entry is recorded. Log/Logf silently
// discard the entry if AllowLogging returns false.
type Permission interface {
	AllowLogging() bool
}

// allow is the permission that is always granted.
type allow struct{}

func (allow) AllowLogging() bool { return true }

// Allow permits logging unconditionally. Most call sites in this repository
// use it; code paths that are noisy in a tight loop can define their own
// Permission to rate-limit themselves.
var Allow Permission = allow{}

// entry is a single recorded log line.
type entry struct {
	tag    string
	detail string
}

func (e entry) String() string {
	return fmt.Sprintf("%s: %s\n", e.tag, e.detail)
}

// detailString renders detail using the same rules Log applies when
// recording a new entry: errors and fmt.Stringer values are unwrapped,
// everything else falls back to the %v verb.
func detailString(detail interface{}) string {
	switch d := detail.(type) {
	case error:
		return d.Error()
	case fmt.Stringer:
		return d.String()
	default:
		return fmt.Sprintf("%v", d)
	}
}
