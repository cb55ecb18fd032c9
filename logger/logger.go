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

package logger

import (
	"fmt"
	"io"
	"sync"
)

// Logger is a fixed-capacity ring of log entries. The zero value is not
// usable; construct one with NewLogger.
type Logger struct {
	mu      sync.Mutex
	cap     int
	entries []entry
}

// NewLogger creates a Logger that retains at most capacity entries, dropping
// the oldest entry whenever a new one arrives past that limit.
func NewLogger(capacity int) *Logger {
	return &Logger{
		cap:     capacity,
		entries: make([]entry, 0, capacity),
	}
}

// Log records detail under tag, provided perm allows it. error and
// fmt.Stringer values are unwrapped to their message/string; anything else
// is formatted with %v.
func (l *Logger) Log(perm Permission, tag string, detail interface{}) {
	if perm != nil && !perm.AllowLogging() {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry{tag: tag, detail: detailString(detail)})
	if len(l.entries) > l.cap {
		l.entries = l.entries[len(l.entries)-l.cap:]
	}
}

// Logf is like Log but formats detail with fmt.Sprintf first.
func (l *Logger) Logf(perm Permission, tag string, format string, a ...interface{}) {
	l.Log(perm, tag, fmt.Sprintf(format, a...))
}

// Write prints every retained entry, oldest first, to w.
func (l *Logger) Write(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries {
		fmt.Fprint(w, e.String())
	}
}

// Tail prints at most the n most recently retained entries to w.
func (l *Logger) Tail(w io.Writer, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > len(l.entries) {
		n = len(l.entries)
	}
	for _, e := range l.entries[len(l.entries)-n:] {
		fmt.Fprint(w, e.String())
	}
}

// Clear discards every retained entry.
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// defaultCapacity bounds the package-level default Logger used by the
// package functions below.
const defaultCapacity = 1000

var central = NewLogger(defaultCapacity)

// Log records detail under tag in the package's default Logger.
func Log(perm Permission, tag string, detail interface{}) {
	central.Log(perm, tag, detail)
}

// Logf is like Log but formats detail with fmt.Sprintf first.
func Logf(perm Permission, tag string, format string, a ...interface{}) {
	central.Logf(perm, tag, format, a...)
}

// Write prints every entry retained by the package's default Logger to w.
func Write(w io.Writer) {
	central.Write(w)
}

// Tail prints the n most recent entries retained by the package's default
// Logger to w.
func Tail(w io.Writer, n int) {
	central.Tail(w, n)
}

// Clear discards every entry retained by the package's default Logger.
func Clear() {
	central.Clear()
}
