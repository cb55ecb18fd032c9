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

package test

import "fmt"

// CappedWriter is an io.Writer that accepts writes only up to a fixed
// capacity. Bytes written beyond the cap are silently dropped.
type CappedWriter struct {
	cap int
	buf []byte
}

// NewCappedWriter creates a CappedWriter with the given capacity.
func NewCappedWriter(capacity int) (*CappedWriter, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be greater than zero")
	}
	return &CappedWriter{cap: capacity}, nil
}

// Write implements io.Writer. Once the cap has been reached further writes
// are a no-op (they still report a successful write of p's full length, as
// is conventional for io.Writer implementations that discard excess data).
func (c *CappedWriter) Write(p []byte) (int, error) {
	room := c.cap - len(c.buf)
	if room > 0 {
		n := len(p)
		if n > room {
			n = room
		}
		c.buf = append(c.buf, p[:n]...)
	}
	return len(p), nil
}

// Reset empties the writer's buffer.
func (c *CappedWriter) Reset() {
	c.buf = c.buf[:0]
}

// String returns the content written so far, up to the cap.
func (c *CappedWriter) String() string {
	return string(c.buf)
}
