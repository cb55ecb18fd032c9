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

// Package test collects small helpers shared by this repository's package
// tests. It is deliberately tiny: there is no assertion framework here, just
// the handful of comparisons the rest of the repository's tests need.
package test

import (
	"math"
	"reflect"
	"testing"
)

// Equate fails the test if got and want are not equal, as judged by
// reflect.DeepEqual (two errors are compared by their Error() text instead).
func Equate(t *testing.T, got, want interface{}) {
	t.Helper()

	if got == nil && want == nil {
		return
	}

	if ge, ok := got.(error); ok {
		if we, ok := want.(error); ok {
			if ge.Error() == we.Error() {
				return
			}
			t.Errorf("unexpected error: got %q, want %q", ge.Error(), we.Error())
			return
		}
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected value: got %v (%T), want %v (%T)", got, got, want, want)
	}
}

// ExpectEquality is an alias for Equate, used interchangeably across this
// repository's tests.
func ExpectEquality(t *testing.T, got, want interface{}) {
	t.Helper()
	Equate(t, got, want)
}

// ExpectInequality fails the test if got and want are equal.
func ExpectInequality(t *testing.T, got, want interface{}) {
	t.Helper()
	if reflect.DeepEqual(got, want) {
		t.Errorf("unexpected equality: got %v, want something other than %v", got, want)
	}
}

// ExpectApproximate fails the test if got and want differ by more than
// tolerance, taken as a fraction of want: a tolerance of 0.1 accepts any
// value within 10% of want.
func ExpectApproximate(t *testing.T, got, want, tolerance float64) {
	t.Helper()
	margin := math.Abs(want * tolerance)
	if math.Abs(got-want) > margin {
		t.Errorf("value not within tolerance: got %f, want %f (+/- %f)", got, want, margin)
	}
}

// indicatesFailure reports whether v is a value this package considers to
// indicate failure: boolean false or a non-nil error. A nil value (including
// a nil error interface) indicates success.
func indicatesFailure(v interface{}) bool {
	if v == nil {
		return false
	}
	switch x := v.(type) {
	case bool:
		return !x
	case error:
		return true
	}
	return false
}

// ExpectSuccess fails the test if v indicates failure: false or a non-nil
// error.
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	if indicatesFailure(v) {
		t.Errorf("expected success, got %v", v)
	}
}

// ExpectFailure fails the test if v does not indicate failure.
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	if !indicatesFailure(v) {
		t.Errorf("expected failure, got %v", v)
	}
}
