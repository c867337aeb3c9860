// Package testutil provides reusable test helper functions for the routing core tests.
package testutil

import (
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	DBTolerance      = 0.01
)

// Overlapper is implemented by slot ranges.
type Overlapper[L any] interface {
	Overlaps(L) bool
}

// AssertDisjoint verifies that no two named slot layouts share a slot.
func AssertDisjoint[L Overlapper[L]](t *testing.T, layouts map[string]L) bool {
	t.Helper()
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)

	ok := true
	for i, a := range names {
		for _, b := range names[i+1:] {
			if layouts[a].Overlaps(layouts[b]) {
				ok = assert.Fail(t, "layouts overlap",
					"%s %+v overlaps %s %+v", a, layouts[a], b, layouts[b])
			}
		}
	}
	return ok
}

// AssertAllZero verifies that every sample in the slice is zero.
func AssertAllZero(t *testing.T, s []uint32, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v != 0 {
			return assert.Fail(t, fmt.Sprintf("found non-zero sample s[%d] = %#x", i, v), msgAndArgs...)
		}
	}
	return true
}

// AssertNoneZero verifies that no sample in the slice is zero.
func AssertNoneZero(t *testing.T, s []uint32, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v == 0 {
			return assert.Fail(t, fmt.Sprintf("found zero sample at s[%d]", i), msgAndArgs...)
		}
	}
	return true
}

// Ramp returns n samples counting up from start, skipping zero so that
// untouched memory is distinguishable from copied data.
func Ramp(n int, start uint32) []uint32 {
	out := make([]uint32, n)
	v := start
	for i := range out {
		if v == 0 {
			v++
		}
		out[i] = v
		v++
	}
	return out
}

// Fill returns n copies of v.
func Fill(n int, v uint32) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}
