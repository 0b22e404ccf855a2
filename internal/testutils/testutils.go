// Package testutils provides shared helpers for the package tests.
package testutils

import (
	"math"
	"testing"
)

// FloatEquals reports whether a and b are within tol of each other.
// NaN compares equal to NaN so correlation metrics can be checked
// directly.
func FloatEquals(a, b, tol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) <= tol
}

// AssertMetric fails t unless ev contains name with a value within tol of
// want.
func AssertMetric(t *testing.T, ev map[string]float64, name string, want, tol float64) {
	t.Helper()
	got, ok := ev[name]
	if !ok {
		t.Fatalf("metric %q missing from evaluation %v", name, ev)
	}
	if !FloatEquals(got, want, tol) {
		t.Errorf("metric %q = %v, want %v", name, got, want)
	}
}
