// Package stats provides the rank statistics used by evaluators.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Spearman returns the Spearman rank correlation coefficient between x
// and y: the Pearson correlation of their rank transforms, with tied
// values assigned the mean of the ranks they occupy. Returns NaN when the
// lengths differ, fewer than two observations are given, or either side
// has zero rank variance.
func Spearman(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(ranks(x), ranks(y), nil)
}

// ranks maps each value to its 1-based rank, averaging over ties.
func ranks(values []float64) []float64 {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })

	r := make([]float64, len(values))
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && values[order[j]] == values[order[i]] {
			j++
		}
		mean := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			r[order[k]] = mean
		}
		i = j
	}
	return r
}
