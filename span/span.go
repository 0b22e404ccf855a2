// Package span selects discrete answer spans from per-word start/end
// probability distributions and compares spans by overlap.
package span

import (
	"fmt"

	"github.com/datapress/spaneval/api"
)

// BestSpanBounded returns the span maximizing startProbs[i]*endProbs[j]
// over all pairs with i <= j < i+bound, together with that score.
// Returns api.ErrLengthMismatch when the vectors differ in length and
// api.ErrNoCandidates when the search window is empty.
func BestSpanBounded(startProbs, endProbs []float64, bound int) (api.Span, float64, error) {
	if len(startProbs) != len(endProbs) {
		return api.Span{}, 0, fmt.Errorf("best bounded span: %w (start %d, end %d)",
			api.ErrLengthMismatch, len(startProbs), len(endProbs))
	}

	best := api.Span{}
	bestScore := -1.0
	for i := range startProbs {
		limit := min(i+bound, len(endProbs))
		for j := i; j < limit; j++ {
			if score := startProbs[i] * endProbs[j]; score > bestScore {
				bestScore = score
				best = api.Span{Start: i, End: j}
			}
		}
	}
	if bestScore < 0 {
		return api.Span{}, 0, fmt.Errorf("best bounded span: %w (bound %d, length %d)",
			api.ErrNoCandidates, bound, len(startProbs))
	}
	return best, bestScore, nil
}

// F1 is the overlap F1 between two inclusive spans: twice the length of
// their intersection over the sum of their lengths. 0 when disjoint,
// 1 exactly when the spans are identical.
func F1(pred, gold api.Span) float64 {
	overlap := min(pred.End, gold.End) - max(pred.Start, gold.Start) + 1
	if overlap <= 0 {
		return 0
	}
	return 2 * float64(overlap) / float64(pred.Len()+gold.Len())
}
