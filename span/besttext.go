package span

import (
	"fmt"
	"strings"

	"github.com/datapress/spaneval/api"
)

// stopTokens collapse to nothing during aggregation, so spans differing
// only by a leading article accumulate into the same candidate.
var stopTokens = map[string]struct{}{
	"a":   {},
	"an":  {},
	"the": {},
	"":    {},
}

// stripChars are trimmed from token edges: ASCII punctuation plus the
// curly and acute quote variants.
const stripChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~‘’´"

// NormalizeToken lowercases tok, collapses stop tokens to the empty
// string, and otherwise trims punctuation from both edges.
func NormalizeToken(tok string) string {
	tok = strings.ToLower(tok)
	if _, ok := stopTokens[tok]; ok {
		return ""
	}
	return strings.Trim(tok, stripChars)
}

// Text is an aggregated answer candidate: a normalized token tuple and
// the probability mass accumulated over every span that produced it.
type Text struct {
	Tokens []string
	Score  float64
}

// BestText aggregates span probability mass by normalized answer text and
// returns the candidate with the greatest accumulated total. For every
// start i and end j with i <= j < i+bound, the normalized tokens of
// [i, j] (empty strings removed) form a candidate keyed by its exact
// token tuple, accumulating startProbs[i]*endProbs[j]. On an exact score
// tie the first candidate discovered wins.
//
// The second return is false when every span in the search window
// normalizes to nothing, including when the window itself is empty.
func BestText(startProbs, endProbs []float64, bound int, tokens []string) (Text, bool, error) {
	if len(startProbs) != len(endProbs) {
		return Text{}, false, fmt.Errorf("best text: %w (start %d, end %d)",
			api.ErrLengthMismatch, len(startProbs), len(endProbs))
	}
	if len(tokens) != len(startProbs) {
		return Text{}, false, fmt.Errorf("best text: %w (%d tokens, %d probabilities)",
			api.ErrLengthMismatch, len(tokens), len(startProbs))
	}

	normalized := make([]string, len(tokens))
	for i, tok := range tokens {
		normalized[i] = NormalizeToken(tok)
	}

	// Candidates are kept in discovery order so the tie-break stays
	// "first candidate to reach the maximum wins".
	index := make(map[string]int)
	var candidates []Text

	for i := range startProbs {
		limit := min(i+bound, len(endProbs))
		for j := i; j < limit; j++ {
			words := make([]string, 0, j-i+1)
			for _, w := range normalized[i : j+1] {
				if w != "" {
					words = append(words, w)
				}
			}
			if len(words) == 0 {
				continue
			}
			key := strings.Join(words, "\x1f")
			at, ok := index[key]
			if !ok {
				at = len(candidates)
				index[key] = at
				candidates = append(candidates, Text{Tokens: words})
			}
			candidates[at].Score += startProbs[i] * endProbs[j]
		}
	}

	best := -1
	for at, c := range candidates {
		if best < 0 || c.Score > candidates[best].Score {
			best = at
		}
	}
	if best < 0 {
		return Text{}, false, nil
	}
	return candidates[best], true, nil
}
