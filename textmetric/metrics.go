// Package textmetric implements the normalized string metrics used to
// score predicted answer text against gold aliases: exact match and
// token-level F1 over a shared answer normalization.
package textmetric

import "strings"

// punctChars are replaced by spaces during normalization: ASCII
// punctuation plus the curly and acute quote variants.
const punctChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~‘’´"

// articles are dropped as whole words during normalization.
var articles = map[string]struct{}{
	"a":   {},
	"an":  {},
	"the": {},
}

// NormalizeAnswer lowercases s, replaces punctuation and underscores with
// spaces, drops article words, and collapses whitespace runs to single
// spaces.
func NormalizeAnswer(s string) string {
	return strings.Join(normalizedTokens(s), " ")
}

func normalizedTokens(s string) []string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if strings.ContainsRune(punctChars, r) {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	tokens := fields[:0]
	for _, f := range fields {
		if _, skip := articles[f]; !skip {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ExactMatch returns 1 when pred and gold are equal after normalization,
// else 0.
func ExactMatch(pred, gold string) float64 {
	if NormalizeAnswer(pred) == NormalizeAnswer(gold) {
		return 1
	}
	return 0
}

// F1 is the token-multiset overlap F1 between the normalized forms of
// pred and gold: 2*|intersection| / (|pred tokens| + |gold tokens|).
// 0 when either side normalizes to no tokens.
func F1(pred, gold string) float64 {
	predTokens := normalizedTokens(pred)
	goldTokens := normalizedTokens(gold)
	if len(predTokens) == 0 || len(goldTokens) == 0 {
		return 0
	}

	counts := make(map[string]int, len(goldTokens))
	for _, t := range goldTokens {
		counts[t]++
	}
	common := 0
	for _, t := range predTokens {
		if counts[t] > 0 {
			counts[t]--
			common++
		}
	}
	return 2 * float64(common) / float64(len(predTokens)+len(goldTokens))
}
