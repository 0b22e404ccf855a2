// Package spaneval scores span-extraction question-answering predictions
// against gold answers. Given per-word probability distributions for an
// answer span's start and end position, it selects the most probable
// bounded-length span (or the best text after aggregating probability
// mass across spans with the same normalized text) and scores predictions
// against multiple gold references with exact-span, span-overlap-F1,
// exact-text and token-F1 metrics, maximized over the reference set.
//
// The package is a pure computation core: it neither produces the
// probability arrays nor persists results. An external harness loops over
// evaluation batches, materializes the arrays each Evaluator declares
// through RequiredInputs, and aggregates the returned metric mappings.
package spaneval

import (
	"github.com/datapress/spaneval/api"
	"github.com/datapress/spaneval/evaluate"
	"github.com/datapress/spaneval/span"
	"github.com/datapress/spaneval/textmetric"
)

type Span = api.Span
type Answer = api.Answer
type Document = api.Document
type InputKind = api.InputKind
type Inputs = api.Inputs
type Evaluation = api.Evaluation
type Evaluator = api.Evaluator
type ScoreVector = evaluate.ScoreVector

type BoundedSpanOptions = evaluate.BoundedSpanOptions

// NewBoundedSpanEvaluator returns an evaluator that scores the best
// bounded span of each document, independently per configured bound,
// under "b<bound>/" metric prefixes.
func NewBoundedSpanEvaluator(opts BoundedSpanOptions) Evaluator {
	return evaluate.NewBoundedSpan(opts)
}

type ConfidenceOptions = evaluate.ConfidenceOptions

// NewConfidenceEvaluator returns an evaluator that scores pre-computed
// best spans and reports how the per-document no-answer confidence
// correlates with correctness.
func NewConfidenceEvaluator(opts ConfidenceOptions) Evaluator {
	return evaluate.NewConfidence(opts)
}

type AggregatedTextOptions = evaluate.AggregatedTextOptions

// NewAggregatedTextEvaluator returns an evaluator that aggregates span
// probability mass by normalized answer text before scoring the text
// metrics.
func NewAggregatedTextEvaluator(opts AggregatedTextOptions) Evaluator {
	return evaluate.NewAggregatedText(opts)
}

// BestSpanBounded returns the span maximizing startProbs[i]*endProbs[j]
// over all pairs with i <= j < i+bound, with its score.
func BestSpanBounded(startProbs, endProbs []float64, bound int) (Span, float64, error) {
	return span.BestSpanBounded(startProbs, endProbs, bound)
}

// BestText returns the normalized answer text with the greatest
// probability mass accumulated over all spans producing it. The second
// return is false when no candidate survives normalization.
func BestText(startProbs, endProbs []float64, bound int, tokens []string) (span.Text, bool, error) {
	return span.BestText(startProbs, endProbs, bound, tokens)
}

// SpanF1 is the overlap F1 between two inclusive spans.
func SpanF1(pred, gold Span) float64 {
	return span.F1(pred, gold)
}

// TextExactMatch returns 1 when pred and gold are equal after answer
// normalization, else 0.
func TextExactMatch(pred, gold string) float64 {
	return textmetric.ExactMatch(pred, gold)
}

// TextF1 is the token-multiset overlap F1 between the normalized forms
// of pred and gold.
func TextF1(pred, gold string) float64 {
	return textmetric.F1(pred, gold)
}

// ScoreDocument scores one predicted span against a document's gold
// references, maximizing each field over the applicable reference set.
func ScoreDocument(doc Document, pred Span) (ScoreVector, error) {
	return evaluate.ScoreDocument(doc, pred)
}
