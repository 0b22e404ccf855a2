package evaluate

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/datapress/spaneval/api"
	"github.com/datapress/spaneval/internal/stats"
	"github.com/datapress/spaneval/span"
	"github.com/datapress/spaneval/textmetric"
)

// BoundedSpanOptions configures the bounded-span evaluator.
type BoundedSpanOptions struct {
	// Bounds are the maximum span lengths to evaluate. Each bound is
	// scored independently under a "b<bound>/" metric prefix.
	Bounds []int
}

// NewBoundedSpan returns an evaluator that scores the best bounded span
// of each document, once per configured bound. Predictions come from the
// start/end probability arrays when present, otherwise from spans
// pre-computed upstream (reused across bounds). Documents without gold
// spans are filtered out before scoring; trueLen is not adjusted.
func NewBoundedSpan(opts BoundedSpanOptions) api.Evaluator {
	return &boundedSpanEvaluator{opts: opts}
}

type boundedSpanEvaluator struct {
	opts BoundedSpanOptions
}

func (e *boundedSpanEvaluator) RequiredInputs() []api.InputKind {
	return []api.InputKind{api.InputStartProbs, api.InputEndProbs}
}

func (e *boundedSpanEvaluator) Evaluate(ctx context.Context, docs []api.Document, trueLen int, in api.Inputs) (api.Evaluation, error) {
	ev := api.Evaluation{}
	for _, bound := range e.opts.Bounds {
		preds, err := e.bestSpans(docs, bound, in)
		if err != nil {
			return nil, err
		}

		keptDocs, keptPreds := filterWithSpans(docs, preds)
		sub, err := SpanEvaluation(ctx, keptDocs, keptPreds, trueLen, fmt.Sprintf("b%d/", bound))
		if err != nil {
			return nil, err
		}
		ev.Add(sub)
	}
	return ev, nil
}

func (e *boundedSpanEvaluator) bestSpans(docs []api.Document, bound int, in api.Inputs) ([]api.Span, error) {
	switch {
	case in.StartProbs != nil:
		if len(in.StartProbs) != len(docs) || len(in.EndProbs) != len(docs) {
			return nil, fmt.Errorf("bounded span: %w (%d start rows, %d end rows, %d documents)",
				api.ErrLengthMismatch, len(in.StartProbs), len(in.EndProbs), len(docs))
		}
		preds := make([]api.Span, len(docs))
		for i := range docs {
			best, _, err := span.BestSpanBounded(in.StartProbs[i], in.EndProbs[i], bound)
			if err != nil {
				return nil, fmt.Errorf("document %q: %w", docs[i].QuestionID, err)
			}
			preds[i] = best
		}
		return preds, nil
	case in.Spans != nil:
		if len(in.Spans) != len(docs) {
			return nil, fmt.Errorf("bounded span: %w (%d spans, %d documents)",
				api.ErrLengthMismatch, len(in.Spans), len(docs))
		}
		return in.Spans, nil
	default:
		return nil, fmt.Errorf("bounded span: %w: start/end probabilities or pre-computed spans",
			api.ErrMissingInput)
	}
}

// filterWithSpans keeps only documents holding at least one gold span,
// with their predictions.
func filterWithSpans(docs []api.Document, preds []api.Span) ([]api.Document, []api.Span) {
	keptDocs := make([]api.Document, 0, len(docs))
	keptPreds := make([]api.Span, 0, len(preds))
	for i := range docs {
		if len(docs[i].Answer.Spans) > 0 {
			keptDocs = append(keptDocs, docs[i])
			keptPreds = append(keptPreds, preds[i])
		}
	}
	return keptDocs, keptPreds
}

// ConfidenceOptions configures the confidence-correlation evaluator.
type ConfidenceOptions struct {
	// Bound is the maximum span length the upstream best-span procedure
	// used; it only determines the metric prefix here.
	Bound int
}

// NewConfidence returns an evaluator that scores pre-computed best spans
// and additionally reports the Spearman rank correlation between each
// document's no-answer confidence and its span-exact and text-F1 scores,
// exposing whether confidence tracks correctness.
func NewConfidence(opts ConfidenceOptions) api.Evaluator {
	return &confidenceEvaluator{opts: opts}
}

type confidenceEvaluator struct {
	opts ConfidenceOptions
}

func (e *confidenceEvaluator) RequiredInputs() []api.InputKind {
	return []api.InputKind{api.InputSpans, api.InputNoneConf}
}

func (e *confidenceEvaluator) Evaluate(ctx context.Context, docs []api.Document, trueLen int, in api.Inputs) (api.Evaluation, error) {
	if trueLen <= 0 {
		return nil, fmt.Errorf("confidence evaluation: true length must be positive, got %d", trueLen)
	}
	if in.Spans == nil || in.NoneConf == nil {
		return nil, fmt.Errorf("confidence evaluation: %w: spans and no-answer confidences",
			api.ErrMissingInput)
	}
	if len(in.NoneConf) != len(docs) {
		return nil, fmt.Errorf("confidence evaluation: %w (%d confidences, %d documents)",
			api.ErrLengthMismatch, len(in.NoneConf), len(docs))
	}

	vectors, err := spanScores(ctx, docs, in.Spans)
	if err != nil {
		return nil, err
	}

	var sum ScoreVector
	spanExact := make([]float64, len(vectors))
	textF1 := make([]float64, len(vectors))
	for i, v := range vectors {
		sum.add(v)
		spanExact[i] = v.SpanExact
		textF1[i] = v.TextF1
	}

	n := float64(trueLen)
	prefix := fmt.Sprintf("b%d/", e.opts.Bound)
	return api.Evaluation{
		prefix + "accuracy":                 sum.SpanExact / n,
		prefix + "f1":                       sum.SpanF1 / n,
		prefix + "text-accuracy":            sum.TextExact / n,
		prefix + "text-f1":                  sum.TextF1 / n,
		prefix + "text-f1-spearman-r":       stats.Spearman(in.NoneConf, textF1),
		prefix + "span-accuracy-spearman-r": stats.Spearman(in.NoneConf, spanExact),
	}, nil
}

// AggregatedTextOptions configures the aggregated-text evaluator.
type AggregatedTextOptions struct {
	// Bound is the maximum span length considered during aggregation.
	Bound int
}

// NewAggregatedText returns an evaluator that picks each document's
// prediction by aggregating span probability mass across all spans with
// the same normalized text, then scores only the text metrics (a single
// discrete span no longer exists after aggregation). Documents whose
// search window aggregates to nothing score zero.
func NewAggregatedText(opts AggregatedTextOptions) api.Evaluator {
	return &aggregatedTextEvaluator{opts: opts}
}

type aggregatedTextEvaluator struct {
	opts AggregatedTextOptions
}

func (e *aggregatedTextEvaluator) RequiredInputs() []api.InputKind {
	return []api.InputKind{api.InputStartProbs, api.InputEndProbs}
}

func (e *aggregatedTextEvaluator) Evaluate(ctx context.Context, docs []api.Document, trueLen int, in api.Inputs) (api.Evaluation, error) {
	if trueLen <= 0 {
		return nil, fmt.Errorf("aggregated text evaluation: true length must be positive, got %d", trueLen)
	}
	if in.StartProbs == nil || in.EndProbs == nil {
		return nil, fmt.Errorf("aggregated text evaluation: %w: start/end probabilities",
			api.ErrMissingInput)
	}
	if len(in.StartProbs) != len(docs) || len(in.EndProbs) != len(docs) {
		return nil, fmt.Errorf("aggregated text evaluation: %w (%d start rows, %d end rows, %d documents)",
			api.ErrLengthMismatch, len(in.StartProbs), len(in.EndProbs), len(docs))
	}

	exact := make([]float64, len(docs))
	f1 := make([]float64, len(docs))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range docs {
		i := i
		g.Go(func() error {
			best, ok, err := span.BestText(in.StartProbs[i], in.EndProbs[i], e.opts.Bound, docs[i].FlattenContext())
			if err != nil {
				return fmt.Errorf("document %q: %w", docs[i].QuestionID, err)
			}
			if !ok {
				return nil
			}
			predText := strings.Join(best.Tokens, " ")
			for _, alias := range docs[i].Answer.Aliases {
				exact[i] = math.Max(exact[i], textmetric.ExactMatch(predText, alias))
				f1[i] = math.Max(f1[i], textmetric.F1(predText, alias))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var totalExact, totalF1 float64
	for i := range docs {
		totalExact += exact[i]
		totalF1 += f1[i]
	}
	n := float64(trueLen)
	return api.Evaluation{
		"agg-text-f1": totalF1 / n,
		"agg-text-em": totalExact / n,
	}, nil
}
