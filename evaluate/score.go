// Package evaluate composes span selection and reference scoring into
// per-document score vectors and corpus-level metric mappings.
package evaluate

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/datapress/spaneval/api"
	"github.com/datapress/spaneval/span"
	"github.com/datapress/spaneval/textmetric"
)

// ScoreVector holds the four per-document scores, each the maximum over
// the applicable set of gold references. The four fields need not come
// from the same winning reference.
type ScoreVector struct {
	SpanExact float64
	SpanF1    float64
	TextExact float64
	TextF1    float64
}

func (v *ScoreVector) add(other ScoreVector) {
	v.SpanExact += other.SpanExact
	v.SpanF1 += other.SpanF1
	v.TextExact += other.TextExact
	v.TextF1 += other.TextF1
}

// ScoreDocument scores one predicted span against a document's gold
// references. Span metrics are maximized over the gold spans and text
// metrics over the gold aliases; empty reference sets contribute zero
// rather than an error. The predicted text is the span's context tokens
// joined with single spaces.
func ScoreDocument(doc api.Document, pred api.Span) (ScoreVector, error) {
	tokens := doc.FlattenContext()
	if pred.Start < 0 || pred.End < pred.Start || pred.End >= len(tokens) {
		return ScoreVector{}, fmt.Errorf("document %q: span (%d, %d) in %d-word context: %w",
			doc.QuestionID, pred.Start, pred.End, len(tokens), api.ErrSpanOutOfRange)
	}
	predText := strings.Join(tokens[pred.Start:pred.End+1], " ")

	var v ScoreVector
	for _, gold := range doc.Answer.Spans {
		if gold == pred {
			v.SpanExact = 1
		}
		v.SpanF1 = math.Max(v.SpanF1, span.F1(pred, gold))
	}
	for _, alias := range doc.Answer.Aliases {
		v.TextExact = math.Max(v.TextExact, textmetric.ExactMatch(predText, alias))
		v.TextF1 = math.Max(v.TextF1, textmetric.F1(predText, alias))
	}
	return v, nil
}

// spanScores scores docs[i] against preds[i] across a bounded worker
// pool. Documents share no state, so the loop parallelizes freely; a
// failure on any document fails the whole batch rather than zeroing that
// document into the sum.
func spanScores(ctx context.Context, docs []api.Document, preds []api.Span) ([]ScoreVector, error) {
	if len(preds) != len(docs) {
		return nil, fmt.Errorf("span scores: %w (%d predictions, %d documents)",
			api.ErrLengthMismatch, len(preds), len(docs))
	}

	vectors := make([]ScoreVector, len(docs))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range docs {
		i := i
		g.Go(func() error {
			v, err := ScoreDocument(docs[i], preds[i])
			if err != nil {
				return err
			}
			vectors[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// SpanEvaluation scores each document against its predicted span, sums
// the score vectors elementwise and divides by trueLen. trueLen may
// exceed len(docs) when the caller scored a filtered subset of a larger
// corpus. Metric names are prefixed with prefix.
func SpanEvaluation(ctx context.Context, docs []api.Document, preds []api.Span, trueLen int, prefix string) (api.Evaluation, error) {
	if trueLen <= 0 {
		return nil, fmt.Errorf("span evaluation: true length must be positive, got %d", trueLen)
	}

	vectors, err := spanScores(ctx, docs, preds)
	if err != nil {
		return nil, err
	}
	var sum ScoreVector
	for _, v := range vectors {
		sum.add(v)
	}

	n := float64(trueLen)
	return api.Evaluation{
		prefix + "accuracy":      sum.SpanExact / n,
		prefix + "f1":            sum.SpanF1 / n,
		prefix + "text-accuracy": sum.TextExact / n,
		prefix + "text-f1":       sum.TextF1 / n,
	}, nil
}
