package spaneval

import (
	"context"
	"testing"
)

// Drives the public surface the way a harness would: pick the best span
// from raw probabilities, score it against the gold references, and run a
// full evaluator over the batch.
func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	doc := Document{
		QuestionID: "eiffel",
		Context:    [][]string{{"the", "eiffel", "tower"}, {"is", "in", "paris"}},
		Answer: Answer{
			Spans:   []Span{{Start: 5, End: 5}},
			Aliases: []string{"Paris"},
		},
	}
	startProbs := []float64{0, 0, 0, 0, 0.1, 0.9}
	endProbs := []float64{0, 0, 0, 0, 0, 1}

	pred, _, err := BestSpanBounded(startProbs, endProbs, 4)
	if err != nil {
		t.Fatalf("BestSpanBounded() error = %v", err)
	}
	if pred != (Span{Start: 5, End: 5}) {
		t.Fatalf("BestSpanBounded() = %v, want (5, 5)", pred)
	}

	v, err := ScoreDocument(doc, pred)
	if err != nil {
		t.Fatalf("ScoreDocument() error = %v", err)
	}
	if v != (ScoreVector{SpanExact: 1, SpanF1: 1, TextExact: 1, TextF1: 1}) {
		t.Errorf("ScoreDocument() = %+v, want all ones", v)
	}

	ev, err := NewBoundedSpanEvaluator(BoundedSpanOptions{Bounds: []int{4}}).Evaluate(
		ctx, []Document{doc}, 1, Inputs{
			StartProbs: [][]float64{startProbs},
			EndProbs:   [][]float64{endProbs},
		})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if ev["b4/accuracy"] != 1 || ev["b4/text-f1"] != 1 {
		t.Errorf("Evaluate() = %v, want b4/accuracy and b4/text-f1 of 1", ev)
	}
}
