package api

import "context"

// Span is an inclusive (start, end) pair of word indices into a flattened
// context. A valid span has Start <= End.
type Span struct {
	Start int
	End   int
}

// Len returns the number of words the span covers.
func (s Span) Len() int { return s.End - s.Start + 1 }

// Answer holds the gold references for one document. Either slice may be
// empty (unanswerable or span-less cases); scoring against an empty set
// yields zero, not an error.
type Answer struct {
	// Spans are gold (start, end) word pairs over the flattened context.
	Spans []Span
	// Aliases are acceptable surface-form strings for the correct answer.
	Aliases []string
}

// Document is one question/context/answer triple from the dataset.
//
// Fields usage conventions:
// - QuestionID: dataset identifier, carried through for bookkeeping only
// - Context: paragraph token sequences; all word indices refer to the flattened sequence
// - Answer: gold references used for scoring
type Document struct {
	QuestionID string
	Context    [][]string
	Answer     Answer
}

// FlattenContext returns the document's paragraph token sequences
// flattened into one ordered token sequence.
func (d Document) FlattenContext() []string {
	n := 0
	for _, p := range d.Context {
		n += len(p)
	}
	flat := make([]string, 0, n)
	for _, p := range d.Context {
		flat = append(flat, p...)
	}
	return flat
}

// InputKind names a model-produced array an evaluator consumes.
type InputKind string

const (
	InputStartProbs InputKind = "start_probs"
	InputEndProbs   InputKind = "end_probs"
	InputSpans      InputKind = "spans"
	InputNoneConf   InputKind = "none_conf"
)

// Inputs carries the per-batch model arrays evaluators consume. The
// harness materializes one Inputs per evaluation batch; only the fields
// named by an evaluator's RequiredInputs need to be set. Arrays are
// read-only inputs and are not retained past the Evaluate call.
type Inputs struct {
	// StartProbs[i][w] is the probability the answer of document i starts
	// at word w of its flattened context.
	StartProbs [][]float64
	// EndProbs[i][w] is the probability the answer of document i ends at
	// word w of its flattened context.
	EndProbs [][]float64
	// Spans holds best spans pre-computed upstream, one per document.
	Spans []Span
	// NoneConf holds a per-document no-answer confidence score.
	NoneConf []float64
}

// Evaluation maps metric name to value. Metric names follow the pattern
// "<prefix><metric>" where prefix is empty or "b<bound>/".
type Evaluation map[string]float64

// Add merges other into e. Entries in other replace existing names.
func (e Evaluation) Add(other Evaluation) {
	for name, value := range other {
		e[name] = value
	}
}

// Evaluator scores a batch of documents from model arrays.
// Implementations declare which arrays they need; the harness materializes
// those arrays and passes them back through Inputs.
type Evaluator interface {
	// RequiredInputs names the model arrays Evaluate consumes.
	RequiredInputs() []InputKind

	// Evaluate scores docs against their gold references using the arrays
	// in in. trueLen is the normalization denominator and may exceed
	// len(docs): callers evaluating a filtered subset of a larger corpus
	// still normalize by the full corpus size. Whether span-less documents
	// belong in docs at all is the caller's filtering decision, not this
	// interface's.
	Evaluate(ctx context.Context, docs []Document, trueLen int, in Inputs) (Evaluation, error)
}
