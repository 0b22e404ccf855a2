package span

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/datapress/spaneval/api"
)

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		name string
		tok  string
		want string
	}{
		{name: "lowercases", tok: "Paris", want: "paris"},
		{name: "article collapses to empty", tok: "The", want: ""},
		{name: "empty stays empty", tok: "", want: ""},
		{name: "edge punctuation stripped", tok: "(paris),", want: "paris"},
		{name: "curly quotes stripped", tok: "‘paris’", want: "paris"},
		{name: "underscore stripped", tok: "_paris_", want: "paris"},
		{name: "interior punctuation kept", tok: "jean-luc", want: "jean-luc"},
		{name: "punctuation only", tok: "--", want: ""},
		{name: "stop check precedes stripping", tok: "'the'", want: "the"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeToken(tt.tok); got != tt.want {
				t.Errorf("NormalizeToken(%q) = %q, want %q", tt.tok, got, tt.want)
			}
		})
	}
}

func TestNormalizeTokenIdempotent(t *testing.T) {
	for _, tok := range []string{"Paris,", "eiffel", "(tower)", "jean-luc", "42", ""} {
		once := NormalizeToken(tok)
		if twice := NormalizeToken(once); twice != once {
			t.Errorf("NormalizeToken not idempotent on %q: %q then %q", tok, once, twice)
		}
	}
}

func TestBestTextAggregatesMass(t *testing.T) {
	// "the cat" and "cat" normalize to the same tuple; their probability
	// mass must land in one accumulator.
	startProbs := []float64{0.6, 0.4}
	endProbs := []float64{0.3, 0.7}
	tokens := []string{"the", "cat"}

	got, ok, err := BestText(startProbs, endProbs, 2, tokens)
	if err != nil {
		t.Fatalf("BestText() error = %v", err)
	}
	if !ok {
		t.Fatal("BestText() ok = false, want true")
	}
	if !reflect.DeepEqual(got.Tokens, []string{"cat"}) {
		t.Errorf("BestText() tokens = %v, want [cat]", got.Tokens)
	}

	// Spans normalizing to ("cat"): (0,1) and (1,1). (0,0) is "the" alone
	// and contributes nothing.
	want := 0.6*0.7 + 0.4*0.7
	if math.Abs(got.Score-want) > 1e-12 {
		t.Errorf("BestText() score = %v, want %v", got.Score, want)
	}
}

func TestBestTextWinnerSum(t *testing.T) {
	// Reconstruct the winner's accumulated mass independently.
	startProbs := []float64{0.5, 0.2, 0.3}
	endProbs := []float64{0.1, 0.6, 0.3}
	tokens := []string{"river", "the", "river"}
	bound := 3

	got, ok, err := BestText(startProbs, endProbs, bound, tokens)
	if err != nil {
		t.Fatalf("BestText() error = %v", err)
	}
	if !ok {
		t.Fatal("BestText() ok = false, want true")
	}

	sums := map[string]float64{}
	normalized := []string{"river", "", "river"}
	for i := 0; i < len(startProbs); i++ {
		for j := i; j < len(endProbs) && j-i < bound; j++ {
			key := ""
			for _, w := range normalized[i : j+1] {
				if w != "" {
					key += w + "|"
				}
			}
			if key != "" {
				sums[key] += startProbs[i] * endProbs[j]
			}
		}
	}

	wantKey := ""
	for _, w := range got.Tokens {
		wantKey += w + "|"
	}
	if math.Abs(got.Score-sums[wantKey]) > 1e-12 {
		t.Errorf("BestText() score = %v, want reconstructed %v", got.Score, sums[wantKey])
	}
	for key, sum := range sums {
		if sum > got.Score && key != wantKey {
			t.Errorf("BestText() missed higher-mass candidate %q (%v > %v)", key, sum, got.Score)
		}
	}
}

func TestBestTextTieBreak(t *testing.T) {
	// (0,0) and (1,1) accumulate exactly equal mass; the first-discovered
	// candidate must win.
	startProbs := []float64{0.5, 0.5}
	endProbs := []float64{0.4, 0.4}
	tokens := []string{"alpha", "beta"}

	got, ok, err := BestText(startProbs, endProbs, 1, tokens)
	if err != nil {
		t.Fatalf("BestText() error = %v", err)
	}
	if !ok {
		t.Fatal("BestText() ok = false, want true")
	}
	if !reflect.DeepEqual(got.Tokens, []string{"alpha"}) {
		t.Errorf("BestText() tokens = %v, want first-seen [alpha]", got.Tokens)
	}
}

func TestBestTextNoCandidates(t *testing.T) {
	tests := []struct {
		name       string
		startProbs []float64
		endProbs   []float64
		bound      int
		tokens     []string
	}{
		{
			name:       "every span normalizes to nothing",
			startProbs: []float64{0.5, 0.5},
			endProbs:   []float64{0.5, 0.5},
			bound:      2,
			tokens:     []string{"the", "an"},
		},
		{
			name:       "non-positive bound empties the window",
			startProbs: []float64{1},
			endProbs:   []float64{1},
			bound:      0,
			tokens:     []string{"paris"},
		},
		{
			name:       "empty sequences",
			startProbs: nil,
			endProbs:   nil,
			bound:      3,
			tokens:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := BestText(tt.startProbs, tt.endProbs, tt.bound, tt.tokens)
			if err != nil {
				t.Fatalf("BestText() error = %v", err)
			}
			if ok {
				t.Error("BestText() ok = true, want false")
			}
		})
	}
}

func TestBestTextLengthMismatch(t *testing.T) {
	if _, _, err := BestText([]float64{1}, []float64{1, 0}, 1, []string{"x"}); !errors.Is(err, api.ErrLengthMismatch) {
		t.Errorf("BestText() error = %v, want ErrLengthMismatch", err)
	}
	if _, _, err := BestText([]float64{1}, []float64{1}, 1, []string{"x", "y"}); !errors.Is(err, api.ErrLengthMismatch) {
		t.Errorf("BestText() error = %v, want ErrLengthMismatch", err)
	}
}
