package bigram

import (
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"
)

// mustTrain is a test helper that trains a model or fails the test.
func mustTrain(t *testing.T, words []string) *Model {
	t.Helper()
	m, err := Train(words)
	if err != nil {
		t.Fatalf("Train(%v) error = %v", words, err)
	}
	return m
}

// handBuiltModel constructs a model directly from a probability matrix, for
// degenerate shapes that training can never produce.
func handBuiltModel(t *testing.T, words []string, probs [][]float64) *Model {
	t.Helper()
	vocab := mustVocab(t, words)
	if len(probs) != vocab.AlphabetSize() {
		t.Fatalf("probability matrix is %dx%d but alphabet size is %d", len(probs), len(probs), vocab.AlphabetSize())
	}
	return &Model{
		vocab:  vocab,
		counts: CountBigrams(words, vocab),
		probs:  &ProbMatrix{n: len(probs), data: probs},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSampleDeterministic(t *testing.T) {
	m := mustTrain(t, []string{"ab"})

	// With temperature 0, every draw picks the max-probability transition,
	// which reproduces the single training word exactly.
	word, err := m.Sample(WithTemperature(0))
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if word != "ab" {
		t.Errorf("Sample() = %q, want %q", word, "ab")
	}
}

func TestSampleDeterministicPrefersMaxProbability(t *testing.T) {
	// Start row is P('a')=2/3, P('b')=1/3; the 'a' row then goes straight to
	// the sentinel.
	m := mustTrain(t, []string{"a", "a", "b"})

	word, err := m.Sample(WithTemperature(0))
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if word != "a" {
		t.Errorf("Sample() = %q, want %q", word, "a")
	}
}

func TestSampleNeverEmitsSentinel(t *testing.T) {
	m := mustTrain(t, []string{"emma", "olivia", "ava", "mia", "noah"})
	src := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 500; i++ {
		word, err := m.Sample(WithSource(src))
		if err != nil {
			t.Fatalf("Sample() error = %v", err)
		}
		if strings.ContainsRune(word, SentinelRune) {
			t.Fatalf("generated word %q contains the sentinel", word)
		}
	}
}

func TestSampleReproducible(t *testing.T) {
	m := mustTrain(t, []string{"emma", "olivia", "ava", "mia", "noah"})

	run := func() []string {
		src := rand.New(rand.NewPCG(42, 1))
		words := make([]string, 0, 20)
		for i := 0; i < 20; i++ {
			word, err := m.Sample(WithSource(src))
			if err != nil {
				t.Fatalf("Sample() error = %v", err)
			}
			words = append(words, word)
		}
		return words
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("run diverged at word %d: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestSampleDegenerateRow(t *testing.T) {
	// The start row always moves to 'a', whose row has no mass at all.
	m := handBuiltModel(t, []string{"a"}, [][]float64{
		{0, 1},
		{0, 0},
	})

	_, err := m.Sample()
	if !errors.Is(err, ErrDegenerateRow) {
		t.Errorf("Sample() error = %v, want ErrDegenerateRow", err)
	}
}

func TestSampleMaxLength(t *testing.T) {
	// 'a' feeds back into itself forever, so only the cap can stop the walk.
	m := handBuiltModel(t, []string{"a"}, [][]float64{
		{0, 1},
		{0, 1},
	})

	_, err := m.Sample(WithMaxLength(5))
	if !errors.Is(err, ErrLengthExceeded) {
		t.Errorf("Sample() error = %v, want ErrLengthExceeded", err)
	}
}

func TestSampleMaxLengthAllowsShortWords(t *testing.T) {
	m := mustTrain(t, []string{"ab"})

	word, err := m.Sample(WithTemperature(0), WithMaxLength(10))
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if word != "ab" {
		t.Errorf("Sample() = %q, want %q", word, "ab")
	}
}

func TestSampleTopK(t *testing.T) {
	// Start row is P('a')=3/4, P('b')=1/4. With k=1 only 'a' survives, so
	// the first symbol is always 'a' regardless of the draw.
	m := mustTrain(t, []string{"a", "a", "a", "b"})
	src := rand.New(rand.NewPCG(3, 5))

	for i := 0; i < 100; i++ {
		word, err := m.Sample(WithSource(src), WithTopK(1))
		if err != nil {
			t.Fatalf("Sample() error = %v", err)
		}
		if word != "a" {
			t.Fatalf("Sample(TopK=1) = %q, want %q", word, "a")
		}
	}
}

func BenchmarkSample(b *testing.B) {
	m, err := Train([]string{"emma", "olivia", "ava", "isabella", "sophia", "charlotte", "mia", "amelia"})
	if err != nil {
		b.Fatalf("Train() error = %v", err)
	}
	src := rand.New(rand.NewPCG(1, 2))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		word, err := m.Sample(WithSource(src))
		if err != nil {
			b.Fatalf("Sample() error = %v", err)
		}
		b.SetBytes(int64(len(word)))
	}
}
