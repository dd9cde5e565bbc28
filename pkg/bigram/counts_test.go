package bigram

import (
	"reflect"
	"testing"
)

// mustVocab is a test helper that builds a vocabulary or fails the test.
func mustVocab(t *testing.T, words []string) *Vocabulary {
	t.Helper()
	vocab, err := BuildVocabulary(words)
	if err != nil {
		t.Fatalf("BuildVocabulary(%v) error = %v", words, err)
	}
	return vocab
}

func TestCountBigramsExact(t *testing.T) {
	words := []string{"ab"}
	vocab := mustVocab(t, words)
	counts := CountBigrams(words, vocab)

	// Alphabet is [^ a b]; "ab" contributes ^->a, a->b, b->^.
	expected := [][]int{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
	}
	if got := counts.Rows(); !reflect.DeepEqual(got, expected) {
		t.Errorf("CountBigrams() = %v, want %v", got, expected)
	}
}

func TestCountBigramsReorderInvariant(t *testing.T) {
	forward := []string{"anna", "bob", "eve"}
	backward := []string{"eve", "bob", "anna"}
	vocab := mustVocab(t, forward)

	a := CountBigrams(forward, vocab)
	b := CountBigrams(backward, vocab)
	if !reflect.DeepEqual(a.Rows(), b.Rows()) {
		t.Error("count matrix depends on corpus order")
	}
}

func TestCountBigramsTotal(t *testing.T) {
	testCases := []struct {
		name  string
		words []string
	}{
		{name: "Single word", words: []string{"ab"}},
		{name: "Several words", words: []string{"one", "two", "three"}},
		{name: "With empty word", words: []string{"", "a"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			vocab := mustVocab(t, tc.words)
			counts := CountBigrams(tc.words, vocab)

			chars := 0
			for _, w := range tc.words {
				chars += len([]rune(w))
			}
			// Each word contributes len(word)+1 transitions.
			if want := len(tc.words) + chars; counts.Total() != want {
				t.Errorf("Total() = %d, want %d", counts.Total(), want)
			}
		})
	}
}

func TestCountBigramsEmptyWord(t *testing.T) {
	words := []string{""}
	vocab := mustVocab(t, words)
	counts := CountBigrams(words, vocab)

	// An empty word is one immediate start->end transition.
	if got := counts.At(SentinelIndex, SentinelIndex); got != 1 {
		t.Errorf("sentinel->sentinel count = %d, want 1", got)
	}
	if counts.Total() != 1 {
		t.Errorf("Total() = %d, want 1", counts.Total())
	}
}

func TestCountMatrixRowsIsCopy(t *testing.T) {
	words := []string{"ab"}
	counts := CountBigrams(words, mustVocab(t, words))

	rows := counts.Rows()
	rows[0][1] = 99
	if counts.At(0, 1) != 1 {
		t.Error("mutating the Rows() snapshot changed the matrix")
	}
}
