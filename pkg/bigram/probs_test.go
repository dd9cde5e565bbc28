package bigram

import (
	"math"
	"testing"
)

const rowSumTolerance = 1e-6

func TestNormalizeRowStochastic(t *testing.T) {
	words := []string{"emma", "olivia", "ava", "isabella"}
	vocab := mustVocab(t, words)
	probs := Normalize(CountBigrams(words, vocab))

	for i := 0; i < probs.Size(); i++ {
		var sum float64
		for j := 0; j < probs.Size(); j++ {
			p := probs.At(i, j)
			if p < 0 || p > 1 {
				t.Errorf("probability out of range at (%d,%d): %v", i, j, p)
			}
			sum += p
		}
		if math.Abs(sum-1) > rowSumTolerance {
			t.Errorf("row %d sums to %v, want 1 within %v", i, sum, rowSumTolerance)
		}
	}
}

func TestNormalizeSentinelRow(t *testing.T) {
	words := []string{"a", "a", "b"}
	vocab := mustVocab(t, words)
	counts := CountBigrams(words, vocab)

	aIdx, _ := vocab.Index('a')
	bIdx, _ := vocab.Index('b')
	if got := counts.At(SentinelIndex, aIdx); got != 2 {
		t.Errorf("sentinel->'a' count = %d, want 2", got)
	}
	if got := counts.At(SentinelIndex, bIdx); got != 1 {
		t.Errorf("sentinel->'b' count = %d, want 1", got)
	}

	probs := Normalize(counts)
	if got := probs.At(SentinelIndex, aIdx); math.Abs(got-2.0/3.0) > rowSumTolerance {
		t.Errorf("P('a'|start) = %v, want 2/3", got)
	}
	if got := probs.At(SentinelIndex, bIdx); math.Abs(got-1.0/3.0) > rowSumTolerance {
		t.Errorf("P('b'|start) = %v, want 1/3", got)
	}
}

func TestNormalizeSingleWordRow(t *testing.T) {
	words := []string{"ab"}
	vocab := mustVocab(t, words)
	probs := Normalize(CountBigrams(words, vocab))

	aIdx, _ := vocab.Index('a')
	row := probs.Row(SentinelIndex)
	for j, p := range row {
		want := 0.0
		if j == aIdx {
			want = 1.0
		}
		if math.Abs(p-want) > rowSumTolerance {
			t.Errorf("sentinel row[%d] = %v, want %v", j, p, want)
		}
	}
}

func TestNormalizeZeroRow(t *testing.T) {
	// A symbol that never precedes anything. Training cannot produce this,
	// so the matrix is constructed by hand.
	counts := &CountMatrix{n: 2, data: [][]int{{0, 1}, {0, 0}}}
	probs := Normalize(counts)

	for j := 0; j < 2; j++ {
		if got := probs.At(1, j); got != 0 {
			t.Errorf("zero-sum row entry (1,%d) = %v, want 0", j, got)
		}
	}
	if got := probs.At(0, 1); got != 1 {
		t.Errorf("nonzero row was not normalized: (0,1) = %v, want 1", got)
	}
}
