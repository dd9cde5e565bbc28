package bigram

import (
	"errors"
	"strings"
	"testing"
)

func TestTrain(t *testing.T) {
	m := mustTrain(t, []string{"ab", "ba"})

	stats := m.Stats()
	if stats.VocabSize != 2 {
		t.Errorf("VocabSize = %d, want 2", stats.VocabSize)
	}
	if stats.Words != 2 {
		t.Errorf("Words = %d, want 2", stats.Words)
	}
	// Each word contributes len+1 transitions: 2*(2+1).
	if stats.Transitions != 6 {
		t.Errorf("Transitions = %d, want 6", stats.Transitions)
	}
}

func TestTrainEmptyCorpus(t *testing.T) {
	_, err := Train(nil)
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("Train(nil) error = %v, want ErrEmptyCorpus", err)
	}
}

func TestTrainReader(t *testing.T) {
	m, err := TrainReader(strings.NewReader("ab\ncd\n"))
	if err != nil {
		t.Fatalf("TrainReader() error = %v", err)
	}
	if m.Vocab().Size() != 4 {
		t.Errorf("VocabSize = %d, want 4", m.Vocab().Size())
	}
	if m.Stats().Words != 2 {
		t.Errorf("Words = %d, want 2", m.Stats().Words)
	}
}

func TestTrainReaderEmpty(t *testing.T) {
	_, err := TrainReader(strings.NewReader(""))
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("TrainReader(\"\") error = %v, want ErrEmptyCorpus", err)
	}
}

func TestTrainReaderKeepsBlankLines(t *testing.T) {
	// A blank line is an empty word: one sentinel->sentinel transition.
	m, err := TrainReader(strings.NewReader("a\n\nb\n"))
	if err != nil {
		t.Fatalf("TrainReader() error = %v", err)
	}
	counts := m.Counts()
	if counts[SentinelIndex][SentinelIndex] != 1 {
		t.Errorf("sentinel->sentinel count = %d, want 1", counts[SentinelIndex][SentinelIndex])
	}
	if m.Stats().Words != 3 {
		t.Errorf("Words = %d, want 3", m.Stats().Words)
	}
}

func TestModelSnapshotsAreCopies(t *testing.T) {
	m := mustTrain(t, []string{"ab"})

	counts := m.Counts()
	counts[0][1] = 99
	if m.Counts()[0][1] != 1 {
		t.Error("mutating the Counts() snapshot changed the model")
	}

	probs := m.Probs()
	probs[0][1] = 0.5
	if m.Probs()[0][1] != 1 {
		t.Error("mutating the Probs() snapshot changed the model")
	}
}

func TestSetLogger(t *testing.T) {
	m := mustTrain(t, []string{"ab"})
	m.SetLogger(nil) // must keep the discard default rather than panic later
	if _, err := m.Sample(WithTemperature(0)); err != nil {
		t.Fatalf("Sample() after SetLogger(nil) error = %v", err)
	}
}
