package bigram

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
)

// Model is a trained character-level bigram model. Once Train returns, the
// vocabulary, counts and probabilities never change, so a single Model may
// serve any number of concurrent sampling runs as long as each run has its
// own randomness source.
type Model struct {
	vocab  *Vocabulary
	counts *CountMatrix
	probs  *ProbMatrix
	logger *slog.Logger
}

// Train runs the full pipeline (vocabulary -> counts -> probabilities) over
// the corpus and returns the trained Model.
func Train(words []string) (*Model, error) {
	vocab, err := BuildVocabulary(words)
	if err != nil {
		return nil, fmt.Errorf("building vocabulary: %w", err)
	}
	counts := CountBigrams(words, vocab)

	return &Model{
		vocab:  vocab,
		counts: counts,
		probs:  Normalize(counts),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// TrainReader trains from a newline-separated word list such as a names
// file. Blank lines count as empty words.
func TrainReader(r io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(r)
	var words []string
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	return Train(words)
}

// SetLogger sets the logger for the model. By default, all logs are
// discarded. Providing a `log/slog.Logger` enables logging for sampling runs.
func (m *Model) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Vocab returns the model's index mapping. The mapping is immutable.
func (m *Model) Vocab() *Vocabulary {
	return m.vocab
}

// Counts returns a deep copy of the raw transition counts for diagnostic
// consumers such as a heatmap renderer.
func (m *Model) Counts() [][]int {
	return m.counts.Rows()
}

// Probs returns a deep copy of the row-stochastic probability matrix.
func (m *Model) Probs() [][]float64 {
	return m.probs.Rows()
}

// Stats holds aggregate statistics for a trained model.
type Stats struct {
	VocabSize   int `json:"vocab_size"`  // distinct non-sentinel symbols
	Transitions int `json:"transitions"` // total trained transitions
	Words       int `json:"words"`       // training words observed
}

// Stats returns a snapshot of the model's aggregate statistics. The word
// count is recovered from the matrix itself: every word ends with exactly one
// transition into the sentinel column.
func (m *Model) Stats() Stats {
	var words int
	for i := 0; i < m.counts.Size(); i++ {
		words += m.counts.At(i, SentinelIndex)
	}
	return Stats{
		VocabSize:   m.vocab.Size(),
		Transitions: m.counts.Total(),
		Words:       words,
	}
}
