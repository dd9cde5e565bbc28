package bigram

import (
	"fmt"
	"sort"
)

const (
	// SentinelIndex is the reserved index for the combined start/end-of-word
	// sentinel symbol.
	SentinelIndex = 0
	// SentinelRune is the display rune for the sentinel symbol. It may not
	// appear inside training words.
	SentinelRune = '^'
)

// Vocabulary is the immutable bijection between the symbols observed in a
// training corpus and their dense indices. The sentinel always occupies index
// 0; every other symbol gets an index in 1..V assigned in code-point order,
// so the same set of distinct characters always yields the same mapping
// regardless of word order.
type Vocabulary struct {
	runes   []rune       // index -> rune, runes[SentinelIndex] == SentinelRune
	indices map[rune]int // rune -> index
}

// BuildVocabulary derives the Vocabulary from a training corpus. The corpus
// must contain at least one word; ErrEmptyCorpus is returned otherwise.
// Individual words may be empty, but none may contain the sentinel rune.
func BuildVocabulary(words []string) (*Vocabulary, error) {
	if len(words) == 0 {
		return nil, ErrEmptyCorpus
	}

	seen := make(map[rune]struct{})
	for _, word := range words {
		for _, r := range word {
			if r == SentinelRune {
				return nil, fmt.Errorf("word %q: %w", word, ErrSentinelInCorpus)
			}
			seen[r] = struct{}{}
		}
	}

	distinct := make([]rune, 0, len(seen))
	for r := range seen {
		distinct = append(distinct, r)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })

	v := &Vocabulary{
		runes:   make([]rune, 1, len(distinct)+1),
		indices: make(map[rune]int, len(distinct)+1),
	}
	v.runes[SentinelIndex] = SentinelRune
	v.indices[SentinelRune] = SentinelIndex
	for _, r := range distinct {
		v.indices[r] = len(v.runes)
		v.runes = append(v.runes, r)
	}

	return v, nil
}

// Index returns the dense index for a symbol and whether the symbol is part
// of the alphabet.
func (v *Vocabulary) Index(r rune) (int, bool) {
	i, ok := v.indices[r]
	return i, ok
}

// Rune returns the symbol at a dense index and whether the index is valid.
func (v *Vocabulary) Rune(i int) (rune, bool) {
	if i < 0 || i >= len(v.runes) {
		return 0, false
	}
	return v.runes[i], true
}

// Size returns V, the number of non-sentinel symbols.
func (v *Vocabulary) Size() int {
	return len(v.runes) - 1
}

// AlphabetSize returns V+1, the dimension of the transition matrices.
func (v *Vocabulary) AlphabetSize() int {
	return len(v.runes)
}

// Labels returns a display label for every index, sentinel included. The
// slice is a fresh copy on every call.
func (v *Vocabulary) Labels() []string {
	labels := make([]string, len(v.runes))
	for i, r := range v.runes {
		labels[i] = string(r)
	}
	return labels
}
