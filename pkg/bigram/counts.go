package bigram

// CountMatrix is the (V+1)x(V+1) matrix of raw bigram transition counts.
// Cell (i, j) holds how many times symbol j immediately followed symbol i
// across the training corpus, with the sentinel standing in for the start and
// end of every word. It is written only during CountBigrams and read-only
// afterward.
type CountMatrix struct {
	n    int
	data [][]int
}

// CountBigrams scans the corpus and accumulates transition counts into a new
// CountMatrix. Every word is padded with the sentinel on both sides, so a
// word of length L contributes exactly L+1 transitions; an empty word
// contributes the single sentinel->sentinel transition. Counting is pure
// accumulation and does not depend on corpus order. Runes missing from the
// mapping are skipped, which cannot happen for the corpus the vocabulary was
// built from.
func CountBigrams(words []string, vocab *Vocabulary) *CountMatrix {
	n := vocab.AlphabetSize()
	m := &CountMatrix{n: n, data: make([][]int, n)}
	for i := range m.data {
		m.data[i] = make([]int, n)
	}

	for _, word := range words {
		prev := SentinelIndex
		for _, r := range word {
			next, ok := vocab.Index(r)
			if !ok {
				continue
			}
			m.data[prev][next]++
			prev = next
		}
		m.data[prev][SentinelIndex]++
	}

	return m
}

// At returns the count of transitions from symbol i to symbol j.
func (m *CountMatrix) At(i, j int) int {
	return m.data[i][j]
}

// RowSum returns the total number of transitions observed out of symbol i.
func (m *CountMatrix) RowSum(i int) int {
	var sum int
	for _, c := range m.data[i] {
		sum += c
	}
	return sum
}

// Total returns the number of transitions in the whole matrix. For a corpus
// this equals the word count plus the total character count.
func (m *CountMatrix) Total() int {
	var sum int
	for i := range m.data {
		sum += m.RowSum(i)
	}
	return sum
}

// Size returns the matrix dimension, V+1.
func (m *CountMatrix) Size() int {
	return m.n
}

// Rows returns a deep copy of the count data, safe to hand to external
// consumers without exposing the matrix to mutation.
func (m *CountMatrix) Rows() [][]int {
	rows := make([][]int, m.n)
	for i, row := range m.data {
		rows[i] = make([]int, m.n)
		copy(rows[i], row)
	}
	return rows
}
