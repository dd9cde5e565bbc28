package bigram

// ProbMatrix is the row-stochastic matrix derived from a CountMatrix. Every
// row with observed transitions sums to 1; see Normalize for the treatment of
// rows without any.
type ProbMatrix struct {
	n    int
	data [][]float64
}

// Normalize converts raw counts into per-row conditional probabilities by
// dividing each entry by its row sum. Rows with a zero sum are left all-zero
// rather than smoothed; a sampling run that reaches such a row fails with
// ErrDegenerateRow. Zero rows only occur for symbols that were never observed
// as a predecessor, which training itself never produces, so the fail-fast
// policy costs nothing in practice and keeps the distribution honest.
func Normalize(counts *CountMatrix) *ProbMatrix {
	n := counts.Size()
	p := &ProbMatrix{n: n, data: make([][]float64, n)}
	for i := range p.data {
		p.data[i] = make([]float64, n)
		sum := counts.RowSum(i)
		if sum == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			p.data[i][j] = float64(counts.At(i, j)) / float64(sum)
		}
	}
	return p
}

// At returns the probability of symbol j following symbol i.
func (p *ProbMatrix) At(i, j int) float64 {
	return p.data[i][j]
}

// Row returns a copy of the distribution over successors of symbol i.
func (p *ProbMatrix) Row(i int) []float64 {
	row := make([]float64, p.n)
	copy(row, p.data[i])
	return row
}

// Size returns the matrix dimension, V+1.
func (p *ProbMatrix) Size() int {
	return p.n
}

// Rows returns a deep copy of the probability data.
func (p *ProbMatrix) Rows() [][]float64 {
	rows := make([][]float64, p.n)
	for i, row := range p.data {
		rows[i] = make([]float64, p.n)
		copy(rows[i], row)
	}
	return rows
}
