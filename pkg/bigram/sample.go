package bigram

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sort"
)

// sampleOptions is used by Sample to configure default options.
type sampleOptions struct {
	maxLength   int
	temperature float64
	topK        int
	src         *rand.Rand
}

// SampleOption is a function that configures sampling parameters. It's used
// as a variadic argument to Model.Sample.
type SampleOption func(*sampleOptions)

// WithMaxLength caps the number of symbols in a generated word. The walk
// normally stops on its own when the sentinel is drawn; with a cap set,
// drawing more than n symbols returns ErrLengthExceeded instead. A value of 0
// disables the cap, which is the default.
func WithMaxLength(n int) SampleOption {
	return func(o *sampleOptions) { o.maxLength = n }
}

// WithTemperature adjusts the randomness of symbol selection.
// A value of 1.0 is standard categorical sampling from the trained distribution.
// Values > 1.0 increase randomness (making less likely symbols more likely).
// Values < 1.0 decrease randomness (making likely symbols even more likely).
// A value of 0 or less results in deterministic selection (always choosing
// the most probable symbol).
func WithTemperature(t float64) SampleOption {
	return func(o *sampleOptions) { o.temperature = t }
}

// WithTopK restricts each draw to the top `k` most probable successors,
// renormalized. A value of 0 disables Top-K sampling.
func WithTopK(k int) SampleOption {
	return func(o *sampleOptions) { o.topK = k }
}

// WithSource sets the randomness source for one sampling run. A fixed-seed
// source makes the run reproducible. The default is the package-level
// math/rand/v2 source, which is safe to share across concurrent runs.
func WithSource(src *rand.Rand) SampleOption {
	return func(o *sampleOptions) { o.src = src }
}

// Sample performs one random walk over the probability matrix, starting at
// the sentinel and ending when the sentinel is drawn again. Every
// non-sentinel symbol drawn along the way is appended to the output; the
// sentinel itself never appears in it. Repeated calls are independent and
// share no state beyond the read-only model.
func (m *Model) Sample(opts ...SampleOption) (string, error) {
	options := &sampleOptions{
		maxLength:   0,
		temperature: 1.0,
		topK:        0,
	}
	for _, opt := range opts {
		opt(options)
	}

	var word []rune
	state := SentinelIndex

	for {
		next, ok := chooseNext(m.probs.data[state], options)
		if !ok {
			r, _ := m.vocab.Rune(state)
			m.logger.Debug("Sampling aborted on degenerate row",
				slog.Int("state", state),
				slog.String("symbol", string(r)),
				slog.Int("generated_length", len(word)),
			)
			return "", fmt.Errorf("symbol %q: %w", r, ErrDegenerateRow)
		}

		if next == SentinelIndex {
			break
		}
		if options.maxLength > 0 && len(word) >= options.maxLength {
			m.logger.Debug("Sampling aborted by length cap",
				slog.Int("max_length", options.maxLength),
			)
			return "", fmt.Errorf("cap %d: %w", options.maxLength, ErrLengthExceeded)
		}

		r, _ := m.vocab.Rune(next)
		word = append(word, r)
		state = next
	}

	return string(word), nil
}

// indexProb pairs a symbol index with its selection probability.
type indexProb struct {
	idx int
	p   float64
}

// chooseNext draws one index from a probability row. It abstracts the symbol
// selection logic from the sampling loop and reports false when the row has
// no mass to draw from.
func chooseNext(row []float64, options *sampleOptions) (int, bool) {
	choices := make([]indexProb, 0, len(row))
	var total float64
	for i, p := range row {
		if p > 0 {
			choices = append(choices, indexProb{idx: i, p: p})
			total += p
		}
	}
	if len(choices) == 0 {
		return 0, false
	}

	// topK filtering
	if options.topK > 0 && options.topK < len(choices) {
		sort.Slice(choices, func(i, j int) bool {
			return choices[i].p > choices[j].p
		})
		choices = choices[:options.topK]
		total = 0
		for _, c := range choices {
			total += c.p
		}
	}

	if options.temperature <= 0 { // Deterministic
		best := choices[0]
		for _, c := range choices[1:] {
			if c.p > best.p {
				best = c
			}
		}
		return best.idx, true
	}

	weights := make([]float64, len(choices))
	if options.temperature == 1.0 { // Standard categorical sampling
		for i, c := range choices {
			weights[i] = c.p
		}
	} else { // Temperature-based sampling
		logProbabilities := make([]float64, len(choices))
		maxLP := math.Inf(-1)
		for i, c := range choices {
			lp := math.Log(c.p) / options.temperature
			logProbabilities[i] = lp
			if lp > maxLP {
				maxLP = lp
			}
		}
		total = 0
		for i, lp := range logProbabilities {
			w := math.Exp(lp - maxLP)
			weights[i] = w
			total += w
		}
	}

	floatN := rand.Float64
	if options.src != nil {
		floatN = options.src.Float64
	}

	draw := floatN() * total
	for i, c := range choices {
		draw -= weights[i]
		if draw < 0 {
			return c.idx, true
		}
	}
	// Floating-point remainder lands on the last viable choice.
	return choices[len(choices)-1].idx, true
}
