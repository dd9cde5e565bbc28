package bigram

import "errors"

var (
	// ErrEmptyCorpus indicates the training corpus contained no words, so no
	// vocabulary could be derived.
	ErrEmptyCorpus = errors.New("bigram: training corpus is empty")
	// ErrSentinelInCorpus indicates a training word contained the reserved
	// sentinel rune.
	ErrSentinelInCorpus = errors.New("bigram: training word contains the sentinel rune")
	// ErrDegenerateRow indicates a sampling run reached a symbol with no
	// outgoing probability mass.
	ErrDegenerateRow = errors.New("bigram: no probability mass for current symbol")
	// ErrLengthExceeded indicates a sampling run passed the configured
	// maximum word length without drawing the sentinel.
	ErrLengthExceeded = errors.New("bigram: generated word exceeded maximum length")
)
