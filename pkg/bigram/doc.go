/*
Package bigram trains a character-level first-order Markov model from a list
of words and samples new, similarly shaped words from it.

Training is a single forward pass: BuildVocabulary derives the symbol set and
its dense index mapping, CountBigrams accumulates transition counts between
consecutive symbols (with a shared start/end sentinel padding every word),
and Normalize turns each count row into a conditional probability
distribution. Train bundles the three steps into a Model.

A trained Model is immutable. It can serve any number of independent sampling
runs, concurrently if each run brings its own randomness source, and its
count matrix and index mapping can be read at any time by external tooling
such as a heatmap renderer.
*/
package bigram
