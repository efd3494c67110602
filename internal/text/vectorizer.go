package text

import (
	"github.com/primer-ml/primer/internal/tensor"
)

// Vectorizer converts token sequences into bag-of-words count vectors over
// a fixed vocabulary.
//
// The vector has one slot per vocabulary entry holding the token's count in
// the input. Order is discarded, hence "bag" of words. Tokens missing from
// the vocabulary are skipped.
type Vectorizer struct {
	vocab *Vocabulary
}

// NewVectorizer creates a Vectorizer over the given vocabulary.
func NewVectorizer(vocab *Vocabulary) *Vectorizer {
	return &Vectorizer{vocab: vocab}
}

// Vocabulary returns the vocabulary the vectorizer counts against.
func (v *Vectorizer) Vocabulary() *Vocabulary {
	return v.vocab
}

// Counts returns the bag-of-words vector for the tokens, length Vocab.Len().
func (v *Vectorizer) Counts(tokens []string) []float32 {
	counts := make([]float32, v.vocab.Len())
	for _, token := range tokens {
		if i := v.vocab.Index(token); i >= 0 {
			counts[i]++
		}
	}
	return counts
}

// Vector returns the bag-of-words vector as a [1, vocabSize] tensor, ready
// to feed a Linear layer as a single-example batch.
func Vector[B tensor.Backend](v *Vectorizer, tokens []string, backend B) *tensor.Tensor[float32, B] {
	counts := v.Counts(tokens)
	t, err := tensor.FromSlice(counts, tensor.Shape{1, v.vocab.Len()}, backend)
	if err != nil {
		panic(err)
	}
	return t
}

// Batch stacks bag-of-words vectors for several token sequences into a
// [batch, vocabSize] tensor.
func Batch[B tensor.Backend](v *Vectorizer, sequences [][]string, backend B) *tensor.Tensor[float32, B] {
	vocabSize := v.vocab.Len()
	data := make([]float32, 0, len(sequences)*vocabSize)
	for _, tokens := range sequences {
		data = append(data, v.Counts(tokens)...)
	}

	t, err := tensor.FromSlice(data, tensor.Shape{len(sequences), vocabSize}, backend)
	if err != nil {
		panic(err)
	}
	return t
}
