// Copyright 2025 Primer ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package text provides bag-of-words feature extraction for text
// classification: vocabularies, count vectorizers, and label indices.
package text

import (
	"github.com/primer-ml/primer/internal/tensor"
	"github.com/primer-ml/primer/internal/text"
)

// Vocabulary maps tokens to dense indices in first-seen order.
type Vocabulary = text.Vocabulary

// NewVocabulary creates an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return text.NewVocabulary()
}

// Vectorizer converts token sequences into bag-of-words count vectors.
type Vectorizer = text.Vectorizer

// NewVectorizer creates a Vectorizer over the given vocabulary.
func NewVectorizer(vocab *Vocabulary) *Vectorizer {
	return text.NewVectorizer(vocab)
}

// Example is one labeled sentence.
type Example = text.Example

// LabelIndex maps label names to class indices.
type LabelIndex = text.LabelIndex

// NewLabelIndex creates a LabelIndex from labels in the given order.
func NewLabelIndex(labels ...string) *LabelIndex {
	return text.NewLabelIndex(labels...)
}

// Vector returns a [1, vocabSize] bag-of-words tensor for one sentence.
func Vector[B tensor.Backend](v *Vectorizer, tokens []string, backend B) *tensor.Tensor[float32, B] {
	return text.Vector(v, tokens, backend)
}

// Batch stacks bag-of-words vectors into a [batch, vocabSize] tensor.
func Batch[B tensor.Backend](v *Vectorizer, sequences [][]string, backend B) *tensor.Tensor[float32, B] {
	return text.Batch(v, sequences, backend)
}

// Targets converts example labels into a [batch] int64 class tensor.
func Targets[B tensor.Backend](li *LabelIndex, examples []Example, backend B) *tensor.Tensor[int64, B] {
	return text.Targets(li, examples, backend)
}

// Target converts a single label into a [1] int64 class tensor.
func Target[B tensor.Backend](li *LabelIndex, label string, backend B) *tensor.Tensor[int64, B] {
	return text.Target(li, label, backend)
}
