// Copyright 2025 Primer ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tokenizer provides text tokenizers: whitespace word splitting
// and BPE subwords via tiktoken.
package tokenizer

import (
	"github.com/primer-ml/primer/internal/tokenizer"
)

// Tokenizer converts text into string tokens.
type Tokenizer = tokenizer.Tokenizer

// Whitespace splits on runs of whitespace, optionally lowercasing first.
type Whitespace = tokenizer.Whitespace

// NewWhitespace creates a whitespace tokenizer.
func NewWhitespace(lowercase bool) *Whitespace {
	return tokenizer.NewWhitespace(lowercase)
}

// Subword tokenizes with an OpenAI BPE encoding (tiktoken).
type Subword = tokenizer.Subword

// NewSubword creates a Subword tokenizer with the named encoding, e.g.
// "cl100k_base".
func NewSubword(encodingName string) (*Subword, error) {
	return tokenizer.NewSubword(encodingName)
}

// NewSubwordForModel creates a Subword tokenizer for a model name, e.g.
// "gpt-4".
func NewSubwordForModel(modelName string) (*Subword, error) {
	return tokenizer.NewSubwordForModel(modelName)
}
