package tokenizer

import "strings"

// Whitespace tokenizes by splitting on Unicode whitespace.
//
// With Lowercase set, tokens are lowercased first so "Yo" and "yo" share a
// vocabulary entry.
type Whitespace struct {
	lowercase bool
}

// NewWhitespace creates a whitespace tokenizer.
func NewWhitespace(lowercase bool) *Whitespace {
	return &Whitespace{lowercase: lowercase}
}

// Tokenize splits text on runs of whitespace.
func (w *Whitespace) Tokenize(text string) []string {
	if w.lowercase {
		text = strings.ToLower(text)
	}
	return strings.Fields(text)
}
