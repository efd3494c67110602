// Package tokenizer splits text into the tokens the text package counts.
//
// Two implementations are provided:
//   - Whitespace: splits on spaces, the classic bag-of-words tokenizer
//   - Subword: BPE subword pieces via OpenAI's tiktoken encodings
package tokenizer

// Tokenizer converts text into a sequence of string tokens.
//
// Tokens are the unit the vocabulary indexes and the vectorizer counts, so
// swapping the tokenizer changes the feature space of a bag-of-words model.
type Tokenizer interface {
	// Tokenize splits text into tokens. Empty input yields no tokens.
	Tokenize(text string) []string
}
