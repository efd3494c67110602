// Package text builds bag-of-words features for text classification.
//
// A Vocabulary assigns each distinct token a stable index in first-seen
// order; a Vectorizer turns a sentence into a dense count vector over that
// vocabulary. Together they map text onto the fixed-width float32 inputs a
// Linear layer expects.
package text

// Vocabulary maps tokens to dense indices.
//
// Indices are assigned in first-seen order and never change, so a model's
// weight columns stay aligned with the words that produced them.
type Vocabulary struct {
	index map[string]int
	words []string
}

// NewVocabulary creates an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{index: make(map[string]int)}
}

// Add inserts a token if unseen and returns its index.
func (v *Vocabulary) Add(token string) int {
	if i, ok := v.index[token]; ok {
		return i
	}
	i := len(v.words)
	v.index[token] = i
	v.words = append(v.words, token)
	return i
}

// AddAll inserts every token from every sentence, in order.
func (v *Vocabulary) AddAll(sentences ...[]string) {
	for _, sentence := range sentences {
		for _, token := range sentence {
			v.Add(token)
		}
	}
}

// Index returns the token's index, or -1 if the token is unknown.
func (v *Vocabulary) Index(token string) int {
	if i, ok := v.index[token]; ok {
		return i
	}
	return -1
}

// Contains reports whether the token is in the vocabulary.
func (v *Vocabulary) Contains(token string) bool {
	_, ok := v.index[token]
	return ok
}

// Len returns the number of distinct tokens.
func (v *Vocabulary) Len() int {
	return len(v.words)
}

// Words returns the tokens in index order. The slice is shared; do not
// modify it.
func (v *Vocabulary) Words() []string {
	return v.words
}

// Word returns the token at the given index.
func (v *Vocabulary) Word(i int) string {
	return v.words[i]
}
