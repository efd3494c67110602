package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// encodingCL100kBase is the encoding used by GPT-4 and GPT-3.5-turbo.
	encodingCL100kBase = "cl100k_base"
	// encodingP50kBase is the encoding used by GPT-3.
	encodingP50kBase = "p50k_base"
	// encodingR50kBase is the encoding used by older GPT-3 models.
	encodingR50kBase = "r50k_base"
)

// Subword tokenizes with a byte-pair encoding from pkoukk/tiktoken-go.
//
// Unlike Whitespace it never produces out-of-vocabulary tokens: any string
// decomposes into known byte pieces. Tokenize returns each piece decoded
// back to its string form so subword tokens can feed the same vocabulary
// and vectorizer as word tokens.
type Subword struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewSubword creates a Subword tokenizer with the named encoding.
//
// Supported encodings: "cl100k_base" (GPT-4), "p50k_base", "r50k_base".
// The encoding's token table is fetched on first use and cached.
func NewSubword(encodingName string) (*Subword, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	return &Subword{
		encoding: encoding,
		name:     encodingName,
	}, nil
}

// NewSubwordForModel creates a Subword tokenizer for a model name, e.g.
// "gpt-4" or "gpt-3.5-turbo".
func NewSubwordForModel(modelName string) (*Subword, error) {
	encoding, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken for model %q: %w", modelName, err)
	}

	return &Subword{
		encoding: encoding,
		name:     modelName,
	}, nil
}

// Tokenize splits text into subword pieces, each decoded to its string form.
func (s *Subword) Tokenize(text string) []string {
	ids := s.encoding.Encode(text, nil, nil)

	pieces := make([]string, len(ids))
	for i, id := range ids {
		pieces[i] = s.encoding.Decode([]int{id})
	}
	return pieces
}

// Encode converts text to BPE token IDs.
func (s *Subword) Encode(text string) []int {
	return s.encoding.Encode(text, nil, nil)
}

// Decode converts BPE token IDs back to text.
func (s *Subword) Decode(ids []int) string {
	return s.encoding.Decode(ids)
}

// VocabSize returns the encoding's vocabulary size.
func (s *Subword) VocabSize() int {
	// tiktoken-go does not expose the table size directly.
	switch s.name {
	case encodingCL100kBase:
		return 100256
	case encodingP50kBase, encodingR50kBase:
		return 50257
	default:
		return 100000
	}
}

// Name returns the encoding or model name this tokenizer was built from.
func (s *Subword) Name() string {
	return s.name
}
