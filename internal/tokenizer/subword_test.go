package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubword_NewSubword(t *testing.T) {
	tests := []struct {
		name              string
		encoding          string
		wantErr           bool
		expectedVocabSize int
	}{
		{
			name:              "cl100k_base",
			encoding:          "cl100k_base",
			wantErr:           false,
			expectedVocabSize: 100256,
		},
		{
			name:              "p50k_base",
			encoding:          "p50k_base",
			wantErr:           false,
			expectedVocabSize: 50257,
		},
		{
			name:     "invalid encoding",
			encoding: "invalid_encoding_xyz",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := NewSubword(tt.encoding)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, tok)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, tok)
			assert.Equal(t, tt.expectedVocabSize, tok.VocabSize())
			assert.Equal(t, tt.encoding, tok.Name())
		})
	}
}

func TestSubword_EncodeDecodeRoundTrip(t *testing.T) {
	tok, err := NewSubword("cl100k_base")
	require.NoError(t, err)

	text := "No creo que sea una buena idea"
	ids := tok.Encode(text)
	require.NotEmpty(t, ids)

	assert.Equal(t, text, tok.Decode(ids))
}

func TestSubword_TokenizePiecesReassemble(t *testing.T) {
	tok, err := NewSubword("cl100k_base")
	require.NoError(t, err)

	text := "it is lost on me"
	pieces := tok.Tokenize(text)
	require.NotEmpty(t, pieces)

	// Concatenated pieces reproduce the input byte-for-byte.
	assert.Equal(t, text, strings.Join(pieces, ""))
}
