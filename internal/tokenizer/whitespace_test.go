package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhitespace_Tokenize(t *testing.T) {
	tests := []struct {
		name      string
		lowercase bool
		input     string
		want      []string
	}{
		{
			name:  "simple sentence",
			input: "me gusta comer en la cafeteria",
			want:  []string{"me", "gusta", "comer", "en", "la", "cafeteria"},
		},
		{
			name:  "preserves case by default",
			input: "Give it to me",
			want:  []string{"Give", "it", "to", "me"},
		},
		{
			name:      "lowercase option",
			lowercase: true,
			input:     "Give It TO me",
			want:      []string{"give", "it", "to", "me"},
		},
		{
			name:  "collapses whitespace runs",
			input: "  No \t creo\n que ",
			want:  []string{"No", "creo", "que"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewWhitespace(tt.lowercase)
			got := tok.Tokenize(tt.input)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
