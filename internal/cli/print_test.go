package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Satvik374/Study-App/internal/cloze"
	"github.com/Satvik374/Study-App/internal/diff"
)

func TestInteractiveQuizCLI_PrintDiff(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		candidate string
		want      string
	}{
		{
			name:      "perfect",
			reference: "the cat sat",
			candidate: "The cat sat",
			want:      "✅ Perfect! 100%\nthe cat sat\n",
		},
		{
			name:      "missing word",
			reference: "the quick brown fox",
			candidate: "the quick fox",
			want:      "❌ 75% correct\nthe quick [+brown] fox\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			NewInteractiveQuizCLI(strings.NewReader(""), &out).PrintDiff(diff.Align(tt.reference, tt.candidate))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestInteractiveQuizCLI_PrintCloze(t *testing.T) {
	c, err := cloze.Generate("Photosynthesis converts light into chemical energy")
	require.NoError(t, err)

	var out bytes.Buffer
	NewInteractiveQuizCLI(strings.NewReader(""), &out).PrintCloze(c)
	assert.Equal(t, "(1)____ (2)____ light into chemical energy\n  (1) Photosynthesis\n  (2) converts\n", out.String())
}
