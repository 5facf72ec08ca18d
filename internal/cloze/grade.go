package cloze

import (
	"strings"

	"github.com/Satvik374/Study-App/internal/diff"
)

// SplitAnswer splits a blanks answer into its positional parts.
// Commas separate the parts when the input has any; otherwise whitespace does.
func SplitAnswer(input string) []string {
	if !strings.Contains(input, ",") {
		return diff.Tokenize(input)
	}

	var parts []string
	for _, p := range strings.Split(input, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Grade compares each positional part of input with the blank at the same
// position. The result never contains extra ops and its score is the share of
// blanks filled correctly, or 1 when there are no blanks.
func Grade(answers []Blank, input string) diff.Result {
	parts := SplitAnswer(input)

	ops := make([]diff.Op, 0, len(answers))
	correct := 0
	for i, blank := range answers {
		var got string
		if i < len(parts) {
			got = strings.TrimSpace(parts[i])
		}

		switch {
		case strings.EqualFold(got, blank.Word):
			ops = append(ops, diff.Equal(blank.Label()))
			correct++
		case got != "":
			ops = append(ops, diff.Incorrect(blank.Label(), got))
		default:
			ops = append(ops, diff.Missing(blank.Label()))
		}
	}

	result := diff.Result{Ops: ops, Score: 1}
	if len(answers) > 0 {
		result.Score = float64(correct) / float64(len(answers))
	}
	return result
}
