// Package diff scores a free-text answer against a reference answer word by word.
package diff

import "strings"

// Tokenize splits text into whitespace-delimited tokens.
// Runs of whitespace collapse into one delimiter and empty input yields an empty slice.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	if fields == nil {
		return []string{}
	}
	return fields
}

func equalFold(a, b string) bool {
	return strings.ToLower(a) == strings.ToLower(b)
}
