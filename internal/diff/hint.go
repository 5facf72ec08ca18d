package diff

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// HintKind classifies a segment of a character-level hint.
type HintKind int

const (
	// HintKeep is text the typed word shares with the expected word.
	HintKeep HintKind = iota
	// HintDrop is text that was typed but does not belong.
	HintDrop
	// HintAdd is text that should have been typed.
	HintAdd
)

// HintSegment is a run of characters within a hint.
type HintSegment struct {
	Kind HintKind
	Text string
}

// Hint compares a typed word with the expected word character by character.
// It is meant for display of incorrect ops; scoring never looks at it.
func Hint(expected, got string) []HintSegment {
	if expected == got {
		return []HintSegment{{Kind: HintKeep, Text: expected}}
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(got, expected, false))

	segments := make([]HintSegment, 0, len(diffs))
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			segments = append(segments, HintSegment{Kind: HintKeep, Text: d.Text})
		case diffmatchpatch.DiffDelete:
			segments = append(segments, HintSegment{Kind: HintDrop, Text: d.Text})
		case diffmatchpatch.DiffInsert:
			segments = append(segments, HintSegment{Kind: HintAdd, Text: d.Text})
		}
	}
	return segments
}
