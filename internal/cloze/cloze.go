// Package cloze turns a reference answer into a fill-in-the-blanks prompt and grades answers to it.
package cloze

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Satvik374/Study-App/internal/diff"
)

const (
	// MaxBlanks is the most blanks a single prompt gets.
	MaxBlanks = 3
	// minCandidateLength is exclusive: a candidate must be longer than this.
	minCandidateLength = 3
)

var ErrNoBlanks = errors.New("no word in the reference text can be blanked")

var stopWords = func() map[string]struct{} {
	words := strings.Fields(`the a an is am are was were be been being have has had do does did will would
shall should may might can could of in to for on with at by from as into about between through after
before above below and or but nor not so yet both either neither each every all any few more most other
some such no only very`)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()

// IsStopWord reports whether word is too common to be worth blanking.
func IsStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}

// Blank ties a numbered blank back to the token it replaced.
type Blank struct {
	// Index is the position of the token in the tokenized reference text.
	Index int `json:"index" yaml:"index"`
	// Word is the correct value of the blank.
	Word string `json:"word" yaml:"word"`
	// Number is 1-based and follows the order of Index.
	Number int `json:"blankNum" yaml:"number"`
}

// Label is how the blank is shown next to its answer, e.g. "(2) chlorophyll".
func (b Blank) Label() string {
	return fmt.Sprintf("(%d) %s", b.Number, b.Word)
}

// Cloze is a reference text with some of its words replaced by numbered blanks.
type Cloze struct {
	Display  string  `json:"display" yaml:"display"`
	Answers  []Blank `json:"answers" yaml:"answers"`
	Original string  `json:"original" yaml:"original"`
}

type candidate struct {
	word   string
	index  int
	length int
}

// Generate picks up to MaxBlanks salient words of text and replaces them with
// "(n)____" markers.
//
// Words that are stop words or at most three characters long are skipped. If
// that leaves nothing, the length rule is dropped, and if that still leaves
// nothing every token becomes eligible. ErrNoBlanks is returned only when text
// has no tokens at all.
func Generate(text string) (Cloze, error) {
	words := diff.Tokenize(text)
	result := Cloze{
		Display:  strings.Join(words, " "),
		Answers:  []Blank{},
		Original: text,
	}
	if len(words) == 0 {
		return result, ErrNoBlanks
	}

	candidates := selectCandidates(words, func(w string, length int) bool {
		return !IsStopWord(w) && length > minCandidateLength
	})
	if len(candidates) == 0 {
		candidates = selectCandidates(words, func(w string, _ int) bool {
			return !IsStopWord(w)
		})
	}
	if len(candidates) == 0 {
		candidates = selectCandidates(words, func(string, int) bool {
			return true
		})
	}

	// Longest first; equal lengths keep their order in the text.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].length > candidates[j].length
	})
	picks := candidates[:blankCount(len(candidates))]
	sort.Slice(picks, func(i, j int) bool {
		return picks[i].index < picks[j].index
	})

	numbers := make(map[int]int, len(picks))
	for n, p := range picks {
		numbers[p.index] = n + 1
		result.Answers = append(result.Answers, Blank{
			Index:  p.index,
			Word:   p.word,
			Number: n + 1,
		})
	}

	display := make([]string, len(words))
	for i, w := range words {
		if n, ok := numbers[i]; ok {
			display[i] = Marker(n)
			continue
		}
		display[i] = w
	}
	result.Display = strings.Join(display, " ")
	return result, nil
}

// Marker is the placeholder shown for blank n.
func Marker(n int) string {
	return fmt.Sprintf("(%d)____", n)
}

func selectCandidates(words []string, keep func(word string, length int) bool) []candidate {
	var candidates []candidate
	for i, w := range words {
		length := utf8.RuneCountInString(w)
		if !keep(w, length) {
			continue
		}
		candidates = append(candidates, candidate{word: w, index: i, length: length})
	}
	return candidates
}

// blankCount is ceil(n/3) clamped to [1, MaxBlanks], or 0 when there are no candidates.
func blankCount(candidates int) int {
	if candidates == 0 {
		return 0
	}
	n := int(math.Ceil(float64(candidates) / 3))
	return max(1, min(MaxBlanks, n))
}
