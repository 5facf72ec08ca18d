package diff

import (
	"fmt"
	"strings"
)

// OpKind is the variant tag of an Op.
type OpKind string

const (
	OpEqual     OpKind = "equal"
	OpIncorrect OpKind = "incorrect"
	OpMissing   OpKind = "missing"
	OpExtra     OpKind = "extra"
)

// Op is one step of an alignment between a reference and a candidate.
//
// Which fields are set depends on Kind:
//   - OpEqual: Word
//   - OpIncorrect: Expected, Got
//   - OpMissing: Expected
//   - OpExtra: Got
type Op struct {
	Kind     OpKind `json:"type" yaml:"type"`
	Word     string `json:"word,omitempty" yaml:"word,omitempty"`
	Expected string `json:"expected,omitempty" yaml:"expected,omitempty"`
	Got      string `json:"got,omitempty" yaml:"got,omitempty"`
}

func Equal(word string) Op {
	return Op{Kind: OpEqual, Word: word}
}

func Incorrect(expected, got string) Op {
	return Op{Kind: OpIncorrect, Expected: expected, Got: got}
}

func Missing(expected string) Op {
	return Op{Kind: OpMissing, Expected: expected}
}

func Extra(got string) Op {
	return Op{Kind: OpExtra, Got: got}
}

// ReferenceToken returns the reference token this op stands for.
// ok is false for OpExtra, which consumes no reference token.
func (op Op) ReferenceToken() (token string, ok bool) {
	switch op.Kind {
	case OpEqual:
		return op.Word, true
	case OpIncorrect, OpMissing:
		return op.Expected, true
	case OpExtra:
		return "", false
	default:
		panic(fmt.Sprintf("diff: unknown op kind %q", op.Kind))
	}
}

func (op Op) String() string {
	switch op.Kind {
	case OpEqual:
		return fmt.Sprintf("equal(%s)", op.Word)
	case OpIncorrect:
		return fmt.Sprintf("incorrect(expected=%s,got=%s)", op.Expected, op.Got)
	case OpMissing:
		return fmt.Sprintf("missing(%s)", op.Expected)
	case OpExtra:
		return fmt.Sprintf("extra(%s)", op.Got)
	default:
		return fmt.Sprintf("unknown(%s)", op.Kind)
	}
}

// Result is the outcome of aligning a candidate answer with a reference.
type Result struct {
	Ops   []Op    `json:"ops" yaml:"ops"`
	Score float64 `json:"score" yaml:"score"`
}

// IsPerfect reports whether every reference token was matched.
func (r Result) IsPerfect() bool {
	return r.Score >= 1
}

// Reference rebuilds the reference token sequence from the ops.
func (r Result) Reference() []string {
	tokens := make([]string, 0, len(r.Ops))
	for _, op := range r.Ops {
		if token, ok := op.ReferenceToken(); ok {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func (r Result) String() string {
	parts := make([]string, len(r.Ops))
	for i, op := range r.Ops {
		parts[i] = op.String()
	}
	return fmt.Sprintf("[%s] score=%.4f", strings.Join(parts, ", "), r.Score)
}

// Align computes a case-insensitive longest-common-subsequence alignment of
// the candidate against the reference and scores it.
//
// The score is the number of equal ops divided by the number of reference
// tokens, or 1 when the reference is empty. Extra candidate tokens show up in
// the ops but never lower the score.
func Align(reference, candidate string) Result {
	ref := Tokenize(reference)
	cand := Tokenize(candidate)
	table := lcsTable(ref, cand)

	raw := make([]Op, 0, len(ref)+len(cand))
	i, j := len(ref), len(cand)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && equalFold(ref[i-1], cand[j-1]):
			raw = append(raw, Equal(ref[i-1]))
			i--
			j--
		// On a tie the candidate token is consumed first.
		case j > 0 && (i == 0 || table[i][j-1] >= table[i-1][j]):
			raw = append(raw, Extra(cand[j-1]))
			j--
		default:
			raw = append(raw, Missing(ref[i-1]))
			i--
		}
	}
	reverse(raw)

	ops := mergeSubstitutions(raw)
	return Result{
		Ops:   ops,
		Score: score(ops, len(ref)),
	}
}

func lcsTable(a, b []string) [][]int {
	table := make([][]int, len(a)+1)
	for i := range table {
		table[i] = make([]int, len(b)+1)
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if equalFold(a[i-1], b[j-1]) {
				table[i][j] = table[i-1][j-1] + 1
				continue
			}
			table[i][j] = max(table[i-1][j], table[i][j-1])
		}
	}
	return table
}

// mergeSubstitutions folds a missing op next to an extra op, in either
// order, into one incorrect op.
func mergeSubstitutions(raw []Op) []Op {
	merged := make([]Op, 0, len(raw))
	for k := 0; k < len(raw); k++ {
		if k+1 < len(raw) {
			current, next := raw[k], raw[k+1]
			if current.Kind == OpMissing && next.Kind == OpExtra {
				merged = append(merged, Incorrect(current.Expected, next.Got))
				k++
				continue
			}
			if current.Kind == OpExtra && next.Kind == OpMissing {
				merged = append(merged, Incorrect(next.Expected, current.Got))
				k++
				continue
			}
		}
		merged = append(merged, raw[k])
	}
	return merged
}

func score(ops []Op, referenceLen int) float64 {
	if referenceLen == 0 {
		return 1
	}
	equal := 0
	for _, op := range ops {
		if op.Kind == OpEqual {
			equal++
		}
	}
	return float64(equal) / float64(referenceLen)
}

func reverse(ops []Op) {
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
}
