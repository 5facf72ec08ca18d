package notebook

import (
	"errors"
	"fmt"
	"strings"
)

// Kind tells what an Item was made from.
type Kind string

const (
	KindDefinition Kind = "definition"
	KindQA         Kind = "qa"
)

func (k Kind) Valid() bool {
	switch k {
	case KindDefinition, KindQA:
		return true
	default:
		return false
	}
}

// Item is a single quizzable unit flattened out of the subject tree.
type Item struct {
	ID           string   `json:"itemId" yaml:"item_id"`
	Kind         Kind     `json:"type" yaml:"kind"`
	Prompt       string   `json:"prompt" yaml:"prompt"`
	Answer       string   `json:"answer" yaml:"answer"`
	ChapterID    string   `json:"chId" yaml:"chapter_id"`
	ChapterLabel string   `json:"chName" yaml:"chapter_label"`
	SubjectLabel string   `json:"subName" yaml:"subject_label"`
	Tags         []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

var (
	errMissingID     = errors.New("item has no id")
	errMissingPrompt = errors.New("item has no prompt")
	errMissingAnswer = errors.New("item has no reference answer")
)

// Validate reports data that makes an item unusable in a quiz.
func (i Item) Validate() error {
	switch {
	case !i.Kind.Valid():
		return fmt.Errorf("item %s has unknown kind %q", i.ID, i.Kind)
	case strings.TrimSpace(i.ID) == "":
		return errMissingID
	case strings.TrimSpace(i.Prompt) == "":
		return fmt.Errorf("%s: %w", i.ID, errMissingPrompt)
	case strings.TrimSpace(i.Answer) == "":
		return fmt.Errorf("%s: %w", i.ID, errMissingAnswer)
	}
	return nil
}

// PromptLabel is the heading shown above the prompt.
func (i Item) PromptLabel() string {
	switch i.Kind {
	case KindDefinition:
		return "Define"
	case KindQA:
		return "Question"
	default:
		return "Prompt"
	}
}

// FrontLabel and BackLabel name the two sides of a flashcard.
func (i Item) FrontLabel() string {
	if i.Kind == KindDefinition {
		return "Term"
	}
	return "Question"
}

func (i Item) BackLabel() string {
	if i.Kind == KindDefinition {
		return "Definition"
	}
	return "Answer"
}

// Location is "Subject → Chapter", or just the chapter when there is no subject.
func (i Item) Location() string {
	if i.SubjectLabel == "" {
		return i.ChapterLabel
	}
	return i.SubjectLabel + " → " + i.ChapterLabel
}

func definitionItem(ref ChapterRef, d Definition) Item {
	return Item{
		ID:           d.ID,
		Kind:         KindDefinition,
		Prompt:       d.Term,
		Answer:       d.Definition,
		ChapterID:    ref.ID,
		ChapterLabel: ref.Name,
		SubjectLabel: ref.SubjectName,
		Tags:         d.Tags,
	}
}

func qaItem(ref ChapterRef, q QA) Item {
	return Item{
		ID:           q.ID,
		Kind:         KindQA,
		Prompt:       q.Question,
		Answer:       q.Answer,
		ChapterID:    ref.ID,
		ChapterLabel: ref.Name,
		SubjectLabel: ref.SubjectName,
		Tags:         q.Tags,
	}
}

// Items lists every definition and Q&A pair, chapter by chapter,
// definitions before Q&A pairs.
func (n *Notebook) Items() []Item {
	var items []Item
	for _, ref := range n.Chapters() {
		for _, d := range ref.Definitions {
			items = append(items, definitionItem(ref, d))
		}
		for _, q := range ref.QA {
			items = append(items, qaItem(ref, q))
		}
	}
	return items
}

// FindItem looks an item up by id. It returns ErrNotFound once an item has been deleted.
func (n *Notebook) FindItem(id string) (Item, error) {
	for _, ref := range n.Chapters() {
		for _, d := range ref.Definitions {
			if d.ID == id {
				return definitionItem(ref, d), nil
			}
		}
		for _, q := range ref.QA {
			if q.ID == id {
				return qaItem(ref, q), nil
			}
		}
	}
	return Item{}, fmt.Errorf("item %s: %w", id, ErrNotFound)
}

// Exists reports whether an item is still in the notebook.
func (n *Notebook) Exists(id string) bool {
	_, err := n.FindItem(id)
	return err == nil
}

// Scope selects which items of the chosen chapters go into a test.
type Scope string

const (
	ScopeAll         Scope = "all"
	ScopeAllQA       Scope = "all-qa"
	ScopeDefinitions Scope = "all-def"
	ScopeSpecific    Scope = "specific"
	ScopeDue         Scope = "due"
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeAll, ScopeAllQA, ScopeDefinitions, ScopeSpecific, ScopeDue:
		return true
	default:
		return false
	}
}

// Select returns the items of the given chapters that match scope.
// For ScopeAll the Q&A pairs of a chapter come before its definitions.
// ScopeSpecific returns the single item itemID. ScopeDue cannot be answered
// from the notebook alone; callers combine Items with review states instead.
func (n *Notebook) Select(scope Scope, chapterIDs []string, itemID string) ([]Item, error) {
	switch scope {
	case ScopeSpecific:
		item, err := n.FindItem(itemID)
		if err != nil {
			return nil, err
		}
		return []Item{item}, nil
	case ScopeAll, ScopeAllQA, ScopeDefinitions:
	case ScopeDue:
		return nil, fmt.Errorf("scope %q is resolved from review states", scope)
	default:
		return nil, fmt.Errorf("unknown scope %q", scope)
	}

	var items []Item
	for _, id := range chapterIDs {
		ref, err := n.Chapter(id)
		if err != nil {
			// A chapter deleted since it was picked is skipped.
			continue
		}
		if scope == ScopeAll || scope == ScopeAllQA {
			for _, q := range ref.QA {
				items = append(items, qaItem(ref, q))
			}
		}
		if scope == ScopeAll || scope == ScopeDefinitions {
			for _, d := range ref.Definitions {
				items = append(items, definitionItem(ref, d))
			}
		}
	}
	return items, nil
}

// ChapterIDs lists the ids of every chapter.
func (n *Notebook) ChapterIDs() []string {
	var ids []string
	for _, ref := range n.Chapters() {
		ids = append(ids, ref.ID)
	}
	return ids
}

// Search finds items whose prompt or answer contains query, ignoring case.
func (n *Notebook) Search(query string) []Item {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var results []Item
	for _, item := range n.Items() {
		if strings.Contains(strings.ToLower(item.Prompt), query) ||
			strings.Contains(strings.ToLower(item.Answer), query) {
			results = append(results, item)
		}
	}
	return results
}

// Filter keeps the items carrying tag. An empty tag keeps everything.
func Filter(items []Item, tag string) []Item {
	if tag == "" {
		return items
	}
	var filtered []Item
	for _, item := range items {
		for _, t := range item.Tags {
			if t == tag {
				filtered = append(filtered, item)
				break
			}
		}
	}
	return filtered
}
