// Package notebook holds the user's study material: subjects, their chapters
// and the definitions and question/answer pairs inside them.
package notebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const DefaultSubjectColor = "#8b5cf6"

// SubjectColors is the palette new subjects cycle through.
var SubjectColors = []string{"#8b5cf6", "#06b6d4", "#ec4899", "#f59e0b", "#10b981", "#f87171", "#3b82f6", "#a855f7"}

var ErrNotFound = errors.New("not found")

type Subject struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Color    string    `json:"color" yaml:"color"`
	Chapters []Chapter `json:"chapters" yaml:"chapters"`
}

type Chapter struct {
	ID          string        `json:"id" yaml:"id"`
	Number      ChapterNumber `json:"number" yaml:"number"`
	Name        string        `json:"name" yaml:"name"`
	Notes       string        `json:"notes" yaml:"notes"`
	Definitions []Definition  `json:"definitions" yaml:"definitions"`
	QA          []QA          `json:"qa" yaml:"qa"`
}

type Definition struct {
	ID         string   `json:"id" yaml:"id"`
	Term       string   `json:"term" yaml:"term"`
	Definition string   `json:"definition" yaml:"definition"`
	Tags       []string `json:"tags" yaml:"tags"`
}

type QA struct {
	ID       string   `json:"id" yaml:"id"`
	Question string   `json:"question" yaml:"question"`
	Answer   string   `json:"answer" yaml:"answer"`
	Tags     []string `json:"tags" yaml:"tags"`
}

// ChapterNumber is the user-facing chapter number. Older exports stored it
// as a JSON number and newer ones as a string, so both are accepted.
type ChapterNumber string

func (n *ChapterNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = ChapterNumber(s)
		return nil
	}
	var f json.Number
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("chapter number %s > %w", string(data), err)
	}
	*n = ChapterNumber(f.String())
	return nil
}

// Notebook is the whole subject tree.
type Notebook struct {
	Subjects []Subject
}

func New(subjects []Subject) *Notebook {
	return &Notebook{Subjects: subjects}
}

func newID() string {
	return uuid.NewString()
}

// ChapterRef is a chapter together with the subject it belongs to.
type ChapterRef struct {
	SubjectID   string
	SubjectName string
	*Chapter
}

// Chapters flattens every chapter of every subject, in order.
func (n *Notebook) Chapters() []ChapterRef {
	var refs []ChapterRef
	for i := range n.Subjects {
		subject := &n.Subjects[i]
		for j := range subject.Chapters {
			refs = append(refs, ChapterRef{
				SubjectID:   subject.ID,
				SubjectName: subject.Name,
				Chapter:     &subject.Chapters[j],
			})
		}
	}
	return refs
}

func (n *Notebook) Subject(id string) (*Subject, error) {
	for i := range n.Subjects {
		if n.Subjects[i].ID == id {
			return &n.Subjects[i], nil
		}
	}
	return nil, fmt.Errorf("subject %s: %w", id, ErrNotFound)
}

func (n *Notebook) Chapter(id string) (ChapterRef, error) {
	for _, ref := range n.Chapters() {
		if ref.ID == id {
			return ref, nil
		}
	}
	return ChapterRef{}, fmt.Errorf("chapter %s: %w", id, ErrNotFound)
}

// AddSubject appends a subject. An empty color picks the next palette color.
func (n *Notebook) AddSubject(name, color string) Subject {
	if color == "" {
		color = SubjectColors[len(n.Subjects)%len(SubjectColors)]
	}
	subject := Subject{
		ID:       newID(),
		Name:     strings.TrimSpace(name),
		Color:    color,
		Chapters: []Chapter{},
	}
	n.Subjects = append(n.Subjects, subject)
	return subject
}

func (n *Notebook) AddChapter(subjectID, number, name string) (Chapter, error) {
	subject, err := n.Subject(subjectID)
	if err != nil {
		return Chapter{}, err
	}
	if number == "" {
		number = strconv.Itoa(len(subject.Chapters) + 1)
	}
	chapter := Chapter{
		ID:          newID(),
		Number:      ChapterNumber(number),
		Name:        strings.TrimSpace(name),
		Definitions: []Definition{},
		QA:          []QA{},
	}
	subject.Chapters = append(subject.Chapters, chapter)
	return chapter, nil
}

func (n *Notebook) AddDefinition(chapterID, term, definition string, tags []string) (Definition, error) {
	ref, err := n.Chapter(chapterID)
	if err != nil {
		return Definition{}, err
	}
	d := Definition{
		ID:         newID(),
		Term:       strings.TrimSpace(term),
		Definition: strings.TrimSpace(definition),
		Tags:       nonNil(tags),
	}
	ref.Definitions = append(ref.Definitions, d)
	return d, nil
}

func (n *Notebook) AddQA(chapterID, question, answer string, tags []string) (QA, error) {
	ref, err := n.Chapter(chapterID)
	if err != nil {
		return QA{}, err
	}
	qa := QA{
		ID:       newID(),
		Question: strings.TrimSpace(question),
		Answer:   strings.TrimSpace(answer),
		Tags:     nonNil(tags),
	}
	ref.QA = append(ref.QA, qa)
	return qa, nil
}

// DeleteItem removes a definition or a Q&A pair by id.
func (n *Notebook) DeleteItem(id string) error {
	for _, ref := range n.Chapters() {
		for i, d := range ref.Definitions {
			if d.ID == id {
				ref.Definitions = append(ref.Definitions[:i], ref.Definitions[i+1:]...)
				return nil
			}
		}
		for i, q := range ref.QA {
			if q.ID == id {
				ref.QA = append(ref.QA[:i], ref.QA[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("item %s: %w", id, ErrNotFound)
}

func (n *Notebook) DeleteChapter(id string) error {
	for i := range n.Subjects {
		subject := &n.Subjects[i]
		for j, ch := range subject.Chapters {
			if ch.ID == id {
				subject.Chapters = append(subject.Chapters[:j], subject.Chapters[j+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("chapter %s: %w", id, ErrNotFound)
}

func (n *Notebook) DeleteSubject(id string) error {
	for i, s := range n.Subjects {
		if s.ID == id {
			n.Subjects = append(n.Subjects[:i], n.Subjects[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("subject %s: %w", id, ErrNotFound)
}

// Normalize fills fields that older data may lack and reports whether anything changed.
func Normalize(subjects []Subject) bool {
	changed := false
	for i := range subjects {
		subject := &subjects[i]
		if subject.Color == "" {
			subject.Color = DefaultSubjectColor
			changed = true
		}
		if subject.Chapters == nil {
			subject.Chapters = []Chapter{}
			changed = true
		}
		for j := range subject.Chapters {
			if normalizeChapter(&subject.Chapters[j]) {
				changed = true
			}
		}
	}
	return changed
}

func normalizeChapter(ch *Chapter) bool {
	changed := false
	if ch.Definitions == nil {
		ch.Definitions = []Definition{}
		changed = true
	}
	if ch.QA == nil {
		ch.QA = []QA{}
		changed = true
	}
	for k := range ch.Definitions {
		if ch.Definitions[k].Tags == nil {
			ch.Definitions[k].Tags = []string{}
			changed = true
		}
	}
	for k := range ch.QA {
		if ch.QA[k].Tags == nil {
			ch.QA[k].Tags = []string{}
			changed = true
		}
	}
	return changed
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
