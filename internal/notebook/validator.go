package notebook

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Location    string
	Message     string
	Severity    string // "error" or "warning"
	Suggestions []string
}

func (e ValidationError) Error() string {
	msg := e.Message
	if e.Location != "" {
		msg = fmt.Sprintf("%s: %s", e.Location, e.Message)
	}
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" [Suggestion: %s]", strings.Join(e.Suggestions, "; "))
	}
	return msg
}

// ValidationResult contains all validation errors grouped by type
type ValidationResult struct {
	ContentErrors     []ValidationError
	ConsistencyErrors []ValidationError
	Warnings          []ValidationError
}

func (r *ValidationResult) HasErrors() bool {
	return len(r.ContentErrors) > 0 || len(r.ConsistencyErrors) > 0
}

func (r *ValidationResult) AddError(category string, err ValidationError) {
	err.Severity = "error"
	switch category {
	case "content":
		r.ContentErrors = append(r.ContentErrors, err)
	case "consistency":
		r.ConsistencyErrors = append(r.ConsistencyErrors, err)
	}
}

func (r *ValidationResult) AddWarning(err ValidationError) {
	err.Severity = "warning"
	r.Warnings = append(r.Warnings, err)
}

// Validator checks a notebook for data a quiz cannot use, and review
// states that point at items which no longer exist.
type Validator struct {
	notebook *Notebook
	// reviewedIDs are the item ids that have a stored review state
	reviewedIDs []string
}

func NewValidator(notebook *Notebook, reviewedIDs []string) *Validator {
	return &Validator{
		notebook:    notebook,
		reviewedIDs: reviewedIDs,
	}
}

func (v *Validator) Validate() *ValidationResult {
	result := &ValidationResult{}
	v.validateContent(result)
	v.validateConsistency(result)
	return result
}

func (v *Validator) validateContent(result *ValidationResult) {
	for _, subject := range v.notebook.Subjects {
		if strings.TrimSpace(subject.Name) == "" {
			result.AddWarning(ValidationError{
				Location: "subject " + subject.ID,
				Message:  "subject has no name",
			})
		}
	}

	for _, ref := range v.notebook.Chapters() {
		location := fmt.Sprintf("%s → %s", ref.SubjectName, ref.Name)
		if strings.TrimSpace(ref.Name) == "" {
			result.AddWarning(ValidationError{
				Location: "chapter " + ref.ID,
				Message:  "chapter has no name",
			})
		}
		if len(ref.Definitions) == 0 && len(ref.QA) == 0 {
			result.AddWarning(ValidationError{
				Location: location,
				Message:  "chapter has nothing to quiz",
			})
		}
	}

	for _, item := range v.notebook.Items() {
		if err := item.Validate(); err != nil {
			result.AddError("content", ValidationError{
				Location:    item.Location(),
				Message:     err.Error(),
				Suggestions: []string{fmt.Sprintf("edit or delete item %s", item.ID)},
			})
		}
	}
}

func (v *Validator) validateConsistency(result *ValidationResult) {
	seen := make(map[string]string)
	record := func(id, what string) {
		if id == "" {
			return
		}
		if previous, ok := seen[id]; ok {
			result.AddError("consistency", ValidationError{
				Location: what,
				Message:  fmt.Sprintf("id %s is also used by %s", id, previous),
			})
			return
		}
		seen[id] = what
	}

	for _, subject := range v.notebook.Subjects {
		record(subject.ID, "subject "+subject.Name)
		for _, ch := range subject.Chapters {
			record(ch.ID, "chapter "+ch.Name)
			for _, d := range ch.Definitions {
				record(d.ID, "definition "+d.Term)
			}
			for _, q := range ch.QA {
				record(q.ID, "question "+q.Question)
			}
		}
	}

	orphans := make([]string, 0)
	for _, id := range v.reviewedIDs {
		if !v.notebook.Exists(id) {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		result.AddWarning(ValidationError{
			Location:    "review state " + id,
			Message:     "review state belongs to an item that no longer exists",
			Suggestions: []string{"it is ignored by quizzes and can be removed"},
		})
	}
}
