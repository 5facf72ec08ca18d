package learning

import (
	"sort"
	"time"

	"github.com/Satvik374/Study-App/internal/notebook"
)

// ReviewState is the scheduling data of one item.
type ReviewState struct {
	EaseFactor   float64   `json:"easeFactor" yaml:"ease_factor"`
	Interval     int       `json:"interval" yaml:"interval"`
	Repetitions  int       `json:"repetitions" yaml:"repetitions"`
	NextReviewAt time.Time `json:"nextReviewAt" yaml:"next_review_at"`
}

// NewReviewState is the state of an item that was never reviewed.
// It is due immediately.
func NewReviewState() ReviewState {
	return ReviewState{
		EaseFactor:   DefaultEasinessFactor,
		Interval:     1,
		Repetitions:  0,
		NextReviewAt: time.Unix(0, 0).UTC(),
	}
}

// Valid reports whether the state could have been produced by Review.
func (s ReviewState) Valid() bool {
	return s.EaseFactor >= MinEasinessFactor && s.Interval >= 1 && s.Repetitions >= 0
}

func (s ReviewState) IsDue(now time.Time) bool {
	return !s.NextReviewAt.After(now)
}

// Review returns the state after answering with the given quality.
// A nil state is treated as never reviewed.
func Review(state *ReviewState, quality int, now time.Time) (ReviewState, error) {
	if err := validateQuality(quality); err != nil {
		return ReviewState{}, err
	}

	next := NewReviewState()
	if state != nil {
		next = *state
	}

	if quality >= PassingQuality {
		next.Repetitions++
	} else {
		next.Repetitions = 0
	}
	next.Interval = CalculateNextInterval(next.Interval, next.EaseFactor, quality, next.Repetitions)
	next.EaseFactor = UpdateEasinessFactor(next.EaseFactor, quality)
	next.NextReviewAt = now.Add(time.Duration(next.Interval) * 24 * time.Hour)
	return next, nil
}

// ReviewStates maps item ids to their state.
type ReviewStates map[string]ReviewState

// Sanitize drops entries that are not valid states and returns their ids, sorted.
func (s ReviewStates) Sanitize() []string {
	var dropped []string
	for id, state := range s {
		if !state.Valid() {
			delete(s, id)
			dropped = append(dropped, id)
		}
	}
	sort.Strings(dropped)
	return dropped
}

// IDs lists the item ids with a state, sorted.
func (s ReviewStates) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DueItems keeps the items that were never reviewed or whose next review is not after now.
func DueItems(items []notebook.Item, states ReviewStates, now time.Time) []notebook.Item {
	due := make([]notebook.Item, 0, len(items))
	for _, item := range items {
		state, ok := states[item.ID]
		if !ok || state.IsDue(now) {
			due = append(due, item)
		}
	}
	return due
}
