package learning

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Satvik374/Study-App/internal/notebook"
)

// ReviewStore persists review states.
type ReviewStore interface {
	LoadReviewStates(ctx context.Context) (ReviewStates, error)
	SaveReviewStates(ctx context.Context, states ReviewStates) error
}

// Scheduler updates review states and persists them after every review.
type Scheduler struct {
	store ReviewStore
	now   func() time.Time
	mu    sync.Mutex
}

func NewScheduler(store ReviewStore, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		store: store,
		now:   now,
	}
}

// Update reviews one item and saves the new state.
func (s *Scheduler) Update(ctx context.Context, itemID string, quality int) (ReviewState, error) {
	if err := validateQuality(quality); err != nil {
		return ReviewState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	states, err := s.store.LoadReviewStates(ctx)
	if err != nil {
		return ReviewState{}, fmt.Errorf("store.LoadReviewStates() > %w", err)
	}
	if states == nil {
		states = make(ReviewStates)
	}

	var previous *ReviewState
	if state, ok := states[itemID]; ok {
		previous = &state
	}
	next, err := Review(previous, quality, s.now())
	if err != nil {
		return ReviewState{}, err
	}
	states[itemID] = next

	if err := s.store.SaveReviewStates(ctx, states); err != nil {
		return ReviewState{}, fmt.Errorf("store.SaveReviewStates() > %w", err)
	}
	return next, nil
}

// Due returns the items that are due now.
func (s *Scheduler) Due(ctx context.Context, items []notebook.Item) ([]notebook.Item, error) {
	states, err := s.store.LoadReviewStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.LoadReviewStates() > %w", err)
	}
	return DueItems(items, states, s.now()), nil
}
