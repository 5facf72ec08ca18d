package session

import (
	"context"
	"fmt"

	"github.com/Satvik374/Study-App/internal/learning"
)

// Rating is how the user judged a flashcard. Its value is the review quality.
type Rating int

const (
	RatingHard Rating = 1
	RatingEasy Rating = 5
)

func (r Rating) Valid() bool {
	return r == RatingHard || r == RatingEasy
}

// RateCard records a rating for the current card and moves to the next one.
func (s *Session) RateCard(ctx context.Context, rating Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.active(); err != nil {
		return err
	}
	if s.opts.Mode != ModeFlashcard || s.phase != phaseQuestion {
		return ErrWrongPhase
	}
	if !rating.Valid() {
		return fmt.Errorf("rating %d > %w", rating, learning.ErrInvalidQuality)
	}

	s.schedule(ctx, s.queue[s.index].ID, int(rating))
	return s.nextCard()
}

// Previous goes back one card without changing any rating.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.active(); err != nil {
		return err
	}
	if s.opts.Mode != ModeFlashcard {
		return ErrWrongPhase
	}
	if s.index == 0 {
		return ErrNoPreviousCard
	}
	s.index--
	s.phase = phaseQuestion
	return nil
}

func (s *Session) nextCard() error {
	if s.phase != phaseQuestion {
		return ErrWrongPhase
	}
	if s.index >= len(s.queue)-1 {
		s.phase = phaseComplete
		return nil
	}
	s.index++
	return nil
}
