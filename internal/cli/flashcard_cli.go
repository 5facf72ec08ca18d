package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Satvik374/Study-App/internal/session"
)

// FlashcardCLI shows cards one at a time and lets the user rate them.
type FlashcardCLI struct {
	*InteractiveQuizCLI
	quiz Quiz
}

func NewFlashcardCLI(base *InteractiveQuizCLI, quiz Quiz) *FlashcardCLI {
	return &FlashcardCLI{
		InteractiveQuizCLI: base,
		quiz:               quiz,
	}
}

func (r *FlashcardCLI) Session(ctx context.Context) error {
	question, err := r.quiz.Current()
	if errors.Is(err, session.ErrNoQuestionsLeft) {
		return r.finish()
	}
	if err != nil {
		return fmt.Errorf("quiz.Current() > %w", err)
	}

	item := question.Item
	r.printf("\n%s\n", r.bold.Sprintf("Card %d of %d · %s", question.Number, question.Total, item.Location()))
	r.printf("%s: %s\n", item.FrontLabel(), r.italic.Sprint(item.Prompt))
	r.printf("Press Enter to flip")
	if _, err := r.read(); err != nil {
		return err
	}
	r.printf("%s: %s\n", item.BackLabel(), item.Answer)

	for {
		r.printf("[h]ard, [e]asy, [p]revious, [n]ext, [q]uit: ")
		line, err := r.read()
		if err != nil {
			return err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "h", "hard":
			return r.rate(ctx, session.RatingHard)
		case "e", "easy":
			return r.rate(ctx, session.RatingEasy)
		case "p", "previous":
			err := r.quiz.Previous()
			if errors.Is(err, session.ErrNoPreviousCard) {
				r.printf("This is the first card.\n")
				continue
			}
			if err != nil {
				return fmt.Errorf("quiz.Previous() > %w", err)
			}
			return nil
		case "n", "next", "":
			if err := r.quiz.Advance(); err != nil {
				return fmt.Errorf("quiz.Advance() > %w", err)
			}
			return nil
		case "q", "quit":
			r.quiz.Abandon()
			return errEnd
		default:
			r.printf("Unknown choice %q\n", line)
		}
	}
}

func (r *FlashcardCLI) read() (string, error) {
	line, err := r.readLine()
	if errors.Is(err, io.EOF) {
		r.quiz.Abandon()
		return "", errEnd
	}
	if err != nil {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return line, nil
}

func (r *FlashcardCLI) rate(ctx context.Context, rating session.Rating) error {
	if err := r.quiz.RateCard(ctx, rating); err != nil {
		return fmt.Errorf("quiz.RateCard(%d) > %w", rating, err)
	}
	return nil
}

func (r *FlashcardCLI) finish() error {
	summary, err := r.quiz.Finish()
	if err != nil {
		return fmt.Errorf("quiz.Finish() > %w", err)
	}
	r.printf("\n%s\n", r.bold.Sprintf("You reviewed %d cards", summary.Reviewed))
	return errEnd
}
