package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Satvik374/Study-App/internal/session"
	"github.com/Satvik374/Study-App/internal/statistics"
)

const quitCommand = "/quit"

// Quiz is the part of a test session the terminal drives.
type Quiz interface {
	Current() (session.Question, error)
	Submit(ctx context.Context, answer string) (session.Feedback, error)
	Feedback() (session.Feedback, error)
	Advance() error
	RateCard(ctx context.Context, rating session.Rating) error
	Previous() error
	Finish() (session.Summary, error)
	Abandon()
}

// QuizCLI asks the questions of a written or blanks session.
type QuizCLI struct {
	*InteractiveQuizCLI
	quiz         Quiz
	recorder     HistoryRecorder
	historyLimit int
	asked        int
}

func NewQuizCLI(base *InteractiveQuizCLI, quiz Quiz, recorder HistoryRecorder, historyLimit int) *QuizCLI {
	return &QuizCLI{
		InteractiveQuizCLI: base,
		quiz:               quiz,
		recorder:           recorder,
		historyLimit:       historyLimit,
	}
}

// NotifyTimeout is meant for session.Options.OnTimeout.
func (r *QuizCLI) NotifyTimeout(session.Feedback, error) {
	r.printf("\n%s Press Enter to see the answer.\n", r.warn.Sprint("⏰ Time's up!"))
}

func (r *QuizCLI) Session(ctx context.Context) error {
	question, err := r.quiz.Current()
	if errors.Is(err, session.ErrNoQuestionsLeft) {
		return r.finish(ctx)
	}
	if err != nil {
		return fmt.Errorf("quiz.Current() > %w", err)
	}

	r.asked++
	r.printf("\n%s\n", r.bold.Sprintf("Question %d · %s", r.asked, question.Item.Location()))
	if question.Item.Attempt > 1 {
		r.printf("%s\n", r.warn.Sprint("Asked again"))
	}
	if question.TimeLimit > 0 {
		r.printf("Time limit: %s\n", question.TimeLimit)
	}
	r.printf("%s: %s\n", question.Label(), r.italic.Sprint(question.Text()))

	feedback, err := r.answer(ctx, question)
	if err != nil {
		return err
	}
	r.showFeedback(feedback)

	if feedback.CanFinish {
		return r.finish(ctx)
	}
	if err := r.quiz.Advance(); err != nil {
		return fmt.Errorf("quiz.Advance() > %w", err)
	}
	return nil
}

// answer reads until an answer is scored, either typed or by the countdown.
func (r *QuizCLI) answer(ctx context.Context, question session.Question) (session.Feedback, error) {
	hint := "Your answer"
	if question.Item.Cloze != nil && len(question.Item.Cloze.Answers) > 1 {
		hint = "Your answers, separated by commas"
	}
	for {
		r.printf("%s: ", hint)
		line, err := r.readLine()
		if errors.Is(err, io.EOF) {
			r.quiz.Abandon()
			return session.Feedback{}, errEnd
		}
		if err != nil {
			return session.Feedback{}, fmt.Errorf("error reading input: %w", err)
		}

		if feedback, err := r.quiz.Feedback(); err == nil && feedback.TimedOut {
			return feedback, nil
		}
		if strings.TrimSpace(line) == quitCommand {
			r.quiz.Abandon()
			r.printf("Test abandoned. Nothing was recorded.\n")
			return session.Feedback{}, errEnd
		}

		feedback, err := r.quiz.Submit(ctx, line)
		switch {
		case errors.Is(err, session.ErrEmptyAnswer):
			r.printf("Please type an answer first.\n")
		case errors.Is(err, session.ErrWrongPhase):
			// the countdown expired while the answer was being typed
			return r.quiz.Feedback()
		case err != nil:
			return session.Feedback{}, fmt.Errorf("quiz.Submit() > %w", err)
		default:
			return feedback, nil
		}
	}
}

func (r *QuizCLI) showFeedback(feedback session.Feedback) {
	percent := statistics.Percent(feedback.Score)
	switch {
	case feedback.TimedOut:
		r.printf("%s\n", r.bad.Sprint("⏰ Time's up. Scored 0%"))
	case feedback.Result.IsPerfect():
		r.printf("%s\n", r.good.Sprintf("✅ Perfect! %d%%", percent))
	default:
		r.printf("%s\n", r.bad.Sprintf("❌ %d%% correct", percent))
		r.printf("Your answer: %s\n", r.renderDiff(feedback.Result))
	}

	if cloze := feedback.Item.Cloze; cloze != nil {
		labels := make([]string, 0, len(cloze.Answers))
		for _, blank := range cloze.Answers {
			labels = append(labels, blank.Label())
		}
		r.printf("Blanks: %s\n", strings.Join(labels, ", "))
		r.printf("Full text: %s\n", cloze.Original)
	} else {
		r.printf("Correct answer: %s\n", feedback.Item.Answer)
	}
	if feedback.Requeued {
		r.printf("%s\n", r.warn.Sprint("This one will be asked again at the end."))
	}
}

func (r *QuizCLI) finish(ctx context.Context) error {
	summary, err := r.quiz.Finish()
	if errors.Is(err, session.ErrNoAttempts) {
		r.printf("No answers were scored. Nothing was recorded.\n")
		return errEnd
	}
	if err != nil {
		return fmt.Errorf("quiz.Finish() > %w", err)
	}

	r.printf("\n%s\n", r.bold.Sprint("Test complete"))
	r.printf("Average score: %d%%\n", statistics.Percent(summary.AverageScore))
	r.printf("Items: %d, answers: %d, time: %s\n", summary.ItemCount, summary.Attempts, summary.Elapsed.Round(time.Second))

	if summary.History != nil && r.recorder != nil {
		if err := r.recorder.AppendHistory(ctx, *summary.History, r.historyLimit); err != nil {
			return fmt.Errorf("recorder.AppendHistory() > %w", err)
		}
	}
	return errEnd
}
