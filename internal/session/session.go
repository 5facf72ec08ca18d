// Package session runs a test over a queue of notebook items. Written and
// blanks sessions score every answer and ask imperfect answers again at the
// end of the queue. Flashcard sessions let the user rate each card.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/Satvik374/Study-App/internal/cloze"
	"github.com/Satvik374/Study-App/internal/diff"
	"github.com/Satvik374/Study-App/internal/learning"
	"github.com/Satvik374/Study-App/internal/notebook"
)

var (
	ErrEmptyPool       = errors.New("no items to test")
	ErrEmptyAnswer     = errors.New("answer is empty")
	ErrInvalidMode     = errors.New("invalid session mode")
	ErrNotActive       = errors.New("session is not active")
	ErrWrongPhase      = errors.New("operation is not available now")
	ErrNoAttempts      = errors.New("no answers were scored")
	ErrNoPreviousCard  = errors.New("already at the first card")
	ErrNoQuestionsLeft = errors.New("no questions left")
)

type Mode string

const (
	ModeWritten   Mode = "written"
	ModeBlanks    Mode = "blanks"
	ModeFlashcard Mode = "flashcard"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeWritten, ModeBlanks, ModeFlashcard:
		return true
	default:
		return false
	}
}

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}

//go:generate mockgen -source=session.go -destination=../mocks/session/mock_scheduler.go -package=mock_session Scheduler

// Scheduler records the outcome of a review.
type Scheduler interface {
	Update(ctx context.Context, itemID string, quality int) (learning.ReviewState, error)
}

const DefaultTickInterval = time.Second

type Options struct {
	Mode Mode
	// TimeLimit is the time allowed per question. Zero disables the countdown.
	TimeLimit time.Duration
	Now       func() time.Time
	Rand      *rand.Rand
	// TickInterval is how often OnTick fires while a countdown runs.
	TickInterval time.Duration
	OnTick       func(remaining time.Duration)
	// OnTimeout receives the feedback of an answer submitted by an expired countdown.
	OnTimeout func(Feedback, error)
	// Exists reports whether an item is still in the notebook.
	Exists func(itemID string) bool
}

// QuizItem is an entry of the queue. Requeued entries are copies of the
// original with Attempt incremented.
type QuizItem struct {
	notebook.Item
	// Cloze is set in blanks mode when blanks could be generated for the answer.
	Cloze   *cloze.Cloze
	Attempt int
}

type Question struct {
	Item      QuizItem
	Number    int
	Total     int
	Mode      Mode
	TimeLimit time.Duration
}

// Text is what the user is asked.
func (q Question) Text() string {
	if q.Item.Cloze != nil {
		return q.Item.Cloze.Display
	}
	return q.Item.Prompt
}

// Label is the heading shown above Text.
func (q Question) Label() string {
	if q.Item.Cloze != nil {
		return "Fill in the blanks"
	}
	return q.Item.PromptLabel()
}

type Feedback struct {
	Item           QuizItem
	Result         diff.Result
	Score          float64
	Quality        int
	TimedOut       bool
	Requeued       bool
	IsLastQuestion bool
	CanFinish      bool
}

type Summary struct {
	Mode         Mode
	AverageScore float64
	Attempts     int
	ItemCount    int
	// Reviewed is the number of cards in a flashcard session.
	Reviewed int
	Elapsed  time.Duration
	// History is nil for flashcard sessions.
	History *learning.HistoryEntry
}

type phase int

const (
	phaseQuestion phase = iota
	phaseFeedback
	phaseComplete
	phaseFinished
	phaseAbandoned
)

type Session struct {
	mu        sync.Mutex
	opts      Options
	scheduler Scheduler

	queue     []QuizItem
	index     int
	poolSize  int
	scores    []float64
	phase     phase
	startedAt time.Time
	last      Feedback
	countdown *countdown
}

// Start shuffles pool into a new session. Items that cannot be quizzed are
// left out. In blanks mode the blanks of every item are generated here.
// scheduler may be nil, in which case no review state is recorded.
func Start(pool []notebook.Item, opts Options, scheduler Scheduler) (*Session, error) {
	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, opts.Mode)
	}
	if opts.TimeLimit < 0 {
		return nil, fmt.Errorf("negative time limit %s", opts.TimeLimit)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}

	queue := make([]QuizItem, 0, len(pool))
	for _, item := range pool {
		if err := item.Validate(); err != nil {
			slog.Warn("skip an item that cannot be quizzed", "item", item.ID, "error", err)
			continue
		}
		queue = append(queue, QuizItem{Item: item, Attempt: 1})
	}
	if len(queue) == 0 {
		return nil, ErrEmptyPool
	}

	shuffle := rand.Shuffle
	if opts.Rand != nil {
		shuffle = opts.Rand.Shuffle
	}
	shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})

	if opts.Mode == ModeBlanks {
		for i := range queue {
			c, err := cloze.Generate(queue[i].Answer)
			if err != nil {
				slog.Warn("no blanks for item, falling back to the written answer", "item", queue[i].ID, "error", err)
				continue
			}
			queue[i].Cloze = &c
		}
	}

	return &Session{
		opts:      opts,
		scheduler: scheduler,
		queue:     queue,
		poolSize:  len(queue),
		phase:     phaseQuestion,
		startedAt: opts.Now(),
	}, nil
}

func (s *Session) Mode() Mode {
	return s.opts.Mode
}

// Done reports whether every question has been handled and Finish is the only step left.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == phaseComplete
}

func (s *Session) active() error {
	switch s.phase {
	case phaseFinished, phaseAbandoned:
		return ErrNotActive
	}
	return nil
}

// Current returns the question to answer and starts its countdown.
// Items deleted from the notebook since the session started are skipped.
func (s *Session) Current() (Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.active(); err != nil {
		return Question{}, err
	}
	if s.phase == phaseComplete {
		return Question{}, ErrNoQuestionsLeft
	}
	if s.phase == phaseQuestion && !s.skipMissing() {
		return Question{}, ErrNoQuestionsLeft
	}

	if s.phase == phaseQuestion && s.opts.Mode != ModeFlashcard && s.opts.TimeLimit > 0 && s.countdown == nil {
		s.countdown = startCountdown(s.opts.TimeLimit, s.opts.TickInterval, s.opts.OnTick, s.expire)
	}
	return s.question(), nil
}

func (s *Session) question() Question {
	q := Question{
		Item:   s.queue[s.index],
		Number: s.index + 1,
		Total:  len(s.queue),
		Mode:   s.opts.Mode,
	}
	if s.opts.Mode != ModeFlashcard {
		q.TimeLimit = s.opts.TimeLimit
	}
	return q
}

// skipMissing moves past items that no longer exist. It reports false and
// completes the session when nothing is left.
func (s *Session) skipMissing() bool {
	if s.opts.Exists == nil {
		return true
	}
	for !s.opts.Exists(s.queue[s.index].ID) {
		slog.Warn("skip an item deleted during the session", "item", s.queue[s.index].ID)
		if s.index >= len(s.queue)-1 {
			s.phase = phaseComplete
			return false
		}
		s.index++
	}
	return true
}

// Submit scores an answer to the current question.
// An empty answer is rejected without changing anything.
func (s *Session) Submit(ctx context.Context, answer string) (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.active(); err != nil {
		return Feedback{}, err
	}
	if s.opts.Mode == ModeFlashcard || s.phase != phaseQuestion {
		return Feedback{}, ErrWrongPhase
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Feedback{}, ErrEmptyAnswer
	}
	s.stopCountdown()
	return s.submit(ctx, answer, false), nil
}

func (s *Session) submit(ctx context.Context, answer string, timedOut bool) Feedback {
	item := s.queue[s.index]

	var result diff.Result
	if item.Cloze != nil {
		result = cloze.Grade(item.Cloze.Answers, answer)
	} else {
		result = diff.Align(item.Answer, answer)
	}
	s.scores = append(s.scores, result.Score)

	quality := learning.QualityFromScore(result.Score)
	s.schedule(ctx, item.ID, quality)

	requeued := false
	if result.Score < 1 {
		retry := item
		retry.Attempt++
		s.queue = append(s.queue, retry)
		requeued = true
	}

	isLast := s.index >= len(s.queue)-1
	s.last = Feedback{
		Item:           item,
		Result:         result,
		Score:          result.Score,
		Quality:        quality,
		TimedOut:       timedOut,
		Requeued:       requeued,
		IsLastQuestion: isLast,
		CanFinish:      isLast || (len(s.queue) == 1 && result.Score >= 1),
	}
	s.phase = phaseFeedback
	return s.last
}

// schedule records a review. A failure to persist it does not stop the session.
func (s *Session) schedule(ctx context.Context, itemID string, quality int) {
	if s.scheduler == nil {
		return
	}
	if _, err := s.scheduler.Update(ctx, itemID, quality); err != nil {
		slog.Warn("failed to update the review schedule", "item", itemID, "quality", quality, "error", err)
	}
}

// expire submits an empty answer for the question the countdown c was started for.
func (s *Session) expire(c *countdown) {
	s.mu.Lock()
	if s.countdown != c || s.phase != phaseQuestion {
		s.mu.Unlock()
		return
	}
	s.countdown = nil
	feedback := s.submit(context.Background(), "", true)
	onTimeout := s.opts.OnTimeout
	s.mu.Unlock()

	if onTimeout != nil {
		onTimeout(feedback, nil)
	}
}

func (s *Session) stopCountdown() {
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
}

// Advance moves to the next question. For flashcards it moves to the next
// card without rating the current one.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.active(); err != nil {
		return err
	}
	if s.opts.Mode == ModeFlashcard {
		return s.nextCard()
	}
	if s.phase != phaseFeedback || s.last.IsLastQuestion {
		return ErrWrongPhase
	}
	s.index++
	s.phase = phaseQuestion
	return nil
}

// Feedback returns the feedback of the last answer while it is shown.
func (s *Session) Feedback() (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != phaseFeedback {
		return Feedback{}, ErrWrongPhase
	}
	return s.last, nil
}

// Finish ends the session and summarizes it. Written and blanks sessions can
// finish once the last answer allows it, flashcard sessions after the last card.
func (s *Session) Finish() (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.active(); err != nil {
		return Summary{}, err
	}
	s.stopCountdown()

	now := s.opts.Now()
	summary := Summary{
		Mode:      s.opts.Mode,
		ItemCount: s.poolSize,
		Elapsed:   now.Sub(s.startedAt),
	}

	if s.opts.Mode == ModeFlashcard {
		if s.phase != phaseComplete {
			return Summary{}, ErrWrongPhase
		}
		summary.Reviewed = len(s.queue)
		s.phase = phaseFinished
		return summary, nil
	}

	switch {
	case s.phase == phaseFeedback && s.last.CanFinish:
	case s.phase == phaseComplete:
	default:
		return Summary{}, ErrWrongPhase
	}
	if len(s.scores) == 0 {
		return Summary{}, ErrNoAttempts
	}

	total := 0.0
	for _, score := range s.scores {
		total += score
	}
	summary.AverageScore = total / float64(len(s.scores))
	summary.Attempts = len(s.scores)

	chapters := make([]string, 0, len(s.queue))
	for _, item := range s.queue {
		chapters = append(chapters, item.ChapterLabel)
	}
	entry := learning.NewHistoryEntry(string(s.opts.Mode), summary.AverageScore, s.poolSize, summary.Elapsed, chapters, now)
	summary.History = &entry

	s.phase = phaseFinished
	return summary, nil
}

// Abandon ends the session without a summary and cancels a running countdown.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopCountdown()
	if s.phase != phaseFinished {
		s.phase = phaseAbandoned
	}
}
