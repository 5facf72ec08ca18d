// Package server provides the Connect RPC handler of the study service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/Satvik374/Study-App/internal/api"
	"github.com/Satvik374/Study-App/internal/cloze"
	"github.com/Satvik374/Study-App/internal/config"
	"github.com/Satvik374/Study-App/internal/diff"
	"github.com/Satvik374/Study-App/internal/learning"
	"github.com/Satvik374/Study-App/internal/notebook"
	"github.com/Satvik374/Study-App/internal/session"
	"github.com/Satvik374/Study-App/internal/store"
)

// StudyHandler implements api.StudyServiceHandler. It runs at most one test
// session at a time; starting a new one abandons the previous one.
type StudyHandler struct {
	store        store.Store
	scheduler    *learning.Scheduler
	validator    *requestValidator
	historyLimit int
	now          func() time.Time
	rand         *rand.Rand

	mu        sync.Mutex
	sessionID string
	active    *session.Session
	// finished holds the summary of the active session until its history is stored.
	finished *session.Summary
}

var _ api.StudyServiceHandler = (*StudyHandler)(nil)

func NewStudyHandler(st store.Store, cfg config.QuizConfig) (*StudyHandler, error) {
	v, err := newRequestValidator()
	if err != nil {
		return nil, fmt.Errorf("newRequestValidator() > %w", err)
	}

	h := &StudyHandler{
		store:        st,
		validator:    v,
		historyLimit: cfg.HistoryLimit,
		now:          time.Now,
	}
	h.scheduler = learning.NewScheduler(st, func() time.Time { return h.now() })
	return h, nil
}

func (h *StudyHandler) ComputeDiff(
	ctx context.Context,
	req *connect.Request[api.ComputeDiffRequest],
) (*connect.Response[api.ComputeDiffResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}

	result := diff.Align(req.Msg.Reference, req.Msg.Candidate)
	return connect.NewResponse(&api.ComputeDiffResponse{
		Ops:   result.Ops,
		Score: result.Score,
	}), nil
}

func (h *StudyHandler) GenerateBlanks(
	ctx context.Context,
	req *connect.Request[api.GenerateBlanksRequest],
) (*connect.Response[api.GenerateBlanksResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}

	c, err := cloze.Generate(req.Msg.Text)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GenerateBlanksResponse{
		Display:  c.Display,
		Answers:  c.Answers,
		Original: c.Original,
	}), nil
}

func (h *StudyHandler) UpdateSchedule(
	ctx context.Context,
	req *connect.Request[api.UpdateScheduleRequest],
) (*connect.Response[api.UpdateScheduleResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}

	state, err := h.scheduler.Update(ctx, req.Msg.ItemID, req.Msg.Quality)
	if err != nil {
		return nil, toConnectError(fmt.Errorf("scheduler.Update(%s) > %w", req.Msg.ItemID, err))
	}
	return connect.NewResponse(&api.UpdateScheduleResponse{State: state}), nil
}

func (h *StudyHandler) ListDueItems(
	ctx context.Context,
	req *connect.Request[api.ListDueItemsRequest],
) (*connect.Response[api.ListDueItemsResponse], error) {
	subjects, err := h.store.LoadSubjects(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("store.LoadSubjects() > %w", err))
	}

	due, err := h.scheduler.Due(ctx, notebook.New(subjects).Items())
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.ListDueItemsResponse{
		Items: due,
		Count: len(due),
	}), nil
}

func (h *StudyHandler) StartSession(
	ctx context.Context,
	req *connect.Request[api.StartSessionRequest],
) (*connect.Response[api.StartSessionResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}
	mode, err := session.ParseMode(req.Msg.Mode)
	if err != nil {
		return nil, toConnectError(err)
	}

	nb, states, err := h.load(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	pool, err := session.SelectPool(nb, states, session.Selection{
		Scope:      notebook.Scope(req.Msg.Scope),
		ChapterIDs: req.Msg.ChapterIDs,
		ItemID:     req.Msg.ItemID,
		Tag:        req.Msg.Tag,
	}, h.now())
	if err != nil {
		return nil, toConnectError(err)
	}

	id := uuid.NewString()
	s, err := session.Start(pool, session.Options{
		Mode:      mode,
		TimeLimit: time.Duration(req.Msg.TimeLimitSeconds) * time.Second,
		Now:       h.now,
		Rand:      h.rand,
		Exists:    h.itemExists,
		OnTimeout: func(feedback session.Feedback, _ error) {
			slog.Info("question timed out", "session", id, "item", feedback.Item.ID)
		},
	}, h.scheduler)
	if err != nil {
		return nil, toConnectError(err)
	}
	question, err := s.Current()
	if err != nil {
		s.Abandon()
		return nil, toConnectError(err)
	}

	h.mu.Lock()
	if h.active != nil {
		slog.Info("abandon the previous session", "session", h.sessionID)
		h.active.Abandon()
	}
	h.sessionID, h.active, h.finished = id, s, nil
	h.mu.Unlock()

	return connect.NewResponse(&api.StartSessionResponse{
		SessionID: id,
		Question:  toQuestion(question),
	}), nil
}

func (h *StudyHandler) SubmitAnswer(
	ctx context.Context,
	req *connect.Request[api.SubmitAnswerRequest],
) (*connect.Response[api.SubmitAnswerResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}
	s, err := h.session(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}

	feedback, err := s.Submit(ctx, req.Msg.Answer)
	if errors.Is(err, session.ErrWrongPhase) {
		// the countdown answered first
		if last, lastErr := s.Feedback(); lastErr == nil && last.TimedOut {
			feedback, err = last, nil
		}
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SubmitAnswerResponse{Feedback: toFeedback(feedback)}), nil
}

func (h *StudyHandler) RateCard(
	ctx context.Context,
	req *connect.Request[api.RateCardRequest],
) (*connect.Response[api.NextResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}
	s, err := h.session(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}

	if err := s.RateCard(ctx, session.Rating(req.Msg.Rating)); err != nil {
		return nil, toConnectError(err)
	}
	return next(s)
}

func (h *StudyHandler) Advance(
	ctx context.Context,
	req *connect.Request[api.AdvanceRequest],
) (*connect.Response[api.NextResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}
	s, err := h.session(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}

	if err := s.Advance(); err != nil {
		return nil, toConnectError(err)
	}
	return next(s)
}

func (h *StudyHandler) FinishSession(
	ctx context.Context,
	req *connect.Request[api.FinishSessionRequest],
) (*connect.Response[api.FinishSessionResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}
	summary, err := h.finish(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}

	// The session stays active until its history is stored, so a failed
	// append can be retried with the same summary.
	if summary.History != nil {
		if err := h.store.AppendHistory(ctx, *summary.History, h.historyLimit); err != nil {
			return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("store.AppendHistory() > %w", err))
		}
	}
	h.release(req.Msg.SessionID)

	return connect.NewResponse(&api.FinishSessionResponse{
		Mode:         string(summary.Mode),
		AverageScore: summary.AverageScore,
		Attempts:     summary.Attempts,
		ItemCount:    summary.ItemCount,
		Reviewed:     summary.Reviewed,
		ElapsedMs:    summary.Elapsed.Milliseconds(),
		History:      summary.History,
	}), nil
}

func (h *StudyHandler) AbandonSession(
	ctx context.Context,
	req *connect.Request[api.AbandonSessionRequest],
) (*connect.Response[api.AbandonSessionResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}
	s, err := h.session(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}

	s.Abandon()
	h.release(req.Msg.SessionID)
	return connect.NewResponse(&api.AbandonSessionResponse{}), nil
}

func (h *StudyHandler) session(id string) (*session.Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active == nil || h.sessionID != id {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("session %s is not active", id))
	}
	return h.active, nil
}

// finish finishes the active session once and returns the same summary on
// later calls until the session is released.
func (h *StudyHandler) finish(id string) (session.Summary, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active == nil || h.sessionID != id {
		return session.Summary{}, connect.NewError(connect.CodeNotFound, fmt.Errorf("session %s is not active", id))
	}
	if h.finished != nil {
		return *h.finished, nil
	}
	summary, err := h.active.Finish()
	if err != nil {
		return session.Summary{}, toConnectError(err)
	}
	h.finished = &summary
	return summary, nil
}

func (h *StudyHandler) release(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessionID == id {
		h.sessionID, h.active, h.finished = "", nil, nil
	}
}

func (h *StudyHandler) load(ctx context.Context) (*notebook.Notebook, learning.ReviewStates, error) {
	subjects, err := h.store.LoadSubjects(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("store.LoadSubjects() > %w", err)
	}
	states, err := h.store.LoadReviewStates(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("store.LoadReviewStates() > %w", err)
	}
	return notebook.New(subjects), states, nil
}

// itemExists reports true when the notebook cannot be read, so a storage
// problem does not empty a running session.
func (h *StudyHandler) itemExists(itemID string) bool {
	subjects, err := h.store.LoadSubjects(context.Background())
	if err != nil {
		slog.Warn("failed to load subjects", "error", err)
		return true
	}
	return notebook.New(subjects).Exists(itemID)
}

func next(s *session.Session) (*connect.Response[api.NextResponse], error) {
	question, err := s.Current()
	if errors.Is(err, session.ErrNoQuestionsLeft) {
		return connect.NewResponse(&api.NextResponse{Done: true}), nil
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	q := toQuestion(question)
	return connect.NewResponse(&api.NextResponse{Question: &q}), nil
}

func toQuestion(q session.Question) api.Question {
	question := api.Question{
		ItemID:      q.Item.ID,
		Number:      q.Number,
		Total:       q.Total,
		Mode:        string(q.Mode),
		Label:       q.Label(),
		Text:        q.Text(),
		Location:    q.Item.Location(),
		Attempt:     q.Item.Attempt,
		TimeLimitMs: q.TimeLimit.Milliseconds(),
	}
	if q.Mode == session.ModeFlashcard {
		question.Label = q.Item.FrontLabel()
		question.BackLabel = q.Item.BackLabel()
		question.Answer = q.Item.Answer
	}
	return question
}

func toFeedback(f session.Feedback) api.Feedback {
	feedback := api.Feedback{
		ItemID:         f.Item.ID,
		Ops:            f.Result.Ops,
		Score:          f.Score,
		Quality:        f.Quality,
		CorrectAnswer:  f.Item.Answer,
		TimedOut:       f.TimedOut,
		Requeued:       f.Requeued,
		IsLastQuestion: f.IsLastQuestion,
		CanFinish:      f.CanFinish,
	}
	if f.Item.Cloze != nil {
		feedback.Blanks = f.Item.Cloze.Answers
	}
	return feedback
}
