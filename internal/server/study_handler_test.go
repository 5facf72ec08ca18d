package server

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/Satvik374/Study-App/internal/api"
	"github.com/Satvik374/Study-App/internal/config"
	"github.com/Satvik374/Study-App/internal/diff"
	"github.com/Satvik374/Study-App/internal/learning"
	"github.com/Satvik374/Study-App/internal/store"
	"github.com/Satvik374/Study-App/internal/testutil"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, states learning.ReviewStates) (*api.StudyServiceClient, store.Store) {
	t.Helper()

	st := testutil.NewYAMLStore(t, testutil.Subjects(), states)
	h, err := NewStudyHandler(st, config.QuizConfig{HistoryLimit: 10})
	require.NoError(t, err)
	h.now = func() time.Time { return testNow }
	h.rand = rand.New(rand.NewPCG(1, 2))

	srv := httptest.NewServer(NewHTTPHandler(h, nil))
	t.Cleanup(srv.Close)
	return api.NewStudyServiceClient(srv.Client(), srv.URL), st
}

func requireCode(t *testing.T, err error, want connect.Code) *connect.Error {
	t.Helper()
	require.Error(t, err)
	var connectErr *connect.Error
	require.True(t, errors.As(err, &connectErr), "error %v is not a connect error", err)
	assert.Equal(t, want, connectErr.Code())
	return connectErr
}

func fieldViolations(t *testing.T, connectErr *connect.Error) []string {
	t.Helper()
	var fields []string
	for _, detail := range connectErr.Details() {
		value, err := detail.Value()
		require.NoError(t, err)
		badRequest, ok := value.(*errdetails.BadRequest)
		require.True(t, ok)
		for _, v := range badRequest.GetFieldViolations() {
			fields = append(fields, v.GetField())
		}
	}
	return fields
}

func TestStudyHandler_ComputeDiff(t *testing.T) {
	client, _ := newTestService(t, nil)
	ctx := context.Background()

	res, err := client.ComputeDiff(ctx, connect.NewRequest(&api.ComputeDiffRequest{
		Reference: "the cat sat",
		Candidate: "The cat sat",
	}))
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Msg.Score)
	assert.Equal(t, []diff.Op{diff.Equal("the"), diff.Equal("cat"), diff.Equal("sat")}, res.Msg.Ops)

	res, err = client.ComputeDiff(ctx, connect.NewRequest(&api.ComputeDiffRequest{Candidate: "cat"}))
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Msg.Score, "an empty reference is vacuously matched")
	assert.Equal(t, []diff.Op{diff.Extra("cat")}, res.Msg.Ops)
}

func TestStudyHandler_GenerateBlanks(t *testing.T) {
	client, _ := newTestService(t, nil)
	ctx := context.Background()

	res, err := client.GenerateBlanks(ctx, connect.NewRequest(&api.GenerateBlanksRequest{
		Text: "Photosynthesis converts light into chemical energy",
	}))
	require.NoError(t, err)
	assert.Equal(t, "(1)____ (2)____ light into chemical energy", res.Msg.Display)
	require.Len(t, res.Msg.Answers, 2)
	assert.Equal(t, "Photosynthesis", res.Msg.Answers[0].Word)

	_, err = client.GenerateBlanks(ctx, connect.NewRequest(&api.GenerateBlanksRequest{Text: "   "}))
	requireCode(t, err, connect.CodeInvalidArgument)
}

func TestStudyHandler_UpdateSchedule(t *testing.T) {
	client, st := newTestService(t, nil)
	ctx := context.Background()

	res, err := client.UpdateSchedule(ctx, connect.NewRequest(&api.UpdateScheduleRequest{ItemID: "q1", Quality: 4}))
	require.NoError(t, err)
	assert.Equal(t, 2.5, res.Msg.State.EaseFactor)
	assert.Equal(t, 1, res.Msg.State.Interval)
	assert.Equal(t, 1, res.Msg.State.Repetitions)

	states, err := st.LoadReviewStates(ctx)
	require.NoError(t, err)
	assert.Contains(t, states, "q1")

	_, err = client.UpdateSchedule(ctx, connect.NewRequest(&api.UpdateScheduleRequest{ItemID: "q1", Quality: 7}))
	connectErr := requireCode(t, err, connect.CodeInvalidArgument)
	assert.Equal(t, []string{"quality"}, fieldViolations(t, connectErr))
}

func TestStudyHandler_ListDueItems(t *testing.T) {
	client, _ := newTestService(t, learning.ReviewStates{
		"q1": {EaseFactor: 2.5, Interval: 6, Repetitions: 2, NextReviewAt: testNow.AddDate(0, 0, 2)},
		"d2": {EaseFactor: 2.5, Interval: 1, Repetitions: 1, NextReviewAt: testNow.Add(-time.Minute)},
	})

	res, err := client.ListDueItems(context.Background(), connect.NewRequest(&api.ListDueItemsRequest{}))
	require.NoError(t, err)

	var ids []string
	for _, item := range res.Msg.Items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"d1", "d2", "q2"}, ids)
	assert.Equal(t, 3, res.Msg.Count)
}

func TestStudyHandler_WrittenSession(t *testing.T) {
	client, st := newTestService(t, nil)
	ctx := context.Background()

	started, err := client.StartSession(ctx, connect.NewRequest(&api.StartSessionRequest{
		Mode:   "written",
		Scope:  "specific",
		ItemID: "q1",
	}))
	require.NoError(t, err)
	sessionID := started.Msg.SessionID
	assert.Equal(t, api.Question{
		ItemID:   "q1",
		Number:   1,
		Total:    1,
		Mode:     "written",
		Label:    "Question",
		Text:     "Capital of France?",
		Location: "Geography → Europe",
		Attempt:  1,
	}, started.Msg.Question)

	_, err = client.Advance(ctx, connect.NewRequest(&api.AdvanceRequest{SessionID: sessionID}))
	requireCode(t, err, connect.CodeFailedPrecondition)

	_, err = client.SubmitAnswer(ctx, connect.NewRequest(&api.SubmitAnswerRequest{SessionID: sessionID, Answer: "   "}))
	requireCode(t, err, connect.CodeInvalidArgument)

	wrong, err := client.SubmitAnswer(ctx, connect.NewRequest(&api.SubmitAnswerRequest{SessionID: sessionID, Answer: "Lyon"}))
	require.NoError(t, err)
	assert.Equal(t, api.Feedback{
		ItemID:        "q1",
		Ops:           []diff.Op{diff.Incorrect("Paris", "Lyon")},
		Score:         0,
		Quality:       0,
		CorrectAnswer: "Paris",
		Requeued:      true,
	}, wrong.Msg.Feedback)

	next, err := client.Advance(ctx, connect.NewRequest(&api.AdvanceRequest{SessionID: sessionID}))
	require.NoError(t, err)
	assert.False(t, next.Msg.Done)
	require.NotNil(t, next.Msg.Question)
	assert.Equal(t, 2, next.Msg.Question.Attempt)
	assert.Equal(t, 2, next.Msg.Question.Number)

	right, err := client.SubmitAnswer(ctx, connect.NewRequest(&api.SubmitAnswerRequest{SessionID: sessionID, Answer: "paris"}))
	require.NoError(t, err)
	assert.True(t, right.Msg.Feedback.CanFinish)
	assert.True(t, right.Msg.Feedback.IsLastQuestion)

	finished, err := client.FinishSession(ctx, connect.NewRequest(&api.FinishSessionRequest{SessionID: sessionID}))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, finished.Msg.AverageScore, 1e-9)
	assert.Equal(t, 2, finished.Msg.Attempts)
	assert.Equal(t, 1, finished.Msg.ItemCount)
	require.NotNil(t, finished.Msg.History)
	assert.Equal(t, "Europe", finished.Msg.History.ChapterLabel)

	history, err := st.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, finished.Msg.History.ID, history[0].ID)

	states, err := st.LoadReviewStates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, states["q1"].Repetitions, "the failed attempt reset the repetitions")

	_, err = client.SubmitAnswer(ctx, connect.NewRequest(&api.SubmitAnswerRequest{SessionID: sessionID, Answer: "Paris"}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestStudyHandler_FlashcardSession(t *testing.T) {
	client, st := newTestService(t, nil)
	ctx := context.Background()

	started, err := client.StartSession(ctx, connect.NewRequest(&api.StartSessionRequest{
		Mode:       "flashcard",
		Scope:      "all",
		ChapterIDs: []string{"c1"},
	}))
	require.NoError(t, err)
	sessionID := started.Msg.SessionID
	first := started.Msg.Question
	assert.Equal(t, 2, first.Total)
	assert.NotEmpty(t, first.Answer)
	assert.NotEmpty(t, first.BackLabel)
	assert.Zero(t, first.TimeLimitMs)

	_, err = client.RateCard(ctx, connect.NewRequest(&api.RateCardRequest{SessionID: sessionID, Rating: 3}))
	connectErr := requireCode(t, err, connect.CodeInvalidArgument)
	assert.Equal(t, []string{"rating"}, fieldViolations(t, connectErr))

	next, err := client.RateCard(ctx, connect.NewRequest(&api.RateCardRequest{SessionID: sessionID, Rating: 5}))
	require.NoError(t, err)
	require.NotNil(t, next.Msg.Question)
	assert.Equal(t, 2, next.Msg.Question.Number)

	done, err := client.RateCard(ctx, connect.NewRequest(&api.RateCardRequest{SessionID: sessionID, Rating: 1}))
	require.NoError(t, err)
	assert.True(t, done.Msg.Done)
	assert.Nil(t, done.Msg.Question)

	finished, err := client.FinishSession(ctx, connect.NewRequest(&api.FinishSessionRequest{SessionID: sessionID}))
	require.NoError(t, err)
	assert.Equal(t, 2, finished.Msg.Reviewed)
	assert.Nil(t, finished.Msg.History)

	history, err := st.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	states, err := st.LoadReviewStates(ctx)
	require.NoError(t, err)
	assert.Len(t, states, 2)
}

func TestStudyHandler_StartSession(t *testing.T) {
	tests := []struct {
		name       string
		req        *api.StartSessionRequest
		wantCode   connect.Code
		wantFields []string
	}{
		{
			name:       "unknown mode and scope",
			req:        &api.StartSessionRequest{Mode: "essay", Scope: "some"},
			wantCode:   connect.CodeInvalidArgument,
			wantFields: []string{"mode", "scope"},
		},
		{
			name:       "specific item without an id",
			req:        &api.StartSessionRequest{Mode: "written", Scope: "specific"},
			wantCode:   connect.CodeInvalidArgument,
			wantFields: []string{"itemId"},
		},
		{
			name:       "negative time limit",
			req:        &api.StartSessionRequest{Mode: "written", Scope: "all", TimeLimitSeconds: -1},
			wantCode:   connect.CodeInvalidArgument,
			wantFields: []string{"timeLimitSeconds"},
		},
		{
			name:     "deleted item",
			req:      &api.StartSessionRequest{Mode: "written", Scope: "specific", ItemID: "gone"},
			wantCode: connect.CodeNotFound,
		},
		{
			name:     "nothing to test",
			req:      &api.StartSessionRequest{Mode: "written", Scope: "all", Tag: "unknown"},
			wantCode: connect.CodeFailedPrecondition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestService(t, nil)

			_, err := client.StartSession(context.Background(), connect.NewRequest(tt.req))
			connectErr := requireCode(t, err, tt.wantCode)
			if tt.wantFields != nil {
				assert.Equal(t, tt.wantFields, fieldViolations(t, connectErr))
			}
		})
	}
}

// flakyHistoryStore fails AppendHistory as many times as failures says.
type flakyHistoryStore struct {
	store.Store
	failures atomic.Int32
}

func (s *flakyHistoryStore) AppendHistory(ctx context.Context, entry learning.HistoryEntry, limit int) error {
	if s.failures.Add(-1) >= 0 {
		return errors.New("disk full")
	}
	return s.Store.AppendHistory(ctx, entry, limit)
}

func TestStudyHandler_FinishSessionRetry(t *testing.T) {
	st := &flakyHistoryStore{Store: testutil.NewYAMLStore(t, testutil.Subjects(), nil)}
	st.failures.Store(1)
	h, err := NewStudyHandler(st, config.QuizConfig{HistoryLimit: 10})
	require.NoError(t, err)
	h.now = func() time.Time { return testNow }
	srv := httptest.NewServer(NewHTTPHandler(h, nil))
	t.Cleanup(srv.Close)
	client := api.NewStudyServiceClient(srv.Client(), srv.URL)
	ctx := context.Background()

	started, err := client.StartSession(ctx, connect.NewRequest(&api.StartSessionRequest{
		Mode:   "written",
		Scope:  "specific",
		ItemID: "q1",
	}))
	require.NoError(t, err)
	sessionID := started.Msg.SessionID

	_, err = client.SubmitAnswer(ctx, connect.NewRequest(&api.SubmitAnswerRequest{SessionID: sessionID, Answer: "Paris"}))
	require.NoError(t, err)

	_, err = client.FinishSession(ctx, connect.NewRequest(&api.FinishSessionRequest{SessionID: sessionID}))
	requireCode(t, err, connect.CodeInternal)

	finished, err := client.FinishSession(ctx, connect.NewRequest(&api.FinishSessionRequest{SessionID: sessionID}))
	require.NoError(t, err)
	assert.Equal(t, 1.0, finished.Msg.AverageScore)
	require.NotNil(t, finished.Msg.History)

	history, err := st.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, finished.Msg.History.ID, history[0].ID)

	_, err = client.FinishSession(ctx, connect.NewRequest(&api.FinishSessionRequest{SessionID: sessionID}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestStudyHandler_OneActiveSession(t *testing.T) {
	client, _ := newTestService(t, nil)
	ctx := context.Background()
	start := func() string {
		res, err := client.StartSession(ctx, connect.NewRequest(&api.StartSessionRequest{Mode: "blanks", Scope: "all-def"}))
		require.NoError(t, err)
		return res.Msg.SessionID
	}

	first := start()
	second := start()
	assert.NotEqual(t, first, second)

	_, err := client.AbandonSession(ctx, connect.NewRequest(&api.AbandonSessionRequest{SessionID: first}))
	requireCode(t, err, connect.CodeNotFound)

	_, err = client.AbandonSession(ctx, connect.NewRequest(&api.AbandonSessionRequest{SessionID: second}))
	require.NoError(t, err)

	_, err = client.FinishSession(ctx, connect.NewRequest(&api.FinishSessionRequest{SessionID: second}))
	requireCode(t, err, connect.CodeNotFound)

	_, err = client.AbandonSession(ctx, connect.NewRequest(&api.AbandonSessionRequest{SessionID: "not-a-uuid"}))
	connectErr := requireCode(t, err, connect.CodeInvalidArgument)
	assert.Equal(t, []string{"sessionId"}, fieldViolations(t, connectErr))
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{name: "invalid quality", err: learning.ErrInvalidQuality, want: connect.CodeInvalidArgument},
		{name: "unknown error", err: errors.New("disk failure"), want: connect.CodeInternal},
		{name: "connect error is kept", err: connect.NewError(connect.CodeUnavailable, errors.New("down")), want: connect.CodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, connect.CodeOf(toConnectError(tt.err)))
		})
	}
}
