package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Satvik374/Study-App/internal/diff"
	"github.com/Satvik374/Study-App/internal/learning"
	mock_cli "github.com/Satvik374/Study-App/internal/mocks/cli"
	"github.com/Satvik374/Study-App/internal/notebook"
	"github.com/Satvik374/Study-App/internal/session"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

var (
	capitalItem = notebook.Item{
		ID: "q1", Kind: notebook.KindQA, Prompt: "Capital of France?", Answer: "Paris",
		ChapterID: "c1", ChapterLabel: "Europe", SubjectLabel: "Geography",
	}
	photosynthesisItem = notebook.Item{
		ID: "d1", Kind: notebook.KindDefinition, Prompt: "Photosynthesis",
		Answer:    "Photosynthesis converts light into chemical energy",
		ChapterID: "c3", ChapterLabel: "Plants", SubjectLabel: "Biology",
	}
)

func startSession(t *testing.T, mode session.Mode, items ...notebook.Item) *session.Session {
	t.Helper()
	s, err := session.Start(items, session.Options{Mode: mode, Rand: rand.New(rand.NewPCG(1, 2))}, nil)
	require.NoError(t, err)
	return s
}

// syncBuffer is written by countdown goroutines and the test at the same time.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestInteractiveQuizCLI_Run(t *testing.T) {
	tests := []struct {
		name    string
		returns []error
		wantErr bool
	}{
		{name: "ends after errEnd", returns: []error{nil, nil, errEnd}},
		{name: "stops on an error", returns: []error{nil, errors.New("broken")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockSession := mock_cli.NewMockSession(ctrl)
			var calls []any
			for _, err := range tt.returns {
				calls = append(calls, mockSession.EXPECT().Session(gomock.Any()).Return(err))
			}
			gomock.InOrder(calls...)

			cli := NewInteractiveQuizCLI(strings.NewReader(""), io.Discard)
			err := cli.Run(context.Background(), mockSession)
			if tt.wantErr {
				assert.ErrorContains(t, err, "broken")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestInteractiveQuizCLI_renderDiff(t *testing.T) {
	cli := NewInteractiveQuizCLI(strings.NewReader(""), io.Discard)
	result := diff.Result{Ops: []diff.Op{
		diff.Equal("the"),
		diff.Incorrect("quick", "quack"),
		diff.Missing("brown"),
		diff.Equal("fox"),
		diff.Extra("jumps"),
	}}

	assert.Equal(t, "the [quack→quick] [+brown] fox [-jumps]", cli.renderDiff(result))
}

func TestQuizCLI_Session(t *testing.T) {
	tests := []struct {
		name        string
		mode        session.Mode
		items       []notebook.Item
		input       string
		recordErr   error
		wantScore   float64
		wantRecord  bool
		wantErr     bool
		wantOutputs []string
	}{
		{
			name:       "perfect answer finishes the test",
			mode:       session.ModeWritten,
			items:      []notebook.Item{capitalItem},
			input:      "Paris\n",
			wantScore:  1,
			wantRecord: true,
			wantOutputs: []string{
				"Question 1 · Geography → Europe",
				"Question: Capital of France?",
				"✅ Perfect! 100%",
				"Average score: 100%",
				"Items: 1, answers: 1",
			},
		},
		{
			name:       "wrong answer is asked again",
			mode:       session.ModeWritten,
			items:      []notebook.Item{capitalItem},
			input:      "Lyon\nParis\n",
			wantScore:  0.5,
			wantRecord: true,
			wantOutputs: []string{
				"❌ 0% correct",
				"Your answer: [Lyon→Paris]",
				"Correct answer: Paris",
				"This one will be asked again at the end.",
				"Question 2 · Geography → Europe",
				"Asked again",
				"Average score: 50%",
				"Items: 1, answers: 2",
			},
		},
		{
			name:  "empty answers are refused and quitting records nothing",
			mode:  session.ModeWritten,
			items: []notebook.Item{capitalItem},
			input: "\n   \n/quit\n",
			wantOutputs: []string{
				"Please type an answer first.",
				"Test abandoned. Nothing was recorded.",
			},
		},
		{
			name:  "end of input abandons the test",
			mode:  session.ModeWritten,
			items: []notebook.Item{capitalItem},
			input: "",
		},
		{
			name:       "blanks",
			mode:       session.ModeBlanks,
			items:      []notebook.Item{photosynthesisItem},
			input:      "photosynthesis, converts\n",
			wantScore:  1,
			wantRecord: true,
			wantOutputs: []string{
				"Fill in the blanks: (1)____ (2)____ light into chemical energy",
				"Your answers, separated by commas: ",
				"Blanks: (1) Photosynthesis, (2) converts",
				"Full text: Photosynthesis converts light into chemical energy",
			},
		},
		{
			name:       "history cannot be recorded",
			mode:       session.ModeWritten,
			items:      []notebook.Item{capitalItem},
			input:      "Paris\n",
			recordErr:  errors.New("disk full"),
			wantScore:  1,
			wantRecord: true,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			recorder := mock_cli.NewMockHistoryRecorder(ctrl)
			var recorded learning.HistoryEntry
			if tt.wantRecord {
				recorder.EXPECT().
					AppendHistory(gomock.Any(), gomock.Any(), 50).
					DoAndReturn(func(_ context.Context, entry learning.HistoryEntry, _ int) error {
						recorded = entry
						return tt.recordErr
					})
			}

			var out bytes.Buffer
			quiz := startSession(t, tt.mode, tt.items...)
			cli := NewQuizCLI(NewInteractiveQuizCLI(strings.NewReader(tt.input), &out), quiz, recorder, 50)

			var err error
			for i := 0; i < 5 && err == nil; i++ {
				err = cli.Session(context.Background())
			}
			if tt.wantErr {
				assert.ErrorContains(t, err, "disk full")
			} else {
				assert.ErrorIs(t, err, errEnd)
			}
			_, err = quiz.Current()
			assert.ErrorIs(t, err, session.ErrNotActive)

			for _, want := range tt.wantOutputs {
				assert.Contains(t, out.String(), want)
			}
			if tt.wantRecord {
				assert.InDelta(t, tt.wantScore, recorded.AverageScore, 1e-9)
				assert.Equal(t, string(tt.mode), recorded.Mode)
				assert.Equal(t, 1, recorded.ItemCount)
			}
		})
	}
}

func TestQuizCLI_Session_Timeout(t *testing.T) {
	timedOut := make(chan struct{})
	var quizCLI *QuizCLI
	quiz, err := session.Start([]notebook.Item{capitalItem}, session.Options{
		Mode:         session.ModeWritten,
		TimeLimit:    20 * time.Millisecond,
		TickInterval: 5 * time.Millisecond,
		OnTimeout: func(feedback session.Feedback, err error) {
			quizCLI.NotifyTimeout(feedback, err)
			close(timedOut)
		},
	}, nil)
	require.NoError(t, err)
	defer quiz.Abandon()

	stdin, typing := io.Pipe()
	out := &syncBuffer{}
	quizCLI = NewQuizCLI(NewInteractiveQuizCLI(stdin, out), quiz, nil, 50)

	go func() {
		<-timedOut
		_, _ = typing.Write([]byte("Paris\n"))
	}()

	require.NoError(t, quizCLI.Session(context.Background()))

	output := out.String()
	assert.Contains(t, output, "⏰ Time's up! Press Enter to see the answer.")
	assert.Contains(t, output, "⏰ Time's up. Scored 0%")
	assert.Contains(t, output, "Correct answer: Paris")
	assert.Contains(t, output, "This one will be asked again at the end.")
}

func TestFlashcardCLI(t *testing.T) {
	quiz := startSession(t, session.ModeFlashcard, capitalItem, photosynthesisItem)
	input := strings.Join([]string{
		"",  // flip
		"p", // already at the first card
		"x",
		"e",
		"",  // flip
		"p", // back to the first card
		"",  // flip
		"n",
		"",  // flip
		"h",
	}, "\n") + "\n"

	var out bytes.Buffer
	base := NewInteractiveQuizCLI(strings.NewReader(input), &out)
	require.NoError(t, base.Run(context.Background(), NewFlashcardCLI(base, quiz)))

	output := out.String()
	assert.Contains(t, output, "Card 1 of 2")
	assert.Contains(t, output, "Card 2 of 2")
	assert.Contains(t, output, "This is the first card.")
	assert.Contains(t, output, `Unknown choice "x"`)
	assert.Contains(t, output, "Term: Photosynthesis")
	assert.Contains(t, output, "Definition: Photosynthesis converts light into chemical energy")
	assert.Contains(t, output, "Answer: Paris")
	assert.Contains(t, output, "You reviewed 2 cards")
	_, err := quiz.Current()
	assert.ErrorIs(t, err, session.ErrNotActive)
}

func TestFlashcardCLI_Quit(t *testing.T) {
	quiz := startSession(t, session.ModeFlashcard, capitalItem)

	var out bytes.Buffer
	base := NewInteractiveQuizCLI(strings.NewReader("\nq\n"), &out)
	cli := NewFlashcardCLI(base, quiz)

	assert.ErrorIs(t, cli.Session(context.Background()), errEnd)
	assert.NotContains(t, out.String(), "You reviewed")
	_, err := quiz.Current()
	assert.ErrorIs(t, err, session.ErrNotActive)
}
