package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Satvik374/Study-App/internal/learning"
)

func TestDueCommand(t *testing.T) {
	tests := []struct {
		name   string
		states func(now time.Time) learning.ReviewStates
		want   []string
	}{
		{
			name:   "new items are due",
			states: func(time.Time) learning.ReviewStates { return nil },
			want:   []string{"📚 4 items due for review", "q1 [Geography → Europe]", "d2 [Biology → Plants]"},
		},
		{
			name: "nothing due",
			states: func(now time.Time) learning.ReviewStates {
				later := learning.ReviewState{EaseFactor: 2.5, Interval: 6, Repetitions: 2, NextReviewAt: now.AddDate(0, 0, 1)}
				return learning.ReviewStates{"q1": later, "q2": later, "d1": later, "d2": later}
			},
			want: []string{"Nothing is due. Come back later!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupStudyData(t, tt.states(time.Now()))

			got, err := execute(t, newDueCommand())
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestHistoryCommand(t *testing.T) {
	_, st := setupStudyData(t, nil)
	ctx := context.Background()

	got, err := execute(t, newHistoryCommand())
	require.NoError(t, err)
	assert.Equal(t, "No tests yet\n", got)

	entry := learning.NewHistoryEntry("written", 0.8, 4, 90*time.Second, []string{"Europe", "Plants"}, time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))
	require.NoError(t, st.AppendHistory(ctx, entry, 10))

	got, err = execute(t, newHistoryCommand())
	require.NoError(t, err)
	assert.Contains(t, got, "2025-03-10 09:00  written    80%  4 items  1m30s")
	assert.Contains(t, got, entry.ChapterLabel)

	got, err = execute(t, newHistoryCommand(), "--clear")
	require.NoError(t, err)
	assert.Equal(t, "History cleared\n", got)
	history, err := st.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestStatsCommand(t *testing.T) {
	tmpDir, st := setupStudyData(t, learning.ReviewStates{
		"q2": {EaseFactor: 1.7, Interval: 1, Repetitions: 0, NextReviewAt: time.Now()},
	})
	entry := learning.NewHistoryEntry("written", 0.5, 2, time.Minute, []string{"Plants"}, time.Now())
	require.NoError(t, st.AppendHistory(context.Background(), entry, 10))

	got, err := execute(t, newStatsCommand())
	require.NoError(t, err)
	assert.Contains(t, got, "# Study report")
	assert.Contains(t, got, "| 1 | 50% | 4 | 1 days |")
	assert.Contains(t, got, "What do leaves make?")

	got, err = execute(t, newStatsCommand(), "--pdf")
	require.NoError(t, err)
	assert.Contains(t, got, "Report written to ")

	name := "study-report-" + time.Now().Format("2006-01-02")
	for _, ext := range []string{".md", ".pdf"} {
		info, err := os.Stat(filepath.Join(tmpDir, "reports", name+ext))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
