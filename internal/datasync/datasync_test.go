package datasync

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Satvik374/Study-App/internal/database"
	"github.com/Satvik374/Study-App/internal/learning"
	mock_store "github.com/Satvik374/Study-App/internal/mocks/store"
	"github.com/Satvik374/Study-App/internal/notebook"
	"github.com/Satvik374/Study-App/internal/store"
	"github.com/Satvik374/Study-App/internal/testutil"
)

var (
	day1 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 = time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	day3 = time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
)

func newSQLiteStore(t *testing.T) *store.DocumentStore {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "studyai.db"))
	require.NoError(t, err)
	s, err := store.NewDBStore(context.Background(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func subjectIDs(subjects []notebook.Subject) []string {
	ids := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		ids = append(ids, subject.ID)
	}
	return ids
}

func historyIDs(history []learning.HistoryEntry) []string {
	ids := make([]string, 0, len(history))
	for _, entry := range history {
		ids = append(ids, entry.ID)
	}
	return ids
}

func TestImporter_Import(t *testing.T) {
	sourceStates := learning.ReviewStates{
		"d1": {EaseFactor: 2.6, Interval: 6, Repetitions: 2, NextReviewAt: day3},
		"q1": {EaseFactor: 2.5, Interval: 1, Repetitions: 1, NextReviewAt: day2},
	}
	sourceHistory := []learning.HistoryEntry{
		{ID: "h3", Timestamp: day3, Mode: "random", AverageScore: 0.9, ItemCount: 4},
		{ID: "h1", Timestamp: day1, Mode: "random", AverageScore: 0.5, ItemCount: 2},
	}

	tests := []struct {
		name         string
		seedTarget   func(t *testing.T, target store.Store)
		opts         ImportOptions
		wantResult   ImportResult
		wantSubjects []string
		wantInterval map[string]int
		wantHistory  []string
		wantTheme    string
		wantOutput   []string
	}{
		{
			name:       "empty target receives everything",
			seedTarget: func(t *testing.T, target store.Store) {},
			wantResult: ImportResult{
				SubjectsNew:     2,
				ReviewStatesNew: 2,
				HistoryNew:      2,
				SettingsCopied:  true,
			},
			wantSubjects: []string{"s1", "s2"},
			wantInterval: map[string]int{"d1": 6, "q1": 1},
			wantHistory:  []string{"h3", "h1"},
			wantTheme:    "light",
			wantOutput: []string{
				`  [NEW]  subject "Geography" (s1)`,
				`  [NEW]  subject "Biology" (s2)`,
				"  review states: 2 new, 0 updated, 0 skipped",
				"  history: 2 new, 0 skipped",
				"  settings: theme light",
			},
		},
		{
			name: "existing data is skipped",
			seedTarget: func(t *testing.T, target store.Store) {
				ctx := context.Background()
				require.NoError(t, target.SaveSubjects(ctx, []notebook.Subject{{ID: "s1", Name: "Old Geography", Chapters: []notebook.Chapter{}}}))
				require.NoError(t, target.SaveReviewStates(ctx, learning.ReviewStates{"d1": {EaseFactor: 2.5, Interval: 15, Repetitions: 3, NextReviewAt: day1}}))
				require.NoError(t, target.SaveHistory(ctx, []learning.HistoryEntry{{ID: "h2", Timestamp: day2, Mode: "weak", AverageScore: 0.7, ItemCount: 3}}))
				require.NoError(t, target.SaveSettings(ctx, store.Settings{Theme: "dark"}))
			},
			wantResult: ImportResult{
				SubjectsNew:         1,
				SubjectsSkipped:     1,
				ReviewStatesNew:     1,
				ReviewStatesSkipped: 1,
				HistoryNew:          2,
				SettingsCopied:      true,
			},
			wantSubjects: []string{"s1", "s2"},
			wantInterval: map[string]int{"d1": 15, "q1": 1},
			wantHistory:  []string{"h3", "h2", "h1"},
			wantTheme:    "light",
			wantOutput: []string{
				`  [SKIP]  subject "Geography" (s1)`,
				`  [NEW]  subject "Biology" (s2)`,
				"  review states: 1 new, 0 updated, 1 skipped",
			},
		},
		{
			name: "update existing replaces matching data",
			seedTarget: func(t *testing.T, target store.Store) {
				ctx := context.Background()
				require.NoError(t, target.SaveSubjects(ctx, []notebook.Subject{{ID: "s1", Name: "Old Geography", Chapters: []notebook.Chapter{}}}))
				require.NoError(t, target.SaveReviewStates(ctx, learning.ReviewStates{"d1": {EaseFactor: 2.5, Interval: 15, Repetitions: 3, NextReviewAt: day1}}))
				require.NoError(t, target.SaveHistory(ctx, []learning.HistoryEntry{{ID: "h1", Timestamp: day1, Mode: "random", AverageScore: 0.5, ItemCount: 2}}))
			},
			opts: ImportOptions{UpdateExisting: true},
			wantResult: ImportResult{
				SubjectsNew:         1,
				SubjectsUpdated:     1,
				ReviewStatesNew:     1,
				ReviewStatesUpdated: 1,
				HistoryNew:          1,
				HistorySkipped:      1,
				SettingsCopied:      true,
			},
			wantSubjects: []string{"s1", "s2"},
			wantInterval: map[string]int{"d1": 6, "q1": 1},
			wantHistory:  []string{"h3", "h1"},
			wantTheme:    "light",
			wantOutput: []string{
				`  [UPDATE]  subject "Geography" (s1)`,
				"  history: 1 new, 1 skipped",
			},
		},
		{
			name:       "dry run writes nothing",
			seedTarget: func(t *testing.T, target store.Store) {},
			opts:       ImportOptions{DryRun: true},
			wantResult: ImportResult{
				SubjectsNew:     2,
				ReviewStatesNew: 2,
				HistoryNew:      2,
				SettingsCopied:  true,
			},
			wantSubjects: []string{},
			wantInterval: map[string]int{},
			wantHistory:  []string{},
			wantTheme:    "dark",
			wantOutput:   []string{`  [NEW]  subject "Biology" (s2)`},
		},
		{
			name:       "history limit keeps the newest entries",
			seedTarget: func(t *testing.T, target store.Store) {},
			opts:       ImportOptions{HistoryLimit: 1},
			wantResult: ImportResult{
				SubjectsNew:     2,
				ReviewStatesNew: 2,
				HistoryNew:      2,
				SettingsCopied:  true,
			},
			wantSubjects: []string{"s1", "s2"},
			wantInterval: map[string]int{"d1": 6, "q1": 1},
			wantHistory:  []string{"h3"},
			wantTheme:    "light",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			source := testutil.NewYAMLStore(t, testutil.Subjects(), sourceStates)
			require.NoError(t, source.SaveHistory(ctx, sourceHistory))
			require.NoError(t, source.SaveSettings(ctx, store.Settings{Theme: "light"}))

			target := newSQLiteStore(t)
			tt.seedTarget(t, target)

			var out bytes.Buffer
			result, err := NewImporter(source, target, &out).Import(ctx, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantResult, *result)
			for _, line := range tt.wantOutput {
				assert.Contains(t, out.String(), line)
			}

			subjects, err := target.LoadSubjects(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSubjects, subjectIDs(subjects))

			states, err := target.LoadReviewStates(ctx)
			require.NoError(t, err)
			intervals := make(map[string]int, len(states))
			for id, state := range states {
				intervals[id] = state.Interval
			}
			assert.Equal(t, tt.wantInterval, intervals)

			history, err := target.LoadHistory(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHistory, historyIDs(history))

			settings, err := target.LoadSettings(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTheme, settings.Theme)
		})
	}
}

func TestImporter_ImportErrors(t *testing.T) {
	errBroken := errors.New("broken")

	tests := []struct {
		name    string
		setup   func(source, target *mock_store.MockStore)
		wantErr string
	}{
		{
			name: "source subjects fail",
			setup: func(source, target *mock_store.MockStore) {
				source.EXPECT().LoadSubjects(gomock.Any()).Return(nil, errBroken)
			},
			wantErr: "importSubjects() > source.LoadSubjects() > broken",
		},
		{
			name: "saving subjects fails",
			setup: func(source, target *mock_store.MockStore) {
				source.EXPECT().LoadSubjects(gomock.Any()).Return(testutil.Subjects(), nil)
				target.EXPECT().LoadSubjects(gomock.Any()).Return([]notebook.Subject{}, nil)
				target.EXPECT().SaveSubjects(gomock.Any(), gomock.Len(2)).Return(errBroken)
			},
			wantErr: "importSubjects() > target.SaveSubjects() > broken",
		},
		{
			name: "target review states fail",
			setup: func(source, target *mock_store.MockStore) {
				source.EXPECT().LoadSubjects(gomock.Any()).Return([]notebook.Subject{}, nil)
				target.EXPECT().LoadSubjects(gomock.Any()).Return([]notebook.Subject{}, nil)
				source.EXPECT().LoadReviewStates(gomock.Any()).Return(learning.ReviewStates{}, nil)
				target.EXPECT().LoadReviewStates(gomock.Any()).Return(nil, errBroken)
			},
			wantErr: "importReviewStates() > target.LoadReviewStates() > broken",
		},
		{
			name: "saving settings fails",
			setup: func(source, target *mock_store.MockStore) {
				source.EXPECT().LoadSubjects(gomock.Any()).Return([]notebook.Subject{}, nil)
				target.EXPECT().LoadSubjects(gomock.Any()).Return([]notebook.Subject{}, nil)
				source.EXPECT().LoadReviewStates(gomock.Any()).Return(learning.ReviewStates{}, nil)
				target.EXPECT().LoadReviewStates(gomock.Any()).Return(learning.ReviewStates{}, nil)
				source.EXPECT().LoadHistory(gomock.Any()).Return([]learning.HistoryEntry{}, nil)
				target.EXPECT().LoadHistory(gomock.Any()).Return([]learning.HistoryEntry{}, nil)
				source.EXPECT().LoadSettings(gomock.Any()).Return(store.Settings{Theme: "light"}, nil)
				target.EXPECT().LoadSettings(gomock.Any()).Return(store.DefaultSettings(), nil)
				target.EXPECT().SaveSettings(gomock.Any(), store.Settings{Theme: "light"}).Return(errBroken)
			},
			wantErr: "importSettings() > target.SaveSettings() > broken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			source := mock_store.NewMockStore(ctrl)
			target := mock_store.NewMockStore(ctrl)
			tt.setup(source, target)

			var out bytes.Buffer
			_, err := NewImporter(source, target, &out).Import(context.Background(), ImportOptions{})
			require.Error(t, err)
			assert.EqualError(t, err, tt.wantErr)
			assert.ErrorIs(t, err, errBroken)
		})
	}
}
