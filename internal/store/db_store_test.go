package store

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Satvik374/Study-App/internal/config"
	"github.com/Satvik374/Study-App/internal/database"
	"github.com/Satvik374/Study-App/internal/learning"
)

var (
	selectDocument = regexp.QuoteMeta("SELECT body, backup FROM documents WHERE name = ?")
	selectBody     = regexp.QuoteMeta("SELECT body FROM documents WHERE name = ?")
	insertDocument = regexp.QuoteMeta("INSERT INTO documents (name, body, backup, updated_at) VALUES (?, ?, NULL, ?)")
	updateDocument = regexp.QuoteMeta("UPDATE documents SET body = ?, backup = ?, updated_at = ? WHERE name = ?")
	restoreBackup  = regexp.QuoteMeta("UPDATE documents SET body = backup, updated_at = ? WHERE name = ? AND backup IS NOT NULL")
)

func newMockBackend(t *testing.T) (*DBBackend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	backend := NewDBBackend(sqlx.NewDb(db, "mysql"))
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	backend.now = func() time.Time { return now }
	return backend, mock
}

func TestDBBackend_Read(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      Document
		wantErr   error
	}{
		{
			name: "document with backup",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectDocument).WithArgs("history").
					WillReturnRows(sqlmock.NewRows([]string{"body", "backup"}).AddRow("[1]", "[]"))
			},
			want: Document{Body: []byte("[1]"), Backup: []byte("[]")},
		},
		{
			name: "document without backup",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectDocument).WithArgs("history").
					WillReturnRows(sqlmock.NewRows([]string{"body", "backup"}).AddRow("[]", nil))
			},
			want: Document{Body: []byte("[]")},
		},
		{
			name: "missing document",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectDocument).WithArgs("history").
					WillReturnRows(sqlmock.NewRows([]string{"body", "backup"}))
			},
			wantErr: ErrNoDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, mock := newMockBackend(t)
			tt.setupMock(mock)

			got, err := backend.Read(context.Background(), "history")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("query error", func(t *testing.T) {
		backend, mock := newMockBackend(t)
		mock.ExpectQuery(selectDocument).WillReturnError(errors.New("connection refused"))

		_, err := backend.Read(context.Background(), "history")
		assert.ErrorContains(t, err, "connection refused")
		assert.NotErrorIs(t, err, ErrNoDocument)
	})
}

func TestDBBackend_Write(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
	}{
		{
			name: "first write inserts without a backup",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(selectBody).WithArgs("settings").
					WillReturnRows(sqlmock.NewRows([]string{"body"}))
				mock.ExpectExec(insertDocument).WithArgs("settings", `{"theme":"light"}`, now).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "later writes keep the current body as backup",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(selectBody).WithArgs("settings").
					WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(`{"theme":"dark"}`))
				mock.ExpectExec(updateDocument).WithArgs(`{"theme":"light"}`, `{"theme":"dark"}`, now, "settings").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "failed update rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(selectBody).WithArgs("settings").
					WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(`{"theme":"dark"}`))
				mock.ExpectExec(updateDocument).WillReturnError(errors.New("lock wait timeout"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, mock := newMockBackend(t)
			tt.setupMock(mock)

			err := backend.Write(context.Background(), "settings", []byte(`{"theme":"light"}`))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDocumentStore_RestoresFromDatabaseBackup(t *testing.T) {
	backend, mock := newMockBackend(t)
	s := NewDocumentStore(backend, JSONCodec{})

	mock.ExpectQuery(selectDocument).WithArgs("settings").
		WillReturnRows(sqlmock.NewRows([]string{"body", "backup"}).AddRow(`{"theme":`, `{"theme":"light"}`))
	mock.ExpectExec(restoreBackup).WithArgs(sqlmock.AnyArg(), "settings").
		WillReturnResult(sqlmock.NewResult(0, 1))

	settings, err := s.LoadSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "light", settings.Theme)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBStore_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "studyai.db"))
	require.NoError(t, err)

	s, err := NewDBStore(ctx, db)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveSubjects(ctx, testSubjects("Biology")))
	require.NoError(t, s.SaveSubjects(ctx, testSubjects("Biology II")))
	subjects, err := s.LoadSubjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSubjects("Biology II"), subjects)

	next := time.Date(2025, 3, 16, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveReviewStates(ctx, learning.ReviewStates{
		"d1": {EaseFactor: 2.7, Interval: 6, Repetitions: 2, NextReviewAt: next},
	}))
	states, err := s.LoadReviewStates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, states["d1"].Interval)
	assert.True(t, next.Equal(states["d1"].NextReviewAt))

	t.Run("corrupted body is restored from backup", func(t *testing.T) {
		_, err := db.ExecContext(ctx, "UPDATE documents SET body = ? WHERE name = ?", "{broken", keySubjects)
		require.NoError(t, err)

		subjects, err := s.LoadSubjects(ctx)
		require.NoError(t, err)
		assert.Equal(t, testSubjects("Biology"), subjects)

		var body string
		require.NoError(t, db.GetContext(ctx, &body, "SELECT body FROM documents WHERE name = ?", keySubjects))
		assert.NotEqual(t, "{broken", body)
	})

	t.Run("migration is idempotent", func(t *testing.T) {
		first, err := s.Migrate(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, first.FromVersion)

		second, err := s.Migrate(ctx)
		require.NoError(t, err)
		assert.Equal(t, DataVersion, second.FromVersion)
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("yaml", func(t *testing.T) {
		s, err := Open(ctx, &config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverYAML, Directory: t.TempDir()}})
		require.NoError(t, err)
		assert.IsType(t, &DocumentStore{}, s)
		assert.NoError(t, s.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "db", "studyai.db")
		s, err := Open(ctx, &config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverSQLite, SQLitePath: path}})
		require.NoError(t, err)
		defer s.Close()
		assert.FileExists(t, path)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(ctx, &config.Config{Storage: config.StorageConfig{Driver: "redis"}})
		assert.Error(t, err)
	})
}
