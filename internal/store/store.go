// Package store persists the notebook, review states, test history and
// settings. Every save keeps the previous value as a backup, and a value
// that cannot be decoded is restored from that backup.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Satvik374/Study-App/internal/learning"
	"github.com/Satvik374/Study-App/internal/notebook"
)

// DataVersion is the layout version written by Migrate.
const DataVersion = 2

const (
	keySubjects       = "subjects"
	keyReviewStates   = "review_states"
	keyHistory        = "history"
	keySettings       = "settings"
	keyVersion        = "version"
	keyLegacyChapters = "chapters"
	keyLegacyBackup   = "chapters_v1_backup"
)

var ErrNoDocument = errors.New("document does not exist")

// Store is everything the rest of the application reads and writes.
//
//go:generate mockgen -source=store.go -destination=../mocks/store/mock_store.go -package=mock_store Store
type Store interface {
	LoadSubjects(ctx context.Context) ([]notebook.Subject, error)
	SaveSubjects(ctx context.Context, subjects []notebook.Subject) error
	LoadReviewStates(ctx context.Context) (learning.ReviewStates, error)
	SaveReviewStates(ctx context.Context, states learning.ReviewStates) error
	LoadHistory(ctx context.Context) ([]learning.HistoryEntry, error)
	SaveHistory(ctx context.Context, history []learning.HistoryEntry) error
	AppendHistory(ctx context.Context, entry learning.HistoryEntry, limit int) error
	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, settings Settings) error
	Migrate(ctx context.Context) (MigrationResult, error)
	Close() error
}

type Settings struct {
	Theme string `json:"theme" yaml:"theme"`
}

func DefaultSettings() Settings {
	return Settings{Theme: "dark"}
}

// Document is a stored value and the value it replaced.
type Document struct {
	Body   []byte
	Backup []byte
}

// Backend stores named documents.
type Backend interface {
	// Read returns ErrNoDocument when name was never written.
	Read(ctx context.Context, name string) (Document, error)
	// Write stores body and keeps the current body as the backup.
	Write(ctx context.Context, name string, body []byte) error
	// Restore replaces the body with the backup.
	Restore(ctx context.Context, name string) error
	Close() error
}

// DocumentStore implements Store on top of a Backend.
type DocumentStore struct {
	backend Backend
	codec   Codec
}

func NewDocumentStore(backend Backend, codec Codec) *DocumentStore {
	return &DocumentStore{
		backend: backend,
		codec:   codec,
	}
}

// load decodes the document name into out. A missing document leaves out
// untouched. An undecodable one is restored from its backup, or leaves out
// untouched when the backup cannot be decoded either.
func (s *DocumentStore) load(ctx context.Context, name string, decode func(data []byte) error) error {
	doc, err := s.backend.Read(ctx, name)
	if errors.Is(err, ErrNoDocument) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("backend.Read(%s) > %w", name, err)
	}

	decodeErr := decode(doc.Body)
	if decodeErr == nil {
		return nil
	}
	slog.Warn("stored value is unreadable", "key", name, "error", decodeErr)

	if len(doc.Backup) == 0 {
		return nil
	}
	if err := decode(doc.Backup); err != nil {
		slog.Warn("backup is unreadable too, using the default", "key", name, "error", err)
		return nil
	}
	if err := s.backend.Restore(ctx, name); err != nil {
		return fmt.Errorf("backend.Restore(%s) > %w", name, err)
	}
	slog.Warn("restored from backup", "key", name)
	return nil
}

func (s *DocumentStore) save(ctx context.Context, name string, v any) error {
	data, err := s.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("codec.Marshal(%s) > %w", name, err)
	}
	if err := s.backend.Write(ctx, name, data); err != nil {
		return fmt.Errorf("backend.Write(%s) > %w", name, err)
	}
	return nil
}

func (s *DocumentStore) LoadSubjects(ctx context.Context) ([]notebook.Subject, error) {
	var subjects []notebook.Subject
	err := s.load(ctx, keySubjects, func(data []byte) error {
		var decoded []notebook.Subject
		if err := s.codec.Unmarshal(data, &decoded); err != nil {
			return err
		}
		subjects = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	if subjects == nil {
		subjects = []notebook.Subject{}
	}
	notebook.Normalize(subjects)
	return subjects, nil
}

func (s *DocumentStore) SaveSubjects(ctx context.Context, subjects []notebook.Subject) error {
	if subjects == nil {
		subjects = []notebook.Subject{}
	}
	return s.save(ctx, keySubjects, subjects)
}

// LoadReviewStates decodes entry by entry. Entries that cannot be decoded
// or hold impossible values are dropped, so those items count as never reviewed.
func (s *DocumentStore) LoadReviewStates(ctx context.Context) (learning.ReviewStates, error) {
	states := make(learning.ReviewStates)
	err := s.load(ctx, keyReviewStates, func(data []byte) error {
		decoded := make(learning.ReviewStates)
		err := s.codec.UnmarshalEntries(data, func(id string, decode func(v any) error) {
			var state learning.ReviewState
			if err := decode(&state); err != nil {
				slog.Warn("drop unreadable review state", "item", id, "error", err)
				return
			}
			decoded[id] = state
		})
		if err != nil {
			return err
		}
		states = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, id := range states.Sanitize() {
		slog.Warn("drop invalid review state", "item", id)
	}
	return states, nil
}

func (s *DocumentStore) SaveReviewStates(ctx context.Context, states learning.ReviewStates) error {
	if states == nil {
		states = make(learning.ReviewStates)
	}
	return s.save(ctx, keyReviewStates, states)
}

// LoadHistory returns the history, most recent first, without unusable entries.
func (s *DocumentStore) LoadHistory(ctx context.Context) ([]learning.HistoryEntry, error) {
	history := []learning.HistoryEntry{}
	err := s.load(ctx, keyHistory, func(data []byte) error {
		decoded := []learning.HistoryEntry{}
		err := s.codec.UnmarshalItems(data, func(i int, decode func(v any) error) {
			var entry learning.HistoryEntry
			if err := decode(&entry); err != nil {
				slog.Warn("drop unreadable history entry", "index", i, "error", err)
				return
			}
			decoded = append(decoded, entry)
		})
		if err != nil {
			return err
		}
		history = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	history, dropped := learning.SanitizeHistory(history)
	if dropped > 0 {
		slog.Warn("drop invalid history entries", "count", dropped)
	}
	return history, nil
}

func (s *DocumentStore) SaveHistory(ctx context.Context, history []learning.HistoryEntry) error {
	if history == nil {
		history = []learning.HistoryEntry{}
	}
	return s.save(ctx, keyHistory, history)
}

// AppendHistory adds entry as the most recent one and keeps at most limit entries.
func (s *DocumentStore) AppendHistory(ctx context.Context, entry learning.HistoryEntry, limit int) error {
	history, err := s.LoadHistory(ctx)
	if err != nil {
		return err
	}
	return s.SaveHistory(ctx, learning.AppendHistory(history, entry, limit))
}

func (s *DocumentStore) LoadSettings(ctx context.Context) (Settings, error) {
	settings := DefaultSettings()
	err := s.load(ctx, keySettings, func(data []byte) error {
		decoded := DefaultSettings()
		if err := s.codec.Unmarshal(data, &decoded); err != nil {
			return err
		}
		settings = decoded
		return nil
	})
	if err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s *DocumentStore) SaveSettings(ctx context.Context, settings Settings) error {
	return s.save(ctx, keySettings, settings)
}

func (s *DocumentStore) Close() error {
	return s.backend.Close()
}
