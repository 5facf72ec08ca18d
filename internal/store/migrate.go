package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Satvik374/Study-App/internal/notebook"
)

type MigrationResult struct {
	FromVersion int
	ToVersion   int
	// LegacyChapters is the number of chapters moved into the "General" subject.
	LegacyChapters int
	// Normalized is true when missing fields of stored subjects were filled.
	Normalized bool
}

// Migrate upgrades stored data to DataVersion. Version 1 kept a flat list
// of chapters, which becomes a "General" subject while the old value is kept
// under its own backup key. Running it again changes nothing.
func (s *DocumentStore) Migrate(ctx context.Context) (MigrationResult, error) {
	version := 0
	if err := s.load(ctx, keyVersion, func(data []byte) error {
		return s.codec.Unmarshal(data, &version)
	}); err != nil {
		return MigrationResult{}, err
	}
	result := MigrationResult{FromVersion: version, ToVersion: DataVersion}

	if version < 2 {
		moved, err := s.migrateLegacyChapters(ctx)
		if err != nil {
			return MigrationResult{}, err
		}
		result.LegacyChapters = moved
	}

	subjects, err := s.LoadSubjects(ctx)
	if err != nil {
		return MigrationResult{}, err
	}
	// LoadSubjects already normalizes, so compare against the raw document.
	raw, err := s.rawSubjects(ctx)
	if err != nil {
		return MigrationResult{}, err
	}
	if raw != nil && notebook.Normalize(raw) {
		if err := s.SaveSubjects(ctx, subjects); err != nil {
			return MigrationResult{}, err
		}
		result.Normalized = true
	}

	if version != DataVersion {
		if err := s.save(ctx, keyVersion, DataVersion); err != nil {
			return MigrationResult{}, err
		}
	}
	if result.LegacyChapters > 0 || result.Normalized || version != DataVersion {
		slog.Info("migrated stored data", "from", version, "to", DataVersion,
			"legacy_chapters", result.LegacyChapters, "normalized", result.Normalized)
	}
	return result, nil
}

func (s *DocumentStore) migrateLegacyChapters(ctx context.Context) (int, error) {
	doc, err := s.backend.Read(ctx, keyLegacyChapters)
	if errors.Is(err, ErrNoDocument) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("backend.Read(%s) > %w", keyLegacyChapters, err)
	}

	var chapters []notebook.Chapter
	if err := s.codec.Unmarshal(doc.Body, &chapters); err != nil {
		slog.Warn("legacy chapters are unreadable, skipping them", "error", err)
		return 0, nil
	}
	if len(chapters) == 0 {
		return 0, nil
	}

	subjects := []notebook.Subject{notebook.WrapChapters(chapters)}
	notebook.Normalize(subjects)
	if err := s.SaveSubjects(ctx, subjects); err != nil {
		return 0, err
	}
	if err := s.backend.Write(ctx, keyLegacyBackup, doc.Body); err != nil {
		return 0, fmt.Errorf("backend.Write(%s) > %w", keyLegacyBackup, err)
	}
	return len(chapters), nil
}

func (s *DocumentStore) rawSubjects(ctx context.Context) ([]notebook.Subject, error) {
	doc, err := s.backend.Read(ctx, keySubjects)
	if errors.Is(err, ErrNoDocument) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("backend.Read(%s) > %w", keySubjects, err)
	}
	var subjects []notebook.Subject
	if err := s.codec.Unmarshal(doc.Body, &subjects); err != nil {
		return nil, nil
	}
	return subjects, nil
}
