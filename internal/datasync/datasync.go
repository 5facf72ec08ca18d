// Package datasync copies study data from one store into another, e.g. from
// YAML files into a database.
package datasync

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/Satvik374/Study-App/internal/learning"
	"github.com/Satvik374/Study-App/internal/store"
)

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	SubjectsNew         int
	SubjectsSkipped     int
	SubjectsUpdated     int
	ReviewStatesNew     int
	ReviewStatesSkipped int
	ReviewStatesUpdated int
	HistoryNew          int
	HistorySkipped      int
	SettingsCopied      bool
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
	// HistoryLimit caps the merged history. Zero means learning.DefaultHistoryLimit.
	HistoryLimit int
}

// Importer reads everything from source and writes what target lacks.
type Importer struct {
	source store.Store
	target store.Store
	writer io.Writer
}

func NewImporter(source, target store.Store, writer io.Writer) *Importer {
	return &Importer{
		source: source,
		target: target,
		writer: writer,
	}
}

// Import copies subjects, review states, history and settings.
func (imp *Importer) Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult
	if err := imp.importSubjects(ctx, opts, &result); err != nil {
		return nil, fmt.Errorf("importSubjects() > %w", err)
	}
	if err := imp.importReviewStates(ctx, opts, &result); err != nil {
		return nil, fmt.Errorf("importReviewStates() > %w", err)
	}
	if err := imp.importHistory(ctx, opts, &result); err != nil {
		return nil, fmt.Errorf("importHistory() > %w", err)
	}
	if err := imp.importSettings(ctx, opts, &result); err != nil {
		return nil, fmt.Errorf("importSettings() > %w", err)
	}
	return &result, nil
}

// importSubjects matches subjects by id. An existing subject is replaced
// as a whole when UpdateExisting is set.
func (imp *Importer) importSubjects(ctx context.Context, opts ImportOptions, result *ImportResult) error {
	sourceSubjects, err := imp.source.LoadSubjects(ctx)
	if err != nil {
		return fmt.Errorf("source.LoadSubjects() > %w", err)
	}
	targetSubjects, err := imp.target.LoadSubjects(ctx)
	if err != nil {
		return fmt.Errorf("target.LoadSubjects() > %w", err)
	}

	index := make(map[string]int, len(targetSubjects))
	for i, subject := range targetSubjects {
		index[subject.ID] = i
	}

	changed := false
	for _, subject := range sourceSubjects {
		i, ok := index[subject.ID]
		switch {
		case !ok:
			targetSubjects = append(targetSubjects, subject)
			index[subject.ID] = len(targetSubjects) - 1
			fmt.Fprintf(imp.writer, "  [NEW]  subject %q (%s)\n", subject.Name, subject.ID)
			result.SubjectsNew++
			changed = true
		case opts.UpdateExisting:
			targetSubjects[i] = subject
			fmt.Fprintf(imp.writer, "  [UPDATE]  subject %q (%s)\n", subject.Name, subject.ID)
			result.SubjectsUpdated++
			changed = true
		default:
			fmt.Fprintf(imp.writer, "  [SKIP]  subject %q (%s)\n", subject.Name, subject.ID)
			result.SubjectsSkipped++
		}
	}

	if !changed || opts.DryRun {
		return nil
	}
	if err := imp.target.SaveSubjects(ctx, targetSubjects); err != nil {
		return fmt.Errorf("target.SaveSubjects() > %w", err)
	}
	return nil
}

func (imp *Importer) importReviewStates(ctx context.Context, opts ImportOptions, result *ImportResult) error {
	sourceStates, err := imp.source.LoadReviewStates(ctx)
	if err != nil {
		return fmt.Errorf("source.LoadReviewStates() > %w", err)
	}
	targetStates, err := imp.target.LoadReviewStates(ctx)
	if err != nil {
		return fmt.Errorf("target.LoadReviewStates() > %w", err)
	}
	if targetStates == nil {
		targetStates = make(learning.ReviewStates)
	}

	changed := false
	for _, id := range sourceStates.IDs() {
		_, exists := targetStates[id]
		switch {
		case !exists:
			result.ReviewStatesNew++
		case opts.UpdateExisting:
			result.ReviewStatesUpdated++
		default:
			result.ReviewStatesSkipped++
			continue
		}
		targetStates[id] = sourceStates[id]
		changed = true
	}
	fmt.Fprintf(imp.writer, "  review states: %d new, %d updated, %d skipped\n",
		result.ReviewStatesNew, result.ReviewStatesUpdated, result.ReviewStatesSkipped)

	if !changed || opts.DryRun {
		return nil
	}
	if err := imp.target.SaveReviewStates(ctx, targetStates); err != nil {
		return fmt.Errorf("target.SaveReviewStates() > %w", err)
	}
	return nil
}

// importHistory merges entries by id, newest first, and keeps the most recent ones.
func (imp *Importer) importHistory(ctx context.Context, opts ImportOptions, result *ImportResult) error {
	sourceHistory, err := imp.source.LoadHistory(ctx)
	if err != nil {
		return fmt.Errorf("source.LoadHistory() > %w", err)
	}
	targetHistory, err := imp.target.LoadHistory(ctx)
	if err != nil {
		return fmt.Errorf("target.LoadHistory() > %w", err)
	}

	seen := make(map[string]bool, len(targetHistory))
	for _, entry := range targetHistory {
		seen[entry.ID] = true
	}
	merged := append([]learning.HistoryEntry{}, targetHistory...)
	for _, entry := range sourceHistory {
		if seen[entry.ID] {
			result.HistorySkipped++
			continue
		}
		seen[entry.ID] = true
		merged = append(merged, entry)
		result.HistoryNew++
	}
	fmt.Fprintf(imp.writer, "  history: %d new, %d skipped\n", result.HistoryNew, result.HistorySkipped)

	if result.HistoryNew == 0 || opts.DryRun {
		return nil
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = learning.DefaultHistoryLimit
	}
	if len(merged) > limit {
		merged = merged[:limit]
	}
	if err := imp.target.SaveHistory(ctx, merged); err != nil {
		return fmt.Errorf("target.SaveHistory() > %w", err)
	}
	return nil
}

// importSettings copies the settings only into a target that still has the defaults.
func (imp *Importer) importSettings(ctx context.Context, opts ImportOptions, result *ImportResult) error {
	settings, err := imp.source.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("source.LoadSettings() > %w", err)
	}
	current, err := imp.target.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("target.LoadSettings() > %w", err)
	}
	if settings == current || (current != store.DefaultSettings() && !opts.UpdateExisting) {
		return nil
	}

	result.SettingsCopied = true
	fmt.Fprintf(imp.writer, "  settings: theme %s\n", settings.Theme)
	if opts.DryRun {
		return nil
	}
	if err := imp.target.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("target.SaveSettings() > %w", err)
	}
	return nil
}
