package learning

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultHistoryLimit = 100

// HistoryEntry records one finished test.
type HistoryEntry struct {
	ID           string    `json:"id" yaml:"id"`
	Timestamp    time.Time `json:"date" yaml:"timestamp"`
	Mode         string    `json:"scope" yaml:"mode"`
	AverageScore float64   `json:"avgScore" yaml:"average_score"`
	ItemCount    int       `json:"itemCount" yaml:"item_count"`
	ElapsedMs    int64     `json:"timeTakenMs" yaml:"elapsed_ms"`
	ChapterLabel string    `json:"chapterNames" yaml:"chapter_label"`
}

func NewHistoryEntry(mode string, averageScore float64, itemCount int, elapsed time.Duration, chapterNames []string, now time.Time) HistoryEntry {
	return HistoryEntry{
		ID:           uuid.NewString(),
		Timestamp:    now,
		Mode:         mode,
		AverageScore: averageScore,
		ItemCount:    itemCount,
		ElapsedMs:    elapsed.Milliseconds(),
		ChapterLabel: ChapterLabel(chapterNames),
	}
}

// Valid reports whether the entry is usable by the statistics.
func (e HistoryEntry) Valid() bool {
	return e.ID != "" && !e.Timestamp.IsZero() && e.AverageScore >= 0 && e.AverageScore <= 1 && e.ItemCount >= 0
}

// Chapters splits the chapter label back into chapter names.
func (e HistoryEntry) Chapters() []string {
	if e.ChapterLabel == "" {
		return nil
	}
	return strings.Split(e.ChapterLabel, ", ")
}

// ChapterLabel joins the distinct chapter names in first-seen order.
func ChapterLabel(names []string) string {
	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		unique = append(unique, name)
	}
	return strings.Join(unique, ", ")
}

// AppendHistory puts entry first and keeps at most limit entries.
// A limit below 1 means DefaultHistoryLimit.
func AppendHistory(history []HistoryEntry, entry HistoryEntry, limit int) []HistoryEntry {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	updated := make([]HistoryEntry, 0, min(len(history)+1, limit))
	updated = append(updated, entry)
	for _, h := range history {
		if len(updated) == limit {
			break
		}
		updated = append(updated, h)
	}
	return updated
}

// SanitizeHistory drops unusable entries and reports how many were dropped.
func SanitizeHistory(history []HistoryEntry) ([]HistoryEntry, int) {
	kept := make([]HistoryEntry, 0, len(history))
	for _, h := range history {
		if h.Valid() {
			kept = append(kept, h)
		}
	}
	return kept, len(history) - len(kept)
}
