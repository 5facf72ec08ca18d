// Package statistics summarizes test history and review states for the dashboard.
package statistics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/Satvik374/Study-App/internal/assets"
	"github.com/Satvik374/Study-App/internal/learning"
	"github.com/Satvik374/Study-App/internal/notebook"
)

const (
	ActivityDays      = 56
	WeakEaseThreshold = 2.2
	MaxWeakItems      = 8
)

type Dashboard struct {
	GeneratedAt  time.Time
	TotalTests   int
	AverageScore float64
	TotalItems   int
	// Streak counts consecutive days with a test, ending today.
	Streak int
	// Activity has one entry per day, oldest first, ending today.
	Activity  []ActivityDay
	Chapters  []ChapterScore
	WeakItems []WeakItem
}

type ActivityDay struct {
	Date  time.Time
	Tests int
}

func (d ActivityDay) Active() bool {
	return d.Tests > 0
}

type ChapterScore struct {
	Subject      string
	Chapter      string
	Tests        int
	AverageScore float64
}

type WeakItem struct {
	ItemID     string
	Prompt     string
	Chapter    string
	EaseFactor float64
}

// Calculate builds the dashboard. Days are calendar days in now's location.
func Calculate(history []learning.HistoryEntry, nb *notebook.Notebook, states learning.ReviewStates, now time.Time) Dashboard {
	dashboard := Dashboard{
		GeneratedAt: now,
		TotalTests:  len(history),
		TotalItems:  len(nb.Items()),
	}
	if len(history) > 0 {
		total := 0.0
		for _, h := range history {
			total += h.AverageScore
		}
		dashboard.AverageScore = total / float64(len(history))
	}

	testsPerDay := make(map[string]int)
	for _, h := range history {
		testsPerDay[dayKey(h.Timestamp.In(now.Location()))]++
	}
	today := startOfDay(now)
	for day := today; testsPerDay[dayKey(day)] > 0; day = day.AddDate(0, 0, -1) {
		dashboard.Streak++
	}
	for i := ActivityDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		dashboard.Activity = append(dashboard.Activity, ActivityDay{Date: day, Tests: testsPerDay[dayKey(day)]})
	}

	dashboard.Chapters = chapterScores(history, nb)
	dashboard.WeakItems = weakItems(nb, states)
	return dashboard
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// chapterScores averages the tests whose chapter label mentions each chapter.
func chapterScores(history []learning.HistoryEntry, nb *notebook.Notebook) []ChapterScore {
	var scores []ChapterScore
	for _, ref := range nb.Chapters() {
		score := ChapterScore{Subject: ref.SubjectName, Chapter: ref.Name}
		total := 0.0
		for _, h := range history {
			if strings.Contains(h.ChapterLabel, ref.Name) {
				score.Tests++
				total += h.AverageScore
			}
		}
		if score.Tests > 0 {
			score.AverageScore = total / float64(score.Tests)
		}
		scores = append(scores, score)
	}
	return scores
}

func weakItems(nb *notebook.Notebook, states learning.ReviewStates) []WeakItem {
	var weak []WeakItem
	for _, item := range nb.Items() {
		state, ok := states[item.ID]
		if !ok || state.EaseFactor >= WeakEaseThreshold {
			continue
		}
		weak = append(weak, WeakItem{
			ItemID:     item.ID,
			Prompt:     item.Prompt,
			Chapter:    item.ChapterLabel,
			EaseFactor: state.EaseFactor,
		})
	}
	sort.SliceStable(weak, func(i, j int) bool {
		return weak[i].EaseFactor < weak[j].EaseFactor
	})
	if len(weak) > MaxWeakItems {
		weak = weak[:MaxWeakItems]
	}
	return weak
}

// Percent rounds a score in [0,1] to a whole percentage.
func Percent(score float64) int {
	return int(score*100 + 0.5)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// Render writes the dashboard as a markdown report using the template at
// templatePath, or the built-in one when templatePath is empty.
func (d Dashboard) Render(w io.Writer, templatePath string) error {
	report := assets.StudyReport{
		GeneratedAt:    d.GeneratedAt,
		TotalTests:     d.TotalTests,
		AveragePercent: Percent(d.AverageScore),
		TotalItems:     d.TotalItems,
		Streak:         d.Streak,
		ActivityDays:   len(d.Activity),
	}

	var week strings.Builder
	for i, day := range d.Activity {
		if day.Active() {
			week.WriteString("x")
		} else {
			week.WriteString(".")
		}
		if (i+1)%7 == 0 || i == len(d.Activity)-1 {
			report.ActivityRows = append(report.ActivityRows, week.String())
			week.Reset()
		}
	}
	for _, c := range d.Chapters {
		report.Chapters = append(report.Chapters, assets.ReportChapter{
			Subject:        c.Subject,
			Chapter:        c.Chapter,
			Tests:          c.Tests,
			AveragePercent: Percent(c.AverageScore),
		})
	}
	for _, item := range d.WeakItems {
		report.WeakItems = append(report.WeakItems, assets.ReportWeakItem{
			Prompt:     truncate(item.Prompt, 50),
			Chapter:    item.Chapter,
			EaseFactor: item.EaseFactor,
		})
	}

	if err := assets.WriteStudyReport(w, templatePath, report); err != nil {
		return fmt.Errorf("assets.WriteStudyReport() > %w", err)
	}
	return nil
}

// Markdown renders the dashboard with the built-in report template.
func (d Dashboard) Markdown() (string, error) {
	var b strings.Builder
	if err := d.Render(&b, ""); err != nil {
		return "", err
	}
	return b.String(), nil
}
