// Package assets renders reports from embedded or user supplied templates.
package assets

import (
	_ "embed"
	"fmt"
	"io"
	"time"
)

const studyReportTemplateName = "study-report.md.go.tmpl"

//go:embed templates/study-report.md.go.tmpl
var fallbackStudyReportTemplate string

// StudyReport is the data of the study report template.
type StudyReport struct {
	GeneratedAt    time.Time
	TotalTests     int
	AveragePercent int
	TotalItems     int
	Streak         int
	ActivityDays   int
	// ActivityRows are weeks of the activity grid, "x" for a day with a test and "." otherwise.
	ActivityRows []string
	Chapters     []ReportChapter
	WeakItems    []ReportWeakItem
}

type ReportChapter struct {
	Subject        string
	Chapter        string
	Tests          int
	AveragePercent int
}

type ReportWeakItem struct {
	Prompt     string
	Chapter    string
	EaseFactor float64
}

// WriteStudyReport renders report with the template at templatePath, or with
// the built-in template when templatePath is empty or unusable.
func WriteStudyReport(output io.Writer, templatePath string, report StudyReport) error {
	tmpl, err := parseTemplateWithFallback(templatePath, studyReportTemplateName, fallbackStudyReportTemplate)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, report); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
