// Package pdf writes study reports as markdown and PDF files.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mandolyte/mdtopdf"
)

// WriteReport stores the markdown report in dir as study-report-<date>.md and
// renders the PDF next to it. It returns the absolute PDF path.
func WriteReport(dir string, markdown string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}

	base := filepath.Join(dir, "study-report-"+now.Format(time.DateOnly))
	markdownPath := base + ".md"
	if err := os.WriteFile(markdownPath, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", markdownPath, err)
	}

	pdfPath := base + ".pdf"
	if err := Render([]byte(markdown), pdfPath); err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}

// Render converts markdown content to a portrait A4 PDF.
func Render(markdown []byte, pdfPath string) error {
	if filepath.Ext(pdfPath) != ".pdf" {
		return fmt.Errorf("output file must have .pdf extension: %s", pdfPath)
	}

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(markdown); err != nil {
		return fmt.Errorf("renderer.Process() > %w", err)
	}
	return nil
}
