// Package testutil provides shared test helpers for config files and notebook fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Satvik374/Study-App/internal/learning"
	"github.com/Satvik374/Study-App/internal/notebook"
	"github.com/Satvik374/Study-App/internal/store"
)

// SetupTestConfig writes a config file that keeps every file under tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := fmt.Sprintf(`storage:
  driver: yaml
  directory: %s
quiz:
  history_limit: 10
outputs:
  report_directory: %s
`,
		filepath.Join(tmpDir, "data"),
		filepath.Join(tmpDir, "reports"),
	)

	configPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))
	return configPath
}

// Subjects is a small notebook: Geography → Europe with one Q&A pair and one
// definition, and Biology → Plants with one definition and one Q&A pair.
func Subjects() []notebook.Subject {
	return []notebook.Subject{
		{
			ID: "s1", Name: "Geography", Color: "#3b82f6",
			Chapters: []notebook.Chapter{
				{
					ID: "c1", Number: "1", Name: "Europe",
					Definitions: []notebook.Definition{
						{ID: "d1", Term: "Capital", Definition: "the city where a government sits", Tags: []string{}},
					},
					QA: []notebook.QA{
						{ID: "q1", Question: "Capital of France?", Answer: "Paris", Tags: []string{"exam"}},
					},
				},
			},
		},
		{
			ID: "s2", Name: "Biology", Color: "#22c55e",
			Chapters: []notebook.Chapter{
				{
					ID: "c2", Number: "1", Name: "Plants",
					Definitions: []notebook.Definition{
						{ID: "d2", Term: "Photosynthesis", Definition: "Photosynthesis converts light into chemical energy", Tags: []string{"exam"}},
					},
					QA: []notebook.QA{
						{ID: "q2", Question: "What do leaves make?", Answer: "glucose and oxygen", Tags: []string{}},
					},
				},
			},
		},
	}
}

// NewYAMLStore returns a store in a temporary directory holding subjects and states.
func NewYAMLStore(t *testing.T, subjects []notebook.Subject, states learning.ReviewStates) *store.DocumentStore {
	t.Helper()

	s := store.NewYAMLStore(t.TempDir())
	ctx := context.Background()
	if subjects != nil {
		require.NoError(t, s.SaveSubjects(ctx, subjects))
	}
	if states != nil {
		require.NoError(t, s.SaveReviewStates(ctx, states))
	}
	return s
}
