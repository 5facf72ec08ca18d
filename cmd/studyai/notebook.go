package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Satvik374/Study-App/internal/notebook"
	"github.com/Satvik374/Study-App/internal/store"
)

func newNotebookCommand() *cobra.Command {
	notebookCommand := &cobra.Command{
		Use:   "notebook",
		Short: "Manage subjects, chapters, definitions and Q&A pairs",
	}

	notebookCommand.AddCommand(
		newNotebookListCommand(),
		newNotebookSearchCommand(),
		newNotebookAddSubjectCommand(),
		newNotebookAddChapterCommand(),
		newNotebookAddDefinitionCommand(),
		newNotebookAddQACommand(),
		newNotebookDeleteItemCommand(),
		newNotebookExportCommand(),
		newNotebookImportCommand(),
	)
	return notebookCommand
}

// editNotebook loads the notebook, applies fn and saves the result.
func editNotebook(ctx context.Context, fn func(nb *notebook.Notebook) error) error {
	_, st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(st)

	nb, err := loadNotebook(ctx, st)
	if err != nil {
		return err
	}
	if err := fn(nb); err != nil {
		return err
	}
	if err := st.SaveSubjects(ctx, nb.Subjects); err != nil {
		return fmt.Errorf("store.SaveSubjects() > %w", err)
	}
	return nil
}

// readNotebook loads the notebook for commands that only print.
func readNotebook(ctx context.Context, fn func(nb *notebook.Notebook, st store.Store) error) error {
	_, st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(st)

	nb, err := loadNotebook(ctx, st)
	if err != nil {
		return err
	}
	return fn(nb, st)
}

func newNotebookListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List subjects and chapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return readNotebook(cmd.Context(), func(nb *notebook.Notebook, _ store.Store) error {
				printNotebook(cmd.OutOrStdout(), nb)
				return nil
			})
		},
	}
}

func printNotebook(w io.Writer, nb *notebook.Notebook) {
	if len(nb.Subjects) == 0 {
		_, _ = fmt.Fprintln(w, "The notebook is empty. Add a subject with `studyai notebook add-subject`.")
		return
	}
	for _, subject := range nb.Subjects {
		_, _ = fmt.Fprintf(w, "%s (%s)\n", subject.Name, subject.ID)
		for _, chapter := range subject.Chapters {
			_, _ = fmt.Fprintf(w, "  Ch %s: %s (%s) %d definitions, %d Q&A\n",
				chapter.Number, chapter.Name, chapter.ID, len(chapter.Definitions), len(chapter.QA))
		}
	}
}

func printItems(w io.Writer, items []notebook.Item) {
	for _, item := range items {
		line := fmt.Sprintf("%s [%s] %s: %s → %s", item.ID, item.Location(), item.PromptLabel(), item.Prompt, item.Answer)
		if len(item.Tags) > 0 {
			line += " #" + strings.Join(item.Tags, " #")
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func newNotebookSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find items whose prompt or answer contains the query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return readNotebook(cmd.Context(), func(nb *notebook.Notebook, _ store.Store) error {
				items := nb.Search(args[0])
				if len(items) == 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No items match %q\n", args[0])
					return nil
				}
				printItems(cmd.OutOrStdout(), items)
				return nil
			})
		},
	}
}

func newNotebookAddSubjectCommand() *cobra.Command {
	var color string
	command := &cobra.Command{
		Use:   "add-subject <name>",
		Short: "Add a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editNotebook(cmd.Context(), func(nb *notebook.Notebook) error {
				subject := nb.AddSubject(args[0], color)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added subject %s (%s)\n", subject.Name, subject.ID)
				return nil
			})
		},
	}
	command.Flags().StringVar(&color, "color", "", "Subject color, e.g. #06b6d4")

	return command
}

func newNotebookAddChapterCommand() *cobra.Command {
	var number string
	command := &cobra.Command{
		Use:   "add-chapter <subject id> <name>",
		Short: "Add a chapter to a subject",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editNotebook(cmd.Context(), func(nb *notebook.Notebook) error {
				chapter, err := nb.AddChapter(args[0], number, args[1])
				if err != nil {
					return fmt.Errorf("notebook.AddChapter() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added chapter %s: %s (%s)\n", chapter.Number, chapter.Name, chapter.ID)
				return nil
			})
		},
	}
	command.Flags().StringVar(&number, "number", "", "Chapter number, defaults to the next one")

	return command
}

func newNotebookAddDefinitionCommand() *cobra.Command {
	var tags []string
	command := &cobra.Command{
		Use:   "add-definition <chapter id> <term> <definition>",
		Short: "Add a definition to a chapter",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editNotebook(cmd.Context(), func(nb *notebook.Notebook) error {
				d, err := nb.AddDefinition(args[0], args[1], args[2], tags)
				if err != nil {
					return fmt.Errorf("notebook.AddDefinition() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added definition %s (%s)\n", d.Term, d.ID)
				return nil
			})
		},
	}
	command.Flags().StringSliceVar(&tags, "tag", nil, "Tags of the definition")

	return command
}

func newNotebookAddQACommand() *cobra.Command {
	var tags []string
	command := &cobra.Command{
		Use:   "add-qa <chapter id> <question> <answer>",
		Short: "Add a question and its answer to a chapter",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editNotebook(cmd.Context(), func(nb *notebook.Notebook) error {
				qa, err := nb.AddQA(args[0], args[1], args[2], tags)
				if err != nil {
					return fmt.Errorf("notebook.AddQA() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added question %q (%s)\n", qa.Question, qa.ID)
				return nil
			})
		},
	}
	command.Flags().StringSliceVar(&tags, "tag", nil, "Tags of the question")

	return command
}

func newNotebookDeleteItemCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-item <item id>",
		Short: "Delete a definition or a Q&A pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editNotebook(cmd.Context(), func(nb *notebook.Notebook) error {
				if err := nb.DeleteItem(args[0]); err != nil {
					return fmt.Errorf("notebook.DeleteItem() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newNotebookExportCommand() *cobra.Command {
	var output string
	command := &cobra.Command{
		Use:   "export",
		Short: "Export every subject as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return readNotebook(cmd.Context(), func(nb *notebook.Notebook, _ store.Store) error {
				data, err := notebook.Export(nb.Subjects)
				if err != nil {
					return fmt.Errorf("notebook.Export() > %w", err)
				}
				if output == "" {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return err
				}
				if err := os.WriteFile(output, data, 0644); err != nil {
					return fmt.Errorf("os.WriteFile(%s) > %w", output, err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d subjects to %s\n", len(nb.Subjects), output)
				return nil
			})
		},
	}
	command.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	return command
}

func newNotebookImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the notebook with an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("os.ReadFile(%s) > %w", args[0], err)
			}
			subjects, err := notebook.Import(data)
			if err != nil {
				return fmt.Errorf("notebook.Import() > %w", err)
			}
			return editNotebook(cmd.Context(), func(nb *notebook.Notebook) error {
				nb.Subjects = subjects
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d subjects\n", len(subjects))
				return nil
			})
		},
	}
}
