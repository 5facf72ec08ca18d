package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Satvik374/Study-App/internal/learning"
	"github.com/Satvik374/Study-App/internal/notebook"
	"github.com/Satvik374/Study-App/internal/pdf"
	"github.com/Satvik374/Study-App/internal/statistics"
	"github.com/Satvik374/Study-App/internal/store"
)

func newDueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "List the items due for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return readNotebook(cmd.Context(), func(nb *notebook.Notebook, st store.Store) error {
				due, err := learning.NewScheduler(st, nil).Due(cmd.Context(), nb.Items())
				if err != nil {
					return fmt.Errorf("scheduler.Due() > %w", err)
				}
				if len(due) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing is due. Come back later!")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "📚 %d items due for review\n", len(due))
				printItems(cmd.OutOrStdout(), due)
				return nil
			})
		},
	}
}

func newHistoryCommand() *cobra.Command {
	var clear bool
	command := &cobra.Command{
		Use:   "history",
		Short: "Show the results of past tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(st)

			if clear {
				if err := st.SaveHistory(ctx, []learning.HistoryEntry{}); err != nil {
					return fmt.Errorf("store.SaveHistory() > %w", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
				return nil
			}

			history, err := st.LoadHistory(ctx)
			if err != nil {
				return fmt.Errorf("store.LoadHistory() > %w", err)
			}
			if len(history) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tests yet")
				return nil
			}
			for _, entry := range history {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s %3d%%  %d items  %s  %s\n",
					entry.Timestamp.Local().Format("2006-01-02 15:04"),
					entry.Mode,
					statistics.Percent(entry.AverageScore),
					entry.ItemCount,
					(time.Duration(entry.ElapsedMs) * time.Millisecond).Round(time.Second),
					entry.ChapterLabel,
				)
			}
			return nil
		},
	}
	command.Flags().BoolVar(&clear, "clear", false, "Delete every history entry")

	return command
}

func newStatsCommand() *cobra.Command {
	var generatePDF bool
	command := &cobra.Command{
		Use:   "stats",
		Short: "Show the study dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(st)

			nb, err := loadNotebook(ctx, st)
			if err != nil {
				return err
			}
			history, err := st.LoadHistory(ctx)
			if err != nil {
				return fmt.Errorf("store.LoadHistory() > %w", err)
			}
			states, err := st.LoadReviewStates(ctx)
			if err != nil {
				return fmt.Errorf("store.LoadReviewStates() > %w", err)
			}

			now := time.Now()
			var markdown strings.Builder
			if err := statistics.Calculate(history, nb, states, now).Render(&markdown, cfg.Templates.StudyReportTemplate); err != nil {
				return fmt.Errorf("dashboard.Render() > %w", err)
			}
			if !generatePDF {
				_, err := fmt.Fprint(cmd.OutOrStdout(), markdown.String())
				return err
			}

			path, err := pdf.WriteReport(cfg.Outputs.ReportDirectory, markdown.String(), now)
			if err != nil {
				return fmt.Errorf("pdf.WriteReport() > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			return nil
		},
	}
	command.Flags().BoolVar(&generatePDF, "pdf", false, "Write the report as markdown and PDF into outputs.report_directory")

	return command
}
