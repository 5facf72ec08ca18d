package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Satvik374/Study-App/internal/cli"
	"github.com/Satvik374/Study-App/internal/config"
	"github.com/Satvik374/Study-App/internal/learning"
	"github.com/Satvik374/Study-App/internal/notebook"
	"github.com/Satvik374/Study-App/internal/session"
	"github.com/Satvik374/Study-App/internal/store"
)

type ScopeFlag notebook.Scope

// Set implements pflag.Value.
func (s *ScopeFlag) Set(v string) error {
	scope := notebook.Scope(v)
	if !scope.Valid() {
		return fmt.Errorf("invalid value %q, valid values are all, all-qa, all-def, specific or due", v)
	}
	*s = ScopeFlag(scope)
	return nil
}

// String implements pflag.Value.
func (s *ScopeFlag) String() string {
	if s == nil {
		return ""
	}
	return string(*s)
}

// Type implements pflag.Value.
func (s *ScopeFlag) Type() string {
	return "ScopeFlag"
}

var (
	_ pflag.Value = (*ScopeFlag)(nil)
)

type quizOptions struct {
	mode       string
	scope      ScopeFlag
	chapterIDs []string
	itemID     string
	tag        string
	// timeLimit is in seconds. A negative value falls back to the configuration.
	timeLimit int
}

func newQuizCommand() *cobra.Command {
	opts := quizOptions{
		scope:     ScopeFlag(notebook.ScopeAll),
		timeLimit: -1,
	}
	command := &cobra.Command{
		Use:   "quiz",
		Short: "Take a written, blanks or flashcard test",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.scope == ScopeFlag(notebook.ScopeSpecific) && opts.itemID == "" {
				return fmt.Errorf("--item is required with --scope specific")
			}
			cfg, st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(st)

			return runQuiz(cmd.Context(), cfg, st, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	flags := command.Flags()
	flags.StringVar(&opts.mode, "mode", "", "Test mode: written, blanks or flashcard. Defaults to quiz.default_mode")
	flags.Var(&opts.scope, "scope", "Items to test: all, all-qa, all-def, specific or due")
	flags.StringSliceVar(&opts.chapterIDs, "chapter", nil, "Chapter ids to test. Defaults to every chapter")
	flags.StringVar(&opts.itemID, "item", "", "Item id for --scope specific")
	flags.StringVar(&opts.tag, "tag", "", "Only test items with this tag")
	flags.IntVar(&opts.timeLimit, "time-limit", -1, "Seconds per question, 0 for no limit. Defaults to quiz.time_limit_seconds")

	return command
}

func runQuiz(ctx context.Context, cfg *config.Config, st store.Store, opts quizOptions, stdin io.Reader, stdout io.Writer) error {
	modeName := opts.mode
	if modeName == "" {
		modeName = cfg.Quiz.DefaultMode
	}
	mode, err := session.ParseMode(modeName)
	if err != nil {
		return err
	}

	nb, err := loadNotebook(ctx, st)
	if err != nil {
		return err
	}
	states, err := st.LoadReviewStates(ctx)
	if err != nil {
		return fmt.Errorf("store.LoadReviewStates() > %w", err)
	}
	pool, err := session.SelectPool(nb, states, session.Selection{
		Scope:      notebook.Scope(opts.scope),
		ChapterIDs: opts.chapterIDs,
		ItemID:     opts.itemID,
		Tag:        opts.tag,
	}, time.Now())
	if err != nil {
		return fmt.Errorf("session.SelectPool() > %w", err)
	}

	timeLimit := cfg.Quiz.TimeLimitSeconds
	if opts.timeLimit >= 0 {
		timeLimit = opts.timeLimit
	}
	exists := func(itemID string) bool {
		subjects, err := st.LoadSubjects(context.Background())
		if err != nil {
			slog.Warn("failed to load subjects", "error", err)
			return true
		}
		return notebook.New(subjects).Exists(itemID)
	}
	scheduler := learning.NewScheduler(st, nil)
	base := cli.NewInteractiveQuizCLI(stdin, stdout)

	if mode == session.ModeFlashcard {
		s, err := session.Start(pool, session.Options{Mode: mode, Exists: exists}, scheduler)
		if err != nil {
			return fmt.Errorf("session.Start() > %w", err)
		}
		defer s.Abandon()
		_, _ = fmt.Fprintf(stdout, "Starting flashcards with %d cards\n", len(pool))
		return base.Run(ctx, cli.NewFlashcardCLI(base, s))
	}

	var quizCLI *cli.QuizCLI
	s, err := session.Start(pool, session.Options{
		Mode:      mode,
		TimeLimit: time.Duration(timeLimit) * time.Second,
		Exists:    exists,
		OnTimeout: func(feedback session.Feedback, err error) {
			quizCLI.NotifyTimeout(feedback, err)
		},
	}, scheduler)
	if err != nil {
		return fmt.Errorf("session.Start() > %w", err)
	}
	// Stops a pending countdown when the quiz is interrupted.
	defer s.Abandon()
	quizCLI = cli.NewQuizCLI(base, s, st, cfg.Quiz.HistoryLimit)

	_, _ = fmt.Fprintf(stdout, "Starting a %s test with %d items. Type /quit to stop.\n", mode, len(pool))
	return base.Run(ctx, quizCLI)
}
