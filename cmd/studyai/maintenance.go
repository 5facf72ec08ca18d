package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Satvik374/Study-App/internal/config"
	"github.com/Satvik374/Study-App/internal/datasync"
	"github.com/Satvik374/Study-App/internal/notebook"
	"github.com/Satvik374/Study-App/internal/store"
)

func newMigrateCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade stored data to the current format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(st)

			result, err := st.Migrate(cmd.Context())
			if err != nil {
				return fmt.Errorf("store.Migrate() > %w", err)
			}
			out := cmd.OutOrStdout()
			if result.FromVersion == result.ToVersion && !result.Normalized {
				_, _ = fmt.Fprintf(out, "Data is up to date (version %d)\n", result.ToVersion)
				return nil
			}
			_, _ = fmt.Fprintf(out, "Migrated data from version %d to %d\n", result.FromVersion, result.ToVersion)
			if result.LegacyChapters > 0 {
				_, _ = fmt.Fprintf(out, "Moved %d chapters into the General subject\n", result.LegacyChapters)
			}
			return nil
		},
	}
	command.AddCommand(newMigrateImportCommand())

	return command
}

func newMigrateImportCommand() *cobra.Command {
	var (
		opts   datasync.ImportOptions
		driver string
		path   string
	)
	command := &cobra.Command{
		Use:   "import",
		Short: "Copy the configured store into another storage driver",
		Long: `Copy subjects, review states, history and settings from the configured
store into the store named by --to. Existing subjects and review states are
skipped unless --update-existing is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, source, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(source)

			if driver == cfg.Storage.Driver && path == "" {
				return fmt.Errorf("the target driver %q is the configured store, set --path to copy elsewhere", driver)
			}
			targetCfg := *cfg
			targetCfg.Storage.Driver = driver
			if path != "" {
				targetCfg.Storage.Directory = path
				targetCfg.Storage.SQLitePath = path
			}
			target, err := store.Open(ctx, &targetCfg)
			if err != nil {
				return fmt.Errorf("store.Open(%s) > %w", driver, err)
			}
			defer closeStore(target)

			opts.HistoryLimit = cfg.Quiz.HistoryLimit
			out := cmd.OutOrStdout()
			if opts.DryRun {
				_, _ = fmt.Fprintln(out, "Dry run: nothing is written")
			}
			result, err := datasync.NewImporter(source, target, out).Import(ctx, opts)
			if err != nil {
				return fmt.Errorf("datasync.Import() > %w", err)
			}

			_, _ = fmt.Fprintln(out, "\nImport Summary:")
			_, _ = fmt.Fprintf(out, "  Subjects:      %d new, %d skipped, %d updated\n", result.SubjectsNew, result.SubjectsSkipped, result.SubjectsUpdated)
			_, _ = fmt.Fprintf(out, "  Review states: %d new, %d skipped, %d updated\n", result.ReviewStatesNew, result.ReviewStatesSkipped, result.ReviewStatesUpdated)
			_, _ = fmt.Fprintf(out, "  History:       %d new, %d skipped\n", result.HistoryNew, result.HistorySkipped)
			_, _ = fmt.Fprintf(out, "  Settings:      copied=%t\n", result.SettingsCopied)
			return nil
		},
	}
	command.Flags().StringVar(&driver, "to", config.StorageDriverSQLite, "Target storage driver: yaml, mysql or sqlite")
	command.Flags().StringVar(&path, "path", "", "Target directory (yaml) or database file (sqlite); defaults to the configured one")
	command.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report what would be imported without writing")
	command.Flags().BoolVar(&opts.UpdateExisting, "update-existing", false, "Overwrite subjects and review states that already exist")

	return command
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the notebook and review states for consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return readNotebook(cmd.Context(), func(nb *notebook.Notebook, st store.Store) error {
				states, err := st.LoadReviewStates(cmd.Context())
				if err != nil {
					return fmt.Errorf("store.LoadReviewStates() > %w", err)
				}

				result := notebook.NewValidator(nb, states.IDs()).Validate()
				displayValidationResults(cmd.OutOrStdout(), result)
				if result.HasErrors() {
					return fmt.Errorf("validation failed with %d error(s)",
						len(result.ContentErrors)+len(result.ConsistencyErrors))
				}
				return nil
			})
		},
	}
}

func displayValidationResults(w io.Writer, result *notebook.ValidationResult) {
	printGroup := func(title string, errs []notebook.ValidationError) {
		if len(errs) == 0 {
			return
		}
		_, _ = fmt.Fprintf(w, "%s (%d):\n", title, len(errs))
		for _, err := range errs {
			_, _ = fmt.Fprintf(w, "  - %s\n", err.Error())
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintln(w, "=== Validation Results ===")
	printGroup("✗ Content errors", result.ContentErrors)
	printGroup("✗ Consistency errors", result.ConsistencyErrors)
	printGroup("⚠ Warnings", result.Warnings)

	totalErrors := len(result.ContentErrors) + len(result.ConsistencyErrors)
	_, _ = fmt.Fprintln(w, "=== Summary ===")
	switch {
	case totalErrors == 0 && len(result.Warnings) == 0:
		_, _ = fmt.Fprintln(w, "✓ All validations passed!")
	default:
		if totalErrors > 0 {
			_, _ = fmt.Fprintf(w, "✗ Total errors: %d\n", totalErrors)
		}
		if len(result.Warnings) > 0 {
			_, _ = fmt.Fprintf(w, "⚠ Total warnings: %d\n", len(result.Warnings))
		}
	}
}

func newSettingsCommand() *cobra.Command {
	var theme string
	command := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(st)

			settings, err := st.LoadSettings(ctx)
			if err != nil {
				return fmt.Errorf("store.LoadSettings() > %w", err)
			}
			if cmd.Flags().Changed("theme") {
				if theme != "dark" && theme != "light" {
					return fmt.Errorf("invalid theme %q, valid values are dark or light", theme)
				}
				settings.Theme = theme
				if err := st.SaveSettings(ctx, settings); err != nil {
					return fmt.Errorf("store.SaveSettings() > %w", err)
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\n", settings.Theme)
			return nil
		},
	}
	command.Flags().StringVar(&theme, "theme", "", "Color theme: dark or light")

	return command
}
