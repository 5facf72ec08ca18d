package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/Satvik374/Study-App/internal/bootstrap"
	"github.com/Satvik374/Study-App/internal/config"
	"github.com/Satvik374/Study-App/internal/server"
	"github.com/Satvik374/Study-App/internal/store"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "studyai-server",
		Short:         "Study service HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	srv, err := newServer(ctx, app, cfg)
	if err != nil {
		return err
	}

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Info("starting server", "addr", srv.Addr, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

// newServer opens the store and builds the HTTP server. Both are closed by app on shutdown.
func newServer(ctx context.Context, app *bootstrap.App, cfg *config.Config) (*http.Server, error) {
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store.Open() > %w", err)
	}
	app.OnShutdown(func(context.Context) error {
		return st.Close()
	})
	if _, err := st.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("store.Migrate() > %w", err)
	}

	handler, err := server.NewStudyHandler(st, cfg.Quiz)
	if err != nil {
		return nil, fmt.Errorf("server.NewStudyHandler() > %w", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.NewHTTPHandler(handler, cfg.Server.CORS.AllowedOrigins),
	}
	app.OnShutdown(srv.Shutdown)
	return srv, nil
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}
