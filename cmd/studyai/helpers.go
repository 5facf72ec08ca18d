package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Satvik374/Study-App/internal/client"
	"github.com/Satvik374/Study-App/internal/config"
	"github.com/Satvik374/Study-App/internal/notebook"
	"github.com/Satvik374/Study-App/internal/store"
)

var errNoRemote = errors.New("remote.base_url is not configured")

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// openStore loads the configuration and opens the store it names.
// The caller closes the store with closeStore.
func openStore(ctx context.Context) (*config.Config, store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("store.Open() > %w", err)
	}
	return cfg, st, nil
}

func closeStore(st store.Store) {
	if err := st.Close(); err != nil {
		slog.Warn("failed to close the store", "error", err)
	}
}

func loadNotebook(ctx context.Context, st store.Store) (*notebook.Notebook, error) {
	subjects, err := st.LoadSubjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.LoadSubjects() > %w", err)
	}
	return notebook.New(subjects), nil
}

func newRemoteClient(cfg *config.Config) (*client.Client, error) {
	if cfg.Remote.BaseURL == "" {
		return nil, errNoRemote
	}
	return client.NewClient(cfg.Remote), nil
}
