package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Satvik374/Study-App/internal/config"
	"github.com/Satvik374/Study-App/internal/database"
)

// Open returns the store selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverYAML:
		return NewYAMLStore(cfg.Storage.Directory), nil
	case config.StorageDriverMySQL:
		db, err = database.Open(cfg.Database)
	case config.StorageDriverSQLite:
		db, err = database.OpenSQLite(cfg.Storage.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database > %w", cfg.Storage.Driver, err)
	}

	s, err := NewDBStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
