package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Satvik374/Study-App/internal/database"
	"github.com/Satvik374/Study-App/schemas"
)

// DBBackend keeps documents in the documents table.
type DBBackend struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewDBBackend(db *sqlx.DB) *DBBackend {
	return &DBBackend{
		db:  db,
		now: time.Now,
	}
}

// NewDBStore applies the schema for the connection's driver and stores JSON documents in it.
func NewDBStore(ctx context.Context, db *sqlx.DB) (*DocumentStore, error) {
	if err := database.ApplyMigrations(ctx, db, schemas.Migrations, schemas.MigrationsDir(db.DriverName())); err != nil {
		return nil, fmt.Errorf("database.ApplyMigrations() > %w", err)
	}
	return NewDocumentStore(NewDBBackend(db), JSONCodec{}), nil
}

type documentRow struct {
	Body   string         `db:"body"`
	Backup sql.NullString `db:"backup"`
}

func (b *DBBackend) Read(ctx context.Context, name string) (Document, error) {
	var row documentRow
	err := b.db.GetContext(ctx, &row, "SELECT body, backup FROM documents WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNoDocument
	}
	if err != nil {
		return Document{}, fmt.Errorf("db.GetContext(document %s) > %w", name, err)
	}

	doc := Document{Body: []byte(row.Body)}
	if row.Backup.Valid {
		doc.Backup = []byte(row.Backup.String)
	}
	return doc, nil
}

func (b *DBBackend) Write(ctx context.Context, name string, body []byte) error {
	return database.RunInTx(ctx, b.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var current string
		err := tx.GetContext(ctx, &current, "SELECT body FROM documents WHERE name = ?", name)
		if errors.Is(err, sql.ErrNoRows) {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO documents (name, body, backup, updated_at) VALUES (?, ?, NULL, ?)",
				name, string(body), b.now().UTC()); err != nil {
				return fmt.Errorf("tx.ExecContext(insert document %s) > %w", name, err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("tx.GetContext(document %s) > %w", name, err)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE documents SET body = ?, backup = ?, updated_at = ? WHERE name = ?",
			string(body), current, b.now().UTC(), name); err != nil {
			return fmt.Errorf("tx.ExecContext(update document %s) > %w", name, err)
		}
		return nil
	})
}

func (b *DBBackend) Restore(ctx context.Context, name string) error {
	result, err := b.db.ExecContext(ctx,
		"UPDATE documents SET body = backup, updated_at = ? WHERE name = ? AND backup IS NOT NULL",
		b.now().UTC(), name)
	if err != nil {
		return fmt.Errorf("db.ExecContext(restore document %s) > %w", name, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("document %s has no backup: %w", name, ErrNoDocument)
	}
	return nil
}

func (b *DBBackend) Close() error {
	return b.db.Close()
}
