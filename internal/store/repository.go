package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/vintr/updatemon/internal/errors"
	"codeberg.org/vintr/updatemon/internal/logger"
	"codeberg.org/vintr/updatemon/internal/rows"

	_ "github.com/mattn/go-sqlite3"
)

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	logger.Debug().Msgf("Initializing rows repository at: %s", cfg.DBPath)

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	return &sqliteRepository{
		db: db,
	}, nil
}

// StoreConfiguration upserts the configuration snapshot by row key. The
// snapshot is a full re-read, so every key is rewritten with the new
// collection timestamp.
func (r *sqliteRepository) StoreConfiguration(ctx context.Context, collected []rows.Row, at time.Time) error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	defer tx.Rollback()

	for _, row := range collected {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO update_configuration (key, value, collected_at)
            VALUES (?, ?, ?)
            ON CONFLICT(key) DO UPDATE SET
                value = excluded.value,
                collected_at = excluded.collected_at
        `, row.Key, row.Value, at.Unix()); err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

// StoreProducts replaces the previous scan's rows. Products are a full
// re-scan per collection, never a diff.
func (r *sqliteRepository) StoreProducts(ctx context.Context, collected []rows.Row, at time.Time) error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM update_products`); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	for _, row := range collected {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO update_products (collected_at, seq, key, value)
            VALUES (?, ?, ?, ?)
        `, at.Unix(), row.Seq, row.Key, row.Value); err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}
