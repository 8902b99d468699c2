package store

import (
	"database/sql"

	"codeberg.org/vintr/updatemon/internal/errors"
)

const createTablesSQL = `
    CREATE TABLE IF NOT EXISTS update_configuration (
        key          TEXT PRIMARY KEY,
        value        TEXT NOT NULL,
        collected_at INTEGER NOT NULL
    );
    CREATE TABLE IF NOT EXISTS update_products (
        collected_at INTEGER NOT NULL,
        seq          INTEGER NOT NULL,
        key          TEXT NOT NULL,
        value        TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_update_products_seq
        ON update_products (seq);`

// initSchema creates the row tables if they do not exist
func initSchema(db *sql.DB) error {
	if _, err := db.Exec(createTablesSQL); err != nil {
		return errors.New().Wrap(ErrSchemaInitFailed, err)
	}

	return nil
}
