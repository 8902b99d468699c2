package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/vintr/updatemon/internal/rows"
	"codeberg.org/vintr/updatemon/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func newService(t *testing.T) (store.Recorder, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "updatemon.db")

	svc, err := store.NewService(store.Config{DBPath: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	return svc, dbPath
}

func countRows(t *testing.T, dbPath, table string) int {
	t.Helper()
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))

	return n
}

func TestRecordConfigurationUpserts(t *testing.T) {
	svc, dbPath := newService(t)
	ctx := context.Background()

	first := []rows.Row{
		{Key: "autoupdate_enabled", Value: "1"},
		{Key: "download", Value: "0"},
	}
	require.NoError(t, svc.RecordConfiguration(ctx, first, time.Unix(1700000000, 0)))

	second := []rows.Row{
		{Key: "autoupdate_enabled", Value: "0"},
		{Key: "download", Value: "0"},
	}
	require.NoError(t, svc.RecordConfiguration(ctx, second, time.Unix(1700000600, 0)))

	assert.Equal(t, 2, countRows(t, dbPath, "update_configuration"), "re-reads replace by key, not append")

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var value string
	var collectedAt int64
	require.NoError(t, db.QueryRow(
		"SELECT value, collected_at FROM update_configuration WHERE key = ?",
		"autoupdate_enabled",
	).Scan(&value, &collectedAt))
	assert.Equal(t, "0", value)
	assert.Equal(t, int64(1700000600), collectedAt)
}

func TestRecordProductsReplacesPreviousScan(t *testing.T) {
	svc, dbPath := newService(t)
	ctx := context.Background()

	first := []rows.Row{
		{Seq: 0, Key: "name", Value: "A"},
		{Seq: 1, Key: "name", Value: "B"},
		{Seq: 1, Key: "sub.id", Value: "42"},
	}
	require.NoError(t, svc.RecordProducts(ctx, first, time.Now()))
	assert.Equal(t, 3, countRows(t, dbPath, "update_products"))

	second := []rows.Row{
		{Seq: 0, Key: "name", Value: "C"},
	}
	require.NoError(t, svc.RecordProducts(ctx, second, time.Now()))
	assert.Equal(t, 1, countRows(t, dbPath, "update_products"), "a fresh scan replaces the previous one")
}

func TestRecordProductsEmptyScan(t *testing.T) {
	svc, dbPath := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.RecordProducts(ctx, []rows.Row{{Seq: 0, Key: "name", Value: "A"}}, time.Now()))
	require.NoError(t, svc.RecordProducts(ctx, nil, time.Now()))
	assert.Zero(t, countRows(t, dbPath, "update_products"))
}

func TestRecordCancelledContext(t *testing.T) {
	svc, _ := newService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.RecordConfiguration(ctx, nil, time.Now())
	assert.Error(t, err)
}

func TestNewServiceRequiresDBPath(t *testing.T) {
	_, err := store.NewService(store.Config{})
	require.Error(t, err)
}
