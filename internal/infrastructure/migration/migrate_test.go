package migration

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func writeMigration(t *testing.T, dir, name, up, down string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".up.sql"), []byte(up), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".down.sql"), []byte(down), 0o644))
}

func newSQLiteMigrator(t *testing.T) (*Migrator, *sql.DB, *observer.ObservedLogs) {
	t.Helper()
	dir := t.TempDir()
	writeMigration(t, dir, "000001_create_communities",
		"CREATE TABLE communities (id TEXT PRIMARY KEY, name TEXT NOT NULL);",
		"DROP TABLE communities;")
	writeMigration(t, dir, "000002_create_fee_items",
		"CREATE TABLE fee_items (id TEXT PRIMARY KEY, code TEXT NOT NULL UNIQUE);",
		"DROP TABLE fee_items;")

	db, err := sql.Open("sqlite3", filepath.Join(dir, "test.db"))
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	m, err := NewWithDriver(driver, "sqlite3", dir, zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m, db, logs
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count)
	require.NoError(t, err)
	return count > 0
}

func TestMigrator_UpDown(t *testing.T) {
	m, db, logs := newSQLiteMigrator(t)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, m.Up())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.True(t, tableExists(t, db, "fee_items"))
	assert.Equal(t, 1, logs.FilterMessage("Migrations completed").Len())

	// Second run is a no-op
	require.NoError(t, m.Up())
	assert.Equal(t, 1, logs.FilterMessage("No migrations to apply").Len())

	require.NoError(t, m.Steps(-1))
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, tableExists(t, db, "fee_items"))

	require.NoError(t, m.Down())
	assert.False(t, tableExists(t, db, "communities"))
}

func TestMigrator_Force(t *testing.T) {
	m, _, logs := newSQLiteMigrator(t)

	require.NoError(t, m.Force(1))
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
	assert.Equal(t, 1, logs.FilterMessage("Forcing migration version").Len())
}
