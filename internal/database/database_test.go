package database

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()+time.Now().Format("150405.000000000")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openMemory(t)
	for _, table := range []string{"users", "trains", "bookings", "refresh_tokens", "schema_migrations"} {
		assert.True(t, tableExists(t, db, table), table)
	}
	require.NoError(t, Migrate(context.Background(), db, DriverSQLite))

	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestRollbackLast(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	require.NoError(t, RollbackLast(ctx, db, DriverSQLite))
	assert.False(t, tableExists(t, db, "trains"))

	require.NoError(t, Migrate(ctx, db, DriverSQLite))
	assert.True(t, tableExists(t, db, "trains"))
}

func TestSchemaRejectsNonPositiveSeats(t *testing.T) {
	db := openMemory(t)
	_, err := db.Exec(`INSERT INTO trains (source, destination, total_seats) VALUES ('A','B',0)`)
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	db := openMemory(t)
	_, err := db.Exec(`INSERT INTO users (username, password_hash) VALUES ('u','h')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (username, password_hash) VALUES ('u','h')`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(sql.ErrNoRows))
}

func TestIsContention(t *testing.T) {
	assert.True(t, IsContention(&mysql.MySQLError{Number: 1213}))
	assert.True(t, IsContention(fmt.Errorf("commit: %w", &mysql.MySQLError{Number: 1205})))
	assert.False(t, IsContention(&mysql.MySQLError{Number: 1062}))
	assert.True(t, IsContention(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.False(t, IsContention(sqlite3.Error{Code: sqlite3.ErrConstraint}))
	assert.False(t, IsContention(sql.ErrNoRows))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Options{Driver: "oracle"})
	assert.Error(t, err)
}
