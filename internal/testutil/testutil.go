// Package testutil provides shared fixtures for tests: a migrated
// in-memory SQLite ledger and signed access tokens.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/train-seat-reservation/internal/database"
	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/utils"
)

// JWTSecret signs tokens minted by AccessToken.
const JWTSecret = "test-secret"

// OpenInMemoryDB returns a private, migrated in-memory SQLite database
// that is closed when the test ends.
func OpenInMemoryDB(t testing.TB) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.OpenSQLite(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// InsertUser adds a user whose password equals its username.
func InsertUser(t testing.TB, db *sql.DB, username string, role model.Role) uint64 {
	t.Helper()
	hash, err := utils.HashPassword(username, bcrypt.MinCost)
	require.NoError(t, err)
	res, err := db.ExecContext(context.Background(),
		"INSERT INTO users (username, password_hash, role) VALUES (?,?,?)",
		username, hash, string(role))
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

// InsertTrain adds a train without bookings.
func InsertTrain(t testing.TB, db *sql.DB, source, destination string, totalSeats int) uint64 {
	t.Helper()
	res, err := db.ExecContext(context.Background(),
		"INSERT INTO trains (source, destination, total_seats) VALUES (?,?,?)",
		source, destination, totalSeats)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

// AccessToken signs a bearer token for userID with JWTSecret.
func AccessToken(t testing.TB, userID uint64, role model.Role) string {
	t.Helper()
	tok, err := utils.NewAccessToken(JWTSecret, userID, string(role), 15)
	require.NoError(t, err)
	return tok.Token
}
