package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/pratik-mahalle/ytgate/migrations"

	_ "modernc.org/sqlite"
)

var dbSeq atomic.Int64

// NewTestDB creates an in-memory SQLite database with the schema applied.
// Each call gets its own database; it is closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// A named shared-cache memory database survives across pool connections.
	dsn := fmt.Sprintf("file:ytgate_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := migrations.Run(context.Background(), db, "sqlite"); err != nil {
		db.Close()
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() { CleanupDB(db) })
	return db
}

// CleanupDB closes the test database
func CleanupDB(db *sql.DB) {
	if db != nil {
		db.Close()
	}
}
