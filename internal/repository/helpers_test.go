package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testDB opens a migrated sqlite database in a temp directory.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Options{
		URL:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "error",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

// stepClock returns a clock that advances by one second on every call.
func stepClock() func() time.Time {
	current := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}
