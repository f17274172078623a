// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"townsquare/internal/config"
	"townsquare/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewSQLiteDB opens a private in-memory SQLite database with the schema migrated.
// The pool is pinned to one connection so the in-memory database lives as long as the test.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbSeq.Add(1))

	db, err := database.Open(sqlite.Open(dsn), &config.Config{
		Env:            "test",
		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
