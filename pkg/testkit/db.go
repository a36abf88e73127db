// Package testkit holds helpers shared by the package tests: an isolated
// migrated database, an HTTP driver for handlers and response assertions.
package testkit

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/catalogue/database/migrations"
	"github.com/shashiranjanraj/catalogue/pkg/database"
	"github.com/shashiranjanraj/catalogue/pkg/migration"
)

// DB opens a private in-memory SQLite database with every migration applied.
// The pool is pinned to one connection because each SQLite :memory:
// connection is its own database.
func DB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Options{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err, "open sqlite")

	require.NoError(t, migration.New(db, migration.WithOutput(io.Discard)).Run(), "migrate")

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
