// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Open returns a migrated, isolated in-memory SQLite database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{
		Driver:         config.DriverSQLite,
		URL:            fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		ConnectRetries: 1,
		LogLevel:       "silent",
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
