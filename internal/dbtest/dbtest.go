// Package dbtest provides throwaway in-memory databases for package tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/EmpoweredVote/EV-Dashboard/internal/db"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh in-memory sqlite database that lives until the test
// ends. A single connection keeps every query on the same memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	d, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := d.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })
	return d
}

// Use opens a test database, installs it as db.DB and runs the given
// migrations. The previous db.DB is restored when the test ends.
func Use(t testing.TB, migrations ...func(*gorm.DB) error) *gorm.DB {
	t.Helper()

	d := Open(t)
	for _, m := range migrations {
		if err := m(d); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}

	prev := db.DB
	db.DB = d
	t.Cleanup(func() { db.DB = prev })
	return d
}
