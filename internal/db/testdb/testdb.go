// Package testdb provides migrated in-memory databases for tests.
package testdb

import (
	"testing"
	"time"

	"clubhouse/internal/db"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens a fresh in-memory sqlite database with the full schema.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	orm, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// every connection to :memory: is a new database
	sqlDB, err := orm.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(orm); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return orm
}

// NewSQLX returns an sqlx handle sharing the test database's pool.
func NewSQLX(t *testing.T, orm *gorm.DB) *sqlx.DB {
	t.Helper()

	x, err := db.SQLXFromORM(orm, "sqlite3")
	if err != nil {
		t.Fatalf("Failed to wrap test database: %v", err)
	}
	return x
}
