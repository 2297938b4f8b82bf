package infra

import (
	"fmt"
	"strings"

	"github.com/ken6921-byte/zuinsurance-app/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the single-file SQLite store, enables WAL journaling and
// foreign-key enforcement (SQLite defaults FKs OFF — the delete cascades on
// customers and policies depend on it), then runs AutoMigrate to
// create / update all tables on first run.
func NewDatabase(path string) (*gorm.DB, error) {
	// Pragmas ride in the DSN so the driver applies them on every connection,
	// not just whichever one served a setup Exec. foreign_keys in particular
	// must never be lost: the delete cascades depend on it.
	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&"
	} else {
		dsn += "?"
	}
	dsn += "_fk=1&_journal_mode=WAL&_busy_timeout=5000"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// SQLite serializes writers itself; keep the pool to one open connection
	// so the app never trips SQLITE_BUSY under its own concurrency.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// RunMigrations creates or updates the schema. Also used directly by tests
// against in-memory databases.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Policy{},
		&model.PolicyItem{},
		&model.UsageDaily{},
	)
}
