package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bkoncius/Book-recommendation-app/internal/config"
)

// Init opens a database connection with basic pool tuning. The driver is
// selected by configuration: the app started on SQLite and later moved to
// PostgreSQL, so both stay supported. TranslateError is enabled so callers
// can match gorm.ErrDuplicatedKey instead of driver-specific error text.
func Init(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormLogger := logger.Default
	if !cfg.LogMode {
		gormLogger = gormLogger.LogMode(logger.Silent)
	}

	var dialector gorm.Dialector
	isSQLite := false
	switch strings.ToLower(cfg.Driver) {
	case "", "sqlite":
		isSQLite = true
		// ensure parent directory exists for file-backed databases
		if dir := filepath.Dir(strings.TrimPrefix(cfg.DSN, "file:")); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		dialector = sqlite.Open(sqliteDSN(cfg.DSN))
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	// connection pool; SQLite allows one writer at a time, so a larger
	// pool only trades throughput for lock errors
	if isSQLite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// sqliteDSN appends the connection parameters the driver applies to every
// connection it opens. foreign_keys, journal_mode and synchronous are
// per-connection pragmas in SQLite; setting them with a one-off Exec would
// leave any other pooled or recycled connection without them.
func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
}
