package database

import (
	"database/sql"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
)

// NewSQLite opens a pure-Go SQLite database at config.Path.
// ":memory:" gives a private database pinned to a single connection.
func NewSQLite(config Config) (*DB, error) {
	config = withDefaults(config)
	path := config.Path
	if path == "" {
		path = ":memory:"
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		config.MaxOpenConns = 1
		config.MaxIdleConns = 1
		config.ConnMaxLifetime = 0
		config.ConnMaxIdleTime = 0
	}
	return finish(sqlDB, DialectSQLite, config)
}
