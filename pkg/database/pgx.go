package database

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// NewPGX creates a PostgreSQL connection through pgx's database/sql driver
func NewPGX(config Config) (*DB, error) {
	config = withDefaults(config)

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=%d",
		config.User,
		config.Password,
		config.Host,
		config.Port,
		config.Database,
		config.SSLMode,
		int(config.Timeout.Seconds()),
	)

	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open pgx database: %w", err)
	}
	return finish(sqlDB, DialectPostgres, config)
}
