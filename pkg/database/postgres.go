package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Dialect names the SQL flavour behind a DB
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB wraps the sql.DB connection and remembers its dialect
type DB struct {
	*sql.DB
	dialect Dialect
}

// Config holds database configuration. Driver is sqlite, postgres or pgx.
type Config struct {
	Driver          string
	Path            string
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	Timeout         time.Duration
}

// Open connects with the driver named in config and verifies the connection
func Open(config Config) (*DB, error) {
	switch config.Driver {
	case "", "sqlite":
		return NewSQLite(config)
	case "postgres":
		return NewDB(config)
	case "pgx":
		return NewPGX(config)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

// NewDB creates a PostgreSQL connection through lib/pq
func NewDB(config Config) (*DB, error) {
	config = withDefaults(config)

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		config.Host,
		config.Port,
		config.User,
		config.Password,
		config.Database,
		config.SSLMode,
		int(config.Timeout.Seconds()),
	)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return finish(sqlDB, DialectPostgres, config)
}

func withDefaults(config Config) Config {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}
	return config
}

// finish applies pool settings and pings within config.Timeout
func finish(sqlDB *sql.DB, dialect Dialect, config Config) (*DB, error) {
	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB, dialect: dialect}, nil
}

// Dialect reports the SQL flavour of the connection
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Rebind rewrites ? placeholders to $1, $2, ... for postgres connections
func (db *DB) Rebind(query string) string {
	if db.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// HealthCheck performs a database health check with timeout
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result int
	err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("health check returned unexpected value: %d", result)
	}

	return nil
}
