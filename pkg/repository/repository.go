package repository

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

//go:embed schema.sql schema_postgres.sql
var schemaFS embed.FS

// driver names as registered with database/sql
const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Repositories contains all repository instances
type Repositories struct {
	News *NewsRepository
	DB   *sqlx.DB
}

// NewRepositories creates all repositories with a shared database connection.
// A postgres:// or postgresql:// DSN selects PostgreSQL, anything else is a SQLite DSN.
func NewRepositories(ctx context.Context, cfg Config) (*Repositories, error) {
	if cfg.DSN == "" {
		cfg.DSN = "file:newsbrief.db?cache=shared&mode=rwc&_txlock=immediate"
	}

	driver := driverName(cfg.DSN)
	db, err := sqlx.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if driver == driverSQLite {
		// optimize SQLite settings
		pragmas := []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
			"PRAGMA cache_size = -64000", // 64MB cache
			"PRAGMA temp_store = MEMORY",
			"PRAGMA busy_timeout = 5000", // 5 second timeout for locks
		}

		for _, pragma := range pragmas {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("execute %s: %w", pragma, err)
			}
		}
	}

	// initialize schema
	if err := initSchema(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	// run migrations
	if err := runMigrations(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repositories{
		News: NewNewsRepository(db),
		DB:   db,
	}, nil
}

// Close closes the database connection
func (r *Repositories) Close() error {
	return r.DB.Close()
}

// driverName picks the database driver for a DSN
func driverName(dsn string) string {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return driverPostgres
	}
	return driverSQLite
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sqlx.DB, driver string) error {
	name := "schema.sql"
	if driver == driverPostgres {
		name = "schema_postgres.sql"
	}

	schema, err := schemaFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	return nil
}

// runMigrations updates tables created by older versions
func runMigrations(ctx context.Context, db *sqlx.DB, driver string) error {
	if driver == driverPostgres {
		if _, err := db.ExecContext(ctx, `ALTER TABLE news ADD COLUMN IF NOT EXISTS sentiment TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("add sentiment column: %w", err)
		}
		return nil
	}

	// check if sentiment column exists
	var count int
	err := db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM pragma_table_info('news') WHERE name = 'sentiment'`)
	if err != nil {
		return fmt.Errorf("check sentiment column: %w", err)
	}

	if count == 0 {
		if _, err := db.ExecContext(ctx, `ALTER TABLE news ADD COLUMN sentiment TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("add sentiment column: %w", err)
		}
	}

	return nil
}
