// Package storage opens the configured database and applies the embedded
// goose migrations for its dialect.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/microblog/internal/filex"
	"github.com/dmitrijs2005/microblog/internal/server/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// sqliteParams turns on foreign keys for every pooled connection, waits on
// locks instead of failing, and starts write transactions with BEGIN IMMEDIATE
// so concurrent units of work serialize instead of deadlocking on upgrade.
const sqliteParams = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

var ErrUnsupportedDSN = errors.New("unsupported database DSN")

// ParseDSN picks the dialect for dsn and returns the DSN understood by the
// matching database/sql driver.
func ParseDSN(dsn string) (Dialect, string, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DialectPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		if path == "" || strings.HasPrefix(path, "?") {
			return "", "", fmt.Errorf("%w: sqlite path is required", ErrUnsupportedDSN)
		}
		return DialectSQLite, withSQLiteParams(path), nil
	case strings.HasPrefix(dsn, "file:"):
		return DialectSQLite, withSQLiteParams(dsn), nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDSN, dsn)
	}
}

func withSQLiteParams(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqliteParams
	}
	return path + "?" + sqliteParams
}

// sqliteFilePath returns the on-disk path of a sqlite:// DSN, or "" for other
// DSNs and in-memory databases.
func sqliteFilePath(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if !strings.HasPrefix(dsn, "sqlite://") {
		return ""
	}
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "sqlite://"), "?")
	if path == "" || path == ":memory:" {
		return ""
	}
	return path
}

func driverName(d Dialect) string {
	if d == DialectSQLite {
		return "sqlite"
	}
	return "pgx"
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, Dialect, error) {
	dialect, driverDSN, err := ParseDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	if path := sqliteFilePath(dsn); path != "" {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, "", fmt.Errorf("prepare sqlite dir: %w", err)
		}
	}

	db, err := sql.Open(driverName(dialect), driverDSN)
	if err != nil {
		return nil, "", fmt.Errorf("open %s db: %w", dialect, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s db: %w", dialect, err)
	}
	return db, dialect, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies all pending migrations for dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	goose.SetBaseFS(migrations.Migrations)

	dir := migrations.PostgresDir
	gooseDialect := "pgx"
	if dialect == DialectSQLite {
		dir = migrations.SQLiteDir
		gooseDialect = "sqlite3"
	}
	if err := goose.SetDialect(gooseDialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, dir)
}

// OpenSQLite opens (creating if needed) a SQLite database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, _, err := Open(ctx, "sqlite://"+path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db, DialectSQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}
