package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name        string
		dsn         string
		wantDialect Dialect
		wantDSN     string
		wantErr     bool
	}{
		{name: "postgres", dsn: "postgres://u:p@h:5432/db?sslmode=disable", wantDialect: DialectPostgres, wantDSN: "postgres://u:p@h:5432/db?sslmode=disable"},
		{name: "postgresql", dsn: " postgresql://h/db ", wantDialect: DialectPostgres, wantDSN: "postgresql://h/db"},
		{name: "sqlite path", dsn: "sqlite:///tmp/blog.db", wantDialect: DialectSQLite, wantDSN: "/tmp/blog.db?" + sqliteParams},
		{name: "sqlite file uri", dsn: "file:blog.db?cache=shared", wantDialect: DialectSQLite, wantDSN: "file:blog.db?cache=shared&" + sqliteParams},
		{name: "sqlite without path", dsn: "sqlite://", wantErr: true},
		{name: "unknown", dsn: "mysql://x", wantErr: true},
		{name: "empty", dsn: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, dsn, err := ParseDSN(tt.dsn)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedDSN)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDialect, d)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func TestOpenSQLite_MigratesSchema(t *testing.T) {
	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "blog.db"))
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"users", "microposts", "relationships", "sessions"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s must exist", table)
	}

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys must be enforced")
}

func TestMigrate_UsesDialectDirectory(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var gotDir string
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	defer func() { gooseUpContext = orig }()

	require.NoError(t, Migrate(context.Background(), db, DialectPostgres))
	assert.Equal(t, "postgres", gotDir)

	require.NoError(t, Migrate(context.Background(), db, DialectSQLite))
	assert.Equal(t, "sqlite", gotDir)
}

func TestMigrate_Error(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	err = Migrate(context.Background(), db, DialectPostgres)
	require.EqualError(t, err, "boom")
}

func TestSQLiteFilePath(t *testing.T) {
	assert.Equal(t, "/tmp/blog.db", sqliteFilePath("sqlite:///tmp/blog.db?cache=shared"))
	assert.Equal(t, "data/blog.db", sqliteFilePath(" sqlite://data/blog.db "))
	assert.Empty(t, sqliteFilePath("sqlite://:memory:"))
	assert.Empty(t, sqliteFilePath("file:blog.db"))
	assert.Empty(t, sqliteFilePath("postgres://h/db"))
}

func TestOpen_CreatesMissingSQLiteDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "blog.db")

	db, dialect, err := Open(context.Background(), "sqlite://"+path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, DialectSQLite, dialect)
}
