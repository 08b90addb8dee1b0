// Package repomanager provides concrete RepositoryManagers for PostgreSQL and
// SQLite, wiring together repository constructors and database migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/microposts"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/relationships"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/users"
	"github.com/dmitrijs2005/microblog/internal/server/storage"
)

// migrate is a seam for testing storage.Migrate.
var migrate = storage.Migrate

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Microposts returns a microposts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Microposts(db dbx.DBTX) microposts.Repository {
	return microposts.NewPostgresRepository(db)
}

// Relationships returns a relationships.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Relationships(db dbx.DBTX) relationships.Repository {
	return relationships.NewPostgresRepository(db)
}

// Sessions returns a sessions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, storage.DialectPostgres)
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
