package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/microposts"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/relationships"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/users"
	"github.com/dmitrijs2005/microblog/internal/server/storage"
)

// RepositoryManager vends repositories bound to a DBTX so the same code path
// serves both plain connections and transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Microposts(db dbx.DBTX) microposts.Repository
	Relationships(db dbx.DBTX) relationships.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}

// New returns the RepositoryManager for dialect.
func New(dialect storage.Dialect) (RepositoryManager, error) {
	switch dialect {
	case storage.DialectPostgres:
		return NewPostgresRepositoryManager(), nil
	case storage.DialectSQLite:
		return NewSQLiteRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("no repositories for dialect %q", dialect)
	}
}
