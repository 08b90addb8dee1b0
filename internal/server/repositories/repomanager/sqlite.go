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

type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Microposts(db dbx.DBTX) microposts.Repository {
	return microposts.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Relationships(db dbx.DBTX) relationships.Repository {
	return relationships.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, storage.DialectSQLite)
}

func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}
