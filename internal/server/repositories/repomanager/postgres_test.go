package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/microposts"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/relationships"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/users"
	"github.com/dmitrijs2005/microblog/internal/server/storage"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNew_PicksManagerByDialect(t *testing.T) {
	m, err := New(storage.DialectPostgres)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.(*PostgresRepositoryManager); !ok {
		t.Fatalf("want *PostgresRepositoryManager, got %T", m)
	}

	m, err = New(storage.DialectSQLite)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.(*SQLiteRepositoryManager); !ok {
		t.Fatalf("want *SQLiteRepositoryManager, got %T", m)
	}

	if _, err := New("oracle"); err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	pg := &PostgresRepositoryManager{}
	if _, ok := pg.Users(db).(*users.PostgresRepository); !ok {
		t.Fatal("Users() is not postgres")
	}
	if _, ok := pg.Microposts(db).(*microposts.PostgresRepository); !ok {
		t.Fatal("Microposts() is not postgres")
	}
	if _, ok := pg.Relationships(db).(*relationships.PostgresRepository); !ok {
		t.Fatal("Relationships() is not postgres")
	}
	if _, ok := pg.Sessions(db).(*sessions.PostgresRepository); !ok {
		t.Fatal("Sessions() is not postgres")
	}

	lite := &SQLiteRepositoryManager{}
	if _, ok := lite.Users(db).(*users.SQLiteRepository); !ok {
		t.Fatal("Users() is not sqlite")
	}
	if _, ok := lite.Microposts(db).(*microposts.SQLiteRepository); !ok {
		t.Fatal("Microposts() is not sqlite")
	}
	if _, ok := lite.Relationships(db).(*relationships.SQLiteRepository); !ok {
		t.Fatal("Relationships() is not sqlite")
	}
	if _, ok := lite.Sessions(db).(*sessions.SQLiteRepository); !ok {
		t.Fatal("Sessions() is not sqlite")
	}
}

func TestRunMigrations_PassesDialect(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	var got []storage.Dialect
	orig := migrate
	migrate = func(ctx context.Context, db *sql.DB, d storage.Dialect) error {
		got = append(got, d)
		return nil
	}
	defer func() { migrate = orig }()

	if err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	if err := NewSQLiteRepositoryManager().RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	if len(got) != 2 || got[0] != storage.DialectPostgres || got[1] != storage.DialectSQLite {
		t.Fatalf("unexpected dialects: %v", got)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := migrate
	migrate = func(ctx context.Context, db *sql.DB, d storage.Dialect) error {
		return errors.New("boom")
	}
	defer func() { migrate = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}
