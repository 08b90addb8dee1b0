package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/microposts"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/relationships"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/users"
)

// Fakes embed the repository interfaces so each test only implements the
// methods it drives; anything else panics on the nil embedded value.

type fakeUsersRepo struct {
	users.Repository

	getByEmailOut *models.User
	getByEmailErr error
	getByIDOut    *models.User
	getByIDErr    error
	createErr     error
	listErr       error
}

func (f *fakeUsersRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return f.getByEmailOut, f.getByEmailErr
}

func (f *fakeUsersRepo) GetByID(context.Context, string) (*models.User, error) {
	return f.getByIDOut, f.getByIDErr
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return u, nil
}

func (f *fakeUsersRepo) List(context.Context, int, int) ([]*models.User, error) {
	return nil, f.listErr
}

type fakeMicropostsRepo struct {
	microposts.Repository

	createErr    error
	listErr      error
	gotIDs       []string
	gotLimit     int
	gotOffset    int
	listByUsersR []*models.Micropost
}

func (f *fakeMicropostsRepo) Create(_ context.Context, p *models.Micropost) (*models.Micropost, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = 1
	return p, nil
}

func (f *fakeMicropostsRepo) ListByUsers(_ context.Context, ids []string, limit, offset int) ([]*models.Micropost, error) {
	f.gotIDs, f.gotLimit, f.gotOffset = ids, limit, offset
	return f.listByUsersR, f.listErr
}

type fakeRelationshipsRepo struct {
	relationships.Repository

	createErr       error
	deleteErr       error
	followingIDs    []string
	followingIDsErr error
}

func (f *fakeRelationshipsRepo) Create(_ context.Context, r *models.Relationship) (*models.Relationship, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return r, nil
}

func (f *fakeRelationshipsRepo) Delete(context.Context, string, string) (bool, error) {
	return false, f.deleteErr
}

func (f *fakeRelationshipsRepo) FollowingIDs(context.Context, string) ([]string, error) {
	return f.followingIDs, f.followingIDsErr
}

type fakeSessionsRepo struct {
	sessions.Repository

	createErr  error
	findOut    *models.Session
	findErr    error
	deleteErr  error
	expiredErr error
	gotNow     time.Time
}

func (f *fakeSessionsRepo) Create(context.Context, *models.Session) error {
	return f.createErr
}

func (f *fakeSessionsRepo) Find(context.Context, string) (*models.Session, error) {
	return f.findOut, f.findErr
}

func (f *fakeSessionsRepo) Delete(context.Context, string) error {
	return f.deleteErr
}

func (f *fakeSessionsRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.gotNow = now
	return 0, f.expiredErr
}

type fakeManager struct {
	users         *fakeUsersRepo
	microposts    *fakeMicropostsRepo
	relationships *fakeRelationshipsRepo
	sessions      *fakeSessionsRepo
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		users:         &fakeUsersRepo{},
		microposts:    &fakeMicropostsRepo{},
		relationships: &fakeRelationshipsRepo{},
		sessions:      &fakeSessionsRepo{},
	}
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *fakeManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *fakeManager) Microposts(dbx.DBTX) microposts.Repository {
	return m.microposts
}

func (m *fakeManager) Relationships(dbx.DBTX) relationships.Repository {
	return m.relationships
}

func (m *fakeManager) Sessions(dbx.DBTX) sessions.Repository {
	return m.sessions
}
