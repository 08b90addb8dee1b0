// Package services contains server-side business logic. UserService owns
// identities: validation, credential hashing, authentication, privilege and
// the cascading account removal.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/cryptox"
	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// DefaultPageSize bounds paged reads when the caller passes no limit.
const DefaultPageSize = 30

// NewUser is the input of UserService.Create.
type NewUser struct {
	Name         string
	Email        string
	Password     string
	Confirmation string
}

// UserUpdate lists the fields to change. Nil fields are left untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	Password     *string
	Confirmation *string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		logger:      logger,
		now:         time.Now,
	}
}

// emailTaken reports whether another account already owns email. The unique
// index still decides races; this only lets the error be reported together
// with the other field errors.
func (s *UserService) emailTaken(ctx context.Context, email, selfID string) (bool, error) {
	u, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.ID != selfID, nil
}

// Create validates in and stores a new, non-elevated user.
func (s *UserService) Create(ctx context.Context, in NewUser) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	var verr common.ValidationErrors
	validateName(&verr, in.Name)
	validateEmail(&verr, in.Email)
	validatePassword(&verr, in.Password, in.Confirmation)

	if !verr.Has("email") {
		taken, err := s.emailTaken(ctx, in.Email, "")
		if err != nil {
			return nil, internalError(ctx, s.logger, "lookup email", err)
		}
		if taken {
			verr.Add("email", reasonTaken)
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	salt := cryptox.NewSalt()
	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: cryptox.HashPassword([]byte(in.Password), salt),
		PasswordSalt: salt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, common.ValidationErrors{{Field: "email", Reason: reasonTaken}}
		}
		return nil, internalError(ctx, s.logger, "create user", err)
	}

	s.logger.Info(ctx, "user created", "user_id", user.ID)
	return user, nil
}

// Update re-validates and writes the supplied fields of user id. A new
// password must come with a matching confirmation.
func (s *UserService) Update(ctx context.Context, id string, in UserUpdate) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, internalError(ctx, s.logger, "load user", err)
	}

	var verr common.ValidationErrors
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		validateName(&verr, name)
		user.Name = name
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		validateEmail(&verr, email)
		if !verr.Has("email") {
			taken, err := s.emailTaken(ctx, email, id)
			if err != nil {
				return nil, internalError(ctx, s.logger, "lookup email", err)
			}
			if taken {
				verr.Add("email", reasonTaken)
			}
		}
		user.Email = email
	}
	if in.Password != nil {
		if in.Confirmation == nil {
			validatePassword(&verr, *in.Password, *in.Password)
			verr.Add("confirmation", reasonBlank)
		} else {
			validatePassword(&verr, *in.Password, *in.Confirmation)
		}
		if !verr.Has("password") && !verr.Has("confirmation") {
			user.PasswordSalt = cryptox.NewSalt()
			user.PasswordHash = cryptox.HashPassword([]byte(*in.Password), user.PasswordSalt)
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	user.UpdatedAt = s.now().UTC()
	user, err = repo.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrEmailTaken):
			return nil, common.ValidationErrors{{Field: "email", Reason: reasonTaken}}
		case errors.Is(err, common.ErrorNotFound):
			return nil, err
		}
		return nil, internalError(ctx, s.logger, "update user", err)
	}

	s.logger.Info(ctx, "user updated", "user_id", user.ID)
	return user, nil
}

// VerifyPassword checks candidate against the stored credential of user.
func (s *UserService) VerifyPassword(user *models.User, candidate string) bool {
	if user == nil {
		return false
	}
	return cryptox.VerifyPassword(user.PasswordHash, user.PasswordSalt, []byte(candidate))
}

// Authenticate returns the user owning email when password matches. A miss
// (unknown email or wrong password) is (nil, nil).
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep the miss as slow as a real check
			cryptox.HashPassword([]byte(password), cryptox.NewSalt())
			return nil, nil
		}
		return nil, internalError(ctx, s.logger, "lookup user", err)
	}

	if !s.VerifyPassword(user, password) {
		return nil, nil
	}
	return user, nil
}

func (s *UserService) SetElevated(ctx context.Context, id string, elevated bool) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	if err := repo.SetElevated(ctx, id, elevated); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, internalError(ctx, s.logger, "set elevated", err)
	}

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, internalError(ctx, s.logger, "load user", err)
	}

	s.logger.Info(ctx, "user privilege changed", "user_id", id, "elevated", elevated)
	return user, nil
}

// Delete removes user id together with their posts, their sessions and every
// follow edge touching them, in one transaction.
func (s *UserService) Delete(ctx context.Context, id string) error {
	var posts, edges, sessions int64

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if sessions, err = s.repomanager.Sessions(tx).DeleteByUser(ctx, id); err != nil {
			return err
		}
		if edges, err = s.repomanager.Relationships(tx).DeleteByUser(ctx, id); err != nil {
			return err
		}
		if posts, err = s.repomanager.Microposts(tx).DeleteByUser(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return internalError(ctx, s.logger, "delete user", err)
	}

	s.logger.Info(ctx, "user deleted", "user_id", id, "microposts", posts, "relationships", edges, "sessions", sessions)
	return nil
}

// DeleteAs deletes targetID on behalf of actorID. Only elevated users may
// delete accounts, and elevated accounts cannot be deleted this way.
func (s *UserService) DeleteAs(ctx context.Context, actorID, targetID string) error {
	actor, err := s.Get(ctx, actorID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return err
	}
	if !actor.IsElevated {
		return common.ErrorForbidden
	}

	target, err := s.Get(ctx, targetID)
	if err != nil {
		return err
	}
	if target.IsElevated {
		return common.ErrorForbidden
	}

	return s.Delete(ctx, targetID)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, internalError(ctx, s.logger, "load user", err)
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, internalError(ctx, s.logger, "lookup user", err)
	}
	return user, nil
}

// List pages through users in creation order. A non-positive limit falls
// back to DefaultPageSize.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.repomanager.Users(s.db).List(ctx, limit, offset)
	if err != nil {
		return nil, internalError(ctx, s.logger, "list users", err)
	}
	return users, nil
}
