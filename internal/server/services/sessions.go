package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
	"github.com/dmitrijs2005/microblog/internal/server/config"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
)

// SessionService turns credentials into signed session tokens and back into
// users. Every token is backed by a sessions row keyed by its jti, so a token
// stops resolving once it is signed out or its user is deleted. Where the
// token travels (cookie, header) is up to the caller.
type SessionService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	users                        *UserService
	logger                       logging.Logger
	jwtSecret                    []byte
	sessionTokenValidityDuration time.Duration
	now                          func() time.Time
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, users *UserService, cfg *config.Config, logger logging.Logger) *SessionService {
	return &SessionService{
		db:                           db,
		repomanager:                  m,
		users:                        users,
		logger:                       logger,
		jwtSecret:                    []byte(cfg.SecretKey),
		sessionTokenValidityDuration: cfg.SessionTokenValidityDuration,
		now:                          time.Now,
	}
}

// SignIn authenticates email/password, records a session and mints a token for it.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, common.ErrorUnauthorized
	}

	id, err := common.MakeRandHexString(16)
	if err != nil {
		return "", nil, internalError(ctx, s.logger, "session id", err)
	}

	now := s.now().UTC()
	session := &models.Session{
		ID:        id,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTokenValidityDuration),
		CreatedAt: now,
	}
	if err := s.repomanager.Sessions(s.db).Create(ctx, session); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// user deleted between authenticate and insert
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, internalError(ctx, s.logger, "create session", err)
	}

	token, err := auth.GenerateToken(user.ID, session.ID, s.jwtSecret, s.sessionTokenValidityDuration)
	if err != nil {
		return "", nil, internalError(ctx, s.logger, "sign token", err)
	}

	s.logger.Info(ctx, "user signed in", "user_id", user.ID, "session_id", session.ID)
	return token, user, nil
}

// Resolve returns the user behind token. Bad or expired tokens yield
// common.ErrInvalidToken; signed-out sessions and deleted users yield
// common.ErrorUnauthorized.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	session, err := s.repomanager.Sessions(s.db).Find(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, internalError(ctx, s.logger, "find session", err)
	}
	if session.UserID != claims.UserID {
		return nil, common.ErrInvalidToken
	}
	if !s.now().Before(session.ExpiresAt) {
		return nil, common.ErrInvalidToken
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// SignOut revokes the session behind token. Signing out twice is not an error.
func (s *SessionService) SignOut(ctx context.Context, token string) error {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return err
	}

	if err := s.repomanager.Sessions(s.db).Delete(ctx, claims.ID); err != nil {
		return internalError(ctx, s.logger, "delete session", err)
	}

	s.logger.Info(ctx, "user signed out", "user_id", claims.UserID, "session_id", claims.ID)
	return nil
}

// SignOutEverywhere revokes every session of userID and reports how many were dropped.
func (s *SessionService) SignOutEverywhere(ctx context.Context, userID string) (int64, error) {
	n, err := s.repomanager.Sessions(s.db).DeleteByUser(ctx, userID)
	if err != nil {
		return 0, internalError(ctx, s.logger, "delete user sessions", err)
	}

	s.logger.Info(ctx, "user sessions revoked", "user_id", userID, "sessions", n)
	return n, nil
}

// PurgeExpired removes sessions whose expiry has passed.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Sessions(s.db).DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, internalError(ctx, s.logger, "purge sessions", err)
	}
	if n > 0 {
		s.logger.Debug(ctx, "expired sessions purged", "sessions", n)
	}
	return n, nil
}
