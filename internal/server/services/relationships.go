package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
)

// RelationshipService manages directed follow edges.
type RelationshipService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewRelationshipService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *RelationshipService {
	return &RelationshipService{
		db:          db,
		repomanager: m,
		logger:      logger,
		now:         time.Now,
	}
}

// Follow makes followerID follow followedID. It fails with
// common.ErrSelfFollow, common.ErrDuplicateRelationship, or
// common.ErrorNotFound when either user does not exist.
func (s *RelationshipService) Follow(ctx context.Context, followerID, followedID string) (*models.Relationship, error) {
	if followerID == followedID {
		return nil, common.ErrSelfFollow
	}

	rel, err := s.repomanager.Relationships(s.db).Create(ctx, &models.Relationship{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateRelationship),
			errors.Is(err, common.ErrSelfFollow),
			errors.Is(err, common.ErrorNotFound):
			return nil, err
		}
		return nil, internalError(ctx, s.logger, "follow", err)
	}

	s.logger.Info(ctx, "user followed", "follower_id", followerID, "followed_id", followedID)
	return rel, nil
}

// Unfollow removes the edge if present.
func (s *RelationshipService) Unfollow(ctx context.Context, followerID, followedID string) error {
	removed, err := s.repomanager.Relationships(s.db).Delete(ctx, followerID, followedID)
	if err != nil {
		return internalError(ctx, s.logger, "unfollow", err)
	}
	if removed {
		s.logger.Info(ctx, "user unfollowed", "follower_id", followerID, "followed_id", followedID)
	}
	return nil
}

func (s *RelationshipService) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	ok, err := s.repomanager.Relationships(s.db).Exists(ctx, followerID, followedID)
	if err != nil {
		return false, internalError(ctx, s.logger, "check relationship", err)
	}
	return ok, nil
}

// Following lists the users userID follows.
func (s *RelationshipService) Following(ctx context.Context, userID string) ([]*models.User, error) {
	users, err := s.repomanager.Relationships(s.db).Following(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "list following", err)
	}
	return users, nil
}

// Followers lists the users following userID.
func (s *RelationshipService) Followers(ctx context.Context, userID string) ([]*models.User, error) {
	users, err := s.repomanager.Relationships(s.db).Followers(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "list followers", err)
	}
	return users, nil
}

// Counts returns how many users userID follows and how many follow them.
func (s *RelationshipService) Counts(ctx context.Context, userID string) (following, followers int, err error) {
	repo := s.repomanager.Relationships(s.db)

	if following, err = repo.CountFollowing(ctx, userID); err != nil {
		return 0, 0, internalError(ctx, s.logger, "count following", err)
	}
	if followers, err = repo.CountFollowers(ctx, userID); err != nil {
		return 0, 0, internalError(ctx, s.logger, "count followers", err)
	}
	return following, followers, nil
}
