package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
)

// FeedService composes a user's timeline from their own posts and the posts
// of everyone they follow. Nothing is cached; every call reads the store.
type FeedService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewFeedService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *FeedService {
	return &FeedService{db: db, repomanager: m, logger: logger}
}

// Feed returns the whole timeline of userID.
func (s *FeedService) Feed(ctx context.Context, userID string) ([]*models.Micropost, error) {
	return s.FeedPage(ctx, userID, 0, 0)
}

// FeedPage returns one page of the timeline ordered by created_at DESC, id
// DESC. limit <= 0 reads everything.
func (s *FeedService) FeedPage(ctx context.Context, userID string, limit, offset int) ([]*models.Micropost, error) {
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, internalError(ctx, s.logger, "load user", err)
	}

	ids, err := s.repomanager.Relationships(s.db).FollowingIDs(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "list following", err)
	}
	ids = append(ids, userID)

	if offset < 0 {
		offset = 0
	}
	posts, err := s.repomanager.Microposts(s.db).ListByUsers(ctx, ids, limit, offset)
	if err != nil {
		return nil, internalError(ctx, s.logger, "read feed", err)
	}
	return posts, nil
}
