package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
)

// MicropostService creates, lists and removes short text posts.
type MicropostService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	logger        logging.Logger
	maxPostLength int
	now           func() time.Time
}

func NewMicropostService(db *sql.DB, m repomanager.RepositoryManager, maxPostLength int, logger logging.Logger) *MicropostService {
	if maxPostLength <= 0 {
		maxPostLength = common.DefaultMaxPostLength
	}
	return &MicropostService{
		db:            db,
		repomanager:   m,
		logger:        logger,
		maxPostLength: maxPostLength,
		now:           time.Now,
	}
}

// Create stores content as a new post by userID. Surrounding whitespace is
// dropped before validation.
func (s *MicropostService) Create(ctx context.Context, userID, content string) (*models.Micropost, error) {
	content = strings.TrimSpace(content)

	var verr common.ValidationErrors
	switch {
	case content == "":
		verr.Add("content", reasonBlank)
	case utf8.RuneCountInString(content) > s.maxPostLength:
		verr.Add("content", tooLong(s.maxPostLength))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	post, err := s.repomanager.Microposts(s.db).Create(ctx, &models.Micropost{
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, internalError(ctx, s.logger, "create micropost", err)
	}

	s.logger.Info(ctx, "micropost created", "user_id", userID, "micropost_id", post.ID)
	return post, nil
}

// ByUser returns the posts of userID, newest first.
func (s *MicropostService) ByUser(ctx context.Context, userID string) ([]*models.Micropost, error) {
	posts, err := s.repomanager.Microposts(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "list microposts", err)
	}
	return posts, nil
}

func (s *MicropostService) Get(ctx context.Context, id int64) (*models.Micropost, error) {
	post, err := s.repomanager.Microposts(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, internalError(ctx, s.logger, "load micropost", err)
	}
	return post, nil
}

// Delete removes postID if it belongs to userID.
func (s *MicropostService) Delete(ctx context.Context, userID string, postID int64) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return common.ErrorForbidden
	}

	if err := s.repomanager.Microposts(s.db).Delete(ctx, postID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return internalError(ctx, s.logger, "delete micropost", err)
	}

	s.logger.Info(ctx, "micropost deleted", "user_id", userID, "micropost_id", postID)
	return nil
}
