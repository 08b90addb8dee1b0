package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/microblog/internal/server/models"
)

// Repository stores issued session tokens so they can be revoked.
type Repository interface {
	// Create returns common.ErrorNotFound when the user does not exist.
	Create(ctx context.Context, s *models.Session) error
	// Find returns common.ErrorNotFound for unknown or revoked ids.
	Find(ctx context.Context, id string) (*models.Session, error)
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
