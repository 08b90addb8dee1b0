package microposts

import (
	"context"

	"github.com/dmitrijs2005/microblog/internal/server/models"
)

// Repository persists microposts. Every list is ordered newest first with ties
// broken by descending id.
type Repository interface {
	// Create returns common.ErrorNotFound when the owner does not exist.
	Create(ctx context.Context, post *models.Micropost) (*models.Micropost, error)
	GetByID(ctx context.Context, id int64) (*models.Micropost, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Micropost, error)
	// ListByUsers reads the posts of all userIDs in one query. limit <= 0 means no limit.
	ListByUsers(ctx context.Context, userIDs []string, limit, offset int) ([]*models.Micropost, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
