package users

import (
	"context"

	"github.com/dmitrijs2005/microblog/internal/server/models"
)

// Repository persists user records.
//
// Create and Update return common.ErrEmailTaken when the case-insensitive
// email index rejects the row. Lookups return common.ErrorNotFound on a miss.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	SetElevated(ctx context.Context, id string, elevated bool) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Delete(ctx context.Context, id string) error
}
