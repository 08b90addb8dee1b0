package relationships

import (
	"context"

	"github.com/dmitrijs2005/microblog/internal/server/models"
)

// Repository persists the follow graph as a single edge table. Outgoing edges
// are read by follower_id, incoming edges by followed_id.
type Repository interface {
	// Create returns common.ErrDuplicateRelationship, common.ErrSelfFollow or
	// common.ErrorNotFound (either endpoint missing).
	Create(ctx context.Context, rel *models.Relationship) (*models.Relationship, error)
	// Delete reports whether an edge was removed.
	Delete(ctx context.Context, followerID, followedID string) (bool, error)
	Exists(ctx context.Context, followerID, followedID string) (bool, error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
	Following(ctx context.Context, userID string) ([]*models.User, error)
	Followers(ctx context.Context, userID string) ([]*models.User, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
	// DeleteByUser removes every edge touching userID in either direction.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
