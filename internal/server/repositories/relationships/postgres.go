// Package relationships provides PostgreSQL- and SQLite-backed follow graph repositories.
package relationships

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/dberr"
)

const userColumns = `u.id, u.name, u.email, u.password_hash, u.password_salt, u.is_elevated, u.created_at, u.updated_at`

// translate maps constraint violations on the edge table to domain errors.
func translate(err error) error {
	switch {
	case dberr.IsUniqueViolation(err):
		return common.ErrDuplicateRelationship
	case dberr.IsCheckViolation(err):
		return common.ErrSelfFollow
	case dberr.IsForeignKeyViolation(err):
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rel *models.Relationship) (*models.Relationship, error) {
	query :=
		`INSERT INTO relationships (follower_id, followed_id, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query, rel.FollowerID, rel.FollowedID, rel.CreatedAt).Scan(&rel.ID)
	if err != nil {
		return nil, translate(err)
	}
	return rel, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, followerID, followedID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM relationships WHERE follower_id = $1 AND followed_id = $2`, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, followerID, followedID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM relationships WHERE follower_id = $1 AND followed_id = $2)`,
		followerID, followedID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT followed_id FROM relationships WHERE follower_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select relationships: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) Following(ctx context.Context, userID string) ([]*models.User, error) {
	return r.listUsers(ctx,
		`SELECT `+userColumns+` FROM relationships rel
		 JOIN users u ON u.id = rel.followed_id
		 WHERE rel.follower_id = $1
		 ORDER BY rel.id`, userID)
}

func (r *PostgresRepository) Followers(ctx context.Context, userID string) ([]*models.User, error) {
	return r.listUsers(ctx,
		`SELECT `+userColumns+` FROM relationships rel
		 JOIN users u ON u.id = rel.follower_id
		 WHERE rel.followed_id = $1
		 ORDER BY rel.id`, userID)
}

func (r *PostgresRepository) listUsers(ctx context.Context, query, userID string) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.PasswordSalt,
			&u.IsElevated, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.CreatedAt, u.UpdatedAt = u.CreatedAt.UTC(), u.UpdatedAt.UTC()
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CountFollowing(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM relationships WHERE follower_id = $1`, userID)
}

func (r *PostgresRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM relationships WHERE followed_id = $1`, userID)
}

func (r *PostgresRepository) count(ctx context.Context, query, userID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM relationships WHERE follower_id = $1 OR followed_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
