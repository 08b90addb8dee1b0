package relationships

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, rel *models.Relationship) (*models.Relationship, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO relationships (follower_id, followed_id, created_at) VALUES (?, ?, ?)`,
		rel.FollowerID, rel.FollowedID, dbx.ToMillis(rel.CreatedAt))
	if err != nil {
		return nil, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	rel.ID = id
	return rel, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, followerID, followedID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM relationships WHERE follower_id = ? AND followed_id = ?`, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, followerID, followedID string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM relationships WHERE follower_id = ? AND followed_id = ?)`,
		followerID, followedID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists == 1, nil
}

func (r *SQLiteRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT followed_id FROM relationships WHERE follower_id = ? ORDER BY id`, userID)
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
	return ids, rows.Err()
}

func (r *SQLiteRepository) Following(ctx context.Context, userID string) ([]*models.User, error) {
	return r.listUsers(ctx,
		`SELECT `+userColumns+` FROM relationships rel
		 JOIN users u ON u.id = rel.followed_id
		 WHERE rel.follower_id = ?
		 ORDER BY rel.id`, userID)
}

func (r *SQLiteRepository) Followers(ctx context.Context, userID string) ([]*models.User, error) {
	return r.listUsers(ctx,
		`SELECT `+userColumns+` FROM relationships rel
		 JOIN users u ON u.id = rel.follower_id
		 WHERE rel.followed_id = ?
		 ORDER BY rel.id`, userID)
}

func (r *SQLiteRepository) listUsers(ctx context.Context, query, userID string) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u := &models.User{}
		var elevated, createdAt, updatedAt int64
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.PasswordSalt,
			&elevated, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		u.IsElevated = elevated != 0
		u.CreatedAt, u.UpdatedAt = dbx.FromMillis(createdAt), dbx.FromMillis(updatedAt)
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) CountFollowing(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM relationships WHERE follower_id = ?`, userID)
}

func (r *SQLiteRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM relationships WHERE followed_id = ?`, userID)
}

func (r *SQLiteRepository) count(ctx context.Context, query, userID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM relationships WHERE follower_id = ? OR followed_id = ?`, userID, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}
