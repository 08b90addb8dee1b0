package microposts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/dberr"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, post *models.Micropost) (*models.Micropost, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO microposts (content, user_id, created_at) VALUES (?, ?, ?)`,
		post.Content, post.UserID, dbx.ToMillis(post.CreatedAt))
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	post.ID = id
	return post, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Micropost, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, content, created_at FROM microposts WHERE id = ?`, id)

	p, err := scanSQLitePost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]*models.Micropost, error) {
	return r.ListByUsers(ctx, []string{userID}, 0, 0)
}

func (r *SQLiteRepository) ListByUsers(ctx context.Context, userIDs []string, limit, offset int) ([]*models.Micropost, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(userIDs)+2)
	for _, id := range userIDs {
		args = append(args, id)
	}
	query := `SELECT id, user_id, content, created_at FROM microposts
		WHERE user_id IN (` + dbx.QuestionMarks(len(userIDs)) + `) ` + newestFirst
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select microposts: %w", err)
	}
	defer rows.Close()

	var result []*models.Micropost
	for rows.Next() {
		p, err := scanSQLitePost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM microposts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM microposts WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func scanSQLitePost(s interface{ Scan(...any) error }) (*models.Micropost, error) {
	p := &models.Micropost{}
	var createdAt int64
	if err := s.Scan(&p.ID, &p.UserID, &p.Content, &createdAt); err != nil {
		return nil, err
	}
	p.CreatedAt = dbx.FromMillis(createdAt)
	return p, nil
}
