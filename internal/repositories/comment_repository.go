package repositories

import (
	"context"
	"database/sql"

	"taskhive/internal/apperrors"
	"taskhive/internal/models"
)

type CommentRepository interface {
	Store(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id int64) (*models.Comment, error)
	// ListByTask returns comments most recent first.
	ListByTask(ctx context.Context, taskID int64) ([]models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int64) error
}

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Store(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (task_id, user_id, content, created_at, updated_at)
		VALUES ($1,$2,$3,NOW(),NOW())
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		comment.TaskID, comment.UserID, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	c := &models.Comment{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, task_id, user_id, content, created_at, updated_at
		FROM comments WHERE id = $1`, id,
	).Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("comment")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID int64) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, user_id, content, created_at, updated_at
		FROM comments WHERE task_id = $1 ORDER BY created_at DESC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	err := r.db.QueryRowContext(ctx,
		`UPDATE comments SET content=$1, updated_at=NOW() WHERE id=$2 RETURNING updated_at`,
		comment.Content, comment.ID,
	).Scan(&comment.UpdatedAt)
	if err == sql.ErrNoRows {
		return apperrors.NotFound("comment")
	}
	return err
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("comment")
	}
	return nil
}
