package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"taskhive/internal/models"
)

// ActivityRepository is append-only: rows are inserted, listed, and
// never updated or deleted.
type ActivityRepository interface {
	Store(ctx context.Context, entry *models.ActivityLog) error
	ListByProject(ctx context.Context, projectID int64, limit int) ([]models.ActivityLog, error)
	ListByTask(ctx context.Context, taskID int64, limit int) ([]models.ActivityLog, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.ActivityLog, error)
}

type activityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// runner abstracts *sql.DB and *sql.Tx so activity inserts can join an
// enclosing transaction.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertActivity(ctx context.Context, q runner, entry *models.ActivityLog) error {
	meta, err := json.Marshal(entry.Metadata)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO activity_logs (user_id, project_id, task_id, action, metadata, created_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
		RETURNING id, created_at`
	return q.QueryRowContext(ctx, query,
		entry.UserID, entry.ProjectID, entry.TaskID, entry.Action, meta,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *activityRepository) Store(ctx context.Context, entry *models.ActivityLog) error {
	return insertActivity(ctx, r.db, entry)
}

const activityColumns = `id, user_id, project_id, task_id, action, metadata, created_at`

func (r *activityRepository) list(ctx context.Context, where string, id int64, limit int) ([]models.ActivityLog, error) {
	query := `SELECT ` + activityColumns + ` FROM activity_logs WHERE ` + where +
		` ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, id, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ActivityLog
	for rows.Next() {
		var entry models.ActivityLog
		var meta []byte
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.ProjectID, &entry.TaskID,
			&entry.Action, &meta, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &entry.Metadata); err != nil {
				return nil, err
			}
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (r *activityRepository) ListByProject(ctx context.Context, projectID int64, limit int) ([]models.ActivityLog, error) {
	return r.list(ctx, "project_id = $1", projectID, limit)
}

func (r *activityRepository) ListByTask(ctx context.Context, taskID int64, limit int) ([]models.ActivityLog, error) {
	return r.list(ctx, "task_id = $1", taskID, limit)
}

func (r *activityRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.ActivityLog, error) {
	return r.list(ctx, "user_id = $1", userID, limit)
}
