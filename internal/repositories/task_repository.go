package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"taskhive/internal/apperrors"
	"taskhive/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindByProject(ctx context.Context, projectID int64, filter models.TaskFilter) ([]models.Task, error)
	// MaxPosition returns the highest position in the project, 0 when empty.
	MaxPosition(ctx context.Context, projectID int64) (int, error)
	// Update persists the task and any activity entries in one transaction.
	Update(ctx context.Context, task *models.Task, entries ...*models.ActivityLog) error
	// Assign updates the assignee and writes the assignment entry in one
	// transaction.
	Assign(ctx context.Context, task *models.Task, assigneeID int64, entry *models.ActivityLog) error
	// Delete removes the task; its comments and logs cascade.
	Delete(ctx context.Context, id int64) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, project_id, creator_id, assignee_id, title, description,
	status, priority, due_date, completed_at, position, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(
		&t.ID, &t.ProjectID, &t.CreatorID, &t.AssigneeID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.DueDate, &t.CompletedAt, &t.Position,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (project_id, creator_id, assignee_id, title, description,
			status, priority, due_date, completed_at, position, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		task.ProjectID, task.CreatorID, task.AssigneeID, task.Title, task.Description,
		task.Status, task.Priority, task.DueDate, task.CompletedAt, task.Position,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("task")
	}
	return t, err
}

func (r *taskRepository) FindByProject(ctx context.Context, projectID int64, filter models.TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	conditions := []string{"project_id = $1"}
	args := []any{projectID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		conditions = append(conditions, fmt.Sprintf("assignee_id = $%d", len(args)))
	}
	query += " WHERE " + strings.Join(conditions, " AND ")

	switch filter.SortBy {
	case "priority":
		query += ` ORDER BY CASE priority WHEN 'critical' THEN 1 WHEN 'high' THEN 2 WHEN 'medium' THEN 3 ELSE 4 END`
	case "due_date":
		query += ` ORDER BY due_date NULLS LAST`
	case "position":
		query += ` ORDER BY position`
	default:
		query += ` ORDER BY created_at DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) MaxPosition(ctx context.Context, projectID int64) (int, error) {
	var max int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) FROM tasks WHERE project_id = $1`, projectID).Scan(&max)
	return max, err
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task, entries ...*models.ActivityLog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE tasks SET assignee_id=$1, title=$2, description=$3, status=$4,
			priority=$5, due_date=$6, completed_at=$7, position=$8, updated_at=NOW()
		WHERE id=$9
		RETURNING updated_at`
	err = tx.QueryRowContext(ctx, query,
		task.AssigneeID, task.Title, task.Description, task.Status,
		task.Priority, task.DueDate, task.CompletedAt, task.Position, task.ID,
	).Scan(&task.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperrors.NotFound("task")
		}
		return err
	}

	for _, entry := range entries {
		entry.TaskID = &task.ID
		entry.ProjectID = &task.ProjectID
		if err := insertActivity(ctx, tx, entry); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *taskRepository) Assign(ctx context.Context, task *models.Task, assigneeID int64, entry *models.ActivityLog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`UPDATE tasks SET assignee_id=$1, updated_at=NOW() WHERE id=$2 RETURNING updated_at`,
		assigneeID, task.ID,
	).Scan(&task.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperrors.NotFound("task")
		}
		return err
	}
	task.AssigneeID = &assigneeID

	if entry != nil {
		entry.TaskID = &task.ID
		entry.ProjectID = &task.ProjectID
		if err := insertActivity(ctx, tx, entry); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("task")
	}
	return nil
}
