package repositories

import (
	"context"
	"database/sql"

	"taskhive/internal/apperrors"
	"taskhive/internal/models"
)

type ProjectRepository interface {
	// Store inserts the project, the owner's manager membership and its
	// activity entry in one transaction.
	Store(ctx context.Context, project *models.Project, owner *models.Membership, entries ...*models.ActivityLog) error
	FindByID(ctx context.Context, id int64) (*models.Project, error)
	// FindAll returns every project (admin scope).
	FindAll(ctx context.Context, includeArchived bool) ([]models.Project, error)
	// FindByUser returns projects the user owns or is a member of.
	FindByUser(ctx context.Context, userID int64, includeArchived bool) ([]models.Project, error)
	// Update persists the project and any activity entries in one transaction.
	Update(ctx context.Context, project *models.Project, entries ...*models.ActivityLog) error
	// Delete removes the project; tasks, memberships, comments and logs
	// cascade at the storage layer.
	Delete(ctx context.Context, id int64) error
}

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `id, name, description, owner_id, status, archived_at, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	p := &models.Project{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.Status,
		&p.ArchivedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *projectRepository) Store(ctx context.Context, project *models.Project, owner *models.Membership, entries ...*models.ActivityLog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO projects (name, description, owner_id, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		project.Name, project.Description, project.OwnerID, project.Status,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return err
	}

	if owner != nil {
		owner.ProjectID = project.ID
		if err := insertMembership(ctx, tx, owner); err != nil {
			return err
		}
	}
	for _, entry := range entries {
		entry.ProjectID = &project.ID
		if err := insertActivity(ctx, tx, entry); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *projectRepository) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("project")
	}
	return p, err
}

func (r *projectRepository) FindAll(ctx context.Context, includeArchived bool) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY created_at DESC`
	return r.queryProjects(ctx, query)
}

func (r *projectRepository) FindByUser(ctx context.Context, userID int64, includeArchived bool) ([]models.Project, error) {
	query := `
		SELECT DISTINCT p.id, p.name, p.description, p.owner_id, p.status, p.archived_at, p.created_at, p.updated_at
		FROM projects p
		LEFT JOIN project_memberships m ON m.project_id = p.id
		WHERE (p.owner_id = $1 OR m.user_id = $1)`
	if !includeArchived {
		query += ` AND p.archived_at IS NULL`
	}
	query += ` ORDER BY p.created_at DESC`
	return r.queryProjects(ctx, query, userID)
}

func (r *projectRepository) queryProjects(ctx context.Context, query string, args ...any) ([]models.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project, entries ...*models.ActivityLog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE projects SET name=$1, description=$2, status=$3, archived_at=$4, updated_at=NOW()
		WHERE id=$5
		RETURNING updated_at`
	err = tx.QueryRowContext(ctx, query,
		project.Name, project.Description, project.Status, project.ArchivedAt, project.ID,
	).Scan(&project.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperrors.NotFound("project")
		}
		return err
	}

	for _, entry := range entries {
		entry.ProjectID = &project.ID
		if err := insertActivity(ctx, tx, entry); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("project")
	}
	return nil
}
