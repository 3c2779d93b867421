package repositories

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"taskhive/internal/apperrors"
	"taskhive/internal/models"
)

type MembershipRepository interface {
	// Store inserts the membership and its activity entry in one transaction.
	Store(ctx context.Context, m *models.Membership, entry *models.ActivityLog) error
	// Find returns (nil, nil) when the user has no membership on the project.
	Find(ctx context.Context, projectID, userID int64) (*models.Membership, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Membership, error)
	CountByProject(ctx context.Context, projectID int64) (int, error)
	// Delete removes the membership and writes the removal entry in one
	// transaction.
	Delete(ctx context.Context, projectID, userID int64, entry *models.ActivityLog) error
}

type membershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func insertMembership(ctx context.Context, q runner, m *models.Membership) error {
	query := `
		INSERT INTO project_memberships (project_id, user_id, role, created_at, updated_at)
		VALUES ($1,$2,$3,NOW(),NOW())
		RETURNING id, created_at, updated_at`
	err := q.QueryRowContext(ctx, query, m.ProjectID, m.UserID, m.Role).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return apperrors.Validation("User is already a member of this project")
	}
	return err
}

func (r *membershipRepository) Store(ctx context.Context, m *models.Membership, entry *models.ActivityLog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertMembership(ctx, tx, m); err != nil {
		return err
	}
	if entry != nil {
		entry.ProjectID = &m.ProjectID
		if err := insertActivity(ctx, tx, entry); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *membershipRepository) Find(ctx context.Context, projectID, userID int64) (*models.Membership, error) {
	m := &models.Membership{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, user_id, role, created_at, updated_at
		FROM project_memberships WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	).Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *membershipRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Membership, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, user_id, role, created_at, updated_at
		FROM project_memberships WHERE project_id = $1 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *membershipRepository) CountByProject(ctx context.Context, projectID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM project_memberships WHERE project_id = $1`, projectID).Scan(&n)
	return n, err
}

func (r *membershipRepository) Delete(ctx context.Context, projectID, userID int64, entry *models.ActivityLog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM project_memberships WHERE project_id = $1 AND user_id = $2`,
		projectID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("membership")
	}
	if entry != nil {
		entry.ProjectID = &projectID
		if err := insertActivity(ctx, tx, entry); err != nil {
			return err
		}
	}
	return tx.Commit()
}
