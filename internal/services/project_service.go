package services

import (
	"context"
	"time"

	"taskhive/internal/apperrors"
	"taskhive/internal/authz"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
)

type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ProjectUpdate struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Status      *models.ProjectStatus `json:"status"`
}

type ProjectService interface {
	// Create inserts the project together with the owner's manager
	// membership; the owner is always also a member.
	Create(ctx context.Context, actor *models.User, input ProjectInput) (*models.Project, error)
	Get(ctx context.Context, actor *models.User, id int64) (*models.Project, error)
	// Scope filters rather than denies: admins see everything, other
	// users see owned plus member-of projects.
	Scope(ctx context.Context, actor *models.User, includeArchived bool) ([]models.Project, error)
	Update(ctx context.Context, actor *models.User, id int64, input ProjectUpdate) (*models.Project, error)
	Archive(ctx context.Context, actor *models.User, id int64) (*models.Project, error)
	Delete(ctx context.Context, actor *models.User, id int64) error
	Activity(ctx context.Context, actor *models.User, id int64, limit int) ([]models.ActivityLog, error)
}

type projectService struct {
	projects repositories.ProjectRepository
	activity repositories.ActivityRepository
	policy   *authz.Policy
}

func NewProjectService(projects repositories.ProjectRepository, activity repositories.ActivityRepository, policy *authz.Policy) ProjectService {
	return &projectService{projects: projects, activity: activity, policy: policy}
}

func (s *projectService) Create(ctx context.Context, actor *models.User, input ProjectInput) (*models.Project, error) {
	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     actor.ID,
		Status:      models.ProjectActive,
	}
	if errs := project.Validate(); len(errs) > 0 {
		return nil, apperrors.Validation(errs...)
	}

	ownerMembership := &models.Membership{
		UserID: actor.ID,
		Role:   models.MembershipManager,
	}
	added := models.NewActivity(models.ActionMemberAdded, actor, nil, nil, map[string]any{
		"project_name": project.Name,
		"user_name":    actor.FullName(),
		"role":         string(models.MembershipManager),
	})
	if err := s.projects.Store(ctx, project, ownerMembership, added); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Get(ctx context.Context, actor *models.User, id int64) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanShowProject(ctx, actor, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Scope(ctx context.Context, actor *models.User, includeArchived bool) ([]models.Project, error) {
	if authz.IsAdmin(actor) {
		return s.projects.FindAll(ctx, includeArchived)
	}
	return s.projects.FindByUser(ctx, actor.ID, includeArchived)
}

func (s *projectService) Update(ctx context.Context, actor *models.User, id int64, input ProjectUpdate) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanUpdateProject(ctx, actor, project); err != nil {
		return nil, err
	}

	oldStatus := project.Status
	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if errs := project.Validate(); len(errs) > 0 {
		return nil, apperrors.Validation(errs...)
	}

	var entries []*models.ActivityLog
	if project.Status != oldStatus {
		entries = append(entries, models.NewActivity(models.ActionProjectStatusChanged, actor, nil, nil, map[string]any{
			"project_name": project.Name,
			"old_status":   string(oldStatus),
			"new_status":   string(project.Status),
		}))
	}
	if err := s.projects.Update(ctx, project, entries...); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Archive(ctx context.Context, actor *models.User, id int64) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanShowProject(ctx, actor, project); err != nil {
		return nil, err
	}

	now := time.Now()
	oldStatus := project.Status
	project.Status = models.ProjectArchived
	project.ArchivedAt = &now

	entries := []*models.ActivityLog{
		models.NewActivity(models.ActionProjectArchived, actor, nil, nil, map[string]any{
			"project_name": project.Name,
		}),
	}
	if oldStatus != models.ProjectArchived {
		entries = append(entries, models.NewActivity(models.ActionProjectStatusChanged, actor, nil, nil, map[string]any{
			"project_name": project.Name,
			"old_status":   string(oldStatus),
			"new_status":   string(models.ProjectArchived),
		}))
	}
	if err := s.projects.Update(ctx, project, entries...); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, actor *models.User, id int64) error {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.CanDestroyProject(ctx, actor, project); err != nil {
		return err
	}
	return s.projects.Delete(ctx, project.ID)
}

func (s *projectService) Activity(ctx context.Context, actor *models.User, id int64, limit int) ([]models.ActivityLog, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanShowProject(ctx, actor, project); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 25
	}
	return s.activity.ListByProject(ctx, project.ID, limit)
}
