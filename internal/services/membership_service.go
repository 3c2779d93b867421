package services

import (
	"context"

	"taskhive/internal/apperrors"
	"taskhive/internal/authz"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
)

type MembershipService interface {
	Add(ctx context.Context, actor *models.User, project *models.Project, userID int64, role models.MembershipRole) (*models.Membership, error)
	Remove(ctx context.Context, actor *models.User, project *models.Project, userID int64) error
	List(ctx context.Context, actor *models.User, project *models.Project) ([]models.Membership, error)
}

type membershipService struct {
	memberships repositories.MembershipRepository
	users       repositories.UserRepository
	policy      *authz.Policy
}

func NewMembershipService(memberships repositories.MembershipRepository, users repositories.UserRepository, policy *authz.Policy) MembershipService {
	return &membershipService{memberships: memberships, users: users, policy: policy}
}

func (s *membershipService) Add(ctx context.Context, actor *models.User, project *models.Project, userID int64, role models.MembershipRole) (*models.Membership, error) {
	if err := s.policy.CanUpdateProject(ctx, actor, project); err != nil {
		return nil, err
	}
	if role == "" {
		role = models.MembershipMember
	}
	if !models.IsValidMembershipRole(role) {
		return nil, apperrors.Validation("Role is not included in the list")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	membership := &models.Membership{
		ProjectID: project.ID,
		UserID:    user.ID,
		Role:      role,
	}
	entry := models.NewActivity(models.ActionMemberAdded, user, project, nil, map[string]any{
		"project_name": project.Name,
		"user_name":    user.FullName(),
		"role":         string(role),
	})
	if err := s.memberships.Store(ctx, membership, entry); err != nil {
		return nil, err
	}
	return membership, nil
}

func (s *membershipService) Remove(ctx context.Context, actor *models.User, project *models.Project, userID int64) error {
	if err := s.policy.CanUpdateProject(ctx, actor, project); err != nil {
		return err
	}
	// the owner's manager membership is structural and cannot be removed
	if project.OwnerID == userID {
		return apperrors.Validation("Project owner cannot be removed")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	entry := models.NewActivity(models.ActionMemberRemoved, user, project, nil, map[string]any{
		"project_name": project.Name,
		"user_name":    user.FullName(),
	})
	return s.memberships.Delete(ctx, project.ID, userID, entry)
}

func (s *membershipService) List(ctx context.Context, actor *models.User, project *models.Project) ([]models.Membership, error) {
	if err := s.policy.CanShowProject(ctx, actor, project); err != nil {
		return nil, err
	}
	return s.memberships.ListByProject(ctx, project.ID)
}
