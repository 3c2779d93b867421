package authz

import (
	"context"

	"taskhive/internal/apperrors"
	"taskhive/internal/models"
)

// MembershipDirectory resolves the membership of a user on a project.
// Returns (nil, nil) when the user has no membership.
type MembershipDirectory interface {
	Find(ctx context.Context, projectID, userID int64) (*models.Membership, error)
}

// Policy answers allow/deny questions per (actor, resource, action).
// Memberships are re-resolved on every call; decisions are never cached
// across requests because the underlying role data can change between
// them.
type Policy struct {
	memberships MembershipDirectory
}

func NewPolicy(memberships MembershipDirectory) *Policy {
	return &Policy{memberships: memberships}
}

func (p *Policy) membership(ctx context.Context, actor *models.User, project *models.Project) (*models.Membership, error) {
	if actor == nil || project == nil {
		return nil, nil
	}
	return p.memberships.Find(ctx, project.ID, actor.ID)
}

func deny(allowed bool) error {
	if allowed {
		return nil
	}
	return apperrors.ErrForbidden
}

// --- Project ---

// CanShowProject also gates archive and analytics: admin, owner, or any member.
func (p *Policy) CanShowProject(ctx context.Context, actor *models.User, project *models.Project) error {
	m, err := p.membership(ctx, actor, project)
	if err != nil {
		return err
	}
	return deny(IsAdmin(actor) || IsProjectMember(actor, project, m))
}

func (p *Policy) CanUpdateProject(ctx context.Context, actor *models.User, project *models.Project) error {
	m, err := p.membership(ctx, actor, project)
	if err != nil {
		return err
	}
	return deny(CanManageProject(actor, project, m))
}

func (p *Policy) CanDestroyProject(ctx context.Context, actor *models.User, project *models.Project) error {
	return deny(IsAdmin(actor) || (actor != nil && project != nil && project.OwnerID == actor.ID))
}

// --- Task ---

func (p *Policy) CanShowTask(ctx context.Context, actor *models.User, project *models.Project) error {
	m, err := p.membership(ctx, actor, project)
	if err != nil {
		return err
	}
	return deny(IsAdmin(actor) || IsProjectMember(actor, project, m))
}

// CanEditTask gates both task creation and updates: project membership
// plus edit rights (viewers are excluded).
func (p *Policy) CanEditTask(ctx context.Context, actor *models.User, project *models.Project) error {
	m, err := p.membership(ctx, actor, project)
	if err != nil {
		return err
	}
	allowed := (IsAdmin(actor) || IsProjectMember(actor, project, m)) &&
		CanEditInProject(actor, project, m)
	return deny(allowed)
}

func (p *Policy) CanDestroyTask(ctx context.Context, actor *models.User, task *models.Task, project *models.Project) error {
	if IsAdmin(actor) || (actor != nil && task != nil && task.CreatorID == actor.ID) {
		return nil
	}
	m, err := p.membership(ctx, actor, project)
	if err != nil {
		return err
	}
	return deny(CanManageProject(actor, project, m))
}

// --- Comment ---
// Showing and creating comments is open to any authenticated user;
// only updates and deletes are restricted.

func (p *Policy) CanUpdateComment(actor *models.User, comment *models.Comment) error {
	return deny(IsAdmin(actor) || (actor != nil && comment != nil && comment.UserID == actor.ID))
}

func (p *Policy) CanDestroyComment(actor *models.User, comment *models.Comment) error {
	return p.CanUpdateComment(actor, comment)
}
