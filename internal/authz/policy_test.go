package authz

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"taskhive/internal/apperrors"
	"taskhive/internal/models"
)

type fakeDirectory struct {
	members map[string]*models.Membership
}

func (d *fakeDirectory) grant(projectID, userID int64, role models.MembershipRole) {
	if d.members == nil {
		d.members = map[string]*models.Membership{}
	}
	key := fmt.Sprintf("%d:%d", projectID, userID)
	d.members[key] = &models.Membership{ProjectID: projectID, UserID: userID, Role: role}
}

func (d *fakeDirectory) Find(ctx context.Context, projectID, userID int64) (*models.Membership, error) {
	return d.members[fmt.Sprintf("%d:%d", projectID, userID)], nil
}

func forbidden(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func allowed(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func TestProjectPolicies(t *testing.T) {
	ctx := context.Background()
	dir := &fakeDirectory{}
	policy := NewPolicy(dir)

	proj := &models.Project{ID: 10, OwnerID: 2}
	ownerUser := &models.User{ID: 2, Role: models.RoleMember}
	manager := &models.User{ID: 3, Role: models.RoleMember}
	viewer := &models.User{ID: 4, Role: models.RoleMember}
	outsider := &models.User{ID: 5, Role: models.RoleMember}
	dir.grant(proj.ID, manager.ID, models.MembershipManager)
	dir.grant(proj.ID, viewer.ID, models.MembershipViewer)

	allowed(t, policy.CanShowProject(ctx, ownerUser, proj))
	allowed(t, policy.CanShowProject(ctx, viewer, proj))
	forbidden(t, policy.CanShowProject(ctx, outsider, proj))

	allowed(t, policy.CanUpdateProject(ctx, ownerUser, proj))
	allowed(t, policy.CanUpdateProject(ctx, manager, proj))
	forbidden(t, policy.CanUpdateProject(ctx, viewer, proj))

	allowed(t, policy.CanDestroyProject(ctx, ownerUser, proj))
	// managers can update but not destroy
	forbidden(t, policy.CanDestroyProject(ctx, manager, proj))
}

func TestTaskPolicies(t *testing.T) {
	ctx := context.Background()
	dir := &fakeDirectory{}
	policy := NewPolicy(dir)

	proj := &models.Project{ID: 10, OwnerID: 2}
	member := &models.User{ID: 3, Role: models.RoleMember}
	viewer := &models.User{ID: 4, Role: models.RoleMember}
	outsider := &models.User{ID: 5, Role: models.RoleMember}
	dir.grant(proj.ID, member.ID, models.MembershipMember)
	dir.grant(proj.ID, viewer.ID, models.MembershipViewer)

	allowed(t, policy.CanShowTask(ctx, viewer, proj))
	forbidden(t, policy.CanShowTask(ctx, outsider, proj))

	allowed(t, policy.CanEditTask(ctx, member, proj))
	// viewers can look but never touch
	forbidden(t, policy.CanEditTask(ctx, viewer, proj))

	task := &models.Task{ID: 1, ProjectID: proj.ID, CreatorID: member.ID}
	allowed(t, policy.CanDestroyTask(ctx, member, task, proj))
	forbidden(t, policy.CanDestroyTask(ctx, viewer, task, proj))

	adminUser := &models.User{ID: 99, Role: models.RoleAdmin}
	allowed(t, policy.CanDestroyTask(ctx, adminUser, task, proj))
}

func TestCommentPolicies(t *testing.T) {
	policy := NewPolicy(&fakeDirectory{})
	comment := &models.Comment{ID: 1, UserID: 6}
	author := &models.User{ID: 6, Role: models.RoleMember}
	other := &models.User{ID: 7, Role: models.RoleMember}
	adminUser := &models.User{ID: 8, Role: models.RoleAdmin}

	allowed(t, policy.CanUpdateComment(author, comment))
	forbidden(t, policy.CanUpdateComment(other, comment))
	allowed(t, policy.CanDestroyComment(adminUser, comment))
	forbidden(t, policy.CanDestroyComment(other, comment))
}
