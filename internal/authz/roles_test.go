package authz

import (
	"testing"

	"taskhive/internal/models"
)

var (
	admin   = &models.User{ID: 1, Role: models.RoleAdmin}
	alice   = &models.User{ID: 2, Role: models.RoleMember}
	bob     = &models.User{ID: 3, Role: models.RoleMember}
	project = &models.Project{ID: 10, OwnerID: 2}
)

func membership(role models.MembershipRole) *models.Membership {
	return &models.Membership{ProjectID: project.ID, Role: role}
}

func TestIsAdmin(t *testing.T) {
	if !IsAdmin(admin) {
		t.Error("admin should be admin")
	}
	if IsAdmin(alice) || IsAdmin(nil) {
		t.Error("non-admins should not be admin")
	}
}

func TestIsProjectMember(t *testing.T) {
	cases := []struct {
		name string
		user *models.User
		m    *models.Membership
		want bool
	}{
		{"owner without membership row", alice, nil, true},
		{"user with membership", bob, membership(models.MembershipViewer), true},
		{"outsider", bob, nil, false},
		{"nil user", nil, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsProjectMember(tc.user, project, tc.m); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanManageProject(t *testing.T) {
	cases := []struct {
		name string
		user *models.User
		m    *models.Membership
		want bool
	}{
		{"admin", admin, nil, true},
		{"owner", alice, nil, true},
		{"manager member", bob, membership(models.MembershipManager), true},
		{"plain member", bob, membership(models.MembershipMember), false},
		{"viewer", bob, membership(models.MembershipViewer), false},
		{"outsider", bob, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanManageProject(tc.user, project, tc.m); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanEditInProject(t *testing.T) {
	cases := []struct {
		name string
		user *models.User
		m    *models.Membership
		want bool
	}{
		{"admin", admin, nil, true},
		{"owner", alice, nil, true},
		{"manager member", bob, membership(models.MembershipManager), true},
		{"plain member", bob, membership(models.MembershipMember), true},
		{"viewer", bob, membership(models.MembershipViewer), false},
		{"outsider", bob, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanEditInProject(tc.user, project, tc.m); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}
