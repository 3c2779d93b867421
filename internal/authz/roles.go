package authz

import "taskhive/internal/models"

// Capability predicates are pure functions over the actor, the project
// and the actor's membership on it (nil when none). Membership lookup is
// the caller's job so these stay trivially testable.

func IsAdmin(u *models.User) bool {
	return u != nil && u.Role == models.RoleAdmin
}

// IsProjectMember reports whether u is the project owner or holds any
// membership on it.
func IsProjectMember(u *models.User, p *models.Project, m *models.Membership) bool {
	if u == nil || p == nil {
		return false
	}
	return p.OwnerID == u.ID || m != nil
}

// CanManageProject: admins, the owner, and manager-role members.
func CanManageProject(u *models.User, p *models.Project, m *models.Membership) bool {
	if IsAdmin(u) {
		return true
	}
	if u == nil || p == nil {
		return false
	}
	return p.OwnerID == u.ID || (m != nil && m.IsManager())
}

// CanEditInProject: admins, the owner, and manager/member-role members.
// Viewers cannot edit.
func CanEditInProject(u *models.User, p *models.Project, m *models.Membership) bool {
	if IsAdmin(u) {
		return true
	}
	if u == nil || p == nil {
		return false
	}
	return p.OwnerID == u.ID || (m != nil && m.CanEdit())
}
