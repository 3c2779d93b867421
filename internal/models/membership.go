package models

import "time"

// MembershipRole is the role a user holds inside a single project.
type MembershipRole string

const (
	MembershipManager MembershipRole = "manager"
	MembershipMember  MembershipRole = "member"
	MembershipViewer  MembershipRole = "viewer"
)

// Membership links a user to a project. At most one membership exists
// per (project, user) pair.
type Membership struct {
	ID        int64          `json:"id"`
	ProjectID int64          `json:"project_id"`
	UserID    int64          `json:"user_id"`
	Role      MembershipRole `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (m *Membership) IsManager() bool {
	return m.Role == MembershipManager
}

// CanEdit reports whether this membership grants write access to project
// content. Viewers are read-only.
func (m *Membership) CanEdit() bool {
	return m.Role == MembershipManager || m.Role == MembershipMember
}

func IsValidMembershipRole(r MembershipRole) bool {
	switch r {
	case MembershipManager, MembershipMember, MembershipViewer:
		return true
	}
	return false
}
