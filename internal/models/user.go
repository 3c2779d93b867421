package models

import (
	"regexp"
	"strings"
	"time"
)

// UserRole is the account-level role of a user.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
	RoleViewer UserRole = "viewer"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type User struct {
	ID           int64    `json:"id"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Role         UserRole `json:"role"`
	AvatarURL    *string  `json:"avatar_url,omitempty"`

	// optional Telegram binding for notifications
	TelegramChatID *int64 `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail lowercases and trims an email the same way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsValidUserRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// Validate returns human-readable field errors, empty when the user is valid.
func (u *User) Validate() []string {
	var errs []string
	if strings.TrimSpace(u.Email) == "" {
		errs = append(errs, "Email can't be blank")
	} else if !emailPattern.MatchString(u.Email) {
		errs = append(errs, "Email is invalid")
	}
	if strings.TrimSpace(u.FirstName) == "" {
		errs = append(errs, "First name can't be blank")
	}
	if strings.TrimSpace(u.LastName) == "" {
		errs = append(errs, "Last name can't be blank")
	}
	if !IsValidUserRole(u.Role) {
		errs = append(errs, "Role is not included in the list")
	}
	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
