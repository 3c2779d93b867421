package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ProjectStatus defines the possible statuses for a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectArchived  ProjectStatus = "archived"
	ProjectCompleted ProjectStatus = "completed"
)

type Project struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	OwnerID     int64         `json:"owner_id"`
	Status      ProjectStatus `json:"status"`
	ArchivedAt  *time.Time    `json:"archived_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func IsValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectActive, ProjectArchived, ProjectCompleted:
		return true
	}
	return false
}

func (p *Project) Validate() []string {
	var errs []string
	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		errs = append(errs, "Name can't be blank")
	case utf8.RuneCountInString(name) < 3:
		errs = append(errs, "Name is too short (minimum is 3 characters)")
	case utf8.RuneCountInString(name) > 100:
		errs = append(errs, "Name is too long (maximum is 100 characters)")
	}
	if !IsValidProjectStatus(p.Status) {
		errs = append(errs, "Status is not included in the list")
	}
	return errs
}
