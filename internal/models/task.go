package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// TaskStatus defines the possible statuses for a task. Any status may
// move to any other status; the board is not a strict workflow engine.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

// Task represents a unit of work inside a project.
type Task struct {
	ID          int64        `json:"id"`
	ProjectID   int64        `json:"project_id"`
	CreatorID   int64        `json:"creator_id"`
	AssigneeID  *int64       `json:"assignee_id,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Position    int          `json:"position"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func IsValidTaskStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

func IsValidTaskPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

func (t *Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusDone
}

func (t *Task) AssignedTo(userID int64) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// Validate returns human-readable field errors for the task's own fields.
// The due-date rule is checked separately because it applies only when
// the due date is being set or changed.
func (t *Task) Validate() []string {
	var errs []string
	title := strings.TrimSpace(t.Title)
	switch {
	case title == "":
		errs = append(errs, "Title can't be blank")
	case utf8.RuneCountInString(title) < 3:
		errs = append(errs, "Title is too short (minimum is 3 characters)")
	case utf8.RuneCountInString(title) > 200:
		errs = append(errs, "Title is too long (maximum is 200 characters)")
	}
	if !IsValidTaskStatus(t.Status) {
		errs = append(errs, "Status is not included in the list")
	}
	if !IsValidTaskPriority(t.Priority) {
		errs = append(errs, "Priority is not included in the list")
	}
	return errs
}

// TaskFilter defines the available parameters for filtering a project's tasks.
type TaskFilter struct {
	Status     *TaskStatus
	Priority   *TaskPriority
	AssigneeID *int64
	SortBy     string // priority | due_date | position | "" (recent first)
}
