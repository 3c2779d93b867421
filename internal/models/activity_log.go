package models

import "time"

// Activity actions recorded in the audit trail.
const (
	ActionUserRegistered       = "user_registered"
	ActionProjectStatusChanged = "project_status_changed"
	ActionProjectArchived      = "project_archived"
	ActionMemberAdded          = "member_added"
	ActionMemberRemoved        = "member_removed"
	ActionTaskStatusChanged    = "task_status_changed"
	ActionTaskAssigned         = "task_assigned"
	ActionCommentAdded         = "comment_added"
)

// ActivityLog is an append-only audit record of a domain event. Rows are
// created once and never updated or deleted.
type ActivityLog struct {
	ID        int64          `json:"id"`
	UserID    *int64         `json:"user_id,omitempty"`
	ProjectID *int64         `json:"project_id,omitempty"`
	TaskID    *int64         `json:"task_id,omitempty"`
	Action    string         `json:"action"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewActivity builds a log entry; nil actor/project/task leave the
// corresponding reference empty.
func NewActivity(action string, actor *User, project *Project, task *Task, metadata map[string]any) *ActivityLog {
	entry := &ActivityLog{Action: action, Metadata: metadata}
	if actor != nil {
		entry.UserID = &actor.ID
	}
	if project != nil {
		entry.ProjectID = &project.ID
	}
	if task != nil {
		entry.TaskID = &task.ID
	}
	return entry
}
