package services

// NotificationQueue is the fire-and-forget enqueue side of the
// background notification dispatcher. No delivery guarantee is observed
// by the callers.
type NotificationQueue interface {
	Enqueue(kind string, ids ...int64)
}

// Notification kinds understood by the dispatcher.
const (
	// NotifyTaskAssignment expects (taskID, assigneeID).
	NotifyTaskAssignment = "task_assignment"
	// NotifyComment expects (commentID).
	NotifyComment = "comment"
)
