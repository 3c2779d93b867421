package services

import (
	"context"
	"log"

	"taskhive/internal/apperrors"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
)

// AssignmentResult is the value returned by the assignment workflow.
// Errors never cross the workflow boundary as Go errors: validation
// failures carry their message, anything unexpected is logged and
// surfaced as a generic failure.
type AssignmentResult struct {
	Task *models.Task
	Err  string
}

func (r AssignmentResult) Success() bool {
	return r.Err == ""
}

func assignmentFailure(msg string) AssignmentResult {
	return AssignmentResult{Err: msg}
}

type AssignmentService interface {
	Assign(ctx context.Context, project *models.Project, task *models.Task, assignee, assigner *models.User) AssignmentResult
}

type assignmentService struct {
	tasks       repositories.TaskRepository
	memberships repositories.MembershipRepository
	queue       NotificationQueue
}

func NewAssignmentService(tasks repositories.TaskRepository, memberships repositories.MembershipRepository, queue NotificationQueue) AssignmentService {
	return &assignmentService{tasks: tasks, memberships: memberships, queue: queue}
}

// Assign validates the candidate, then atomically updates the assignee
// and appends the task_assigned activity entry. The notification is
// enqueued only after the transaction commits, so a rolled-back
// assignment never notifies.
func (s *assignmentService) Assign(ctx context.Context, project *models.Project, task *models.Task, assignee, assigner *models.User) AssignmentResult {
	if err := s.validate(ctx, project, task, assignee); err != nil {
		if ve, ok := apperrors.AsValidation(err); ok {
			return assignmentFailure(ve.Messages[0])
		}
		log.Printf("[assignment][err] validate task=%d assignee=%d: %v", task.ID, assignee.ID, err)
		return assignmentFailure("Failed to assign task")
	}

	entry := models.NewActivity(models.ActionTaskAssigned, assigner, nil, nil, map[string]any{
		"task_title":    task.Title,
		"assignee_name": assignee.FullName(),
		"assigner_name": assigner.FullName(),
	})
	if err := s.tasks.Assign(ctx, task, assignee.ID, entry); err != nil {
		log.Printf("[assignment][err] task=%d assignee=%d: %v", task.ID, assignee.ID, err)
		return assignmentFailure("Failed to assign task")
	}

	s.queue.Enqueue(NotifyTaskAssignment, task.ID, assignee.ID)
	return AssignmentResult{Task: task}
}

func (s *assignmentService) validate(ctx context.Context, project *models.Project, task *models.Task, assignee *models.User) error {
	// membership alone satisfies the precondition; the assignee's
	// project role does not matter here
	if project.OwnerID != assignee.ID {
		m, err := s.memberships.Find(ctx, project.ID, assignee.ID)
		if err != nil {
			return err
		}
		if m == nil {
			return apperrors.Validation("Assignee must be a project member")
		}
	}
	if task.AssignedTo(assignee.ID) {
		return apperrors.Validation("Task already assigned to this user")
	}
	return nil
}
