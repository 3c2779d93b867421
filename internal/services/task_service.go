package services

import (
	"context"
	"time"

	"taskhive/internal/apperrors"
	"taskhive/internal/authz"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
)

type TaskInput struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      models.TaskStatus    `json:"status"`
	Priority    models.TaskPriority  `json:"priority"`
	DueDate     *time.Time           `json:"due_date"`
	AssigneeID  *int64               `json:"assignee_id"`
	Position    *int                 `json:"position"`
}

type TaskUpdate struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	DueDate     *time.Time           `json:"due_date"`
	ClearDue    bool                 `json:"-"`
	AssigneeID  *int64               `json:"assignee_id"`
	Position    *int                 `json:"position"`
}

// TaskService owns the task lifecycle: creation with per-project
// position assignment, status transitions with the completed_at
// derivation, due-date validation, and the status-change audit trail.
type TaskService interface {
	Create(ctx context.Context, actor *models.User, project *models.Project, input TaskInput) (*models.Task, error)
	Get(ctx context.Context, actor *models.User, project *models.Project, taskID int64) (*models.Task, error)
	List(ctx context.Context, actor *models.User, project *models.Project, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, actor *models.User, project *models.Project, taskID int64, input TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, actor *models.User, project *models.Project, taskID int64) error
}

type taskService struct {
	tasks       repositories.TaskRepository
	memberships repositories.MembershipRepository
	policy      *authz.Policy
}

func NewTaskService(tasks repositories.TaskRepository, memberships repositories.MembershipRepository, policy *authz.Policy) TaskService {
	return &taskService{tasks: tasks, memberships: memberships, policy: policy}
}

func (s *taskService) Create(ctx context.Context, actor *models.User, project *models.Project, input TaskInput) (*models.Task, error) {
	if err := s.policy.CanEditTask(ctx, actor, project); err != nil {
		return nil, err
	}

	task := &models.Task{
		ProjectID:   project.ID,
		CreatorID:   actor.ID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		AssigneeID:  input.AssigneeID,
	}
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	errs := task.Validate()
	if task.DueDate != nil && task.DueDate.Before(time.Now()) {
		errs = append(errs, "Due date can't be in the past")
	}
	if len(errs) > 0 {
		return nil, apperrors.Validation(errs...)
	}

	if task.AssigneeID != nil {
		if err := s.requireMember(ctx, project, *task.AssigneeID); err != nil {
			return nil, err
		}
	}

	if input.Position != nil {
		task.Position = *input.Position
	} else {
		// monotonic per-project counter; gaps after deletion are fine,
		// and concurrent creations may race on the max
		max, err := s.tasks.MaxPosition(ctx, project.ID)
		if err != nil {
			return nil, err
		}
		task.Position = max + 1
	}

	if task.Status == models.StatusDone {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := s.tasks.Store(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Get(ctx context.Context, actor *models.User, project *models.Project, taskID int64) (*models.Task, error) {
	task, err := s.find(ctx, project, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanShowTask(ctx, actor, project); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, actor *models.User, project *models.Project, filter models.TaskFilter) ([]models.Task, error) {
	if err := s.policy.CanShowTask(ctx, actor, project); err != nil {
		return nil, err
	}
	return s.tasks.FindByProject(ctx, project.ID, filter)
}

func (s *taskService) Update(ctx context.Context, actor *models.User, project *models.Project, taskID int64, input TaskUpdate) (*models.Task, error) {
	task, err := s.find(ctx, project, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanEditTask(ctx, actor, project); err != nil {
		return nil, err
	}

	oldStatus := task.Status
	oldDue := task.DueDate

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.ClearDue {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Position != nil {
		task.Position = *input.Position
	}

	errs := task.Validate()
	// the past-due rule applies only when the due date is being changed
	if dueChanged(oldDue, task.DueDate) && task.DueDate != nil && task.DueDate.Before(time.Now()) {
		errs = append(errs, "Due date can't be in the past")
	}
	if len(errs) > 0 {
		return nil, apperrors.Validation(errs...)
	}

	if input.AssigneeID != nil && !task.AssignedTo(*input.AssigneeID) {
		// the generic update path enforces the same membership invariant
		// as the assignment workflow
		if err := s.requireMember(ctx, project, *input.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = input.AssigneeID
	}

	var entries []*models.ActivityLog
	if task.Status != oldStatus {
		now := time.Now()
		if task.Status == models.StatusDone && task.CompletedAt == nil {
			task.CompletedAt = &now
		} else if task.Status != models.StatusDone && task.CompletedAt != nil {
			task.CompletedAt = nil
		}
		entries = append(entries, models.NewActivity(models.ActionTaskStatusChanged, actor, nil, nil, map[string]any{
			"task_title": task.Title,
			"old_status": string(oldStatus),
			"new_status": string(task.Status),
		}))
	}

	if err := s.tasks.Update(ctx, task, entries...); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, actor *models.User, project *models.Project, taskID int64) error {
	task, err := s.find(ctx, project, taskID)
	if err != nil {
		return err
	}
	if err := s.policy.CanDestroyTask(ctx, actor, task, project); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, task.ID)
}

func (s *taskService) find(ctx context.Context, project *models.Project, taskID int64) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.ProjectID != project.ID {
		return nil, apperrors.NotFound("task")
	}
	return task, nil
}

func (s *taskService) requireMember(ctx context.Context, project *models.Project, userID int64) error {
	if project.OwnerID == userID {
		return nil
	}
	m, err := s.memberships.Find(ctx, project.ID, userID)
	if err != nil {
		return err
	}
	if m == nil {
		return apperrors.Validation("Assignee must be a project member")
	}
	return nil
}

func dueChanged(old, new *time.Time) bool {
	if old == nil && new == nil {
		return false
	}
	if old == nil || new == nil {
		return true
	}
	return !old.Equal(*new)
}
