package services

import (
	"context"
	"log"

	"taskhive/internal/apperrors"
	"taskhive/internal/authz"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
)

type CommentService interface {
	// Create is open to any authenticated user; it appends the
	// comment_added activity entry and enqueues the watcher notification.
	Create(ctx context.Context, actor *models.User, task *models.Task, content string) (*models.Comment, error)
	Update(ctx context.Context, actor *models.User, commentID int64, content string) (*models.Comment, error)
	Delete(ctx context.Context, actor *models.User, commentID int64) error
	ListByTask(ctx context.Context, taskID int64) ([]models.Comment, error)
}

type commentService struct {
	comments repositories.CommentRepository
	activity repositories.ActivityRepository
	policy   *authz.Policy
	queue    NotificationQueue
}

func NewCommentService(comments repositories.CommentRepository, activity repositories.ActivityRepository, policy *authz.Policy, queue NotificationQueue) CommentService {
	return &commentService{comments: comments, activity: activity, policy: policy, queue: queue}
}

func (s *commentService) Create(ctx context.Context, actor *models.User, task *models.Task, content string) (*models.Comment, error) {
	comment := &models.Comment{
		TaskID:  task.ID,
		UserID:  actor.ID,
		Content: content,
	}
	if errs := comment.Validate(); len(errs) > 0 {
		return nil, apperrors.Validation(errs...)
	}
	if err := s.comments.Store(ctx, comment); err != nil {
		return nil, err
	}

	// logged after the insert commits; a failed log entry does not undo
	// the comment
	entry := models.NewActivity(models.ActionCommentAdded, actor, nil, task, map[string]any{
		"task_title":      task.Title,
		"comment_preview": comment.Preview(50),
	})
	entry.ProjectID = &task.ProjectID
	if err := s.activity.Store(ctx, entry); err != nil {
		log.Printf("[comment][warn] activity log failed for comment=%d: %v", comment.ID, err)
	}

	s.queue.Enqueue(NotifyComment, comment.ID)
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, actor *models.User, commentID int64, content string) (*models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanUpdateComment(actor, comment); err != nil {
		return nil, err
	}
	comment.Content = content
	if errs := comment.Validate(); len(errs) > 0 {
		return nil, apperrors.Validation(errs...)
	}
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, actor *models.User, commentID int64) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := s.policy.CanDestroyComment(actor, comment); err != nil {
		return err
	}
	return s.comments.Delete(ctx, comment.ID)
}

func (s *commentService) ListByTask(ctx context.Context, taskID int64) ([]models.Comment, error) {
	return s.comments.ListByTask(ctx, taskID)
}
