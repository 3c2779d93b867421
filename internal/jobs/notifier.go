package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lib/pq"

	"taskhive/internal/apperrors"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
	"taskhive/internal/services"
)

// Notifier runs a worker pool over the queue and delivers notifications
// at least once, with no ordering guarantee. Failures are logged and
// dropped; only storage deadlocks get a single retry.
type Notifier struct {
	queue    *Queue
	tasks    repositories.TaskRepository
	users    repositories.UserRepository
	comments repositories.CommentRepository
	email    services.EmailService
	telegram *services.TelegramService
	workers  int

	wg sync.WaitGroup
}

func NewNotifier(
	queue *Queue,
	tasks repositories.TaskRepository,
	users repositories.UserRepository,
	comments repositories.CommentRepository,
	email services.EmailService,
	telegram *services.TelegramService,
	workers int,
) *Notifier {
	if workers <= 0 {
		workers = 4
	}
	return &Notifier{
		queue:    queue,
		tasks:    tasks,
		users:    users,
		comments: comments,
		email:    email,
		telegram: telegram,
		workers:  workers,
	}
}

func (n *Notifier) Start(ctx context.Context) {
	for i := 0; i < n.workers; i++ {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			for job := range n.queue.jobs() {
				n.run(ctx, job)
			}
		}()
	}
}

// Stop closes the queue and waits for workers to drain it.
func (n *Notifier) Stop() {
	n.queue.Close()
	n.wg.Wait()
}

func (n *Notifier) run(ctx context.Context, job Job) {
	start := time.Now()
	err := withDeadlockRetry(func() error {
		return n.process(ctx, job)
	})
	if err != nil {
		log.Printf("[jobs][err] kind=%s ids=%v: %v", job.Kind, job.IDs, err)
		return
	}
	log.Printf("[jobs][ok] kind=%s completed in %.2fs", job.Kind, time.Since(start).Seconds())
}

func (n *Notifier) process(ctx context.Context, job Job) error {
	switch job.Kind {
	case services.NotifyTaskAssignment:
		if len(job.IDs) != 2 {
			return fmt.Errorf("task_assignment wants (taskID, userID), got %v", job.IDs)
		}
		return n.taskAssignment(ctx, job.IDs[0], job.IDs[1])
	case services.NotifyComment:
		if len(job.IDs) != 1 {
			return fmt.Errorf("comment wants (commentID), got %v", job.IDs)
		}
		return n.comment(ctx, job.IDs[0])
	default:
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}
}

func (n *Notifier) taskAssignment(ctx context.Context, taskID, userID int64) error {
	task, err := n.tasks.FindByID(ctx, taskID)
	if err != nil {
		// records gone by the time the job runs are safe to ignore
		if apperrors.IsNotFound(err) {
			log.Printf("[jobs][skip] task %d no longer exists", taskID)
			return nil
		}
		return err
	}
	user, err := n.users.FindByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			log.Printf("[jobs][skip] user %d no longer exists", userID)
			return nil
		}
		return err
	}

	log.Printf("[jobs] task %q assigned to %s", task.Title, user.FullName())
	n.deliverAssignment(task, user)
	return nil
}

func (n *Notifier) deliverAssignment(task *models.Task, user *models.User) {
	if n.email != nil {
		if err := n.email.SendTaskAssignedEmail(user.Email, user.FullName(), task.Title); err != nil {
			log.Printf("[jobs][warn] assignment email to %s failed: %v", user.Email, err)
		}
	}
	if user.TelegramChatID != nil {
		text := "You have been assigned the task <b>" + task.Title + "</b>"
		if err := n.telegram.Notify(*user.TelegramChatID, text); err != nil {
			log.Printf("[jobs][warn] assignment telegram to %d failed: %v", *user.TelegramChatID, err)
		}
	}
}

func (n *Notifier) comment(ctx context.Context, commentID int64) error {
	comment, err := n.comments.FindByID(ctx, commentID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			log.Printf("[jobs][skip] comment %d no longer exists", commentID)
			return nil
		}
		return err
	}
	task, err := n.tasks.FindByID(ctx, comment.TaskID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			log.Printf("[jobs][skip] task %d no longer exists", comment.TaskID)
			return nil
		}
		return err
	}

	for _, id := range n.recipients(task, comment.UserID) {
		user, err := n.users.FindByID(ctx, id)
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return err
		}
		log.Printf("[jobs] notifying %s about new comment on %q", user.FullName(), task.Title)
		if n.email != nil {
			if err := n.email.SendCommentEmail(user.Email, user.FullName(), task.Title, comment.Preview(50)); err != nil {
				log.Printf("[jobs][warn] comment email to %s failed: %v", user.Email, err)
			}
		}
		if user.TelegramChatID != nil {
			text := "New comment on <b>" + task.Title + "</b>"
			if err := n.telegram.Notify(*user.TelegramChatID, text); err != nil {
				log.Printf("[jobs][warn] comment telegram to %d failed: %v", *user.TelegramChatID, err)
			}
		}
	}
	return nil
}

// recipients: assignee and creator, deduplicated, never the commenter.
func (n *Notifier) recipients(task *models.Task, commenterID int64) []int64 {
	var out []int64
	seen := map[int64]bool{commenterID: true}
	if task.AssigneeID != nil && !seen[*task.AssigneeID] {
		seen[*task.AssigneeID] = true
		out = append(out, *task.AssigneeID)
	}
	if !seen[task.CreatorID] {
		out = append(out, task.CreatorID)
	}
	return out
}

// withDeadlockRetry applies the uniform background-job retry policy:
// one retry on a Postgres deadlock, nothing else.
func withDeadlockRetry(fn func() error) error {
	err := fn()
	if err == nil || !isDeadlock(err) {
		return err
	}
	log.Printf("[jobs][retry] deadlock detected, retrying once")
	return fn()
}

func isDeadlock(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "40P01"
}
