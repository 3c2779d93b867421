package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"taskhive/internal/apperrors"
	"taskhive/internal/authz"
	"taskhive/internal/models"
)

func commentEnv() (*fakeCommentRepo, *fakeActivityRepo, *fakeQueue, CommentService) {
	comments := newFakeCommentRepo()
	activity := &fakeActivityRepo{}
	queue := &fakeQueue{}
	policy := authz.NewPolicy(newFakeMembershipRepo())
	return comments, activity, queue, NewCommentService(comments, activity, policy, queue)
}

func commentedTask() *models.Task {
	return &models.Task{ID: 4, ProjectID: 10, CreatorID: 1, Title: "Discussed task", Status: models.StatusTodo, Priority: models.PriorityMedium}
}

func TestCreateComment(t *testing.T) {
	comments, activity, queue, svc := commentEnv()
	actor := &models.User{ID: 6, FirstName: "Cass", LastName: "Wu", Role: models.RoleMember}
	task := commentedTask()

	comment, err := svc.Create(context.Background(), actor, task, "Looks good to me")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if comment.ID == 0 || comment.TaskID != task.ID || comment.UserID != actor.ID {
		t.Fatalf("comment = %+v", comment)
	}
	if _, ok := comments.comments[comment.ID]; !ok {
		t.Fatal("comment not stored")
	}

	if len(activity.stored) != 1 {
		t.Fatalf("activity entries = %d, want 1", len(activity.stored))
	}
	entry := activity.stored[0]
	if entry.Action != models.ActionCommentAdded {
		t.Errorf("action = %q", entry.Action)
	}
	if entry.ProjectID == nil || *entry.ProjectID != task.ProjectID {
		t.Errorf("entry project = %v", entry.ProjectID)
	}
	if entry.Metadata["comment_preview"] != "Looks good to me" {
		t.Errorf("metadata = %v", entry.Metadata)
	}

	if len(queue.jobs) != 1 || queue.jobs[0].kind != NotifyComment || queue.jobs[0].ids[0] != comment.ID {
		t.Fatalf("jobs = %+v", queue.jobs)
	}
}

func TestCreateCommentPreviewTruncated(t *testing.T) {
	_, activity, _, svc := commentEnv()
	actor := &models.User{ID: 6, FirstName: "Cass", LastName: "Wu", Role: models.RoleMember}
	long := strings.Repeat("x", 120)

	if _, err := svc.Create(context.Background(), actor, commentedTask(), long); err != nil {
		t.Fatalf("create: %v", err)
	}
	preview, _ := activity.stored[0].Metadata["comment_preview"].(string)
	if len([]rune(preview)) != 50 || !strings.HasSuffix(preview, "…") {
		t.Errorf("preview = %q (len %d)", preview, len([]rune(preview)))
	}
}

func TestCreateCommentBlank(t *testing.T) {
	_, _, queue, svc := commentEnv()
	actor := &models.User{ID: 6, Role: models.RoleMember}

	_, err := svc.Create(context.Background(), actor, commentedTask(), "   ")
	assertValidation(t, err, "Content can't be blank")
	if len(queue.jobs) != 0 {
		t.Error("no notification should be queued for an invalid comment")
	}
}

func TestUpdateCommentByAuthor(t *testing.T) {
	comments, _, _, svc := commentEnv()
	author := &models.User{ID: 6, Role: models.RoleMember}
	comments.Store(context.Background(), &models.Comment{TaskID: 4, UserID: author.ID, Content: "typo"})

	updated, err := svc.Update(context.Background(), author, 1, "fixed")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != "fixed" {
		t.Errorf("content = %q", updated.Content)
	}
}

func TestUpdateCommentByOtherUserForbidden(t *testing.T) {
	comments, _, _, svc := commentEnv()
	comments.Store(context.Background(), &models.Comment{TaskID: 4, UserID: 6, Content: "mine"})
	other := &models.User{ID: 7, Role: models.RoleMember}

	_, err := svc.Update(context.Background(), other, 1, "theirs now")
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestDeleteCommentByAdmin(t *testing.T) {
	comments, _, _, svc := commentEnv()
	comments.Store(context.Background(), &models.Comment{TaskID: 4, UserID: 6, Content: "spam"})
	admin := &models.User{ID: 2, Role: models.RoleAdmin}

	if err := svc.Delete(context.Background(), admin, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(comments.comments) != 0 {
		t.Fatal("comment should be gone")
	}
}
