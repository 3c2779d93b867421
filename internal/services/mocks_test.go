package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"taskhive/internal/apperrors"
	"taskhive/internal/models"
)

func assertValidation(t *testing.T, err error, msg string) {
	t.Helper()
	ve, ok := apperrors.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, m := range ve.Messages {
		if m == msg {
			return
		}
	}
	t.Fatalf("validation messages %v do not include %q", ve.Messages, msg)
}

// In-memory fakes for the repository interfaces. They record writes so
// tests can assert on the exact activity entries and queue jobs a
// workflow produced.

type fakeTaskRepo struct {
	tasks   map[int64]*models.Task
	nextID  int64
	maxPos  int
	entries []*models.ActivityLog

	assignErr error
	list      []models.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]*models.Task{}}
}

func (r *fakeTaskRepo) add(task *models.Task) *models.Task {
	r.nextID++
	task.ID = r.nextID
	r.tasks[task.ID] = task
	return task
}

func (r *fakeTaskRepo) Store(ctx context.Context, task *models.Task) error {
	r.add(task)
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	if task.Position > r.maxPos {
		r.maxPos = task.Position
	}
	return nil
}

func (r *fakeTaskRepo) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, apperrors.NotFound("task")
	}
	return t, nil
}

func (r *fakeTaskRepo) FindByProject(ctx context.Context, projectID int64, filter models.TaskFilter) ([]models.Task, error) {
	if r.list != nil {
		return r.list, nil
	}
	var out []models.Task
	for _, t := range r.tasks {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) MaxPosition(ctx context.Context, projectID int64) (int, error) {
	return r.maxPos, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task *models.Task, entries ...*models.ActivityLog) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return apperrors.NotFound("task")
	}
	r.tasks[task.ID] = task
	if task.Position > r.maxPos {
		r.maxPos = task.Position
	}
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *fakeTaskRepo) Assign(ctx context.Context, task *models.Task, assigneeID int64, entry *models.ActivityLog) error {
	if r.assignErr != nil {
		return r.assignErr
	}
	task.AssigneeID = &assigneeID
	if entry != nil {
		r.entries = append(r.entries, entry)
	}
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.tasks[id]; !ok {
		return apperrors.NotFound("task")
	}
	delete(r.tasks, id)
	return nil
}

type fakeMembershipRepo struct {
	members map[string]*models.Membership
	count   int
	entries []*models.ActivityLog
	removed []string
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{members: map[string]*models.Membership{}}
}

func membershipKey(projectID, userID int64) string {
	return fmt.Sprintf("%d:%d", projectID, userID)
}

func (r *fakeMembershipRepo) grant(projectID, userID int64, role models.MembershipRole) {
	r.members[membershipKey(projectID, userID)] = &models.Membership{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
}

func (r *fakeMembershipRepo) Store(ctx context.Context, m *models.Membership, entry *models.ActivityLog) error {
	key := membershipKey(m.ProjectID, m.UserID)
	if _, ok := r.members[key]; ok {
		return apperrors.Validation("User is already a member of this project")
	}
	r.members[key] = m
	if entry != nil {
		r.entries = append(r.entries, entry)
	}
	return nil
}

func (r *fakeMembershipRepo) Find(ctx context.Context, projectID, userID int64) (*models.Membership, error) {
	return r.members[membershipKey(projectID, userID)], nil
}

func (r *fakeMembershipRepo) ListByProject(ctx context.Context, projectID int64) ([]models.Membership, error) {
	var out []models.Membership
	for _, m := range r.members {
		if m.ProjectID == projectID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) CountByProject(ctx context.Context, projectID int64) (int, error) {
	if r.count > 0 {
		return r.count, nil
	}
	out, _ := r.ListByProject(ctx, projectID)
	return len(out), nil
}

func (r *fakeMembershipRepo) Delete(ctx context.Context, projectID, userID int64, entry *models.ActivityLog) error {
	key := membershipKey(projectID, userID)
	if _, ok := r.members[key]; !ok {
		return apperrors.NotFound("membership")
	}
	delete(r.members, key)
	r.removed = append(r.removed, key)
	if entry != nil {
		r.entries = append(r.entries, entry)
	}
	return nil
}

type fakeProjectRepo struct {
	projects map[int64]*models.Project
	nextID   int64
	owners   []*models.Membership
	entries  []*models.ActivityLog

	findAllCalled    bool
	findByUserCalled bool
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[int64]*models.Project{}}
}

func (r *fakeProjectRepo) add(p *models.Project) *models.Project {
	r.nextID++
	p.ID = r.nextID
	r.projects[p.ID] = p
	return p
}

func (r *fakeProjectRepo) Store(ctx context.Context, project *models.Project, owner *models.Membership, entries ...*models.ActivityLog) error {
	r.add(project)
	if owner != nil {
		owner.ProjectID = project.ID
		r.owners = append(r.owners, owner)
	}
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *fakeProjectRepo) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, apperrors.NotFound("project")
	}
	return p, nil
}

func (r *fakeProjectRepo) FindAll(ctx context.Context, includeArchived bool) ([]models.Project, error) {
	r.findAllCalled = true
	var out []models.Project
	for _, p := range r.projects {
		if !includeArchived && p.ArchivedAt != nil {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProjectRepo) FindByUser(ctx context.Context, userID int64, includeArchived bool) ([]models.Project, error) {
	r.findByUserCalled = true
	var out []models.Project
	for _, p := range r.projects {
		if p.OwnerID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project *models.Project, entries ...*models.ActivityLog) error {
	if _, ok := r.projects[project.ID]; !ok {
		return apperrors.NotFound("project")
	}
	r.projects[project.ID] = project
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.projects[id]; !ok {
		return apperrors.NotFound("project")
	}
	delete(r.projects, id)
	return nil
}

type fakeUserRepo struct {
	users   map[int64]*models.User
	nextID  int64
	entries []*models.ActivityLog
	logins  []int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}}
}

func (r *fakeUserRepo) add(u *models.User) *models.User {
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Store(ctx context.Context, user *models.User, entry *models.ActivityLog) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.Validation("Email has already been taken")
		}
	}
	r.add(user)
	if entry != nil {
		r.entries = append(r.entries, entry)
	}
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == models.NormalizeEmail(email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id int64) error {
	r.logins = append(r.logins, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type fakeCommentRepo struct {
	comments map[int64]*models.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[int64]*models.Comment{}}
}

func (r *fakeCommentRepo) Store(ctx context.Context, comment *models.Comment) error {
	r.nextID++
	comment.ID = r.nextID
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, apperrors.NotFound("comment")
	}
	return c, nil
}

func (r *fakeCommentRepo) ListByTask(ctx context.Context, taskID int64) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.TaskID == taskID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) Update(ctx context.Context, comment *models.Comment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return apperrors.NotFound("comment")
	}
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.comments[id]; !ok {
		return apperrors.NotFound("comment")
	}
	delete(r.comments, id)
	return nil
}

type fakeActivityRepo struct {
	stored []*models.ActivityLog
	recent []models.ActivityLog
}

func (r *fakeActivityRepo) Store(ctx context.Context, entry *models.ActivityLog) error {
	r.stored = append(r.stored, entry)
	return nil
}

func (r *fakeActivityRepo) ListByProject(ctx context.Context, projectID int64, limit int) ([]models.ActivityLog, error) {
	return r.recent, nil
}

func (r *fakeActivityRepo) ListByTask(ctx context.Context, taskID int64, limit int) ([]models.ActivityLog, error) {
	return r.recent, nil
}

func (r *fakeActivityRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]models.ActivityLog, error) {
	return r.recent, nil
}

type queuedJob struct {
	kind string
	ids  []int64
}

type fakeQueue struct {
	jobs []queuedJob
}

func (q *fakeQueue) Enqueue(kind string, ids ...int64) {
	q.jobs = append(q.jobs, queuedJob{kind: kind, ids: ids})
}
