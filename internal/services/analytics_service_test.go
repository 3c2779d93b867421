package services

import (
	"context"
	"testing"
	"time"

	"taskhive/internal/models"
)

func TestProjectStatistics(t *testing.T) {
	tasks := newFakeTaskRepo()
	members := newFakeMembershipRepo()
	activity := &fakeActivityRepo{recent: []models.ActivityLog{{Action: models.ActionTaskAssigned}}}
	svc := NewAnalyticsService(tasks, members, activity)

	now := time.Now()
	created := now.Add(-10 * time.Hour)
	finished := created.Add(2 * time.Hour)
	pastDue := now.Add(-time.Hour)

	tasks.list = []models.Task{
		{Status: models.StatusDone, Priority: models.PriorityHigh, CreatedAt: created, CompletedAt: &finished},
		{Status: models.StatusInProgress, Priority: models.PriorityMedium, CreatedAt: created},
		{Status: models.StatusTodo, Priority: models.PriorityLow, CreatedAt: created, DueDate: &pastDue},
		{Status: models.StatusReview, Priority: models.PriorityCritical, CreatedAt: created},
	}
	members.count = 3

	stats, err := svc.Statistics(context.Background(), activeProject())
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}

	if stats.TotalTasks != 4 {
		t.Errorf("total = %d", stats.TotalTasks)
	}
	if stats.CompletedTasks != 1 || stats.InProgressTasks != 1 || stats.OverdueTasks != 1 {
		t.Errorf("completed=%d in_progress=%d overdue=%d", stats.CompletedTasks, stats.InProgressTasks, stats.OverdueTasks)
	}
	if stats.CompletionRate != 25.0 {
		t.Errorf("completion rate = %v, want 25", stats.CompletionRate)
	}
	if stats.AverageCompletionTime == nil || *stats.AverageCompletionTime != (2 * time.Hour).Seconds() {
		t.Errorf("average completion time = %v", stats.AverageCompletionTime)
	}
	if stats.TasksByPriority["critical"] != 1 || stats.TasksByPriority["low"] != 1 {
		t.Errorf("by priority = %v", stats.TasksByPriority)
	}
	if stats.TasksByStatus["review"] != 1 || stats.TasksByStatus["done"] != 1 {
		t.Errorf("by status = %v", stats.TasksByStatus)
	}
	if stats.MemberCount != 3 {
		t.Errorf("member count = %d", stats.MemberCount)
	}
	if len(stats.RecentActivity) != 1 {
		t.Errorf("recent activity = %d entries", len(stats.RecentActivity))
	}
}

func TestProjectStatisticsEmptyProject(t *testing.T) {
	tasks := newFakeTaskRepo()
	svc := NewAnalyticsService(tasks, newFakeMembershipRepo(), &fakeActivityRepo{})

	stats, err := svc.Statistics(context.Background(), activeProject())
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.CompletionRate != 0 {
		t.Errorf("completion rate = %v, want 0 for an empty project", stats.CompletionRate)
	}
	if stats.AverageCompletionTime != nil {
		t.Error("average completion time should be absent with no completed tasks")
	}
}
