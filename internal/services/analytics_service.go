package services

import (
	"context"
	"math"
	"time"

	"taskhive/internal/models"
	"taskhive/internal/repositories"
)

// ProjectStatistics is the aggregate analytics payload for one project.
type ProjectStatistics struct {
	TotalTasks            int                  `json:"total_tasks"`
	CompletedTasks        int                  `json:"completed_tasks"`
	InProgressTasks       int                  `json:"in_progress_tasks"`
	OverdueTasks          int                  `json:"overdue_tasks"`
	CompletionRate        float64              `json:"completion_rate"`
	AverageCompletionTime *float64             `json:"average_completion_time"` // seconds
	TasksByPriority       map[string]int       `json:"tasks_by_priority"`
	TasksByStatus         map[string]int       `json:"tasks_by_status"`
	MemberCount           int                  `json:"member_count"`
	RecentActivity        []models.ActivityLog `json:"recent_activity"`
}

type AnalyticsService interface {
	Statistics(ctx context.Context, project *models.Project) (*ProjectStatistics, error)
}

type analyticsService struct {
	tasks       repositories.TaskRepository
	memberships repositories.MembershipRepository
	activity    repositories.ActivityRepository
}

func NewAnalyticsService(tasks repositories.TaskRepository, memberships repositories.MembershipRepository, activity repositories.ActivityRepository) AnalyticsService {
	return &analyticsService{tasks: tasks, memberships: memberships, activity: activity}
}

func (s *analyticsService) Statistics(ctx context.Context, project *models.Project) (*ProjectStatistics, error) {
	tasks, err := s.tasks.FindByProject(ctx, project.ID, models.TaskFilter{})
	if err != nil {
		return nil, err
	}
	memberCount, err := s.memberships.CountByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	recent, err := s.activity.ListByProject(ctx, project.ID, 10)
	if err != nil {
		return nil, err
	}

	stats := &ProjectStatistics{
		MemberCount:    memberCount,
		RecentActivity: recent,
		TasksByPriority: map[string]int{
			string(models.PriorityCritical): 0,
			string(models.PriorityHigh):     0,
			string(models.PriorityMedium):   0,
			string(models.PriorityLow):      0,
		},
		TasksByStatus: map[string]int{
			string(models.StatusTodo):       0,
			string(models.StatusInProgress): 0,
			string(models.StatusReview):     0,
			string(models.StatusDone):       0,
		},
	}

	now := time.Now()
	var completionSum float64
	var completionCount int
	for i := range tasks {
		t := &tasks[i]
		stats.TotalTasks++
		stats.TasksByPriority[string(t.Priority)]++
		stats.TasksByStatus[string(t.Status)]++
		if t.Status == models.StatusDone {
			stats.CompletedTasks++
		}
		if t.Status == models.StatusInProgress {
			stats.InProgressTasks++
		}
		if t.Overdue(now) {
			stats.OverdueTasks++
		}
		if t.CompletedAt != nil {
			completionSum += t.CompletedAt.Sub(t.CreatedAt).Seconds()
			completionCount++
		}
	}

	if stats.TotalTasks > 0 {
		stats.CompletionRate = round2(float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100)
	}
	if completionCount > 0 {
		avg := round2(completionSum / float64(completionCount))
		stats.AverageCompletionTime = &avg
	}
	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
