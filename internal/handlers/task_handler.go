package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskhive/internal/authz"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
	"taskhive/internal/services"
)

type TaskHandler struct {
	tasks       services.TaskService
	assignments services.AssignmentService
	projects    repositories.ProjectRepository
	users       repositories.UserRepository
	policy      *authz.Policy
}

func NewTaskHandler(tasks services.TaskService, assignments services.AssignmentService, projects repositories.ProjectRepository, users repositories.UserRepository, policy *authz.Policy) *TaskHandler {
	return &TaskHandler{tasks: tasks, assignments: assignments, projects: projects, users: users, policy: policy}
}

// the project is loaded without a policy check; the task policies
// themselves decide access per action
func (h *TaskHandler) project(c *gin.Context) (*models.Project, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	project, err := h.projects.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return project, true
}

// GET /api/v1/projects/:id/tasks
func (h *TaskHandler) List(c *gin.Context) {
	project, ok := h.project(c)
	if !ok {
		return
	}

	var filter models.TaskFilter
	if v, ok := c.GetQuery("status"); ok {
		st := models.TaskStatus(v)
		filter.Status = &st
	}
	if v, ok := c.GetQuery("priority"); ok {
		pr := models.TaskPriority(v)
		filter.Priority = &pr
	}
	if v, ok := c.GetQuery("assignee_id"); ok {
		if id, err := parseInt64(v); err == nil {
			filter.AssigneeID = &id
		}
	}
	filter.SortBy = c.Query("sort_by")

	tasks, err := h.tasks.List(c.Request.Context(), actor(c), project, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

type taskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	DueDate     *string              `json:"due_date"` // RFC3339, "" clears
	AssigneeID  *int64               `json:"assignee_id"`
	Position    *int                 `json:"position"`
}

// POST /api/v1/projects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	project, ok := h.project(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.TaskInput{
		AssigneeID: req.AssigneeID,
		Position:   req.Position,
	}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Status != nil {
		input.Status = *req.Status
	}
	if req.Priority != nil {
		input.Priority = *req.Priority
	}
	if req.DueDate != nil && *req.DueDate != "" {
		t, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (RFC3339)"})
			return
		}
		input.DueDate = &t
	}

	task, err := h.tasks.Create(c.Request.Context(), actor(c), project, input)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[task][create][ok] id=%d project=%d position=%d", task.ID, project.ID, task.Position)
	c.JSON(http.StatusCreated, task)
}

// GET /api/v1/projects/:id/tasks/:task_id
func (h *TaskHandler) Get(c *gin.Context) {
	project, ok := h.project(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), actor(c), project, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// PUT /api/v1/projects/:id/tasks/:task_id
func (h *TaskHandler) Update(c *gin.Context) {
	project, ok := h.project(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		Position:    req.Position,
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			input.ClearDue = true
		} else {
			t, err := time.Parse(time.RFC3339, *req.DueDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (RFC3339)"})
				return
			}
			input.DueDate = &t
		}
	}

	task, err := h.tasks.Update(c.Request.Context(), actor(c), project, taskID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[task][update][ok] id=%d status=%s", task.ID, task.Status)
	c.JSON(http.StatusOK, task)
}

// DELETE /api/v1/projects/:id/tasks/:task_id
func (h *TaskHandler) Delete(c *gin.Context) {
	project, ok := h.project(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), actor(c), project, taskID); err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[task][delete][ok] id=%d", taskID)
	c.Status(http.StatusNoContent)
}

// POST /api/v1/projects/:id/tasks/:task_id/assign
func (h *TaskHandler) Assign(c *gin.Context) {
	project, ok := h.project(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return
	}
	var req struct {
		AssigneeID int64 `json:"assignee_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// assigning requires the same capability as updating the task
	task, err := h.tasks.Get(c.Request.Context(), actor(c), project, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.policy.CanEditTask(c.Request.Context(), actor(c), project); err != nil {
		respondError(c, err)
		return
	}
	assignee, err := h.users.FindByID(c.Request.Context(), req.AssigneeID)
	if err != nil {
		respondError(c, err)
		return
	}

	result := h.assignments.Assign(c.Request.Context(), project, task, assignee, actor(c))
	if !result.Success() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": result.Err})
		return
	}
	log.Printf("[task][assign][ok] id=%d assignee=%d", task.ID, assignee.ID)
	c.JSON(http.StatusOK, result.Task)
}
