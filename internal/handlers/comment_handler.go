package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhive/internal/models"
	"taskhive/internal/repositories"
	"taskhive/internal/services"
)

type CommentHandler struct {
	comments services.CommentService
	tasks    repositories.TaskRepository
}

func NewCommentHandler(comments services.CommentService, tasks repositories.TaskRepository) *CommentHandler {
	return &CommentHandler{comments: comments, tasks: tasks}
}

func (h *CommentHandler) task(c *gin.Context) (*models.Task, bool) {
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return nil, false
	}
	task, err := h.tasks.FindByID(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return task, true
}

// GET /api/v1/tasks/:task_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	task, ok := h.task(c)
	if !ok {
		return
	}
	comments, err := h.comments.ListByTask(c.Request.Context(), task.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// POST /api/v1/tasks/:task_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	task, ok := h.task(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), actor(c), task, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[comment][create][ok] id=%d task=%d", comment.ID, task.ID)
	c.JSON(http.StatusCreated, comment)
}

// PUT /api/v1/tasks/:task_id/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	if _, ok := h.task(c); !ok {
		return
	}
	id, ok := parseID(c, "comment_id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), actor(c), id, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[comment][update][ok] id=%d", id)
	c.JSON(http.StatusOK, comment)
}

// DELETE /api/v1/tasks/:task_id/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	if _, ok := h.task(c); !ok {
		return
	}
	id, ok := parseID(c, "comment_id")
	if !ok {
		return
	}
	if err := h.comments.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[comment][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)
}
