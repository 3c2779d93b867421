package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskhive/internal/models"
	"taskhive/internal/pdf"
	"taskhive/internal/services"
)

type ProjectHandler struct {
	projects    services.ProjectService
	memberships services.MembershipService
	analytics   services.AnalyticsService
	report      *pdf.ReportGenerator
}

func NewProjectHandler(projects services.ProjectService, memberships services.MembershipService, analytics services.AnalyticsService, report *pdf.ReportGenerator) *ProjectHandler {
	return &ProjectHandler{projects: projects, memberships: memberships, analytics: analytics, report: report}
}

// GET /api/v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"
	projects, err := h.projects.Scope(c.Request.Context(), actor(c), includeArchived)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// POST /api/v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projects.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[project][create][ok] id=%d owner=%d", project.ID, project.OwnerID)
	c.JSON(http.StatusCreated, project)
}

// GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	project, err := h.projects.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// PUT /api/v1/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.ProjectUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projects.Update(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[project][update][ok] id=%d", id)
	c.JSON(http.StatusOK, project)
}

// DELETE /api/v1/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[project][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)
}

// POST /api/v1/projects/:id/archive
func (h *ProjectHandler) Archive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	project, err := h.projects.Archive(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[project][archive][ok] id=%d", id)
	c.JSON(http.StatusOK, project)
}

// GET /api/v1/projects/:id/analytics
func (h *ProjectHandler) Analytics(c *gin.Context) {
	project, ok := h.authorizedProject(c)
	if !ok {
		return
	}
	stats, err := h.analytics.Statistics(c.Request.Context(), project)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/v1/projects/:id/report
func (h *ProjectHandler) Report(c *gin.Context) {
	project, ok := h.authorizedProject(c)
	if !ok {
		return
	}
	stats, err := h.analytics.Statistics(c.Request.Context(), project)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="project-report.pdf"`)
	c.Status(http.StatusOK)
	if err := h.report.Generate(c.Writer, project, stats); err != nil {
		log.Printf("[project][report][err] id=%d: %v", project.ID, err)
	}
}

// GET /api/v1/projects/:id/activity
func (h *ProjectHandler) Activity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	entries, err := h.projects.Activity(c.Request.Context(), actor(c), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GET /api/v1/projects/:id/members
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	project, ok := h.authorizedProject(c)
	if !ok {
		return
	}
	members, err := h.memberships.List(c.Request.Context(), actor(c), project)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// POST /api/v1/projects/:id/members
func (h *ProjectHandler) AddMember(c *gin.Context) {
	project, ok := h.authorizedProject(c)
	if !ok {
		return
	}
	var req struct {
		UserID int64                 `json:"user_id" binding:"required"`
		Role   models.MembershipRole `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	membership, err := h.memberships.Add(c.Request.Context(), actor(c), project, req.UserID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[project][member][add][ok] project=%d user=%d role=%s", project.ID, req.UserID, membership.Role)
	c.JSON(http.StatusCreated, membership)
}

// DELETE /api/v1/projects/:id/members/:user_id
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	project, ok := h.authorizedProject(c)
	if !ok {
		return
	}
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	if err := h.memberships.Remove(c.Request.Context(), actor(c), project, userID); err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[project][member][remove][ok] project=%d user=%d", project.ID, userID)
	c.Status(http.StatusNoContent)
}

func (h *ProjectHandler) authorizedProject(c *gin.Context) (*models.Project, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	project, err := h.projects.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return project, true
}
