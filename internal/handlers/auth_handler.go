package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhive/internal/models"
	"taskhive/internal/services"
)

type AuthHandler struct {
	users services.UserService
	auth  services.AuthService
}

func NewAuthHandler(users services.UserService, auth services.AuthService) *AuthHandler {
	return &AuthHandler{users: users, auth: auth}
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.auth.IssueToken(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[auth][register][ok] id=%d email=%s", user.ID, user.Email)
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.auth.IssueToken(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[auth][login][ok] id=%d", user.ID)
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, actor(c))
}
