package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskhive/internal/apperrors"
	"taskhive/internal/middleware"
	"taskhive/internal/models"
)

func actor(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return id, true
}

// respondError maps the error taxonomy onto HTTP outcomes. Anything
// outside the taxonomy is logged and surfaced as a generic failure.
func respondError(c *gin.Context, err error) {
	var nf *apperrors.NotFoundError
	var ve *apperrors.ValidationError
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": ve.Messages})
	default:
		log.Printf("[http][err] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
