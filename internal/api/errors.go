package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipehub/backend/internal/service"
)

// respondError translates service errors into HTTP status codes.
func respondError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
	case errors.Is(err, service.ErrNotPublished):
		c.JSON(http.StatusConflict, gin.H{"error": "recipe is not published"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
