package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-review-api/internal/errors"
	"github.com/yukikurage/task-review-api/internal/middleware"
	"github.com/yukikurage/task-review-api/internal/models"
)

// currentUser returns the authenticated caller, responding 401 when there is none
func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return nil, false
	}
	return user, true
}

// parseIDParam parses a numeric path parameter, responding 400 when it is malformed
func parseIDParam(c *gin.Context, name, label string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

// statusQuery reads the optional ?status= filter
func statusQuery(c *gin.Context) *models.TaskStatus {
	raw := strings.TrimSpace(c.Query("status"))
	if raw == "" {
		return nil
	}
	status := models.TaskStatus(strings.ToUpper(raw))
	return &status
}
