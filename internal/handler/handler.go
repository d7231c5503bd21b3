// Package handler holds the gin HTTP handlers. Handlers translate
// request parameters, call a service, and map its errors to status
// codes; ownership checks live below this layer.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mailhub/internal/colors"
	"mailhub/internal/model"
)

// currentUserID reads the authenticated user id set by the auth
// middleware.
func currentUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return 0, false
	}
	id, ok := v.(int64)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user_id"})
		return 0, false
	}
	return id, true
}

// pathID parses a numeric :id style path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// writeError maps service errors to HTTP responses. Missing and
// foreign-owned resources are indistinguishable on purpose: both come
// back as 404, never 403.
func writeError(c *gin.Context, err error) {
	var colorErr *colors.InvalidColorError
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, model.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.As(err, &colorErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": colorErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
