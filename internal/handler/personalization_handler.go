package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mailhub/internal/colors"
	"mailhub/internal/model"
	"mailhub/internal/service/personalize"
	"mailhub/pkg/metrics"
)

type PersonalizationHandler struct {
	personalizeService *personalize.Service
}

func NewPersonalizationHandler(personalizeService *personalize.Service) *PersonalizationHandler {
	return &PersonalizationHandler{
		personalizeService: personalizeService,
	}
}

func personalizationFilter(c *gin.Context) (model.PersonalizationFilter, bool) {
	var filter model.PersonalizationFilter
	filter.MessageID = c.Query("email")

	if raw := c.Query("folder"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder"})
			return filter, false
		}
		filter.FolderID = &id
	}
	if raw := c.Query("tags"); raw != "" {
		filter.Tags = strings.Split(raw, ",")
	}
	if raw := c.Query("has_notes"); raw != "" {
		hasNotes, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid has_notes"})
			return filter, false
		}
		filter.HasNotes = &hasNotes
	}
	if raw := c.Query("min_importance"); raw != "" {
		min, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_importance"})
			return filter, false
		}
		filter.MinImportance = &min
	}
	return filter, true
}

// ListEmail handles GET /personalizations/emails.
func (h *PersonalizationHandler) ListEmail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	filter, ok := personalizationFilter(c)
	if !ok {
		return
	}

	items, err := h.personalizeService.ListEmail(c.Request.Context(), userID, filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"personalizations": items})
}

// GetEmail handles GET /personalizations/emails/:id.
func (h *PersonalizationHandler) GetEmail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.personalizeService.GetEmail(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// CreateEmail handles POST /personalizations/emails.
func (h *PersonalizationHandler) CreateEmail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req personalize.EmailInput
	if err := c.ShouldBindJSON(&req); err != nil || req.MessageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.personalizeService.CreateEmail(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// UpdateEmail handles PUT /personalizations/emails/:id. The owning
// email cannot be changed; any "email" field in the body is ignored.
func (h *PersonalizationHandler) UpdateEmail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req personalize.EmailInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.personalizeService.UpdateEmail(c.Request.Context(), id, userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeleteEmail handles DELETE /personalizations/emails/:id.
func (h *PersonalizationHandler) DeleteEmail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.personalizeService.DeleteEmail(c.Request.Context(), id, userID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListFolder handles GET /personalizations/folders.
func (h *PersonalizationHandler) ListFolder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	filter, ok := personalizationFilter(c)
	if !ok {
		return
	}

	items, err := h.personalizeService.ListFolder(c.Request.Context(), userID, filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"personalizations": items})
}

// GetFolder handles GET /personalizations/folders/:id.
func (h *PersonalizationHandler) GetFolder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.personalizeService.GetFolder(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// CreateFolder handles POST /personalizations/folders. The display
// color is validated and normalized here so a bad value fails before
// any write happens.
func (h *PersonalizationHandler) CreateFolder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req personalize.FolderInput
	if err := c.ShouldBindJSON(&req); err != nil || req.FolderID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if !h.normalizeColor(c, &req.DisplayColor) {
		return
	}

	p, err := h.personalizeService.CreateFolder(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// UpdateFolder handles PUT /personalizations/folders/:id. The owning
// folder cannot be changed.
func (h *PersonalizationHandler) UpdateFolder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req personalize.FolderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if !h.normalizeColor(c, &req.DisplayColor) {
		return
	}

	p, err := h.personalizeService.UpdateFolder(c.Request.Context(), id, userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeleteFolder handles DELETE /personalizations/folders/:id.
func (h *PersonalizationHandler) DeleteFolder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.personalizeService.DeleteFolder(c.Request.Context(), id, userID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PersonalizationHandler) normalizeColor(c *gin.Context, color *string) bool {
	normalized, err := colors.Parse(*color)
	if err != nil {
		metrics.ColorValidationFailures.Inc()
		writeError(c, err)
		return false
	}
	*color = normalized
	return true
}
