package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mailhub/internal/model"
	"mailhub/internal/service/mailbox"
)

type EmailHandler struct {
	mailboxService *mailbox.Service
}

func NewEmailHandler(mailboxService *mailbox.Service) *EmailHandler {
	return &EmailHandler{
		mailboxService: mailboxService,
	}
}

// List handles GET /emails. Query parameters: folder, is_read, from,
// search, ordering, limit, offset.
func (h *EmailHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var filter model.EmailFilter
	filter.Search = c.Query("search")
	filter.Ordering = c.Query("ordering")

	if raw := c.Query("folder"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder"})
			return
		}
		filter.FolderID = &id
	}
	if raw := c.Query("from"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return
		}
		filter.FromAddressID = &id
	}
	if raw := c.Query("is_read"); raw != "" {
		isRead, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid is_read"})
			return
		}
		filter.IsRead = &isRead
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		filter.Offset = offset
	}

	emails, err := h.mailboxService.ListEmails(c.Request.Context(), userID, filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"emails": emails})
}

// Get handles GET /emails/:message_id.
func (h *EmailHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	e, err := h.mailboxService.GetEmail(c.Request.Context(), c.Param("message_id"), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, e)
}

// Thread handles GET /emails/:message_id/thread — the email plus its
// direct-reply summary.
func (h *EmailHandler) Thread(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	t, err := h.mailboxService.Thread(c.Request.Context(), c.Param("message_id"), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}
