package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mailhub/internal/service/mailbox"
)

const defaultAddressLimit = 20

type AddressHandler struct {
	mailboxService *mailbox.Service
}

func NewAddressHandler(mailboxService *mailbox.Service) *AddressHandler {
	return &AddressHandler{
		mailboxService: mailboxService,
	}
}

// List handles GET /addresses. ?search= substring-matches the address,
// ?limit= caps the result for autocomplete use.
func (h *AddressHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := defaultAddressLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	addresses, err := h.mailboxService.ListAddresses(c.Request.Context(), userID, c.Query("search"), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

// Get handles GET /addresses/:id — the address with its usage counts.
func (h *AddressHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.mailboxService.GetAddress(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}
