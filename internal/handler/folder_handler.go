package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mailhub/internal/repository"
	"mailhub/internal/service/folder"
)

type FolderHandler struct {
	folderService *folder.Service
}

func NewFolderHandler(folderService *folder.Service) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
	}
}

// List handles GET /folders. Supported query parameters: account,
// parent (a folder id or the literal "null" for top-level folders),
// search.
func (h *FolderHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var filter repository.FolderFilter
	filter.Search = c.Query("search")

	if raw := c.Query("account"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account"})
			return
		}
		filter.AccountID = &id
	}

	switch raw := c.Query("parent"); raw {
	case "":
	case "null":
		filter.ParentNull = true
	default:
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent"})
			return
		}
		filter.ParentID = &id
	}

	folders, err := h.folderService.List(c.Request.Context(), userID, filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

// Get handles GET /folders/:id — the folder with its statistics.
func (h *FolderHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.folderService.Get(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Tree handles GET /folders/tree — every root folder with its nested
// subtree, optionally limited to one account via ?account=.
func (h *FolderHandler) Tree(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var accountID *int64
	if raw := c.Query("account"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account"})
			return
		}
		accountID = &id
	}

	tree, err := h.folderService.Tree(c.Request.Context(), userID, accountID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"folders": tree})
}

// Children handles GET /folders/:id/children — the folder's immediate
// children, each with its own nested subtree.
func (h *FolderHandler) Children(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	children, err := h.folderService.Children(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"folders": children})
}
