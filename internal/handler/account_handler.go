package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mailhub/internal/crypto"
	"mailhub/internal/model"
	"mailhub/internal/repository"
	"mailhub/internal/service/folder"
	syncsvc "mailhub/internal/service/sync"
)

type AccountHandler struct {
	accountRepo   *repository.AccountRepository
	folderService *folder.Service
	syncService   *syncsvc.Service
	box           *crypto.Box
}

func NewAccountHandler(
	accountRepo *repository.AccountRepository,
	folderService *folder.Service,
	syncService *syncsvc.Service,
	box *crypto.Box,
) *AccountHandler {
	return &AccountHandler{
		accountRepo:   accountRepo,
		folderService: folderService,
		syncService:   syncService,
		box:           box,
	}
}

// List handles GET /accounts
func (h *AccountHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	accounts, err := h.folderService.Accounts(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	for i := range accounts {
		accounts[i].PasswordSealed = nil
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// Get handles GET /accounts/:id — the account with its statistics.
func (h *AccountHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.folderService.Account(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Create handles POST /accounts. The password is sealed before it
// reaches storage; plaintext exists only for the life of this request.
func (h *AccountHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Name          string `json:"name" binding:"required"`
		Kind          string `json:"kind"`
		ServerAddress string `json:"server_address" binding:"required"`
		Username      string `json:"username" binding:"required"`
		EmailAddress  string `json:"email_address" binding:"required,email"`
		Password      string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Kind == "" {
		req.Kind = model.AccountKindExchange
	}

	sealed, err := h.box.Seal([]byte(req.Password))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store credentials"})
		return
	}

	account := &model.EmailAccount{
		UserID:         userID,
		Name:           req.Name,
		Kind:           req.Kind,
		ServerAddress:  req.ServerAddress,
		Username:       req.Username,
		EmailAddress:   req.EmailAddress,
		PasswordSealed: sealed,
	}

	if err := h.accountRepo.Create(c.Request.Context(), account); err != nil {
		writeError(c, err)
		return
	}

	account.PasswordSealed = nil
	c.JSON(http.StatusCreated, account)
}

// Delete handles DELETE /accounts/:id. Folders cascade; emails keep
// their rows with the folder link cleared.
func (h *AccountHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accountRepo.Delete(c.Request.Context(), id, userID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Sync handles POST /accounts/:id/sync — queue a sync job and return
// immediately. The worker picks the job up from the queue.
func (h *AccountHandler) Sync(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	account, err := h.accountRepo.FindForUser(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	jobID, err := h.syncService.Enqueue(account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue sync"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": jobID,
		"status": "queued",
	})
}
