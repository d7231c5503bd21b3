package mq

import "time"

// Routing keys.
const (
	SyncRequestedKey = "sync.requested"
)

// SyncRequestedPayload asks the worker to sync one account against its
// remote mailbox.
type SyncRequestedPayload struct {
	JobID       string    `json:"job_id"`
	AccountID   int64     `json:"account_id"`
	UserID      int64     `json:"user_id"`
	RequestedAt time.Time `json:"requested_at"`
}
