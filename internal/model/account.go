package model

import "time"

// Account kinds. The kind selects the connector implementation used by
// the sync worker.
const (
	AccountKindExchange = "exchange"
)

// EmailAccount is a mailbox owned by a single user. Folders hang off
// it; deleting the account cascades to its folders.
type EmailAccount struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`

	// Exchange connection settings. PasswordSealed is AEAD ciphertext;
	// only the sync worker opens it.
	ServerAddress  string `json:"server_address,omitempty"`
	Username       string `json:"username,omitempty"`
	EmailAddress   string `json:"email_address,omitempty"`
	PasswordSealed []byte `json:"-"`
}

// AccountStats are flat totals across the whole account, all folder
// depths summed together.
type AccountStats struct {
	FolderCount int64 `json:"folder_count"`
	EmailCount  int64 `json:"email_count"`
}
