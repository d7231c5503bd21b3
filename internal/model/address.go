package model

// EmailAddress is a globally unique address string, created lazily the
// first time sync sees it and shared by every email that references it.
type EmailAddress struct {
	ID      int64  `json:"id"`
	Address string `json:"address"`
}

// AddressUsage counts the roles an address plays across the owner's
// mail. An address in the recipient set counts once per email.
type AddressUsage struct {
	FromCount    int64 `json:"from_count"`
	ToCount      int64 `json:"to_count"`
	ReplyToCount int64 `json:"reply_to_count"`
}
