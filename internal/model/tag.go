package model

// Tag is unique per (user, name). Two users can own a tag with the same
// name without conflict; every lookup is scoped by the acting user.
type Tag struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"-"`
	Name   string `json:"name"`
}
