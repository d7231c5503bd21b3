package model

// EmailPersonalization is user-private metadata layered on one email.
// MessageID is set at creation and never re-pointed afterwards.
type EmailPersonalization struct {
	ID              int64    `json:"id"`
	MessageID       string   `json:"email"`
	Notes           string   `json:"notes"`
	ImportanceLevel *int     `json:"importance_level"`
	Tags            []string `json:"tags"`
}

// FolderPersonalization is user-private metadata layered on one folder.
// DisplayColor holds a normalized ColorValue, "" meaning unset.
type FolderPersonalization struct {
	ID           int64    `json:"id"`
	FolderID     int64    `json:"folder"`
	DisplayName  string   `json:"display_name"`
	DisplayColor string   `json:"display_color"`
	Tags         []string `json:"tags"`
}

// PersonalizationFilter narrows personalization listings.
type PersonalizationFilter struct {
	MessageID     string
	FolderID      *int64
	Tags          []string
	HasNotes      *bool
	MinImportance *int
}
