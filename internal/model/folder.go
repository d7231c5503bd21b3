package model

// Folder is one node of a per-account mail hierarchy, created and
// updated only by sync. ParentID is nil for account roots. A folder's
// parent always belongs to the same account and following parents must
// never loop back; traversal still guards against bad data.
type Folder struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account"`
	BaseName  string `json:"base_name"`
	ParentID  *int64 `json:"parent"`
}

// FolderStats counts the folder's own contents. None of the numbers
// recurse into subfolders.
type FolderStats struct {
	EmailCount     int64 `json:"email_count"`
	UnreadCount    int64 `json:"unread_count"`
	SubfolderCount int64 `json:"subfolder_count"`
}
