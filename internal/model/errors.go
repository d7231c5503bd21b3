package model

import "errors"

var (
	// ErrNotFound covers both missing rows and rows owned by another
	// user. Handlers must not distinguish the two cases.
	ErrNotFound = errors.New("not found")

	// ErrReadOnly is returned when a write is attempted against a
	// synced resource.
	ErrReadOnly = errors.New("resource is read-only")

	// ErrConnectionFailed is raised by account connectors. Sync jobs
	// that hit it are retried later, never inline.
	ErrConnectionFailed = errors.New("connection to mail server failed")

	// ErrDuplicate signals a uniqueness conflict (account name, tag,
	// personalization already present for the target).
	ErrDuplicate = errors.New("already exists")
)
