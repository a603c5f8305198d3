package storage

import "errors"

// Common storage errors
var (
	// ErrTrackerNotFound indicates that tracker was not found in storage
	ErrTrackerNotFound = errors.New("tracker not found")

	// ErrEntryNotFound indicates that entry was not found in storage
	ErrEntryNotFound = errors.New("entry not found")

	// ErrClientNotFound indicates that client is not registered
	ErrClientNotFound = errors.New("client not found")

	// ErrConflictNotFound indicates that conflict audit row was not found
	ErrConflictNotFound = errors.New("conflict not found")
)
