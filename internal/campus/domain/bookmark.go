package domain

import "time"

// Bookmark marks an event as saved by an account. Unique per pair.
type Bookmark struct {
	ID        string
	AccountID string
	EventID   string
	CreatedAt time.Time
}
