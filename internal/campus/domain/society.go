package domain

import "time"

// Society is a student organization. Events can be run under a society,
// in which case the organizer must be its head.
type Society struct {
	ID           string
	Name         string // unique
	HeadID       string // account id of the society head
	ContactEmail string
	Description  string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
