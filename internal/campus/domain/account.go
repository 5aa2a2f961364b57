package domain

import "time"

// Role is the closed set of account roles. Organizers can create and
// manage events; admins additionally manage societies and accounts.
type Role string

const (
	RoleStudent   Role = "student"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

type Account struct {
	ID           string
	Name         string
	Email        string // unique
	PasswordHash string // argon2id encoded
	Role         Role
	Phone        string
	Department   string
	Year         int // year of study, 0 when not applicable
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the authenticated caller of an operation, passed explicitly
// through the service layer rather than read from ambient state.
type Actor struct {
	AccountID string
	Role      Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
