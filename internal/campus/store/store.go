package store

import (
	"context"
	"errors"
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. It exposes sub-repositories to keep concerns tidy
// and testable.
type Store interface {
	Accounts() Accounts
	Societies() Societies
	Events() Events
	Registrations() Registrations
	Bookmarks() Bookmarks

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	// Use it for multi-step operations that must be atomic, e.g. the
	// capacity check plus insert when creating a registration.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// CreateAccount inserts a new account (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateAccount(ctx context.Context, a domain.Account) error

	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail is used during login and member resolution.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// UpdateProfile mutates name/email/phone/department/year and bumps updated_at.
	UpdateProfile(ctx context.Context, a domain.Account) error

	// UpdateRole sets the role and bumps updated_at.
	UpdateRole(ctx context.Context, accountID string, role domain.Role) error
}

type Societies interface {
	// CreateSociety inserts a new society. Returns ErrAlreadyExists when
	// the name is taken.
	CreateSociety(ctx context.Context, s domain.Society) error

	GetSocietyByID(ctx context.Context, id string) (domain.Society, error)

	// ListSocieties returns all societies ordered by name.
	ListSocieties(ctx context.Context) ([]domain.Society, error)

	// UpdateSociety mutates contact/description/active and bumps updated_at.
	UpdateSociety(ctx context.Context, s domain.Society) error
}

// EventFilter narrows ListEvents. Zero values mean "don't filter".
type EventFilter struct {
	Status    domain.EventStatus
	Category  string
	SocietyID string
}

type Events interface {
	CreateEvent(ctx context.Context, e domain.Event) error

	GetEventByID(ctx context.Context, id string) (domain.Event, error)

	// ListEvents returns events matching the filter, newest first.
	ListEvents(ctx context.Context, f EventFilter) ([]domain.Event, error)

	// UpdateEvent rewrites all mutable columns and bumps updated_at.
	UpdateEvent(ctx context.Context, e domain.Event) error

	// UpdateEventStatus flips only the lifecycle status.
	UpdateEventStatus(ctx context.Context, eventID string, status domain.EventStatus) error

	// ListEventsDue returns events in the given status whose cutoff
	// timestamp (start for published, end for ongoing) has passed.
	ListEventsDue(ctx context.Context, status domain.EventStatus, now time.Time) ([]domain.Event, error)
}

// RegistrationFilter narrows ListRegistrations. Zero values mean "don't filter".
type RegistrationFilter struct {
	EventID string
	Status  domain.RegistrationStatus
}

type Registrations interface {
	// CreateRegistration inserts the registration with its member and
	// answer sub-records. Returns ErrAlreadyExists when the (event,
	// leader) pair is taken.
	CreateRegistration(ctx context.Context, r domain.Registration) error

	// GetRegistrationByID loads a registration with members and answers.
	GetRegistrationByID(ctx context.Context, id string) (domain.Registration, error)

	// GetRegistrationByEventAndLeader looks up the unique (event, leader) pair.
	GetRegistrationByEventAndLeader(ctx context.Context, eventID, leaderID string) (domain.Registration, error)

	// CountActiveByEvent counts registrations in pending or confirmed
	// for the event. Used for the team-cap check.
	CountActiveByEvent(ctx context.Context, eventID string) (int, error)

	// ListRegistrations returns registrations matching the filter,
	// newest first, with members and answers loaded.
	ListRegistrations(ctx context.Context, f RegistrationFilter) ([]domain.Registration, error)

	// UpdateRegistrationStatus flips the status and bumps updated_at.
	UpdateRegistrationStatus(ctx context.Context, registrationID string, status domain.RegistrationStatus) error

	// AddMember appends a member sub-record.
	AddMember(ctx context.Context, registrationID string, m domain.Member) error

	// UpdateMemberInviteStatus advances a member's invite status and
	// stamps responded_at.
	UpdateMemberInviteStatus(ctx context.Context, memberID string, status domain.InviteStatus, respondedAt time.Time) error

	// RemoveMember deletes a member sub-record.
	RemoveMember(ctx context.Context, memberID string) error
}

type Bookmarks interface {
	// CreateBookmark inserts a bookmark. Returns ErrAlreadyExists for a
	// duplicate (account, event) pair.
	CreateBookmark(ctx context.Context, b domain.Bookmark) error

	// DeleteBookmark removes the pair. Returns ErrNotFound when absent.
	DeleteBookmark(ctx context.Context, accountID, eventID string) error

	// HasBookmark reports whether the pair exists.
	HasBookmark(ctx context.Context, accountID, eventID string) (bool, error)

	// ListBookmarkedEvents returns the events an account has saved,
	// most recently bookmarked first.
	ListBookmarkedEvents(ctx context.Context, accountID string) ([]domain.Event, error)
}
