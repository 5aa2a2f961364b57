package domain

import "time"

type RegistrationStatus string

const (
	RegistrationPending    RegistrationStatus = "pending"
	RegistrationConfirmed  RegistrationStatus = "confirmed"
	RegistrationWaitlisted RegistrationStatus = "waitlisted"
	RegistrationCancelled  RegistrationStatus = "cancelled"
	RegistrationRejected   RegistrationStatus = "rejected"
)

// Final reports whether the status is terminal. No transition leaves a
// cancelled or rejected registration.
func (s RegistrationStatus) Final() bool {
	return s == RegistrationCancelled || s == RegistrationRejected
}

type MemberRole string

const (
	MemberLeader MemberRole = "leader"
	MemberNormal MemberRole = "member"
)

// InviteStatus is the per-member state machine value:
//
//	auto_added           terminal; assigned only to the leader at creation
//	invited              → accepted | declined (single transition)
//	pending_registration terminal within this subsystem; assigned to
//	                     invitees with no account yet. Nothing here
//	                     advances it if that person later registers an
//	                     account — the records stay provisional.
type InviteStatus string

const (
	InviteAutoAdded           InviteStatus = "auto_added"
	InviteInvited             InviteStatus = "invited"
	InviteAccepted            InviteStatus = "accepted"
	InviteDeclined            InviteStatus = "declined"
	InvitePendingRegistration InviteStatus = "pending_registration"
)

// CountsAccepted reports whether the status counts toward the accepted
// team size used for confirmation and removal guards.
func (s InviteStatus) CountsAccepted() bool {
	return s == InviteAccepted || s == InviteAutoAdded
}

// MemberRef identifies who fills a team slot: a resolved account, or a
// provisional invitee known only by email and name.
type MemberRef struct {
	AccountID string // empty for provisional invitees
	Email     string
	Name      string
}

// ResolvedRef builds a ref for an existing account.
func ResolvedRef(accountID, email, name string) MemberRef {
	return MemberRef{AccountID: accountID, Email: email, Name: name}
}

// PendingRef builds a ref for an invitee who has no account yet.
func PendingRef(email, name string) MemberRef {
	return MemberRef{Email: email, Name: name}
}

// Resolved reports whether the ref points at an existing account.
func (r MemberRef) Resolved() bool { return r.AccountID != "" }

// Member is one participant slot within a registration. Members live and
// die with their parent registration.
type Member struct {
	ID           string
	Ref          MemberRef
	Role         MemberRole
	InviteStatus InviteStatus
	Position     int // stable ordering within the team
	InvitedAt    time.Time
	RespondedAt  *time.Time
}

// Answer is one submitted form answer. Label and kind are snapshots of
// the field at submission time, so later form edits don't rewrite what
// the registrant saw. Exactly one value slot is populated, matching Kind.
type Answer struct {
	FieldID  string
	Label    string
	Kind     FieldKind
	Text     string
	Number   *float64
	Date     *time.Time
	Position int
}

type Registration struct {
	ID        string
	EventID   string
	LeaderID  string
	TeamEvent bool // mirrors the event's mode at creation time
	TeamName  string
	Status    RegistrationStatus
	Members   []Member
	Answers   []Answer
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AcceptedCount counts members whose invite status is accepted or
// auto_added.
func (r *Registration) AcceptedCount() int {
	n := 0
	for _, m := range r.Members {
		if m.InviteStatus.CountsAccepted() {
			n++
		}
	}
	return n
}

// MemberByID returns the member with the given id, if present.
func (r *Registration) MemberByID(id string) (Member, bool) {
	for _, m := range r.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// MemberByAccount returns the member slot held by the given account.
func (r *Registration) MemberByAccount(accountID string) (Member, bool) {
	for _, m := range r.Members {
		if m.Ref.AccountID == accountID {
			return m, true
		}
	}
	return Member{}, false
}

// HasMemberEmail reports whether a slot already carries the given email.
func (r *Registration) HasMemberEmail(email string) bool {
	for _, m := range r.Members {
		if m.Ref.Email != "" && m.Ref.Email == email {
			return true
		}
	}
	return false
}
