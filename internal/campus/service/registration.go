package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/internal/campus/store"
	"github.com/campushub/campushub/pkg/idx"
	"github.com/campushub/campushub/pkg/slogx"
)

var (
	ErrRegistrationNotOpen    = errors.New("event is not accepting registrations")
	ErrRegistrationClosed     = errors.New("registration is closed for this event")
	ErrRegistrationNotStarted = errors.New("registration has not started yet")
	ErrRegistrationDeadline   = errors.New("registration deadline has passed")
	ErrAlreadyRegistered      = errors.New("already registered for this event")
	ErrEventFull              = errors.New("event has reached its team capacity")
	ErrTeamNameRequired       = errors.New("team name is required for team events")
	ErrTeamTooSmall           = errors.New("team is below the minimum size")
	ErrTeamTooLarge           = errors.New("team is above the maximum size")
	ErrUnknownMember          = errors.New("member account not found")
	ErrInvalidAnswer          = errors.New("invalid answer value")

	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationFinal    = errors.New("registration is in a terminal state")
	ErrNotInvited           = errors.New("no open invitation for this account")
	ErrAlreadyResponded     = errors.New("invitation already responded to")
	ErrInvalidInviteAction  = errors.New("invitation action must be accept or decline")
	ErrNotTeamLeader        = errors.New("only the team leader may manage members")
	ErrMemberNotFound       = errors.New("member not found in this registration")
	ErrLeaderImmutable      = errors.New("the team leader cannot be removed")
	ErrAcceptedFloor        = errors.New("removal would drop accepted members below the minimum")
)

type RegistrationService struct {
	Store store.Store
}

type InviteeInput struct {
	Email string
	Name  string
}

type AnswerInput struct {
	FieldID string
	Value   string
}

type CreateRegistrationInput struct {
	EventID   string
	TeamName  string
	MemberIDs []string       // existing accounts to invite
	Invitees  []InviteeInput // people known only by email
	Answers   []AnswerInput
}

// CreateRegistration registers the actor (as team leader) for an event.
// The preconditions are checked in a fixed order so callers always get
// the earliest applicable failure; the team-cap count and the insert
// share one transaction so concurrent submissions cannot both squeeze
// under the cap.
func (s *RegistrationService) CreateRegistration(ctx context.Context, actor domain.Actor, in CreateRegistrationInput) (domain.Registration, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	var created domain.Registration
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. The event must exist.
		event, err := tx.Events().GetEventByID(ctx, in.EventID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		// 2. The lifecycle state must accept registrations.
		if !event.AcceptsRegistrations() {
			return ErrRegistrationNotOpen
		}

		// 3. The organizer's open flag, independent of the window.
		if !event.RegistrationOpen {
			return ErrRegistrationClosed
		}

		// 4. The registration window, with distinct before/after errors.
		if now.Before(event.RegistrationStartAt) {
			return ErrRegistrationNotStarted
		}
		if now.After(event.RegistrationEndAt) {
			return ErrRegistrationDeadline
		}

		// 5. One registration per (event, leader).
		_, err = tx.Registrations().GetRegistrationByEventAndLeader(ctx, event.ID, actor.AccountID)
		if err == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		// 6. The team cap counts pending and confirmed registrations.
		if event.MaxTeams > 0 {
			active, err := tx.Registrations().CountActiveByEvent(ctx, event.ID)
			if err != nil {
				return err
			}
			if active >= event.MaxTeams {
				return ErrEventFull
			}
		}

		leader, err := tx.Accounts().GetAccountByID(ctx, actor.AccountID)
		if err != nil {
			return err
		}

		registration := domain.Registration{
			ID:        idx.New().String(),
			EventID:   event.ID,
			LeaderID:  leader.ID,
			TeamEvent: event.TeamEvent,
			Status:    domain.RegistrationPending,
		}

		// The leader always holds slot zero and counts as accepted.
		members := []domain.Member{{
			ID:           idx.New().String(),
			Ref:          domain.ResolvedRef(leader.ID, leader.Email, leader.Name),
			Role:         domain.MemberLeader,
			InviteStatus: domain.InviteAutoAdded,
			Position:     0,
			InvitedAt:    now,
		}}

		if event.TeamEvent {
			name := strings.TrimSpace(in.TeamName)
			if name == "" {
				return ErrTeamNameRequired
			}
			registration.TeamName = name

			members, err = resolveMembers(ctx, tx, members, in, now)
			if err != nil {
				return err
			}

			// Size bounds count every slot, whatever its invite state.
			// Acceptance only matters later, for confirmation.
			if len(members) < event.MinTeamSize {
				return fmt.Errorf("%w: must have at least %d members", ErrTeamTooSmall, event.MinTeamSize)
			}
			if len(members) > event.MaxTeamSize {
				return fmt.Errorf("%w: cannot exceed %d members", ErrTeamTooLarge, event.MaxTeamSize)
			}
		}
		registration.Members = members

		answers, err := buildAnswers(&event, in.Answers)
		if err != nil {
			return err
		}
		registration.Answers = answers

		if err := tx.Registrations().CreateRegistration(ctx, registration); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyRegistered
			}
			return err
		}
		created = registration
		return nil
	})
	if err != nil {
		return domain.Registration{}, err
	}

	log.Info("registration created",
		slog.String("registration_id", created.ID),
		slog.String("event_id", created.EventID),
		slog.String("leader_id", created.LeaderID),
		slog.Int("members", len(created.Members)),
	)
	return created, nil
}

// RespondInvitation records an accept or decline for the actor's open
// invitation on the registration. Accepting may confirm the whole
// registration once enough members have accepted.
func (s *RegistrationService) RespondInvitation(ctx context.Context, actor domain.Actor, registrationID, action string) (domain.Registration, error) {
	log := slogx.FromContext(ctx)

	var next domain.InviteStatus
	switch action {
	case "accept":
		next = domain.InviteAccepted
	case "decline":
		next = domain.InviteDeclined
	default:
		return domain.Registration{}, fmt.Errorf("%w: %q", ErrInvalidInviteAction, action)
	}

	now := time.Now().UTC()
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		registration, err := getRegistration(ctx, tx, registrationID)
		if err != nil {
			return err
		}
		if registration.Status.Final() {
			return ErrRegistrationFinal
		}

		// 1. The actor must hold a slot that is still awaiting a reply.
		member, ok := registration.MemberByAccount(actor.AccountID)
		if !ok {
			return ErrNotInvited
		}
		if member.InviteStatus != domain.InviteInvited {
			return fmt.Errorf("%w: already %s", ErrAlreadyResponded, member.InviteStatus)
		}

		// 2. Record the response.
		if err := tx.Registrations().UpdateMemberInviteStatus(ctx, member.ID, next, now); err != nil {
			return err
		}

		// 3. An accept can complete the team: once the accepted count
		// reaches the event minimum a pending registration confirms.
		if next == domain.InviteAccepted && registration.Status == domain.RegistrationPending {
			event, err := tx.Events().GetEventByID(ctx, registration.EventID)
			if err != nil {
				return err
			}
			accepted := registration.AcceptedCount() + 1
			if !event.TeamEvent || accepted >= event.MinTeamSize {
				if err := tx.Registrations().UpdateRegistrationStatus(ctx, registration.ID, domain.RegistrationConfirmed); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return domain.Registration{}, err
	}

	log.Info("invitation response recorded",
		slog.String("registration_id", registrationID),
		slog.String("account_id", actor.AccountID),
		slog.String("action", action),
	)
	return s.loadRegistration(ctx, registrationID)
}

type AddMemberInput struct {
	AccountID string // set for existing accounts
	Email     string // fallback when no account id is known
	Name      string
}

// AddMembers invites additional members to an existing registration.
// Leader only; slots already held (by account or email) are skipped, and
// the result must stay within the event's maximum team size.
func (s *RegistrationService) AddMembers(ctx context.Context, actor domain.Actor, registrationID string, adds []AddMemberInput) (domain.Registration, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		registration, err := getRegistration(ctx, tx, registrationID)
		if err != nil {
			return err
		}
		if registration.Status.Final() {
			return ErrRegistrationFinal
		}
		if registration.LeaderID != actor.AccountID {
			return ErrNotTeamLeader
		}

		event, err := tx.Events().GetEventByID(ctx, registration.EventID)
		if err != nil {
			return err
		}

		size := len(registration.Members)
		for _, add := range adds {
			member, skip, err := resolveAddition(ctx, tx, &registration, add, now)
			if err != nil {
				return err
			}
			if skip {
				continue
			}
			if event.TeamEvent && size >= event.MaxTeamSize {
				return fmt.Errorf("%w: cannot exceed %d members", ErrTeamTooLarge, event.MaxTeamSize)
			}
			member.Position = size
			if err := tx.Registrations().AddMember(ctx, registration.ID, member); err != nil {
				return err
			}
			registration.Members = append(registration.Members, member)
			size++
		}
		return nil
	})
	if err != nil {
		return domain.Registration{}, err
	}

	log.Info("members added",
		slog.String("registration_id", registrationID),
		slog.Int("requested", len(adds)),
	)
	return s.loadRegistration(ctx, registrationID)
}

// RemoveMember deletes a member slot from a registration. Leader only;
// the leader's own slot is immutable, and the removal must not drop the
// accepted count below the event minimum for team events.
func (s *RegistrationService) RemoveMember(ctx context.Context, actor domain.Actor, registrationID, memberID string) (domain.Registration, error) {
	log := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		registration, err := getRegistration(ctx, tx, registrationID)
		if err != nil {
			return err
		}
		if registration.Status.Final() {
			return ErrRegistrationFinal
		}
		if registration.LeaderID != actor.AccountID {
			return ErrNotTeamLeader
		}

		member, ok := registration.MemberByID(memberID)
		if !ok {
			return ErrMemberNotFound
		}
		if member.Role == domain.MemberLeader {
			return ErrLeaderImmutable
		}

		// Removing an accepted member must not break a minimum the team
		// has already met.
		if registration.TeamEvent && member.InviteStatus.CountsAccepted() {
			event, err := tx.Events().GetEventByID(ctx, registration.EventID)
			if err != nil {
				return err
			}
			if registration.AcceptedCount()-1 < event.MinTeamSize {
				return fmt.Errorf("%w: must have at least %d accepted members", ErrAcceptedFloor, event.MinTeamSize)
			}
		}

		return tx.Registrations().RemoveMember(ctx, memberID)
	})
	if err != nil {
		return domain.Registration{}, err
	}

	log.Info("member removed",
		slog.String("registration_id", registrationID),
		slog.String("member_id", memberID),
	)
	return s.loadRegistration(ctx, registrationID)
}

// CancelRegistration cancels a registration. Allowed for the leader, any
// resolved member, and admins.
func (s *RegistrationService) CancelRegistration(ctx context.Context, actor domain.Actor, registrationID string) (domain.Registration, error) {
	log := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		registration, err := getRegistration(ctx, tx, registrationID)
		if err != nil {
			return err
		}
		if registration.Status.Final() {
			return ErrRegistrationFinal
		}

		_, isMember := registration.MemberByAccount(actor.AccountID)
		if !isMember && !actor.IsAdmin() {
			return ErrNotAuthorized
		}

		return tx.Registrations().UpdateRegistrationStatus(ctx, registration.ID, domain.RegistrationCancelled)
	})
	if err != nil {
		return domain.Registration{}, err
	}

	log.Info("registration cancelled",
		slog.String("registration_id", registrationID),
		slog.String("account_id", actor.AccountID),
	)
	return s.loadRegistration(ctx, registrationID)
}

// GetRegistration returns a registration the actor may see: the event's
// organizer, the leader, members with an accepted slot, and admins.
func (s *RegistrationService) GetRegistration(ctx context.Context, actor domain.Actor, registrationID string) (domain.Registration, error) {
	registration, err := s.loadRegistration(ctx, registrationID)
	if err != nil {
		return domain.Registration{}, err
	}

	event, err := s.Store.Events().GetEventByID(ctx, registration.EventID)
	if err != nil {
		return domain.Registration{}, err
	}
	if !canViewRegistration(actor, &registration, &event) {
		return domain.Registration{}, ErrNotAuthorized
	}
	return registration, nil
}

// ListRegistrations returns registrations matching the filter that the
// actor may see, newest first.
func (s *RegistrationService) ListRegistrations(ctx context.Context, actor domain.Actor, f store.RegistrationFilter) ([]domain.Registration, error) {
	registrations, err := s.Store.Registrations().ListRegistrations(ctx, f)
	if err != nil {
		return nil, err
	}

	// Organizer checks need the parent events; fetch each one once.
	events := make(map[string]domain.Event)
	visible := registrations[:0]
	for i := range registrations {
		r := registrations[i]
		event, ok := events[r.EventID]
		if !ok {
			event, err = s.Store.Events().GetEventByID(ctx, r.EventID)
			if err != nil {
				return nil, err
			}
			events[r.EventID] = event
		}
		if canViewRegistration(actor, &r, &event) {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

func canViewRegistration(actor domain.Actor, r *domain.Registration, event *domain.Event) bool {
	if actor.IsAdmin() || event.OrganizerID == actor.AccountID || r.LeaderID == actor.AccountID {
		return true
	}
	member, ok := r.MemberByAccount(actor.AccountID)
	return ok && member.InviteStatus.CountsAccepted()
}

func getRegistration(ctx context.Context, tx store.Tx, id string) (domain.Registration, error) {
	registration, err := tx.Registrations().GetRegistrationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Registration{}, ErrRegistrationNotFound
		}
		return domain.Registration{}, err
	}
	return registration, nil
}

func (s *RegistrationService) loadRegistration(ctx context.Context, id string) (domain.Registration, error) {
	registration, err := s.Store.Registrations().GetRegistrationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Registration{}, ErrRegistrationNotFound
		}
		return domain.Registration{}, err
	}
	return registration, nil
}

// resolveMembers expands the create request's member ids and invitees
// into member slots after the leader's. Account ids must resolve;
// invitee emails resolve to an account when one exists, otherwise the
// slot is provisional. Duplicates of any already-held slot are skipped.
func resolveMembers(ctx context.Context, tx store.Tx, members []domain.Member, in CreateRegistrationInput, now time.Time) ([]domain.Member, error) {
	seenAccount := make(map[string]bool)
	seenEmail := make(map[string]bool)
	for _, m := range members {
		if m.Ref.AccountID != "" {
			seenAccount[m.Ref.AccountID] = true
		}
		if m.Ref.Email != "" {
			seenEmail[m.Ref.Email] = true
		}
	}

	pos := len(members)
	for _, id := range in.MemberIDs {
		if seenAccount[id] {
			continue
		}
		account, err := tx.Accounts().GetAccountByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownMember, id)
			}
			return nil, err
		}
		seenAccount[account.ID] = true
		seenEmail[account.Email] = true
		members = append(members, domain.Member{
			ID:           idx.New().String(),
			Ref:          domain.ResolvedRef(account.ID, account.Email, account.Name),
			Role:         domain.MemberNormal,
			InviteStatus: domain.InviteInvited,
			Position:     pos,
			InvitedAt:    now,
		})
		pos++
	}

	for _, invitee := range in.Invitees {
		email := normalizeEmail(invitee.Email)
		if email == "" || seenEmail[email] {
			continue
		}
		member := domain.Member{
			ID:        idx.New().String(),
			Role:      domain.MemberNormal,
			Position:  pos,
			InvitedAt: now,
		}
		account, err := tx.Accounts().GetAccountByEmail(ctx, email)
		switch {
		case err == nil:
			if seenAccount[account.ID] {
				continue
			}
			seenAccount[account.ID] = true
			member.Ref = domain.ResolvedRef(account.ID, account.Email, account.Name)
			member.InviteStatus = domain.InviteInvited
		case errors.Is(err, store.ErrNotFound):
			member.Ref = domain.PendingRef(email, strings.TrimSpace(invitee.Name))
			member.InviteStatus = domain.InvitePendingRegistration
		default:
			return nil, err
		}
		seenEmail[email] = true
		members = append(members, member)
		pos++
	}
	return members, nil
}

// resolveAddition turns one AddMembers entry into a member slot, or
// reports skip=true when the person already holds one.
func resolveAddition(ctx context.Context, tx store.Tx, r *domain.Registration, add AddMemberInput, now time.Time) (domain.Member, bool, error) {
	member := domain.Member{
		ID:        idx.New().String(),
		Role:      domain.MemberNormal,
		InvitedAt: now,
	}

	if add.AccountID != "" {
		if _, held := r.MemberByAccount(add.AccountID); held {
			return domain.Member{}, true, nil
		}
		account, err := tx.Accounts().GetAccountByID(ctx, add.AccountID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Member{}, false, fmt.Errorf("%w: %s", ErrUnknownMember, add.AccountID)
			}
			return domain.Member{}, false, err
		}
		member.Ref = domain.ResolvedRef(account.ID, account.Email, account.Name)
		member.InviteStatus = domain.InviteInvited
		return member, false, nil
	}

	email := normalizeEmail(add.Email)
	if email == "" || r.HasMemberEmail(email) {
		return domain.Member{}, true, nil
	}
	account, err := tx.Accounts().GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		if _, held := r.MemberByAccount(account.ID); held {
			return domain.Member{}, true, nil
		}
		member.Ref = domain.ResolvedRef(account.ID, account.Email, account.Name)
		member.InviteStatus = domain.InviteInvited
	case errors.Is(err, store.ErrNotFound):
		member.Ref = domain.PendingRef(email, strings.TrimSpace(add.Name))
		member.InviteStatus = domain.InvitePendingRegistration
	default:
		return domain.Member{}, false, err
	}
	return member, false, nil
}

// buildAnswers snapshots form answers against the event's current field
// definitions. Answers for unknown field ids are dropped rather than
// rejected, and a repeated field id keeps only its last value; typed
// values must parse for their field's kind.
func buildAnswers(event *domain.Event, inputs []AnswerInput) ([]domain.Answer, error) {
	answers := make([]domain.Answer, 0, len(inputs))
	slot := make(map[string]int, len(inputs))
	pos := 0
	for _, in := range inputs {
		field, ok := event.FieldByID(in.FieldID)
		if !ok {
			continue
		}
		answer := domain.Answer{
			FieldID:  field.ID,
			Label:    field.Label,
			Kind:     field.Kind,
			Position: pos,
		}
		switch field.Kind {
		case domain.FieldNumber:
			v, err := strconv.ParseFloat(strings.TrimSpace(in.Value), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a number for field %q", ErrInvalidAnswer, in.Value, field.Label)
			}
			answer.Number = &v
		case domain.FieldDate:
			t, err := parseAnswerDate(strings.TrimSpace(in.Value))
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a date for field %q", ErrInvalidAnswer, in.Value, field.Label)
			}
			answer.Date = &t
		default:
			// Text and choice kinds store the raw string.
			answer.Text = in.Value
		}
		if i, seen := slot[field.ID]; seen {
			answer.Position = answers[i].Position
			answers[i] = answer
			continue
		}
		slot[field.ID] = len(answers)
		answers = append(answers, answer)
		pos++
	}
	return answers, nil
}

func parseAnswerDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", value)
}
