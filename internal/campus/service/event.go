package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/internal/campus/store"
	"github.com/campushub/campushub/pkg/idx"
	"github.com/campushub/campushub/pkg/slogx"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrEndBeforeStart        = errors.New("event must end after it starts")
	ErrRegWindowInvalid      = errors.New("registration window must close before the event starts")
	ErrTeamBoundsInvalid     = errors.New("max team size cannot be below min team size")
	ErrFieldKindInvalid      = errors.New("unknown form field kind")
	ErrFieldOptionsRequired  = errors.New("choice fields need at least one option")
	ErrNotEventOwner         = errors.New("only the organizer may manage this event")
	ErrNotSocietyHead        = errors.New("only the society head may run events under a society")
	ErrEventNotDraft         = errors.New("only draft events can be published")
	ErrEventFinished         = errors.New("event can no longer be edited")
	ErrEventAlreadyCancelled = errors.New("event is already cancelled")
	ErrEventLocked           = errors.New("category and organizer are fixed after publication")
)

type EventService struct {
	Store store.Store
}

type FieldInput struct {
	ID       string // empty for new fields
	Label    string
	Kind     string
	Required bool
	Options  []string
}

type EventInput struct {
	Title       string
	Description string
	Category    string
	Venue       string
	SocietyID   string

	StartAt time.Time
	EndAt   time.Time

	RegistrationOpen    bool
	RegistrationStartAt time.Time
	RegistrationEndAt   time.Time

	TeamEvent   bool
	MinTeamSize int
	MaxTeamSize int
	MaxTeams    int

	Fields []FieldInput
}

// CreateEvent creates a new draft event owned by the actor. Organizers
// and admins may create events; running one under a society additionally
// requires the actor to be that society's head.
func (s *EventService) CreateEvent(ctx context.Context, actor domain.Actor, in EventInput) (domain.Event, error) {
	log := slogx.FromContext(ctx)

	if actor.Role != domain.RoleOrganizer && !actor.IsAdmin() {
		return domain.Event{}, ErrNotAuthorized
	}

	// 1. Time and team-bound invariants.
	if err := validateEventInput(in); err != nil {
		return domain.Event{}, err
	}

	// 2. Society-bound events require the actor to be the head.
	if in.SocietyID != "" {
		society, err := s.Store.Societies().GetSocietyByID(ctx, in.SocietyID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Event{}, ErrSocietyNotFound
			}
			return domain.Event{}, err
		}
		if society.HeadID != actor.AccountID && !actor.IsAdmin() {
			return domain.Event{}, ErrNotSocietyHead
		}
	}

	// 3. Materialize form fields, allocating stable ids.
	fields, err := buildFields(in.Fields, nil)
	if err != nil {
		return domain.Event{}, err
	}

	event := domain.Event{
		ID:          idx.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Venue:       strings.TrimSpace(in.Venue),
		SocietyID:   in.SocietyID,
		OrganizerID: actor.AccountID,
		Status:      domain.EventDraft,

		StartAt: in.StartAt.UTC(),
		EndAt:   in.EndAt.UTC(),

		RegistrationOpen:    in.RegistrationOpen,
		RegistrationStartAt: in.RegistrationStartAt.UTC(),
		RegistrationEndAt:   in.RegistrationEndAt.UTC(),

		TeamEvent:   in.TeamEvent,
		MinTeamSize: in.MinTeamSize,
		MaxTeamSize: in.MaxTeamSize,
		MaxTeams:    in.MaxTeams,

		Fields: fields,
	}

	if err := s.Store.Events().CreateEvent(ctx, event); err != nil {
		log.Error("failed to create event", slog.Any("error", err))
		return domain.Event{}, err
	}

	log.Info("event created",
		slog.String("event_id", event.ID),
		slog.String("title", event.Title),
	)
	return event, nil
}

// UpdateEvent rewrites an event's mutable attributes. Once published the
// category is locked and the form is frozen; completed and cancelled
// events reject all edits.
func (s *EventService) UpdateEvent(ctx context.Context, actor domain.Actor, eventID string, in EventInput) (domain.Event, error) {
	log := slogx.FromContext(ctx)

	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if event.OrganizerID != actor.AccountID && !actor.IsAdmin() {
		return domain.Event{}, ErrNotEventOwner
	}

	switch event.Status {
	case domain.EventCompleted, domain.EventCancelled:
		return domain.Event{}, ErrEventFinished
	}

	if err := validateEventInput(in); err != nil {
		return domain.Event{}, err
	}

	if event.Status != domain.EventDraft {
		if strings.TrimSpace(in.Category) != event.Category {
			return domain.Event{}, ErrEventLocked
		}
		if in.SocietyID != event.SocietyID {
			return domain.Event{}, ErrEventLocked
		}
	}

	// Fields are editable in draft only. Existing field ids survive the
	// rewrite so any answers recorded later stay matched.
	fields := event.Fields
	if event.Status == domain.EventDraft {
		fields, err = buildFields(in.Fields, event.Fields)
		if err != nil {
			return domain.Event{}, err
		}
	}

	event.Title = strings.TrimSpace(in.Title)
	event.Description = strings.TrimSpace(in.Description)
	event.Category = strings.TrimSpace(in.Category)
	event.Venue = strings.TrimSpace(in.Venue)
	event.SocietyID = in.SocietyID
	event.StartAt = in.StartAt.UTC()
	event.EndAt = in.EndAt.UTC()
	event.RegistrationOpen = in.RegistrationOpen
	event.RegistrationStartAt = in.RegistrationStartAt.UTC()
	event.RegistrationEndAt = in.RegistrationEndAt.UTC()
	event.TeamEvent = in.TeamEvent
	event.MinTeamSize = in.MinTeamSize
	event.MaxTeamSize = in.MaxTeamSize
	event.MaxTeams = in.MaxTeams
	event.Fields = fields

	if err := s.Store.Events().UpdateEvent(ctx, event); err != nil {
		log.Error("failed to update event", slog.Any("error", err))
		return domain.Event{}, err
	}
	return s.GetEvent(ctx, eventID)
}

// PublishEvent moves a draft event to published, making it visible to
// students and eligible for registrations.
func (s *EventService) PublishEvent(ctx context.Context, actor domain.Actor, eventID string) (domain.Event, error) {
	log := slogx.FromContext(ctx)

	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if event.OrganizerID != actor.AccountID && !actor.IsAdmin() {
		return domain.Event{}, ErrNotEventOwner
	}
	if event.Status != domain.EventDraft {
		return domain.Event{}, ErrEventNotDraft
	}

	if err := s.Store.Events().UpdateEventStatus(ctx, eventID, domain.EventPublished); err != nil {
		return domain.Event{}, err
	}

	log.Info("event published", slog.String("event_id", eventID))
	return s.GetEvent(ctx, eventID)
}

// CancelEvent cancels an event from any non-terminal state.
func (s *EventService) CancelEvent(ctx context.Context, actor domain.Actor, eventID string) (domain.Event, error) {
	log := slogx.FromContext(ctx)

	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if event.OrganizerID != actor.AccountID && !actor.IsAdmin() {
		return domain.Event{}, ErrNotEventOwner
	}
	if event.Status == domain.EventCancelled {
		return domain.Event{}, ErrEventAlreadyCancelled
	}

	if err := s.Store.Events().UpdateEventStatus(ctx, eventID, domain.EventCancelled); err != nil {
		return domain.Event{}, err
	}

	log.Info("event cancelled", slog.String("event_id", eventID))
	return s.GetEvent(ctx, eventID)
}

// GetEvent returns an event by id without visibility filtering. Callers
// that serve students should go through GetVisibleEvent.
func (s *EventService) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	event, err := s.Store.Events().GetEventByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Event{}, ErrEventNotFound
		}
		return domain.Event{}, err
	}
	return event, nil
}

// GetVisibleEvent returns an event the actor is allowed to see. Drafts
// are visible only to their organizer and admins; everything else is
// public.
func (s *EventService) GetVisibleEvent(ctx context.Context, actor domain.Actor, id string) (domain.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if event.Status == domain.EventDraft && event.OrganizerID != actor.AccountID && !actor.IsAdmin() {
		// Hidden drafts look absent, not forbidden.
		return domain.Event{}, ErrEventNotFound
	}
	return event, nil
}

// ListEvents returns events matching the filter, with drafts restricted
// to their own organizer (admins see all).
func (s *EventService) ListEvents(ctx context.Context, actor domain.Actor, f store.EventFilter) ([]domain.Event, error) {
	events, err := s.Store.Events().ListEvents(ctx, f)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return events, nil
	}
	visible := events[:0]
	for _, e := range events {
		if e.Status == domain.EventDraft && e.OrganizerID != actor.AccountID {
			continue
		}
		visible = append(visible, e)
	}
	return visible, nil
}

func validateEventInput(in EventInput) error {
	if !in.EndAt.After(in.StartAt) {
		return ErrEndBeforeStart
	}
	if !in.RegistrationEndAt.After(in.RegistrationStartAt) {
		return fmt.Errorf("%w: registration must open before it closes", ErrRegWindowInvalid)
	}
	if !in.RegistrationEndAt.Before(in.StartAt) {
		return ErrRegWindowInvalid
	}
	if in.TeamEvent {
		if in.MinTeamSize < 1 {
			return fmt.Errorf("%w: min team size must be at least 1", ErrTeamBoundsInvalid)
		}
		if in.MaxTeamSize < in.MinTeamSize {
			return ErrTeamBoundsInvalid
		}
	}
	return nil
}

// buildFields materializes the submitted form definition. Inputs carrying
// an id must match an existing field; new fields get a fresh ULID.
func buildFields(inputs []FieldInput, existing []domain.FormField) ([]domain.FormField, error) {
	known := make(map[string]bool, len(existing))
	for _, f := range existing {
		known[f.ID] = true
	}

	fields := make([]domain.FormField, 0, len(inputs))
	for _, in := range inputs {
		kind := domain.FieldKind(in.Kind)
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrFieldKindInvalid, in.Kind)
		}
		if kind.Choice() && len(in.Options) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrFieldOptionsRequired, in.Label)
		}

		id := in.ID
		if id == "" || !known[id] {
			id = idx.New().String()
		}
		f := domain.FormField{
			ID:       id,
			Label:    strings.TrimSpace(in.Label),
			Kind:     kind,
			Required: in.Required,
		}
		if kind.Choice() {
			f.Options = in.Options
		}
		fields = append(fields, f)
	}
	return fields, nil
}
