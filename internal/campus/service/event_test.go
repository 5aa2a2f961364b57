package service

import (
	"context"
	"testing"
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/internal/campus/store"
	"github.com/stretchr/testify/require"
)

func validEventInput() EventInput {
	now := time.Now().UTC()
	return EventInput{
		Title:    "Hack Night",
		Category: "technical",
		Venue:    "Lab 3",

		StartAt: now.Add(48 * time.Hour),
		EndAt:   now.Add(52 * time.Hour),

		RegistrationOpen:    true,
		RegistrationStartAt: now,
		RegistrationEndAt:   now.Add(24 * time.Hour),
	}
}

func TestCreateEventValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &EventService{Store: st}

	organizer := seedAccount(t, st, "Olive", "olive@campus.edu", domain.RoleOrganizer)
	student := seedAccount(t, st, "Sam", "sam@campus.edu", domain.RoleStudent)

	t.Run("students may not create events", func(t *testing.T) {
		_, err := svc.CreateEvent(ctx, asActor(student), validEventInput())
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("end must be after start", func(t *testing.T) {
		in := validEventInput()
		in.EndAt = in.StartAt.Add(-time.Hour)
		_, err := svc.CreateEvent(ctx, asActor(organizer), in)
		require.ErrorIs(t, err, ErrEndBeforeStart)
	})

	t.Run("registration must close before the event starts", func(t *testing.T) {
		in := validEventInput()
		in.RegistrationEndAt = in.StartAt.Add(time.Hour)
		_, err := svc.CreateEvent(ctx, asActor(organizer), in)
		require.ErrorIs(t, err, ErrRegWindowInvalid)
	})

	t.Run("registration closing exactly at start is rejected", func(t *testing.T) {
		in := validEventInput()
		in.RegistrationEndAt = in.StartAt
		_, err := svc.CreateEvent(ctx, asActor(organizer), in)
		require.ErrorIs(t, err, ErrRegWindowInvalid)
	})

	t.Run("team bounds must be ordered", func(t *testing.T) {
		in := validEventInput()
		in.TeamEvent = true
		in.MinTeamSize = 4
		in.MaxTeamSize = 2
		_, err := svc.CreateEvent(ctx, asActor(organizer), in)
		require.ErrorIs(t, err, ErrTeamBoundsInvalid)
	})

	t.Run("choice fields need options", func(t *testing.T) {
		in := validEventInput()
		in.Fields = []FieldInput{{Label: "Shirt", Kind: "select"}}
		_, err := svc.CreateEvent(ctx, asActor(organizer), in)
		require.ErrorIs(t, err, ErrFieldOptionsRequired)
	})

	t.Run("valid input starts as draft with field ids", func(t *testing.T) {
		in := validEventInput()
		in.Fields = []FieldInput{
			{Label: "Experience", Kind: "text"},
			{Label: "Shirt", Kind: "select", Options: []string{"S", "M"}},
		}
		event, err := svc.CreateEvent(ctx, asActor(organizer), in)
		require.NoError(t, err)

		require.Equal(t, domain.EventDraft, event.Status)
		require.Equal(t, organizer.ID, event.OrganizerID)
		require.Len(t, event.Fields, 2)
		require.NotEmpty(t, event.Fields[0].ID)
		require.NotEmpty(t, event.Fields[1].ID)
		require.NotEqual(t, event.Fields[0].ID, event.Fields[1].ID)
	})
}

func TestSocietyBoundEvents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &EventService{Store: st}

	head := seedAccount(t, st, "Harper", "harper@campus.edu", domain.RoleOrganizer)
	other := seedAccount(t, st, "Olive", "olive@campus.edu", domain.RoleOrganizer)
	admin := seedAccount(t, st, "Ada", "ada@campus.edu", domain.RoleAdmin)

	society := domain.Society{ID: "soc-1", Name: "Robotics Club", HeadID: head.ID, Active: true}
	require.NoError(t, st.Societies().CreateSociety(ctx, society))

	t.Run("unknown society", func(t *testing.T) {
		in := validEventInput()
		in.SocietyID = "missing"
		_, err := svc.CreateEvent(ctx, asActor(head), in)
		require.ErrorIs(t, err, ErrSocietyNotFound)
	})

	t.Run("only the head runs society events", func(t *testing.T) {
		in := validEventInput()
		in.SocietyID = society.ID
		_, err := svc.CreateEvent(ctx, asActor(other), in)
		require.ErrorIs(t, err, ErrNotSocietyHead)
	})

	t.Run("head and admin are allowed", func(t *testing.T) {
		in := validEventInput()
		in.SocietyID = society.ID

		_, err := svc.CreateEvent(ctx, asActor(head), in)
		require.NoError(t, err)

		_, err = svc.CreateEvent(ctx, asActor(admin), in)
		require.NoError(t, err)
	})
}

func TestEventLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &EventService{Store: st}

	organizer := seedAccount(t, st, "Olive", "olive@campus.edu", domain.RoleOrganizer)
	rival := seedAccount(t, st, "Rex", "rex@campus.edu", domain.RoleOrganizer)

	event, err := svc.CreateEvent(ctx, asActor(organizer), validEventInput())
	require.NoError(t, err)

	t.Run("only the owner publishes", func(t *testing.T) {
		_, err := svc.PublishEvent(ctx, asActor(rival), event.ID)
		require.ErrorIs(t, err, ErrNotEventOwner)
	})

	t.Run("publish moves draft to published", func(t *testing.T) {
		got, err := svc.PublishEvent(ctx, asActor(organizer), event.ID)
		require.NoError(t, err)
		require.Equal(t, domain.EventPublished, got.Status)
	})

	t.Run("publish is draft-only", func(t *testing.T) {
		_, err := svc.PublishEvent(ctx, asActor(organizer), event.ID)
		require.ErrorIs(t, err, ErrEventNotDraft)
	})

	t.Run("category locks after publication", func(t *testing.T) {
		in := validEventInput()
		in.Category = "cultural"
		_, err := svc.UpdateEvent(ctx, asActor(organizer), event.ID, in)
		require.ErrorIs(t, err, ErrEventLocked)
	})

	t.Run("title stays editable after publication", func(t *testing.T) {
		in := validEventInput()
		in.Title = "Hack Night: Extended"
		got, err := svc.UpdateEvent(ctx, asActor(organizer), event.ID, in)
		require.NoError(t, err)
		require.Equal(t, "Hack Night: Extended", got.Title)
	})

	t.Run("cancel is terminal", func(t *testing.T) {
		got, err := svc.CancelEvent(ctx, asActor(organizer), event.ID)
		require.NoError(t, err)
		require.Equal(t, domain.EventCancelled, got.Status)

		_, err = svc.CancelEvent(ctx, asActor(organizer), event.ID)
		require.ErrorIs(t, err, ErrEventAlreadyCancelled)

		_, err = svc.UpdateEvent(ctx, asActor(organizer), event.ID, validEventInput())
		require.ErrorIs(t, err, ErrEventFinished)
	})
}

func TestEventVisibility(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &EventService{Store: st}

	organizer := seedAccount(t, st, "Olive", "olive@campus.edu", domain.RoleOrganizer)
	student := seedAccount(t, st, "Sam", "sam@campus.edu", domain.RoleStudent)
	admin := seedAccount(t, st, "Ada", "ada@campus.edu", domain.RoleAdmin)

	draft, err := svc.CreateEvent(ctx, asActor(organizer), validEventInput())
	require.NoError(t, err)

	published, err := svc.CreateEvent(ctx, asActor(organizer), validEventInput())
	require.NoError(t, err)
	_, err = svc.PublishEvent(ctx, asActor(organizer), published.ID)
	require.NoError(t, err)

	t.Run("drafts look absent to students", func(t *testing.T) {
		_, err := svc.GetVisibleEvent(ctx, asActor(student), draft.ID)
		require.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("owner and admin see drafts", func(t *testing.T) {
		_, err := svc.GetVisibleEvent(ctx, asActor(organizer), draft.ID)
		require.NoError(t, err)
		_, err = svc.GetVisibleEvent(ctx, asActor(admin), draft.ID)
		require.NoError(t, err)
	})

	t.Run("list filters drafts for students", func(t *testing.T) {
		events, err := svc.ListEvents(ctx, asActor(student), store.EventFilter{})
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, published.ID, events[0].ID)
	})

	t.Run("status filter narrows the list", func(t *testing.T) {
		events, err := svc.ListEvents(ctx, asActor(admin), store.EventFilter{Status: domain.EventDraft})
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, draft.ID, events[0].ID)
	})
}

func TestEventFieldStability(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &EventService{Store: st}

	organizer := seedAccount(t, st, "Olive", "olive@campus.edu", domain.RoleOrganizer)

	in := validEventInput()
	in.Fields = []FieldInput{{Label: "Experience", Kind: "text"}}
	event, err := svc.CreateEvent(ctx, asActor(organizer), in)
	require.NoError(t, err)

	fieldID := event.Fields[0].ID

	// Re-submitting the existing field with its id keeps it; new fields
	// get fresh ids.
	in.Fields = []FieldInput{
		{ID: fieldID, Label: "Experience (years)", Kind: "text"},
		{Label: "Team Motto", Kind: "text"},
	}
	updated, err := svc.UpdateEvent(ctx, asActor(organizer), event.ID, in)
	require.NoError(t, err)

	require.Len(t, updated.Fields, 2)
	require.Equal(t, fieldID, updated.Fields[0].ID)
	require.Equal(t, "Experience (years)", updated.Fields[0].Label)
	require.NotEqual(t, fieldID, updated.Fields[1].ID)

	// Fields freeze once published.
	_, err = svc.PublishEvent(ctx, asActor(organizer), event.ID)
	require.NoError(t, err)

	in.Fields = nil
	got, err := svc.UpdateEvent(ctx, asActor(organizer), event.ID, in)
	require.NoError(t, err)
	require.Len(t, got.Fields, 2)
}
