package service

import (
	"context"
	"testing"
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/internal/campus/store"
	"github.com/campushub/campushub/internal/campus/store/drivers/sqlite"
	"github.com/campushub/campushub/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedAccount(t *testing.T, st store.Store, name, email string, role domain.Role) domain.Account {
	t.Helper()

	account := domain.Account{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
	}
	require.NoError(t, st.Accounts().CreateAccount(context.Background(), account))
	return account
}

// seedEvent inserts a published solo event with an open registration
// window around now. Mutate tweaks it before the insert.
func seedEvent(t *testing.T, st store.Store, organizerID string, mutate func(*domain.Event)) domain.Event {
	t.Helper()

	now := time.Now().UTC()
	event := domain.Event{
		ID:          idx.New().String(),
		Title:       "Intro to Robotics",
		Category:    "technical",
		Venue:       "Main Hall",
		OrganizerID: organizerID,
		Status:      domain.EventPublished,

		StartAt: now.Add(2 * time.Hour),
		EndAt:   now.Add(3 * time.Hour),

		RegistrationOpen:    true,
		RegistrationStartAt: now.Add(-time.Hour),
		RegistrationEndAt:   now.Add(time.Hour),
	}
	if mutate != nil {
		mutate(&event)
	}
	require.NoError(t, st.Events().CreateEvent(context.Background(), event))
	return event
}

func asActor(a domain.Account) domain.Actor {
	return domain.Actor{AccountID: a.ID, Role: a.Role}
}

// teamed marks an event as a team event with the given bounds.
func teamed(min, max int) func(*domain.Event) {
	return func(e *domain.Event) {
		e.TeamEvent = true
		e.MinTeamSize = min
		e.MaxTeamSize = max
	}
}
