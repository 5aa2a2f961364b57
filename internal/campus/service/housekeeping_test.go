package service

import (
	"context"
	"testing"
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &HousekeepingService{Store: st}

	organizer := seedAccount(t, st, "Olive", "olive@campus.edu", domain.RoleOrganizer)
	now := time.Now().UTC()

	started := seedEvent(t, st, organizer.ID, func(e *domain.Event) {
		e.StartAt = now.Add(-time.Hour)
		e.EndAt = now.Add(time.Hour)
	})
	ended := seedEvent(t, st, organizer.ID, func(e *domain.Event) {
		e.Status = domain.EventOngoing
		e.StartAt = now.Add(-3 * time.Hour)
		e.EndAt = now.Add(-time.Hour)
	})
	upcoming := seedEvent(t, st, organizer.ID, nil)
	cancelled := seedEvent(t, st, organizer.ID, func(e *domain.Event) {
		e.Status = domain.EventCancelled
		e.StartAt = now.Add(-time.Hour)
	})

	svc.Sweep(ctx)

	expect := map[string]domain.EventStatus{
		started.ID:   domain.EventOngoing,
		ended.ID:     domain.EventCompleted,
		upcoming.ID:  domain.EventPublished,
		cancelled.ID: domain.EventCancelled,
	}
	for id, want := range expect {
		got, err := st.Events().GetEventByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, want, got.Status, "event %s", id)
	}
}

func TestHousekeepingStartStop(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := &HousekeepingService{Store: st, Interval: 10 * time.Millisecond}

	organizer := seedAccount(t, st, "Olive", "olive@campus.edu", domain.RoleOrganizer)
	event := seedEvent(t, st, organizer.ID, func(e *domain.Event) {
		e.StartAt = time.Now().UTC().Add(-time.Hour)
		e.EndAt = time.Now().UTC().Add(time.Hour)
	})

	svc.Start(context.Background())

	require.Eventually(t, func() bool {
		got, err := st.Events().GetEventByID(context.Background(), event.ID)
		return err == nil && got.Status == domain.EventOngoing
	}, time.Second, 10*time.Millisecond)

	svc.Stop()

	// Stop is idempotent and leaves the goroutine down.
	svc.Stop()
}
