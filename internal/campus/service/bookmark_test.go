package service

import (
	"context"
	"testing"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/stretchr/testify/require"
)

func TestBookmarks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &BookmarkService{Store: st}

	organizer := seedAccount(t, st, "Olive", "olive@campus.edu", domain.RoleOrganizer)
	student := seedAccount(t, st, "Sam", "sam@campus.edu", domain.RoleStudent)
	actor := asActor(student)

	event := seedEvent(t, st, organizer.ID, nil)
	draft := seedEvent(t, st, organizer.ID, func(e *domain.Event) {
		e.Status = domain.EventDraft
	})

	t.Run("unknown event", func(t *testing.T) {
		require.ErrorIs(t, svc.AddBookmark(ctx, actor, "missing"), ErrEventNotFound)
	})

	t.Run("drafts are not bookmarkable", func(t *testing.T) {
		require.ErrorIs(t, svc.AddBookmark(ctx, actor, draft.ID), ErrEventNotFound)
	})

	t.Run("add and list", func(t *testing.T) {
		require.NoError(t, svc.AddBookmark(ctx, actor, event.ID))

		events, err := svc.ListBookmarks(ctx, actor)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, event.ID, events[0].ID)

		saved, err := svc.HasBookmark(ctx, actor, event.ID)
		require.NoError(t, err)
		require.True(t, saved)
	})

	t.Run("duplicate conflicts", func(t *testing.T) {
		require.ErrorIs(t, svc.AddBookmark(ctx, actor, event.ID), ErrAlreadyBookmarked)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, svc.RemoveBookmark(ctx, actor, event.ID))

		events, err := svc.ListBookmarks(ctx, actor)
		require.NoError(t, err)
		require.Empty(t, events)
	})

	t.Run("removing an absent bookmark is not found", func(t *testing.T) {
		require.ErrorIs(t, svc.RemoveBookmark(ctx, actor, event.ID), ErrBookmarkNotFound)
	})
}
