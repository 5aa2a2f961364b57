package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/internal/campus/store"
	"github.com/campushub/campushub/pkg/idx"
	"github.com/campushub/campushub/pkg/slogx"
)

var (
	ErrAlreadyBookmarked = errors.New("event already bookmarked")
	ErrBookmarkNotFound  = errors.New("bookmark not found")
)

type BookmarkService struct {
	Store store.Store
}

// AddBookmark saves an event to the actor's bookmark list. Draft events
// are not bookmarkable; they are invisible to everyone but their
// organizer.
func (s *BookmarkService) AddBookmark(ctx context.Context, actor domain.Actor, eventID string) error {
	log := slogx.FromContext(ctx)

	event, err := s.Store.Events().GetEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if event.Status == domain.EventDraft && event.OrganizerID != actor.AccountID && !actor.IsAdmin() {
		return ErrEventNotFound
	}

	bookmark := domain.Bookmark{
		ID:        idx.New().String(),
		AccountID: actor.AccountID,
		EventID:   eventID,
	}
	if err := s.Store.Bookmarks().CreateBookmark(ctx, bookmark); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrAlreadyBookmarked
		}
		log.Error("failed to create bookmark", slog.Any("error", err))
		return err
	}
	return nil
}

// RemoveBookmark deletes the actor's bookmark for the event.
func (s *BookmarkService) RemoveBookmark(ctx context.Context, actor domain.Actor, eventID string) error {
	if err := s.Store.Bookmarks().DeleteBookmark(ctx, actor.AccountID, eventID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrBookmarkNotFound
		}
		return err
	}
	return nil
}

// ListBookmarks returns the actor's saved events, most recently
// bookmarked first.
func (s *BookmarkService) ListBookmarks(ctx context.Context, actor domain.Actor) ([]domain.Event, error) {
	return s.Store.Bookmarks().ListBookmarkedEvents(ctx, actor.AccountID)
}

// HasBookmark reports whether the actor has saved the event.
func (s *BookmarkService) HasBookmark(ctx context.Context, actor domain.Actor, eventID string) (bool, error) {
	return s.Store.Bookmarks().HasBookmark(ctx, actor.AccountID, eventID)
}
