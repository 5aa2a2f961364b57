package http

import (
	"net/http"

	"github.com/campushub/campushub/internal/campus/service"
	"github.com/campushub/campushub/pkg/httpx"
)

type BookmarksHandler struct {
	BookmarkService *service.BookmarkService
}

// HandlePut saves the event in the path to the caller's bookmarks.
func (h *BookmarksHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	if err := h.BookmarkService.AddBookmark(r.Context(), actorFrom(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes the bookmark for the event in the path.
func (h *BookmarksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.BookmarkService.RemoveBookmark(r.Context(), actorFrom(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleList returns the caller's saved events.
func (h *BookmarksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.BookmarkService.ListBookmarks(r.Context(), actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newEventListResponse(events))
}
