package http

import (
	"net/http"
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/internal/campus/service"
	"github.com/campushub/campushub/internal/campus/store"
	"github.com/campushub/campushub/pkg/httpx"
)

type EventsHandler struct {
	EventService *service.EventService
}

type fieldRequest struct {
	ID       string   `json:"id"`
	Label    string   `json:"label" validate:"required,max=200"`
	Kind     string   `json:"kind" validate:"required,oneof=text number date select multiselect"`
	Required bool     `json:"required"`
	Options  []string `json:"options" validate:"omitempty,dive,max=200"`
}

type eventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Category    string `json:"category" validate:"required,max=60"`
	Venue       string `json:"venue" validate:"omitempty,max=200"`
	SocietyID   string `json:"society_id"`

	StartAt time.Time `json:"start_at" validate:"required"`
	EndAt   time.Time `json:"end_at" validate:"required"`

	RegistrationOpen    bool      `json:"registration_open"`
	RegistrationStartAt time.Time `json:"registration_start_at" validate:"required"`
	RegistrationEndAt   time.Time `json:"registration_end_at" validate:"required"`

	TeamEvent   bool `json:"team_event"`
	MinTeamSize int  `json:"min_team_size" validate:"omitempty,min=1"`
	MaxTeamSize int  `json:"max_team_size" validate:"omitempty,min=1"`
	MaxTeams    int  `json:"max_teams" validate:"omitempty,min=1"`

	Fields []fieldRequest `json:"fields" validate:"omitempty,dive"`
}

func (req eventRequest) toInput() service.EventInput {
	fields := make([]service.FieldInput, 0, len(req.Fields))
	for _, f := range req.Fields {
		fields = append(fields, service.FieldInput{
			ID:       f.ID,
			Label:    f.Label,
			Kind:     f.Kind,
			Required: f.Required,
			Options:  f.Options,
		})
	}
	return service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Venue:       req.Venue,
		SocietyID:   req.SocietyID,

		StartAt: req.StartAt,
		EndAt:   req.EndAt,

		RegistrationOpen:    req.RegistrationOpen,
		RegistrationStartAt: req.RegistrationStartAt,
		RegistrationEndAt:   req.RegistrationEndAt,

		TeamEvent:   req.TeamEvent,
		MinTeamSize: req.MinTeamSize,
		MaxTeamSize: req.MaxTeamSize,
		MaxTeams:    req.MaxTeams,

		Fields: fields,
	}
}

// HandleCreate creates a draft event owned by the caller.
func (h *EventsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[eventRequest](w, r)
	if !ok {
		return
	}

	event, err := h.EventService.CreateEvent(r.Context(), actorFrom(r), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, newEventResponse(event))
}

// HandleList returns visible events, optionally filtered by status,
// category, and society query parameters.
func (h *EventsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.EventFilter{
		Status:    domain.EventStatus(q.Get("status")),
		Category:  q.Get("category"),
		SocietyID: q.Get("society_id"),
	}

	events, err := h.EventService.ListEvents(r.Context(), actorFrom(r), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newEventListResponse(events))
}

// HandleGet returns one event, with drafts hidden from non-owners.
func (h *EventsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	event, err := h.EventService.GetVisibleEvent(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newEventResponse(event))
}

// HandlePatch rewrites an event's mutable attributes.
func (h *EventsHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[eventRequest](w, r)
	if !ok {
		return
	}

	event, err := h.EventService.UpdateEvent(r.Context(), actorFrom(r), r.PathValue("id"), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newEventResponse(event))
}

// HandlePublish moves a draft event to published.
func (h *EventsHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	event, err := h.EventService.PublishEvent(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newEventResponse(event))
}

// HandleCancel cancels an event.
func (h *EventsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	event, err := h.EventService.CancelEvent(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newEventResponse(event))
}
