package http

import (
	"net/http"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/internal/campus/service"
	"github.com/campushub/campushub/internal/campus/store"
	"github.com/campushub/campushub/pkg/httpx"
)

type RegistrationsHandler struct {
	RegistrationService *service.RegistrationService
}

type inviteeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"omitempty,max=120"`
}

type answerRequest struct {
	FieldID string `json:"field_id" validate:"required"`
	Value   string `json:"value"`
}

type createRegistrationRequest struct {
	TeamName  string           `json:"team_name" validate:"omitempty,max=120"`
	MemberIDs []string         `json:"member_ids" validate:"omitempty,dive,required"`
	Invitees  []inviteeRequest `json:"invitees" validate:"omitempty,dive"`
	Answers   []answerRequest  `json:"answers" validate:"omitempty,dive"`
}

// HandleCreate registers the caller for the event in the path.
func (h *RegistrationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[createRegistrationRequest](w, r)
	if !ok {
		return
	}

	invitees := make([]service.InviteeInput, 0, len(req.Invitees))
	for _, inv := range req.Invitees {
		invitees = append(invitees, service.InviteeInput{Email: inv.Email, Name: inv.Name})
	}
	answers := make([]service.AnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, service.AnswerInput{FieldID: a.FieldID, Value: a.Value})
	}

	registration, err := h.RegistrationService.CreateRegistration(r.Context(), actorFrom(r), service.CreateRegistrationInput{
		EventID:   r.PathValue("id"),
		TeamName:  req.TeamName,
		MemberIDs: req.MemberIDs,
		Invitees:  invitees,
		Answers:   answers,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, newRegistrationResponse(registration))
}

// HandleList returns the registrations visible to the caller, optionally
// filtered by event and status query parameters.
func (h *RegistrationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RegistrationFilter{
		EventID: q.Get("event_id"),
		Status:  domain.RegistrationStatus(q.Get("status")),
	}

	registrations, err := h.RegistrationService.ListRegistrations(r.Context(), actorFrom(r), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newRegistrationListResponse(registrations))
}

// HandleGet returns one registration, visibility-checked.
func (h *RegistrationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	registration, err := h.RegistrationService.GetRegistration(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newRegistrationResponse(registration))
}

type respondRequest struct {
	Action string `json:"action" validate:"required,oneof=accept decline"`
}

// HandleRespond records the caller's accept or decline on their open
// invitation.
func (h *RegistrationsHandler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[respondRequest](w, r)
	if !ok {
		return
	}

	registration, err := h.RegistrationService.RespondInvitation(r.Context(), actorFrom(r), r.PathValue("id"), req.Action)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newRegistrationResponse(registration))
}

type addMembersRequest struct {
	Members []addMemberRequest `json:"members" validate:"required,min=1,dive"`
}

type addMemberRequest struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email" validate:"omitempty,email"`
	Name      string `json:"name" validate:"omitempty,max=120"`
}

// HandleAddMembers invites additional members. Leader only.
func (h *RegistrationsHandler) HandleAddMembers(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[addMembersRequest](w, r)
	if !ok {
		return
	}

	adds := make([]service.AddMemberInput, 0, len(req.Members))
	for _, m := range req.Members {
		adds = append(adds, service.AddMemberInput{AccountID: m.AccountID, Email: m.Email, Name: m.Name})
	}

	registration, err := h.RegistrationService.AddMembers(r.Context(), actorFrom(r), r.PathValue("id"), adds)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newRegistrationResponse(registration))
}

// HandleRemoveMember deletes one member slot. Leader only.
func (h *RegistrationsHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	registration, err := h.RegistrationService.RemoveMember(r.Context(), actorFrom(r), r.PathValue("id"), r.PathValue("memberID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newRegistrationResponse(registration))
}

// HandleCancel cancels a registration.
func (h *RegistrationsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	registration, err := h.RegistrationService.CancelRegistration(r.Context(), actorFrom(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newRegistrationResponse(registration))
}
