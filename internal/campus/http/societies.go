package http

import (
	"net/http"

	"github.com/campushub/campushub/internal/campus/service"
	"github.com/campushub/campushub/pkg/httpx"
)

type SocietiesHandler struct {
	SocietyService *service.SocietyService
}

type createSocietyRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	HeadEmail    string `json:"head_email" validate:"required,email"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	Description  string `json:"description" validate:"omitempty,max=2000"`
}

// HandleCreate registers a new society. Admin only; the role middleware
// gates the route and the service re-checks.
func (h *SocietiesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[createSocietyRequest](w, r)
	if !ok {
		return
	}

	society, err := h.SocietyService.CreateSociety(r.Context(), actorFrom(r), service.CreateSocietyInput{
		Name:         req.Name,
		HeadEmail:    req.HeadEmail,
		ContactEmail: req.ContactEmail,
		Description:  req.Description,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, newSocietyResponse(society))
}

// HandleList returns all societies.
func (h *SocietiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	societies, err := h.SocietyService.ListSocieties(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]societyResponse, 0, len(societies))
	for _, s := range societies {
		out = append(out, newSocietyResponse(s))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet returns one society by id.
func (h *SocietiesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	society, err := h.SocietyService.GetSociety(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newSocietyResponse(society))
}

type updateSocietyRequest struct {
	ContactEmail string `json:"contact_email" validate:"required,email"`
	Description  string `json:"description" validate:"omitempty,max=2000"`
	Active       bool   `json:"active"`
}

// HandlePatch updates contact details and the active flag. Society head
// or admin.
func (h *SocietiesHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[updateSocietyRequest](w, r)
	if !ok {
		return
	}

	society, err := h.SocietyService.UpdateSociety(r.Context(), actorFrom(r), r.PathValue("id"), service.UpdateSocietyInput{
		ContactEmail: req.ContactEmail,
		Description:  req.Description,
		Active:       req.Active,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newSocietyResponse(society))
}
