package http

import (
	"net/http"

	"github.com/campushub/campushub/internal/campus/service"
	"github.com/campushub/campushub/pkg/httpx"
)

type MeHandler struct {
	AccountService *service.AccountService
}

// HandleGet returns the authenticated account's profile.
func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)

	account, err := h.AccountService.GetAccount(r.Context(), actor.AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newAccountResponse(account))
}

type updateProfileRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"omitempty,max=20"`
	Department string `json:"department" validate:"omitempty,max=120"`
	Year       int    `json:"year" validate:"omitempty,min=1,max=10"`
}

// HandlePatch updates the authenticated account's profile.
func (h *MeHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[updateProfileRequest](w, r)
	if !ok {
		return
	}

	account, err := h.AccountService.UpdateProfile(r.Context(), actorFrom(r), service.UpdateProfileInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		Year:       req.Year,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newAccountResponse(account))
}
