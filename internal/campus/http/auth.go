package http

import (
	"net/http"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/internal/campus/service"
	"github.com/campushub/campushub/pkg/httpx"
	"github.com/campushub/campushub/pkg/jwtx"
)

type AuthHandler struct {
	AccountService *service.AccountService
	Signer         *jwtx.Signer
}

type registerRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=128"`
	Phone      string `json:"phone" validate:"omitempty,max=20"`
	Department string `json:"department" validate:"omitempty,max=120"`
	Year       int    `json:"year" validate:"omitempty,min=1,max=10"`
}

// HandleRegister creates a student account and returns it with a fresh
// access token, so the frontend can log the user straight in.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[registerRequest](w, r)
	if !ok {
		return
	}

	account, err := h.AccountService.Register(r.Context(), service.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Department: req.Department,
		Year:       req.Year,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.writeToken(w, r, account)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin verifies credentials and mints an access token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[loginRequest](w, r)
	if !ok {
		return
	}

	account, err := h.AccountService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.writeToken(w, r, account)
}

func (h *AuthHandler) writeToken(w http.ResponseWriter, r *http.Request, account domain.Account) {
	token, err := h.Signer.Mint(account.ID, string(account.Role), account.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	ttl := h.Signer.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
		Account:     newAccountResponse(account),
	})
}
