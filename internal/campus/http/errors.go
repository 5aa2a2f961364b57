package http

import (
	"errors"
	"net/http"

	"github.com/campushub/campushub/internal/campus/service"
	"github.com/campushub/campushub/pkg/httpx"
	"github.com/campushub/campushub/pkg/slogx"
)

// writeServiceError translates service sentinels into the failure
// envelope. Anything unrecognized is logged and masked as a plain
// server_error so storage internals never leak to clients.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrSocietyNotFound),
		errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrRegistrationNotFound),
		errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrBookmarkNotFound),
		errors.Is(err, service.ErrHeadNotFound),
		errors.Is(err, service.ErrUnknownMember):
		httpx.WriteError(w, http.StatusNotFound, httpx.KindNotFound, err.Error())

	case errors.Is(err, service.ErrRegistrationNotOpen),
		errors.Is(err, service.ErrRegistrationClosed),
		errors.Is(err, service.ErrRegistrationNotStarted),
		errors.Is(err, service.ErrRegistrationDeadline),
		errors.Is(err, service.ErrRegistrationFinal),
		errors.Is(err, service.ErrEventNotDraft),
		errors.Is(err, service.ErrEventFinished),
		errors.Is(err, service.ErrEventAlreadyCancelled),
		errors.Is(err, service.ErrEventLocked),
		errors.Is(err, service.ErrLeaderImmutable):
		httpx.WriteError(w, http.StatusConflict, httpx.KindInvalidState, err.Error())

	case errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrEventFull),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrSocietyNameTaken),
		errors.Is(err, service.ErrAlreadyBookmarked),
		errors.Is(err, service.ErrAlreadyResponded),
		errors.Is(err, service.ErrTeamTooLarge),
		errors.Is(err, service.ErrAcceptedFloor):
		httpx.WriteError(w, http.StatusConflict, httpx.KindConflict, err.Error())

	case errors.Is(err, service.ErrNotAuthorized),
		errors.Is(err, service.ErrAdminOnly),
		errors.Is(err, service.ErrNotEventOwner),
		errors.Is(err, service.ErrNotSocietyHead),
		errors.Is(err, service.ErrNotTeamLeader),
		errors.Is(err, service.ErrNotInvited):
		httpx.WriteError(w, http.StatusForbidden, httpx.KindForbidden, err.Error())

	case errors.Is(err, service.ErrTeamNameRequired),
		errors.Is(err, service.ErrTeamTooSmall),
		errors.Is(err, service.ErrInvalidAnswer),
		errors.Is(err, service.ErrInvalidInviteAction),
		errors.Is(err, service.ErrEndBeforeStart),
		errors.Is(err, service.ErrRegWindowInvalid),
		errors.Is(err, service.ErrTeamBoundsInvalid),
		errors.Is(err, service.ErrFieldKindInvalid),
		errors.Is(err, service.ErrFieldOptionsRequired):
		httpx.WriteError(w, http.StatusBadRequest, httpx.KindValidation, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.KindUnauthorized, err.Error())

	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.KindServerError, "internal error")
	}
}
