package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/pkg/httpx"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeValid decodes a JSON body into T and runs struct validation.
// On failure it writes the validation envelope and returns ok=false.
func decodeValid[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.KindValidation, "invalid JSON body")
		return req, false
	}

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[strings.ToLower(fe.Field())] = validationMessage(fe)
			}
			httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
				Error:            httpx.KindValidation,
				ErrorDescription: "request validation failed",
				Fields:           fields,
			})
			return req, false
		}
		httpx.WriteError(w, http.StatusBadRequest, httpx.KindValidation, "request validation failed")
		return req, false
	}
	return req, true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// actorFrom rebuilds the authenticated actor the authn middleware stored
// on the request context.
func actorFrom(r *http.Request) domain.Actor {
	return domain.Actor{
		AccountID: httpx.AccountIDFromContext(r.Context()),
		Role:      domain.Role(httpx.RoleFromContext(r.Context())),
	}
}
