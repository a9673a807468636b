package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bibbank/amortization/internal/domain"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeProblem(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code, Details: details})
}

// writeError maps domain errors to HTTP statuses. AccessDenied is reported
// exactly like a missing loan so callers cannot probe for loan IDs.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		validation *domain.ValidationError
		outOfRange *domain.OutOfRangeError
		notFound   *domain.NotFoundError
		denied     *domain.AccessDeniedError
		notOwner   *domain.NotOwnerError
		conflict   *domain.ConflictError
		unauth     *domain.UnauthenticatedError
	)

	switch {
	case errors.As(err, &validation):
		writeProblem(w, http.StatusUnprocessableEntity, "validation_error", validation.Message, nil)
	case errors.As(err, &outOfRange):
		writeProblem(w, http.StatusBadRequest, "out_of_range", outOfRange.Message, nil)
	case errors.As(err, &notFound):
		writeProblem(w, http.StatusNotFound, "not_found", notFound.Message, nil)
	case errors.As(err, &denied):
		writeProblem(w, http.StatusNotFound, "not_found", "loan not found", nil)
	case errors.As(err, &notOwner):
		writeProblem(w, http.StatusForbidden, "not_owner", notOwner.Message, nil)
	case errors.As(err, &conflict):
		writeProblem(w, http.StatusConflict, "conflict", conflict.Message, nil)
	case errors.As(err, &unauth):
		writeProblem(w, http.StatusUnauthorized, "unauthenticated", unauth.Message, nil)
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeProblem(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
