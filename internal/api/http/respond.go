package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// respondError maps the core's error kinds onto HTTP status codes. The
// kind travels in the body so clients can branch without parsing messages.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := ""
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		status, kind = http.StatusForbidden, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrNotFound):
		status, kind = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidState):
		status, kind = http.StatusConflict, "INVALID_STATE"
	case errors.Is(err, domain.ErrInsufficientBalance):
		status, kind = http.StatusPaymentRequired, "INSUFFICIENT_BALANCE"
	case errors.Is(err, domain.ErrDuplicateRegistration):
		status, kind = http.StatusConflict, "DUPLICATE_REGISTRATION"
	case errors.Is(err, domain.ErrOverflow):
		status, kind = http.StatusBadRequest, "OVERFLOW"
	}
	respondJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func respondBadRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}
