package json

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hilthontt/codeboard/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteError answers with status and a message meant for the client.
func WriteError(w http.ResponseWriter, status int, msg string) {
	Write(w, status, ErrorResponse{Error: http.StatusText(status), Message: msg})
}

func WriteValidationError(w http.ResponseWriter, err error) {
	WriteError(w, http.StatusBadRequest, err.Error())
}

// WriteDomainError maps the domain's sentinel errors onto HTTP statuses.
// It reports whether err was unexpected; callers log those.
func WriteDomainError(w http.ResponseWriter, err error) (unexpected bool) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		WriteError(w, http.StatusNotFound, "Room not found")
	case errors.Is(err, domain.ErrRoomClosed):
		WriteError(w, http.StatusGone, "Room is closed")
	case errors.Is(err, domain.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return true
	}
	return false
}

func WriteRateLimitError(w http.ResponseWriter, retryAfter int) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	WriteError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
}
