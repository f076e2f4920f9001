package audit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hilthontt/codeboard/internal/domain"
	"github.com/hilthontt/codeboard/internal/infrastructure/json"
	"github.com/hilthontt/codeboard/internal/infrastructure/logging"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type Handler struct {
	repo   domain.RoomAuditRepository
	logger logging.Logger
}

// NewHandler serves the audit trail. A nil repo means auditing is off.
func NewHandler(repo domain.RoomAuditRepository, logger logging.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// ListEventsHandler godoc
// @Summary      List room events
// @Description  Returns the recorded lifecycle events of a room, newest first. Works for rooms that no longer exist.
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        limit query int false "Maximum number of events (default 50, max 500)"
// @Success      200 {object} listEventsResponse "Room events"
// @Failure      400 {object} json.ErrorResponse "Invalid limit"
// @Failure      404 {object} json.ErrorResponse "Auditing is disabled"
// @Router       /api/rooms/{roomId}/events [get]
func (h *Handler) ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		json.WriteError(w, http.StatusNotFound, "Auditing is disabled")
		return
	}

	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			json.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLimit)
	}

	logs, err := h.repo.GetByRoomID(r.Context(), roomID, limit)
	if err != nil {
		h.logger.Error(logging.RequestResponse, logging.ExternalService, "failed to read audit trail", map[logging.ExtraKey]any{
			logging.RoomID:       roomID,
			logging.ErrorMessage: err.Error(),
		})
		json.WriteError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	resp := listEventsResponse{
		RoomID: roomID,
		Events: make([]eventResponse, 0, len(logs)),
	}
	for _, l := range logs {
		resp.Events = append(resp.Events, eventResponse{
			ID:        l.ID,
			EventType: string(l.EventType),
			Timestamp: l.Timestamp,
			Metadata:  l.Metadata,
		})
	}

	json.Write(w, http.StatusOK, resp)
}
