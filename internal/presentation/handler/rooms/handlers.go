package rooms

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hilthontt/codeboard/internal/infrastructure/json"
	"github.com/hilthontt/codeboard/internal/infrastructure/logging"
	"github.com/hilthontt/codeboard/internal/infrastructure/ws"
)

type Handler struct {
	hub    *ws.Hub
	logger logging.Logger
}

func NewHandler(hub *ws.Hub, logger logging.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// JoinRoomHandler godoc
// @Summary      Connect to a room
// @Description  Upgrades to a websocket for the room. When the room does not exist the first frame must be {"type":"create"}; any other first frame is answered with an error frame and the connection is closed.
// @Tags         rooms
// @Param        roomId path string true "Room ID"
// @Success      101 {object} map[string]interface{} "Switching Protocols - WebSocket connection established"
// @Failure      400 {object} json.ErrorResponse "Missing room ID"
// @Router       /ws/{roomId} [get]
func (h *Handler) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	h.hub.ServeWS(w, r, roomID)
}

// GetRoomHandler godoc
// @Summary      Get room details
// @Description  Returns a snapshot of a live room: members, admin, language and board size
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} roomResponse "Room details"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Router       /api/rooms/{roomId} [get]
func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	summary, err := h.hub.Summary(r.Context(), roomID)
	if err != nil {
		if json.WriteDomainError(w, err) {
			h.logger.Error(logging.Room, logging.Lifecycle, "room summary failed", map[logging.ExtraKey]any{
				logging.RoomID:       roomID,
				logging.ErrorMessage: err.Error(),
			})
		}
		return
	}

	json.Write(w, http.StatusOK, newRoomResponse(summary))
}
