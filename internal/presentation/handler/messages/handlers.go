package messages

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hilthontt/codeboard/internal/infrastructure/json"
	"github.com/hilthontt/codeboard/internal/infrastructure/ws"
)

type Handler struct {
	hub *ws.Hub
}

func NewHandler(hub *ws.Hub) *Handler {
	return &Handler{hub: hub}
}

// ListMessagesHandler godoc
// @Summary      List chat messages
// @Description  Returns the chat history of a live room, oldest first
// @Tags         messages
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} listMessagesResponse "Chat history"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Router       /api/rooms/{roomId}/messages [get]
func (h *Handler) ListMessagesHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	summary, err := h.hub.Summary(r.Context(), roomID)
	if err != nil {
		json.WriteDomainError(w, err)
		return
	}

	resp := listMessagesResponse{
		RoomID:   roomID,
		Messages: make([]messageResponse, 0, len(summary.Chat)),
	}
	for _, m := range summary.Chat {
		resp.Messages = append(resp.Messages, messageResponse{
			ID:     m.ID,
			User:   m.User,
			Text:   m.Text,
			Time:   m.Time,
			SentAt: m.SentAt,
		})
	}

	json.Write(w, http.StatusOK, resp)
}
