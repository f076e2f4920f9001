package messaging

import "github.com/hilthontt/codeboard/internal/domain"

const (
	RoomsQueue      = "codeboard.rooms"
	DeadLetterQueue = "codeboard.dead_letter"
)

type RoomEventData struct {
	Event domain.RoomEvent `json:"event"`
}
