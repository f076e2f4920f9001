package rooms

import (
	"time"

	"github.com/hilthontt/codeboard/internal/domain"
)

// roomResponse represents a live room
type roomResponse struct {
	ID        string    `json:"id" example:"team-standup"`                // Room identifier
	Admin     string    `json:"admin,omitempty" example:"ana"`            // Identity of the admin, empty when vacant
	Members   []string  `json:"members"`                                  // Identities in connection order
	Language  string    `json:"language" example:"cpp"`                   // Document language
	Revision  uint64    `json:"revision" example:"12"`                    // Number of accepted document changes
	Shapes    int       `json:"shapes" example:"42"`                      // Shapes on the board
	Messages  int       `json:"messages" example:"3"`                     // Chat messages so far
	CreatedAt time.Time `json:"createdAt" example:"2024-01-01T12:00:00Z"` // Room creation timestamp
}

func newRoomResponse(s domain.RoomSummary) roomResponse {
	return roomResponse{
		ID:        s.ID,
		Admin:     s.Admin,
		Members:   s.Members,
		Language:  s.Language,
		Revision:  s.Revision,
		Shapes:    s.Shapes,
		Messages:  s.Messages,
		CreatedAt: s.CreatedAt,
	}
}
