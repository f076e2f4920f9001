package messages

import "time"

// messageResponse represents one chat message
type messageResponse struct {
	ID     string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440003"` // Unique message identifier
	User   string    `json:"user" example:"ana"`                                // Author identity
	Text   string    `json:"text" example:"Hello, everyone!"`                   // Message text
	Time   string    `json:"time" example:"14:05"`                              // Display time
	SentAt time.Time `json:"sentAt" example:"2024-01-01T14:05:00Z"`             // Server receive time
}

// listMessagesResponse represents a room's chat history
type listMessagesResponse struct {
	RoomID   string            `json:"roomId" example:"team-standup"` // Room identifier
	Messages []messageResponse `json:"messages"`                      // Messages, oldest first
}
