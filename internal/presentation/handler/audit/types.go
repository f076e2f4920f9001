package audit

import "time"

// eventResponse represents one recorded room event
type eventResponse struct {
	ID        string         `json:"id" example:"550e8400-e29b-41d4-a716-446655440003"` // Event identifier
	EventType string         `json:"eventType" example:"member_joined"`                 // Event type
	Timestamp time.Time      `json:"timestamp" example:"2024-01-01T14:05:00Z"`          // When the hub emitted it
	Metadata  map[string]any `json:"metadata,omitempty"`                                // Event details
}

// listEventsResponse represents a room's audit trail
type listEventsResponse struct {
	RoomID string          `json:"roomId" example:"team-standup"` // Room identifier
	Events []eventResponse `json:"events"`                        // Events, newest first
}
