package domain

import (
	"context"
	"time"
)

// RoomAuditLog is a stored RoomEvent.
type RoomAuditLog struct {
	ID        string         `bson:"_id" json:"id"`
	RoomID    string         `bson:"room_id" json:"roomId"`
	EventType RoomEventType  `bson:"event_type" json:"eventType"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type RoomAuditRepository interface {
	Log(ctx context.Context, log *RoomAuditLog) error
	// GetByRoomID returns up to limit entries, newest first.
	GetByRoomID(ctx context.Context, roomID string, limit int) ([]RoomAuditLog, error)
	EnsureIndexes(ctx context.Context) error
}

func NewRoomAuditLog(event *RoomEvent) *RoomAuditLog {
	return &RoomAuditLog{
		ID:        event.ID,
		RoomID:    event.RoomID,
		EventType: event.EventType,
		Timestamp: event.Timestamp,
		Metadata:  event.Metadata,
	}
}
