package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RoomEventType string

const (
	EventRoomCreated    RoomEventType = "room_created"
	EventRoomTerminated RoomEventType = "room_terminated"
	EventRoomExpired    RoomEventType = "room_expired"
	EventMemberJoined   RoomEventType = "member_joined"
	EventMemberLeft     RoomEventType = "member_left"
	EventAdminPromoted  RoomEventType = "admin_promoted"
	EventRoomFull       RoomEventType = "room_full_rejected"
)

// RoomEvent is a lifecycle notification emitted by the hub for auditing.
type RoomEvent struct {
	ID        string         `json:"id"`
	RoomID    string         `json:"roomId"`
	EventType RoomEventType  `json:"eventType"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// RoomEventPublisher delivers room events to whoever audits them.
type RoomEventPublisher interface {
	Publish(ctx context.Context, event *RoomEvent) error
}

func newRoomEvent(roomID string, eventType RoomEventType, metadata map[string]any) *RoomEvent {
	return &RoomEvent{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		EventType: eventType,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}

func NewRoomCreatedEvent(roomID, admin string) *RoomEvent {
	return newRoomEvent(roomID, EventRoomCreated, map[string]any{
		"admin_session": admin,
	})
}

func NewRoomTerminatedEvent(roomID, by string, memberCount int) *RoomEvent {
	return newRoomEvent(roomID, EventRoomTerminated, map[string]any{
		"terminated_by": by,
		"member_count":  memberCount,
	})
}

func NewRoomExpiredEvent(roomID string, idle time.Duration) *RoomEvent {
	return newRoomEvent(roomID, EventRoomExpired, map[string]any{
		"idle_seconds": idle.Seconds(),
	})
}

func NewMemberJoinedEvent(roomID, identity string, memberCount int) *RoomEvent {
	return newRoomEvent(roomID, EventMemberJoined, map[string]any{
		"identity":     identity,
		"member_count": memberCount,
	})
}

func NewMemberLeftEvent(roomID, identity string, memberCount int, wasAdmin bool) *RoomEvent {
	return newRoomEvent(roomID, EventMemberLeft, map[string]any{
		"identity":     identity,
		"member_count": memberCount,
		"was_admin":    wasAdmin,
	})
}

func NewAdminPromotedEvent(roomID, identity string) *RoomEvent {
	return newRoomEvent(roomID, EventAdminPromoted, map[string]any{
		"identity": identity,
		"reason":   "admin_left",
	})
}

func NewRoomFullEvent(roomID string, maxMembers int) *RoomEvent {
	return newRoomEvent(roomID, EventRoomFull, map[string]any{
		"max_members": maxMembers,
	})
}
