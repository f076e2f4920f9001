package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/hilthontt/codeboard/internal/infrastructure/validate"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomAlreadyExists = errors.New("room already exists")
	ErrRoomClosed        = errors.New("room is closed")
	ErrInvalidInput      = errors.New("invalid input")
)

// Room is the canonical state of one collaboration session. A Room is owned
// by exactly one goroutine; none of its parts are safe for concurrent use.
type Room struct {
	ID        string
	CreatedAt time.Time

	Presence *Presence
	Shapes   *ShapeLog
	Strokes  *StrokeBatcher
	Document *Document
	Chat     *ChatLog
}

var validateRoomID = validate.Field("room id",
	validate.Required(),
	validate.MaxLength(64),
	validate.PathSafe(),
	validate.Printable(),
)

func NewRoom(id string, maxMembers int) (*Room, error) {
	if err := validateRoomID(id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	shapes := NewShapeLog()

	return &Room{
		ID:        id,
		CreatedAt: time.Now(),
		Presence:  NewPresence(maxMembers),
		Shapes:    shapes,
		Strokes:   NewStrokeBatcher(shapes),
		Document:  NewDocument(),
		Chat:      NewChatLog(),
	}, nil
}

// RoomSummary is a read-only view of a room taken inside its owner.
type RoomSummary struct {
	ID        string        `json:"id"`
	Admin     string        `json:"admin,omitempty"`
	Members   []string      `json:"members"`
	Language  string        `json:"language"`
	Revision  uint64        `json:"revision"`
	Shapes    int           `json:"shapes"`
	Messages  int           `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	Chat      []ChatMessage `json:"-"`
}

func (r *Room) Summary() RoomSummary {
	summary := RoomSummary{
		ID:        r.ID,
		Members:   r.Presence.Names(),
		Language:  r.Document.Language,
		Revision:  r.Document.Revision,
		Shapes:    r.Shapes.Len(),
		Messages:  r.Chat.Len(),
		CreatedAt: r.CreatedAt,
		Chat:      r.Chat.Snapshot(),
	}
	if admin, ok := r.Presence.Admin(); ok {
		summary.Admin = admin.Identity()
	}
	return summary
}
