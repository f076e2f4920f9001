package ws

import (
	"net/http"
	"time"

	"github.com/hilthontt/codeboard/internal/protocol"
)

// Notices sent in error frames before a connection is closed.
const (
	NoticeRoomMissing = "Room does not exist"
	NoticeRoomFull    = "Room is full"
	NoticeTooManyRoom = "Too many rooms"
	NoticeShutdown    = "Server is shutting down"
)

// Options tune the hub. Zero values fall back to DefaultOptions.
type Options struct {
	MaxRooms            int
	MaxMembers          int
	IdleTTL             time.Duration
	EnforceAdmin        bool
	PromoteOnAdminLeave bool

	SendBuffer     int
	InboxSize      int
	ReadLimit      int64
	WriteWait      time.Duration
	PongWait       time.Duration
	AllowedOrigins []string
}

func DefaultOptions() Options {
	return Options{
		MaxRooms:   1000,
		MaxMembers: 50,
		IdleTTL:    10 * time.Minute,
		SendBuffer: 256,
		InboxSize:  256,
		ReadLimit:  1 << 20,
		WriteWait:  10 * time.Second,
		PongWait:   60 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.IdleTTL <= 0 {
		o.IdleTTL = def.IdleTTL
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = def.SendBuffer
	}
	if o.InboxSize <= 0 {
		o.InboxSize = def.InboxSize
	}
	if o.ReadLimit <= 0 {
		o.ReadLimit = def.ReadLimit
	}
	if o.WriteWait <= 0 {
		o.WriteWait = def.WriteWait
	}
	if o.PongWait <= 0 {
		o.PongWait = def.PongWait
	}
	return o
}

func (o Options) pingPeriod() time.Duration {
	return o.PongWait * 9 / 10
}

func (o Options) checkOrigin(r *http.Request) bool {
	if len(o.AllowedOrigins) == 0 {
		return true
	}

	origin := r.Header.Get("Origin")
	for _, allowed := range o.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func errorFrame(notice string) []byte {
	frame, _ := protocol.Encode(protocol.ErrorNotice{Message: notice})
	return frame
}
