package client

import (
	"github.com/hilthontt/codeboard/internal/canvas"
	"github.com/hilthontt/codeboard/internal/domain"
	"github.com/hilthontt/codeboard/internal/protocol"
)

type Phase int

const (
	PhaseDisconnected Phase = iota
	PhaseConnected
	PhaseJoined
	PhaseTerminated
)

type gestureMode int

const (
	gestureNone gestureMode = iota
	gestureDraw
	gesturePan
)

// gesture is the pointer state between PointerDown and PointerUp. Draw
// positions are in world space, pan positions in screen space.
type gesture struct {
	mode     gestureMode
	start    canvas.Point
	last     canvas.Point
	segments int
}

// Session is everything one participant knows about its room. It is owned
// by a single goroutine; Apply is the only code that mutates it.
type Session struct {
	RoomID   string
	Username string
	Create   bool

	Phase     Phase
	SessionID string
	Identity  string
	Admin     bool

	View    *canvas.Viewport
	Mirror  *domain.ShapeLog
	Pending []domain.Shape
	Tool    domain.Tool
	Color   string
	gesture gesture

	Text     string
	Caret    int
	Language string
	Dirty    bool
	Suppress bool

	Users   []string
	Chat    []protocol.Chat
	Output  string
	Invite  *protocol.Invite
	Notices []string
}

// NewSession prepares a session for roomID. create asks the hub to open
// the room when it does not exist yet.
func NewSession(roomID, username string, create bool) *Session {
	return &Session{
		RoomID:   roomID,
		Username: username,
		Create:   create,
		Identity: domain.DefaultIdentity,
		View:     canvas.NewViewport(),
		Mirror:   domain.NewShapeLog(),
		Tool:     domain.ToolPen,
		Color:    "#000000",
		Language: domain.DefaultLanguage,
	}
}

// Shapes is what the board shows: the confirmed mirror followed by local
// draws the hub has not echoed yet.
func (s *Session) Shapes() []domain.Shape {
	out := s.Mirror.Snapshot()
	return append(out, s.Pending...)
}

// Preview returns the single shape being dragged out, if any.
func (s *Session) Preview() (domain.Shape, bool) {
	if s.gesture.mode != gestureDraw || s.Tool.IsSegment() {
		return domain.Shape{}, false
	}
	return domain.Shape{
		Tool:  s.Tool,
		Color: s.Color,
		X0:    s.gesture.start.X,
		Y0:    s.gesture.start.Y,
		X1:    s.gesture.last.X,
		Y1:    s.gesture.last.Y,
	}, true
}

func (s *Session) notice(text string) {
	s.Notices = append(s.Notices, text)
}
