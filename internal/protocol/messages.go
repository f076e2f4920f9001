package protocol

import "github.com/hilthontt/codeboard/internal/domain"

// Message is one decoded frame. The concrete types below form a closed set;
// consumers switch over them exhaustively.
type Message interface {
	Type() Type
}

type Create struct{}

type Join struct {
	Username string `json:"username"`
}

type Users struct {
	List []string `json:"list"`
}

// Init brings a joining connection up to the room's canonical state.
type Init struct {
	SessionID string         `json:"sessionId"`
	Username  string         `json:"username"`
	Admin     bool           `json:"admin"`
	Code      string         `json:"code"`
	Language  string         `json:"language"`
	Shapes    []domain.Shape `json:"shapes"`
	Chat      []Chat         `json:"chat"`
}

// Draw carries one shape. Origin is the session that drew it, empty when
// the hub replays shapes itself.
type Draw struct {
	domain.Shape
	Origin string `json:"origin,omitempty"`
}

// StrokeEnd marks pointer-up: the sender's freehand segments since the last
// StrokeEnd form one undo unit.
type StrokeEnd struct{}

type Undo struct{}

type Redo struct{}

type ClearBoard struct{}

type Code struct {
	Code   string `json:"code"`
	Origin string `json:"origin,omitempty"`
}

type Language struct {
	Language string `json:"language"`
	Origin   string `json:"origin,omitempty"`
}

type Chat struct {
	User string `json:"user"`
	Text string `json:"text"`
	Time string `json:"time"`
}

// Output relays a run result to the rest of the room.
type Output struct {
	Output string  `json:"output"`
	Time   float64 `json:"time,omitempty"`
}

type Invite struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Terminate struct{}

// Admin announces a new holder of the admin slot.
type Admin struct {
	User string `json:"user"`
}

type ErrorNotice struct {
	Message string `json:"message"`
}

func (Create) Type() Type      { return TypeCreate }
func (Join) Type() Type        { return TypeJoin }
func (Users) Type() Type       { return TypeUsers }
func (Init) Type() Type        { return TypeInit }
func (Draw) Type() Type        { return TypeDraw }
func (StrokeEnd) Type() Type   { return TypeStrokeEnd }
func (Undo) Type() Type        { return TypeUndo }
func (Redo) Type() Type        { return TypeRedo }
func (ClearBoard) Type() Type  { return TypeClearBoard }
func (Code) Type() Type        { return TypeCode }
func (Language) Type() Type    { return TypeLanguage }
func (Chat) Type() Type        { return TypeChat }
func (Output) Type() Type      { return TypeOutput }
func (Invite) Type() Type      { return TypeInvite }
func (Terminate) Type() Type   { return TypeTerminate }
func (Admin) Type() Type       { return TypeAdmin }
func (ErrorNotice) Type() Type { return TypeError }

// Addressed reports whether an invite is meant for identity: either sent to
// everyone or to identity by name, and not sent by identity itself.
func (i Invite) Addressed(identity string) bool {
	if i.From == identity {
		return false
	}
	return i.To == InviteAll || i.To == identity
}

func NewChatFromDomain(m domain.ChatMessage) Chat {
	return Chat{
		User: m.User,
		Text: m.Text,
		Time: m.Time,
	}
}
