package client

import (
	"strings"
	"unicode/utf8"

	"github.com/hilthontt/codeboard/internal/canvas"
	"github.com/hilthontt/codeboard/internal/domain"
	"github.com/hilthontt/codeboard/internal/protocol"
)

// Effects are what the caller must do after an event was applied.
type Effects struct {
	Send     []protocol.Message
	Debounce bool
}

func (e *Effects) send(msgs ...protocol.Message) {
	e.Send = append(e.Send, msgs...)
}

// Apply folds ev into s. It never blocks and never performs I/O.
func Apply(s *Session, ev Event) Effects {
	var fx Effects

	switch ev := ev.(type) {
	case Remote:
		applyRemote(s, ev.Msg)

	case Connected:
		s.Phase = PhaseConnected
		if s.Create {
			fx.send(protocol.Create{})
		}
		fx.send(protocol.Join{Username: s.Username})

	case Disconnected:
		if s.Phase != PhaseTerminated {
			s.Phase = PhaseDisconnected
			s.notice("Connection lost")
		}
		s.Pending = nil
		s.gesture = gesture{}

	case FlushDue:
		if s.Dirty {
			s.Dirty = false
			fx.send(protocol.Code{Code: s.Text})
		}
		s.Suppress = false

	case LocalEdit:
		s.Text = ev.Text
		s.Caret = ev.Caret
		s.Dirty = true
		s.Suppress = true
		fx.Debounce = true

	case LocalLanguage:
		if ev.Language != "" && ev.Language != s.Language {
			s.Language = ev.Language
			fx.send(protocol.Language{Language: ev.Language})
		}

	case PointerDown:
		pointerDown(s, ev)

	case PointerMove:
		pointerMove(s, ev, &fx)

	case PointerUp:
		pointerUp(s, ev, &fx)

	case Wheel:
		s.View.Wheel(ev.X, ev.Y, ev.DeltaY)

	case SelectTool:
		if ev.Tool.Valid() {
			s.Tool = ev.Tool
		}

	case SelectColor:
		if ev.Color != "" {
			s.Color = ev.Color
		}

	case UndoRequest:
		if s.Phase == PhaseJoined {
			fx.send(protocol.Undo{})
		}

	case RedoRequest:
		if s.Phase == PhaseJoined {
			fx.send(protocol.Redo{})
		}

	case ClearRequest:
		if s.Phase == PhaseJoined {
			fx.send(protocol.ClearBoard{})
		}

	case SendChat:
		text := strings.TrimSpace(ev.Text)
		if text == "" || s.Phase != PhaseJoined {
			break
		}
		chat := protocol.Chat{User: s.Identity, Text: text, Time: ev.At.Format("15:04")}
		s.Chat = append(s.Chat, chat)
		fx.send(chat)

	case SendInvite:
		if s.Admin && s.Phase == PhaseJoined {
			to := ev.To
			if to == "" {
				to = protocol.InviteAll
			}
			fx.send(protocol.Invite{From: s.Identity, To: to})
		}

	case DismissInvite:
		s.Invite = nil

	case TerminateRequest:
		if s.Admin && s.Phase == PhaseJoined {
			fx.send(protocol.Terminate{})
		}

	case RunFinished:
		s.Output = ev.Output
		if s.Phase == PhaseJoined {
			fx.send(protocol.Output{Output: ev.Output, Time: ev.Time})
		}
	}

	return fx
}

func applyRemote(s *Session, msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.Init:
		s.Phase = PhaseJoined
		s.SessionID = m.SessionID
		s.Identity = m.Username
		s.Admin = m.Admin
		s.Language = m.Language
		if !s.Suppress {
			replaceText(s, m.Code)
		}
		s.Mirror.Clear()
		for _, shape := range m.Shapes {
			s.Mirror.Append(shape)
		}
		s.Pending = nil
		s.Chat = append([]protocol.Chat(nil), m.Chat...)

	case protocol.Users:
		s.Users = m.List

	case protocol.Draw:
		if !m.Tool.Valid() {
			return
		}
		if m.Origin != "" && m.Origin == s.SessionID && len(s.Pending) > 0 {
			s.Pending = s.Pending[1:]
		}
		s.Mirror.Append(m.Shape)

	case protocol.Undo:
		if s.Mirror.Len() > 0 {
			_, _ = s.Mirror.PopLastN(1)
		}

	case protocol.ClearBoard:
		s.Mirror.Clear()

	case protocol.Code:
		// a pending local edit wins; it reaches the hub after this update
		if s.Suppress {
			return
		}
		replaceText(s, m.Code)

	case protocol.Language:
		if m.Language != "" {
			s.Language = m.Language
		}

	case protocol.Chat:
		s.Chat = append(s.Chat, m)

	case protocol.Output:
		s.Output = m.Output

	case protocol.Invite:
		if m.Addressed(s.Identity) {
			invite := m
			s.Invite = &invite
		}

	case protocol.Terminate:
		s.Phase = PhaseTerminated
		s.Pending = nil
		s.gesture = gesture{}
		s.notice("Room terminated")

	case protocol.Admin:
		s.Admin = m.User == s.Identity
		s.notice(m.User + " is now admin")

	case protocol.ErrorNotice:
		s.notice(m.Message)
	}
}

// replaceText swaps in a remote buffer. The caret keeps its offset, clamped
// to the new text.
func replaceText(s *Session, text string) {
	if text == s.Text {
		return
	}
	s.Text = text
	if n := utf8.RuneCountInString(text); s.Caret > n {
		s.Caret = n
	}
}

func pointerDown(s *Session, ev PointerDown) {
	if ev.Pan {
		s.gesture = gesture{mode: gesturePan, last: canvas.Point{X: ev.X, Y: ev.Y}}
		return
	}
	if s.Phase != PhaseJoined {
		return
	}

	at := s.View.ToWorld(ev.X, ev.Y)
	s.gesture = gesture{mode: gestureDraw, start: at, last: at}
}

func pointerMove(s *Session, ev PointerMove, fx *Effects) {
	switch s.gesture.mode {
	case gesturePan:
		s.View.Pan(ev.X-s.gesture.last.X, ev.Y-s.gesture.last.Y)
		s.gesture.last.X, s.gesture.last.Y = ev.X, ev.Y

	case gestureDraw:
		at := s.View.ToWorld(ev.X, ev.Y)
		if s.Tool.IsSegment() {
			drawLocal(s, fx, domain.Shape{
				Tool:  s.Tool,
				Color: s.Color,
				X0:    s.gesture.last.X,
				Y0:    s.gesture.last.Y,
				X1:    at.X,
				Y1:    at.Y,
			})
			s.gesture.segments++
		}
		s.gesture.last = at
	}
}

func pointerUp(s *Session, ev PointerUp, fx *Effects) {
	g := s.gesture
	s.gesture = gesture{}

	if g.mode != gestureDraw {
		return
	}

	if s.Tool.IsSegment() {
		if g.segments > 0 {
			fx.send(protocol.StrokeEnd{})
		}
		return
	}

	at := s.View.ToWorld(ev.X, ev.Y)
	drawLocal(s, fx, domain.Shape{
		Tool:  s.Tool,
		Color: s.Color,
		X0:    g.start.X,
		Y0:    g.start.Y,
		X1:    at.X,
		Y1:    at.Y,
	})
}

// drawLocal shows shape at once and sends it. It stays pending until the
// hub echoes it back in canonical order.
func drawLocal(s *Session, fx *Effects, shape domain.Shape) {
	s.Pending = append(s.Pending, shape)
	fx.send(protocol.Draw{Shape: shape})
}
