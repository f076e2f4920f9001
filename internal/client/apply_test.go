package client

import (
	"testing"
	"time"

	"github.com/hilthontt/codeboard/internal/domain"
	"github.com/hilthontt/codeboard/internal/protocol"
)

func joined(t *testing.T, admin bool) *Session {
	t.Helper()

	s := NewSession("r1", "ana", false)
	Apply(s, Connected{})
	Apply(s, Remote{Msg: protocol.Init{SessionID: "s1", Username: "ana", Admin: admin, Language: "cpp"}})
	if s.Phase != PhaseJoined {
		t.Fatalf("phase = %v, want joined", s.Phase)
	}
	return s
}

func draws(fx Effects) []protocol.Draw {
	var out []protocol.Draw
	for _, m := range fx.Send {
		if d, ok := m.(protocol.Draw); ok {
			out = append(out, d)
		}
	}
	return out
}

func TestConnectedCreatesThenJoins(t *testing.T) {
	s := NewSession("r1", "ana", true)
	fx := Apply(s, Connected{})

	if len(fx.Send) != 2 {
		t.Fatalf("sent %d frames, want 2", len(fx.Send))
	}
	if _, ok := fx.Send[0].(protocol.Create); !ok {
		t.Fatalf("first frame = %#v", fx.Send[0])
	}
	if j, ok := fx.Send[1].(protocol.Join); !ok || j.Username != "ana" {
		t.Fatalf("second frame = %#v", fx.Send[1])
	}
}

func TestRectangleUsesWorldCoordinates(t *testing.T) {
	s := joined(t, false)

	Apply(s, PointerDown{X: 0, Y: 0, Pan: true})
	Apply(s, PointerMove{X: 100, Y: 50})
	Apply(s, PointerUp{X: 100, Y: 50})

	Apply(s, SelectTool{Tool: domain.ToolRect})
	Apply(s, PointerDown{X: 110, Y: 60})
	if fx := Apply(s, PointerMove{X: 130, Y: 70}); len(fx.Send) != 0 {
		t.Fatal("dragging a rectangle must not send anything")
	}
	if _, ok := s.Preview(); !ok {
		t.Fatal("expected a preview while dragging")
	}

	fx := Apply(s, PointerUp{X: 150, Y: 90})
	got := draws(fx)
	want := domain.Shape{Tool: domain.ToolRect, Color: "#000000", X0: 10, Y0: 10, X1: 50, Y1: 40}
	if len(got) != 1 || got[0].Shape != want {
		t.Fatalf("draws = %+v, want %+v", got, want)
	}
	if len(s.Pending) != 1 || s.Mirror.Len() != 0 {
		t.Fatalf("pending=%d mirror=%d", len(s.Pending), s.Mirror.Len())
	}
}

func TestFreehandGestureIsOneStroke(t *testing.T) {
	s := joined(t, false)

	var sent []protocol.Message
	sent = append(sent, Apply(s, PointerDown{X: 0, Y: 0}).Send...)
	for i := 1; i <= 5; i++ {
		sent = append(sent, Apply(s, PointerMove{X: float64(i), Y: float64(i)}).Send...)
	}
	sent = append(sent, Apply(s, PointerUp{X: 5, Y: 5}).Send...)

	if len(sent) != 6 {
		t.Fatalf("sent %d frames, want 5 draws and stroke_end", len(sent))
	}
	for i, m := range sent[:5] {
		d, ok := m.(protocol.Draw)
		if !ok || d.X0 != float64(i) || d.X1 != float64(i+1) {
			t.Fatalf("frame %d = %#v", i, m)
		}
	}
	if _, ok := sent[5].(protocol.StrokeEnd); !ok {
		t.Fatalf("last frame = %#v", sent[5])
	}
}

func TestClickWithoutMoveSendsNothing(t *testing.T) {
	s := joined(t, false)

	Apply(s, PointerDown{X: 1, Y: 1})
	if fx := Apply(s, PointerUp{X: 1, Y: 1}); len(fx.Send) != 0 {
		t.Fatalf("sent %v", fx.Send)
	}
}

func TestMirrorFollowsHubOrder(t *testing.T) {
	s := joined(t, false)

	mine := domain.Shape{Tool: domain.ToolLine, X1: 1}
	theirs := domain.Shape{Tool: domain.ToolCircle, X1: 2}

	Apply(s, SelectTool{Tool: domain.ToolLine})
	Apply(s, PointerDown{X: 0, Y: 0})
	Apply(s, PointerUp{X: 1, Y: 0})

	Apply(s, Remote{Msg: protocol.Draw{Shape: theirs, Origin: "s2"}})
	if shapes := s.Shapes(); len(shapes) != 2 || shapes[0] != theirs || shapes[1].Tool != domain.ToolLine {
		t.Fatalf("shapes before echo = %+v", shapes)
	}

	Apply(s, Remote{Msg: protocol.Draw{Shape: mine, Origin: "s1"}})
	if len(s.Pending) != 0 {
		t.Fatalf("pending = %+v", s.Pending)
	}
	got := s.Mirror.Snapshot()
	if len(got) != 2 || got[0] != theirs || got[1] != mine {
		t.Fatalf("mirror = %+v", got)
	}
}

func TestUndoAndClearFollowHub(t *testing.T) {
	s := joined(t, false)
	for i := 0; i < 3; i++ {
		Apply(s, Remote{Msg: protocol.Draw{Shape: domain.Shape{Tool: domain.ToolPen, X0: float64(i)}}})
	}

	if fx := Apply(s, UndoRequest{}); len(fx.Send) != 1 || s.Mirror.Len() != 3 {
		t.Fatal("undo request must wait for the hub")
	}

	Apply(s, Remote{Msg: protocol.Undo{}})
	Apply(s, Remote{Msg: protocol.Undo{}})
	if s.Mirror.Len() != 1 {
		t.Fatalf("mirror len = %d, want 1", s.Mirror.Len())
	}

	Apply(s, Remote{Msg: protocol.ClearBoard{}})
	Apply(s, Remote{Msg: protocol.Undo{}})
	if s.Mirror.Len() != 0 {
		t.Fatalf("mirror len = %d after clear", s.Mirror.Len())
	}
}

func TestPendingEditSuppressesRemoteCode(t *testing.T) {
	s := joined(t, false)

	fx := Apply(s, LocalEdit{Text: "mine", Caret: 4})
	if !fx.Debounce || len(fx.Send) != 0 {
		t.Fatalf("local edit effects = %+v", fx)
	}

	Apply(s, Remote{Msg: protocol.Code{Code: "theirs", Origin: "s2"}})
	if s.Text != "mine" {
		t.Fatalf("text = %q, remote update must not clobber a pending edit", s.Text)
	}

	fx = Apply(s, FlushDue{})
	if len(fx.Send) != 1 || fx.Send[0].(protocol.Code).Code != "mine" {
		t.Fatalf("flush sent %+v", fx.Send)
	}
	if s.Suppress || s.Dirty {
		t.Fatal("flags should clear after flush")
	}

	Apply(s, Remote{Msg: protocol.Code{Code: "mine", Origin: "s1"}})
	Apply(s, Remote{Msg: protocol.Code{Code: "theirs again", Origin: "s2"}})
	if s.Text != "theirs again" {
		t.Fatalf("text = %q", s.Text)
	}
}

func TestFlushWithoutEditSendsNothing(t *testing.T) {
	s := joined(t, false)
	if fx := Apply(s, FlushDue{}); len(fx.Send) != 0 {
		t.Fatalf("sent %v", fx.Send)
	}
}

func TestRemoteCodeKeepsCaret(t *testing.T) {
	s := joined(t, false)
	s.Text, s.Caret = "hello", 3

	Apply(s, Remote{Msg: protocol.Code{Code: "hello world"}})
	if s.Caret != 3 {
		t.Fatalf("caret = %d, want 3", s.Caret)
	}

	Apply(s, Remote{Msg: protocol.Code{Code: "hé"}})
	if s.Caret != 2 {
		t.Fatalf("caret = %d, want 2", s.Caret)
	}
}

func TestLanguageIsSentImmediately(t *testing.T) {
	s := joined(t, false)

	fx := Apply(s, LocalLanguage{Language: "python"})
	if fx.Debounce || len(fx.Send) != 1 || fx.Send[0].(protocol.Language).Language != "python" {
		t.Fatalf("effects = %+v", fx)
	}
	if fx := Apply(s, LocalLanguage{Language: "python"}); len(fx.Send) != 0 {
		t.Fatal("unchanged language should not be resent")
	}

	Apply(s, Remote{Msg: protocol.Language{Language: "javascript"}})
	if s.Language != "javascript" {
		t.Fatalf("language = %q", s.Language)
	}
}

func TestChatIsAppendedLocally(t *testing.T) {
	s := joined(t, false)
	at := time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC)

	fx := Apply(s, SendChat{Text: "  hi ", At: at})
	want := protocol.Chat{User: "ana", Text: "hi", Time: "09:05"}
	if len(fx.Send) != 1 || fx.Send[0] != want {
		t.Fatalf("sent %+v", fx.Send)
	}
	if len(s.Chat) != 1 || s.Chat[0] != want {
		t.Fatalf("chat = %+v", s.Chat)
	}

	if fx := Apply(s, SendChat{Text: "   ", At: at}); len(fx.Send) != 0 {
		t.Fatal("blank chat should be ignored")
	}
}

func TestInviteAddressing(t *testing.T) {
	tests := []struct {
		name   string
		invite protocol.Invite
		shown  bool
	}{
		{"everyone", protocol.Invite{From: "bob", To: protocol.InviteAll}, true},
		{"by name", protocol.Invite{From: "bob", To: "ana"}, true},
		{"someone else", protocol.Invite{From: "bob", To: "cy"}, false},
		{"own invite", protocol.Invite{From: "ana", To: protocol.InviteAll}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := joined(t, false)
			Apply(s, Remote{Msg: tt.invite})
			if (s.Invite != nil) != tt.shown {
				t.Fatalf("invite shown = %v, want %v", s.Invite != nil, tt.shown)
			}
		})
	}
}

func TestAdminActionsAreGated(t *testing.T) {
	member := joined(t, false)
	if fx := Apply(member, TerminateRequest{}); len(fx.Send) != 0 {
		t.Fatal("member should not send terminate")
	}
	if fx := Apply(member, SendInvite{To: "bob"}); len(fx.Send) != 0 {
		t.Fatal("member should not send invite")
	}

	admin := joined(t, true)
	fx := Apply(admin, SendInvite{})
	if inv, ok := fx.Send[0].(protocol.Invite); !ok || inv.To != protocol.InviteAll || inv.From != "ana" {
		t.Fatalf("invite = %#v", fx.Send[0])
	}
	if fx := Apply(admin, TerminateRequest{}); len(fx.Send) != 1 {
		t.Fatal("admin should send terminate")
	}
}

func TestTerminateEndsSession(t *testing.T) {
	s := joined(t, true)

	Apply(s, Remote{Msg: protocol.Terminate{}})
	Apply(s, Disconnected{})

	if s.Phase != PhaseTerminated {
		t.Fatalf("phase = %v", s.Phase)
	}
	if fx := Apply(s, UndoRequest{}); len(fx.Send) != 0 {
		t.Fatal("terminated session should not send")
	}
}

func TestAdminNoticeUpdatesFlag(t *testing.T) {
	s := joined(t, false)

	Apply(s, Remote{Msg: protocol.Admin{User: "ana"}})
	if !s.Admin {
		t.Fatal("expected admin after promotion")
	}
	if len(s.Notices) == 0 {
		t.Fatal("expected a notice")
	}
}

func TestWheelZoomsAroundCursor(t *testing.T) {
	s := joined(t, false)

	before := s.View.ToWorld(200, 120)
	Apply(s, Wheel{X: 200, Y: 120, DeltaY: -100})
	after := s.View.ToWorld(200, 120)

	if s.View.Scale() <= 1 {
		t.Fatalf("scale = %v, want zoomed in", s.View.Scale())
	}
	if diff := before.X - after.X + before.Y - after.Y; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("world point moved: %+v -> %+v", before, after)
	}
}
