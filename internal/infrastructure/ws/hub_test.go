package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hilthontt/codeboard/internal/domain"
	"github.com/hilthontt/codeboard/internal/infrastructure/logging"
	"github.com/hilthontt/codeboard/internal/infrastructure/metrics"
	"github.com/hilthontt/codeboard/internal/protocol"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.RoomEventType
}

func (p *recordingPublisher) Publish(_ context.Context, e *domain.RoomEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e.EventType)
	return nil
}

func (p *recordingPublisher) has(t domain.RoomEventType) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.events {
		if e == t {
			return true
		}
	}
	return false
}

func newTestHub(t *testing.T, opts Options) (*Hub, *httptest.Server, *recordingPublisher) {
	t.Helper()

	pub := &recordingPublisher{}
	hub := NewHub(opts, logging.NewZapLoggerFrom(zap.NewNop()), metrics.New(), pub)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, strings.TrimPrefix(r.URL.Path, "/ws/"))
	}))

	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv, pub
}

func dial(t *testing.T, srv *httptest.Server, roomID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + roomID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg protocol.Message) {
	t.Helper()

	frame, err := protocol.Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func next(t *testing.T, conn *websocket.Conn) protocol.Message {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	msg, err := protocol.Decode(data)
	if err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return msg
}

// await reads until a frame of type typ arrives and returns it together with
// every frame skipped on the way.
func await(t *testing.T, conn *websocket.Conn, typ protocol.Type) (protocol.Message, []protocol.Message) {
	t.Helper()

	var skipped []protocol.Message
	for {
		msg := next(t, conn)
		if msg.Type() == typ {
			return msg, skipped
		}
		skipped = append(skipped, msg)
	}
}

// open creates roomID and joins it as name.
func open(t *testing.T, srv *httptest.Server, roomID, name string) (*websocket.Conn, protocol.Init) {
	t.Helper()

	conn := dial(t, srv, roomID)
	send(t, conn, protocol.Create{})
	return conn, join(t, conn, name)
}

func join(t *testing.T, conn *websocket.Conn, name string) protocol.Init {
	t.Helper()

	send(t, conn, protocol.Join{Username: name})
	msg, _ := await(t, conn, protocol.TypeInit)
	return msg.(protocol.Init)
}

func TestMissingRoomRequiresCreate(t *testing.T) {
	hub, srv, _ := newTestHub(t, Options{})

	conn := dial(t, srv, "nowhere")
	send(t, conn, protocol.Join{Username: "ana"})

	msg := next(t, conn)
	notice, ok := msg.(protocol.ErrorNotice)
	if !ok || notice.Message != NoticeRoomMissing {
		t.Fatalf("first frame = %#v", msg)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected connection to close")
	}
	if hub.Len() != 0 {
		t.Fatalf("rooms = %d, want 0", hub.Len())
	}
}

func TestCreatorIsAdminAndLateJoinerIsNot(t *testing.T) {
	_, srv, pub := newTestHub(t, Options{})

	_, initA := open(t, srv, "r1", "ana")
	if !initA.Admin || initA.Language != domain.DefaultLanguage || initA.Code != "" {
		t.Fatalf("creator init = %+v", initA)
	}

	b := dial(t, srv, "r1")
	initB := join(t, b, "bob")
	if initB.Admin {
		t.Fatal("second member must not be admin")
	}
	if initB.SessionID == "" || initB.SessionID == initA.SessionID {
		t.Fatalf("session ids %q %q", initA.SessionID, initB.SessionID)
	}
	if !pub.has(domain.EventRoomCreated) || !pub.has(domain.EventMemberJoined) {
		t.Fatalf("events = %v", pub.events)
	}
}

func TestJoinBroadcastsUsersInOrder(t *testing.T) {
	_, srv, _ := newTestHub(t, Options{})

	a, _ := open(t, srv, "r1", "ana")
	b := dial(t, srv, "r1")
	join(t, b, "ana")

	msg, _ := await(t, a, protocol.TypeUsers)
	users := msg.(protocol.Users)
	want := []string{"ana", "ana (2)"}
	if len(users.List) != 2 || users.List[0] != want[0] || users.List[1] != want[1] {
		t.Fatalf("users = %v, want %v", users.List, want)
	}
}

func TestRectangleReachesOtherMember(t *testing.T) {
	_, srv, _ := newTestHub(t, Options{})

	a, initA := open(t, srv, "r1", "ana")
	b := dial(t, srv, "r1")
	join(t, b, "bob")

	rect := domain.Shape{Tool: domain.ToolRect, Color: "#000000", X0: 10, Y0: 10, X1: 50, Y1: 40}
	send(t, a, protocol.Draw{Shape: rect})

	msg, _ := await(t, b, protocol.TypeDraw)
	draw := msg.(protocol.Draw)
	if draw.Shape != rect {
		t.Fatalf("shape = %+v, want %+v", draw.Shape, rect)
	}
	if draw.Origin != initA.SessionID {
		t.Fatalf("origin = %q, want %q", draw.Origin, initA.SessionID)
	}

	echo, _ := await(t, a, protocol.TypeDraw)
	if echo.(protocol.Draw).Origin != initA.SessionID {
		t.Fatal("sender should receive its own draw with its origin")
	}
}

func TestChatExcludesSender(t *testing.T) {
	_, srv, _ := newTestHub(t, Options{})

	a, _ := open(t, srv, "r1", "ana")
	b := dial(t, srv, "r1")
	join(t, b, "bob")

	send(t, a, protocol.Chat{Text: "hi"})
	send(t, a, protocol.Language{Language: "python"})

	msg, _ := await(t, b, protocol.TypeChat)
	chat := msg.(protocol.Chat)
	if chat.Text != "hi" || chat.User != "ana" || chat.Time == "" {
		t.Fatalf("chat = %+v", chat)
	}

	_, skipped := await(t, a, protocol.TypeLanguage)
	for _, m := range skipped {
		if m.Type() == protocol.TypeChat {
			t.Fatal("sender received its own chat")
		}
	}
}

func TestUndoRemovesWholeStroke(t *testing.T) {
	_, srv, _ := newTestHub(t, Options{})

	a, _ := open(t, srv, "r1", "ana")
	b := dial(t, srv, "r1")
	join(t, b, "bob")

	const k = 7
	for i := 0; i < k; i++ {
		send(t, a, protocol.Draw{Shape: domain.Shape{Tool: domain.ToolPen, Color: "#ff0000", X0: float64(i), X1: float64(i + 1)}})
	}
	send(t, a, protocol.StrokeEnd{})
	send(t, a, protocol.Undo{})
	send(t, a, protocol.Language{Language: "c"})

	_, skipped := await(t, b, protocol.TypeLanguage)
	draws, undos := 0, 0
	for _, m := range skipped {
		switch m.Type() {
		case protocol.TypeDraw:
			draws++
		case protocol.TypeUndo:
			undos++
		}
	}
	if draws != k || undos != k {
		t.Fatalf("draws=%d undos=%d, want %d each", draws, undos, k)
	}

	send(t, a, protocol.Redo{})
	send(t, a, protocol.Language{Language: "cpp"})
	_, skipped = await(t, b, protocol.TypeLanguage)
	redrawn := 0
	for _, m := range skipped {
		if d, ok := m.(protocol.Draw); ok {
			if d.Origin != "" || d.X0 != float64(redrawn) {
				t.Fatalf("redo draw %d = %+v", redrawn, d)
			}
			redrawn++
		}
	}
	if redrawn != k {
		t.Fatalf("redo redrew %d shapes, want %d", redrawn, k)
	}
}

func TestClearThenUndoIsNoop(t *testing.T) {
	_, srv, _ := newTestHub(t, Options{})

	a, _ := open(t, srv, "r1", "ana")
	send(t, a, protocol.Draw{Shape: domain.Shape{Tool: domain.ToolLine, X1: 1}})
	send(t, a, protocol.ClearBoard{})
	send(t, a, protocol.Undo{})
	send(t, a, protocol.Language{Language: "c"})

	_, skipped := await(t, a, protocol.TypeLanguage)
	for _, m := range skipped {
		if m.Type() == protocol.TypeUndo {
			t.Fatal("undo after clear must not remove anything")
		}
	}

	c := dial(t, srv, "r1")
	if init := join(t, c, "cy"); len(init.Shapes) != 0 {
		t.Fatalf("late joiner shapes = %v", init.Shapes)
	}
}

func TestLateJoinerReceivesCanonicalState(t *testing.T) {
	_, srv, _ := newTestHub(t, Options{})

	a, _ := open(t, srv, "r1", "ana")
	send(t, a, protocol.Code{Code: "int main() {}"})
	send(t, a, protocol.Chat{Text: "welcome"})
	send(t, a, protocol.Draw{Shape: domain.Shape{Tool: domain.ToolCircle, X1: 3}})
	await(t, a, protocol.TypeDraw)

	b := dial(t, srv, "r1")
	init := join(t, b, "bob")
	if init.Code != "int main() {}" || len(init.Shapes) != 1 || len(init.Chat) != 1 {
		t.Fatalf("init = %+v", init)
	}
}

func TestTerminateClosesEveryone(t *testing.T) {
	hub, srv, pub := newTestHub(t, Options{})

	a, _ := open(t, srv, "r1", "ana")
	b := dial(t, srv, "r1")
	join(t, b, "bob")

	send(t, a, protocol.Terminate{})

	for _, conn := range []*websocket.Conn{a, b} {
		await(t, conn, protocol.TypeTerminate)
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := conn.ReadMessage(); err == nil {
			t.Fatal("expected connection to close after terminate")
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("room should be gone after terminate")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !pub.has(domain.EventRoomTerminated) {
		t.Fatal("terminate event not published")
	}
}

func TestEnforceAdminIgnoresMemberTerminate(t *testing.T) {
	_, srv, _ := newTestHub(t, Options{EnforceAdmin: true})

	a, _ := open(t, srv, "r1", "ana")
	b := dial(t, srv, "r1")
	join(t, b, "bob")

	send(t, b, protocol.Terminate{})
	send(t, b, protocol.Chat{Text: "still here"})

	_, skipped := await(t, a, protocol.TypeChat)
	for _, m := range skipped {
		if m.Type() == protocol.TypeTerminate {
			t.Fatal("non-admin terminate should be ignored")
		}
	}
}

func TestAdminSlotPromotion(t *testing.T) {
	_, srv, _ := newTestHub(t, Options{PromoteOnAdminLeave: true})

	a, _ := open(t, srv, "r1", "ana")
	b := dial(t, srv, "r1")
	join(t, b, "bob")

	_ = a.Close()

	msg, _ := await(t, b, protocol.TypeAdmin)
	if msg.(protocol.Admin).User != "bob" {
		t.Fatalf("promoted = %+v", msg)
	}
}

func TestAdminSlotStaysVacantByDefault(t *testing.T) {
	hub, srv, _ := newTestHub(t, Options{})

	a, _ := open(t, srv, "r1", "ana")
	b := dial(t, srv, "r1")
	join(t, b, "bob")

	_ = a.Close()
	msg, _ := await(t, b, protocol.TypeUsers)
	if list := msg.(protocol.Users).List; len(list) != 1 || list[0] != "bob" {
		t.Fatalf("users = %v", list)
	}

	summary, err := hub.Summary(context.Background(), "r1")
	if err != nil {
		t.Fatal(err)
	}
	if summary.Admin != "" {
		t.Fatalf("admin = %q, want vacant", summary.Admin)
	}
}

func TestRoomFull(t *testing.T) {
	_, srv, pub := newTestHub(t, Options{MaxMembers: 1})

	open(t, srv, "r1", "ana")

	b := dial(t, srv, "r1")
	msg := next(t, b)
	if notice, ok := msg.(protocol.ErrorNotice); !ok || notice.Message != NoticeRoomFull {
		t.Fatalf("frame = %#v", msg)
	}
	if !pub.has(domain.EventRoomFull) {
		t.Fatal("room full event not published")
	}
}

func TestMalformedFramesAreIgnored(t *testing.T) {
	_, srv, _ := newTestHub(t, Options{})

	a, _ := open(t, srv, "r1", "ana")
	for _, raw := range []string{"{", `{"type":"dance"}`, `{"type":"draw","x0":"left"}`} {
		if err := a.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
			t.Fatal(err)
		}
	}
	send(t, a, protocol.Language{Language: "python"})

	msg, _ := await(t, a, protocol.TypeLanguage)
	if msg.(protocol.Language).Language != "python" {
		t.Fatalf("language = %+v", msg)
	}
}

func TestEmptyRoomExpires(t *testing.T) {
	hub, srv, pub := newTestHub(t, Options{IdleTTL: 50 * time.Millisecond})

	a, _ := open(t, srv, "r1", "ana")
	_ = a.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("empty room was not evicted")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !pub.has(domain.EventRoomExpired) {
		t.Fatal("expiry event not published")
	}
}
