package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hilthontt/codeboard/internal/domain"
	"github.com/hilthontt/codeboard/internal/infrastructure/events"
	"github.com/hilthontt/codeboard/internal/infrastructure/logging"
	"github.com/hilthontt/codeboard/internal/infrastructure/metrics"
	"github.com/hilthontt/codeboard/internal/infrastructure/ws"
	"github.com/hilthontt/codeboard/internal/protocol"
	"go.uber.org/zap"
)

type recordingTransport struct {
	mu   sync.Mutex
	sent []protocol.Message
}

func (t *recordingTransport) Send(msg protocol.Message) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, msg)
	return true
}

func (t *recordingTransport) codes() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []string
	for _, m := range t.sent {
		if c, ok := m.(protocol.Code); ok {
			out = append(out, c.Code)
		}
	}
	return out
}

func nopLogger() logging.Logger {
	return logging.NewZapLoggerFrom(zap.NewNop())
}

func TestRapidEditsFlushOnce(t *testing.T) {
	s := NewSession("r1", "ana", false)
	Apply(s, Remote{Msg: protocol.Init{SessionID: "s1", Username: "ana"}})

	transport := &recordingTransport{}
	r := NewReconciler(s, 50*time.Millisecond, nopLogger())
	r.transport = transport

	text := ""
	for _, ch := range "fn main" {
		text += string(ch)
		r.Handle(LocalEdit{Text: text, Caret: len(text)})
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(200 * time.Millisecond)

	codes := transport.codes()
	if len(codes) != 1 || codes[0] != "fn main" {
		t.Fatalf("flushes = %q, want exactly one with the final text", codes)
	}
}

func TestSendWithoutTransportIsDropped(t *testing.T) {
	s := NewSession("r1", "ana", false)
	Apply(s, Remote{Msg: protocol.Init{SessionID: "s1", Username: "ana"}})

	r := NewReconciler(s, 0, nopLogger())
	r.Handle(LocalLanguage{Language: "python"})

	r.View(func(s *Session) {
		if s.Language != "python" {
			t.Fatalf("language = %q", s.Language)
		}
	})
}

func waitFor(t *testing.T, r *Reconciler, cond func(s *Session) bool) {
	t.Helper()

	deadline := time.After(3 * time.Second)
	for {
		ok := false
		r.View(func(s *Session) { ok = cond(s) })
		if ok {
			return
		}
		select {
		case <-r.Changed():
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatal("condition not reached")
		}
	}
}

func TestMirrorsConvergeThroughHub(t *testing.T) {
	hub := ws.NewHub(ws.Options{}, nopLogger(), metrics.New(), events.NopPublisher{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, strings.TrimPrefix(r.URL.Path, "/ws/"))
	}))
	defer srv.Close()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/board"

	a := NewReconciler(NewSession("board", "ana", true), 20*time.Millisecond, nopLogger())
	go func() { _ = a.Connect(ctx, url) }()
	waitFor(t, a, func(s *Session) bool { return s.Phase == PhaseJoined })

	b := NewReconciler(NewSession("board", "bob", false), 20*time.Millisecond, nopLogger())
	go func() { _ = b.Connect(ctx, url) }()
	waitFor(t, b, func(s *Session) bool { return s.Phase == PhaseJoined })

	a.Handle(SelectTool{Tool: domain.ToolRect})
	a.Handle(PointerDown{X: 10, Y: 10})
	a.Handle(PointerUp{X: 50, Y: 40})
	waitFor(t, a, func(s *Session) bool { return s.Mirror.Len() == 1 && len(s.Pending) == 0 })

	for i := 0; i < 4; i++ {
		b.Handle(PointerDown{X: float64(i), Y: 0})
		b.Handle(PointerMove{X: float64(i) + 1, Y: 1})
		b.Handle(PointerMove{X: float64(i) + 2, Y: 2})
		b.Handle(PointerUp{X: float64(i) + 2, Y: 2})
	}
	a.Handle(LocalEdit{Text: "print(1)", Caret: 8})

	waitFor(t, a, func(s *Session) bool { return s.Mirror.Len() == 9 && len(s.Pending) == 0 })
	waitFor(t, b, func(s *Session) bool { return s.Mirror.Len() == 9 && len(s.Pending) == 0 && s.Text == "print(1)" })

	var mirrorA, mirrorB []domain.Shape
	a.View(func(s *Session) { mirrorA = s.Mirror.Snapshot() })
	b.View(func(s *Session) { mirrorB = s.Mirror.Snapshot() })
	for i := range mirrorA {
		if mirrorA[i] != mirrorB[i] {
			t.Fatalf("mirrors differ at %d: %+v vs %+v", i, mirrorA[i], mirrorB[i])
		}
	}

	summary, err := hub.Summary(context.Background(), "board")
	if err != nil {
		t.Fatal(err)
	}
	if summary.Shapes != 9 {
		t.Fatalf("hub shapes = %d, want 9", summary.Shapes)
	}

	b.Handle(UndoRequest{})
	waitFor(t, a, func(s *Session) bool { return s.Mirror.Len() == 7 })
}
