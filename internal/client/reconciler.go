package client

import (
	"context"
	"sync"
	"time"

	"github.com/hilthontt/codeboard/internal/infrastructure/logging"
	"github.com/hilthontt/codeboard/internal/protocol"
)

// Reconciler drives a Session: it serializes events into Apply, sends the
// resulting frames and runs the document debounce timer.
type Reconciler struct {
	mu        sync.Mutex
	session   *Session
	transport Transport
	debounce  *Debouncer
	logger    logging.Logger
	changed   chan struct{}
}

func NewReconciler(session *Session, debounce time.Duration, logger logging.Logger) *Reconciler {
	r := &Reconciler{
		session: session,
		logger:  logger,
		changed: make(chan struct{}, 1),
	}
	r.debounce = NewDebouncer(debounce, func() { r.Handle(FlushDue{}) })
	return r
}

// Handle applies ev and performs its effects.
func (r *Reconciler) Handle(ev Event) {
	if chat, ok := ev.(SendChat); ok && chat.At.IsZero() {
		chat.At = time.Now()
		ev = chat
	}

	r.mu.Lock()
	fx := Apply(r.session, ev)
	for _, msg := range fx.Send {
		if r.transport == nil || !r.transport.Send(msg) {
			r.logger.Debug(logging.Websocket, logging.WriteFrame, "frame dropped, not connected", map[logging.ExtraKey]any{
				logging.MessageType: msg.Type(),
			})
		}
	}
	if fx.Debounce {
		r.debounce.Trigger()
	}
	r.mu.Unlock()

	select {
	case r.changed <- struct{}{}:
	default:
	}
}

// Changed signals after events were applied. Signals coalesce.
func (r *Reconciler) Changed() <-chan struct{} {
	return r.changed
}

// View runs fn with the session locked. fn must not keep references to it.
func (r *Reconciler) View(fn func(s *Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.session)
}

// Connect dials url and processes the connection until it closes or ctx is
// done.
func (r *Reconciler) Connect(ctx context.Context, url string) error {
	t, err := Dial(ctx, url, r.logger)
	if err != nil {
		r.Handle(Disconnected{Err: err})
		return err
	}
	return r.Serve(ctx, t)
}

// Serve runs the session over an established transport.
func (r *Reconciler) Serve(ctx context.Context, t *WSTransport) error {
	r.mu.Lock()
	r.transport = t
	r.mu.Unlock()

	r.Handle(Connected{})
	err := t.Run(ctx, func(msg protocol.Message) {
		r.Handle(Remote{Msg: msg})
	})

	r.mu.Lock()
	r.transport = nil
	r.mu.Unlock()
	r.debounce.Stop()
	r.Handle(Disconnected{Err: err})

	return err
}
