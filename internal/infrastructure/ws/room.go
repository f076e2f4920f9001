package ws

import (
	"context"
	"errors"
	"time"

	"github.com/hilthontt/codeboard/internal/domain"
	"github.com/hilthontt/codeboard/internal/infrastructure/logging"
	"github.com/hilthontt/codeboard/internal/protocol"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Commands accepted by a room actor.
type (
	attachCmd struct {
		client *Client
		admin  bool
		reply  chan error
	}
	detachCmd struct {
		client *Client
	}
	inboundCmd struct {
		client *Client
		msg    protocol.Message
	}
	summaryCmd struct {
		reply chan domain.RoomSummary
	}
)

// roomActor owns one Room. Every mutation of the room happens on its run
// goroutine, in inbox order, which is the order every client observes.
type roomActor struct {
	hub     *Hub
	room    *domain.Room
	clients map[string]*Client
	inbox   chan any
	done    chan struct{}
	idle    *time.Timer
}

func newRoomActor(h *Hub, room *domain.Room) *roomActor {
	return &roomActor{
		hub:     h,
		room:    room,
		clients: make(map[string]*Client),
		inbox:   make(chan any, h.opts.InboxSize),
		done:    make(chan struct{}),
	}
}

// submit queues cmd, blocking while the inbox is full. It reports false
// once the room has stopped.
func (r *roomActor) submit(cmd any) bool {
	select {
	case r.inbox <- cmd:
		return true
	case <-r.done:
		return false
	}
}

func (r *roomActor) attach(c *Client, admin bool) error {
	reply := make(chan error, 1)
	if !r.submit(attachCmd{client: c, admin: admin, reply: reply}) {
		return domain.ErrRoomClosed
	}
	select {
	case err := <-reply:
		return err
	case <-r.done:
		return domain.ErrRoomClosed
	}
}

func (r *roomActor) summary(ctx context.Context) (domain.RoomSummary, error) {
	reply := make(chan domain.RoomSummary, 1)
	select {
	case r.inbox <- summaryCmd{reply: reply}:
	case <-r.done:
		return domain.RoomSummary{}, domain.ErrRoomNotFound
	case <-ctx.Done():
		return domain.RoomSummary{}, ctx.Err()
	}

	select {
	case s := <-reply:
		return s, nil
	case <-r.done:
		return domain.RoomSummary{}, domain.ErrRoomNotFound
	case <-ctx.Done():
		return domain.RoomSummary{}, ctx.Err()
	}
}

func (r *roomActor) run() {
	defer r.hub.wg.Done()
	defer close(r.done)

	r.idle = time.NewTimer(r.hub.opts.IdleTTL)
	defer r.idle.Stop()

	for {
		select {
		case cmd := <-r.inbox:
			if !r.handle(cmd) {
				r.hub.remove(r)
				return
			}
			r.armIdle()

		case <-r.idle.C:
			if len(r.clients) > 0 {
				continue
			}
			r.hub.logger.Info(logging.Room, logging.Lifecycle, "room expired", map[logging.ExtraKey]any{
				logging.RoomID: r.room.ID,
			})
			r.publish(domain.NewRoomExpiredEvent(r.room.ID, r.hub.opts.IdleTTL))
			r.hub.remove(r)
			return

		case <-r.hub.quit:
			for id, c := range r.clients {
				c.closeSend()
				delete(r.clients, id)
				r.hub.metrics.ClientGone()
			}
			r.hub.remove(r)
			return
		}
	}
}

// armIdle runs the eviction timer only while the room is empty.
func (r *roomActor) armIdle() {
	if len(r.clients) == 0 {
		r.idle.Reset(r.hub.opts.IdleTTL)
		return
	}
	r.idle.Stop()
}

// handle applies one command and reports whether the room lives on.
func (r *roomActor) handle(cmd any) bool {
	switch cmd := cmd.(type) {
	case attachCmd:
		cmd.reply <- r.connect(cmd.client, cmd.admin)
	case detachCmd:
		r.leave(cmd.client)
	case summaryCmd:
		cmd.reply <- r.room.Summary()
	case inboundCmd:
		if _, ok := r.clients[cmd.client.ID]; !ok {
			return true
		}
		return r.dispatch(cmd.client, cmd.msg)
	}
	return true
}

func (r *roomActor) connect(c *Client, admin bool) error {
	if err := r.room.Presence.Connect(c.ID); err != nil {
		if errors.Is(err, domain.ErrRoomFull) {
			r.publish(domain.NewRoomFullEvent(r.room.ID, r.hub.opts.MaxMembers))
		}
		return err
	}
	if admin {
		_ = r.room.Presence.SetAdmin(c.ID)
	}

	r.clients[c.ID] = c
	r.hub.metrics.ClientAdded()
	return nil
}

// dispatch is the single entry point for client messages. It reports false
// when the message ended the room.
func (r *roomActor) dispatch(c *Client, msg protocol.Message) bool {
	_, span := r.hub.tracer.Start(context.Background(), "room.dispatch", trace.WithAttributes(
		attribute.String("room.id", r.room.ID),
		attribute.String("message.type", string(msg.Type())),
	))
	defer span.End()

	r.hub.metrics.MessageReceived(string(msg.Type()))

	switch m := msg.(type) {
	case protocol.Create:
		// room already exists; the connection just stays

	case protocol.Join:
		r.join(c, m)

	case protocol.Draw:
		if !m.Tool.Valid() {
			r.hub.metrics.MessageDropped("invalid_tool")
			return true
		}
		r.room.Strokes.Draw(c.ID, m.Shape)
		r.broadcast(protocol.Draw{Shape: m.Shape, Origin: c.ID}, nil)

	case protocol.StrokeEnd:
		r.room.Strokes.EndStroke(c.ID)

	case protocol.Undo:
		for range r.room.Strokes.Undo() {
			r.broadcast(protocol.Undo{}, nil)
		}

	case protocol.Redo:
		for _, s := range r.room.Strokes.Redo() {
			r.broadcast(protocol.Draw{Shape: s}, nil)
		}

	case protocol.ClearBoard:
		r.room.Strokes.Clear()
		r.broadcast(protocol.ClearBoard{}, nil)

	case protocol.Code:
		r.room.Document.SetCode(m.Code)
		r.broadcast(protocol.Code{Code: r.room.Document.Code, Origin: c.ID}, nil)

	case protocol.Language:
		if r.room.Document.SetLanguage(m.Language) {
			r.broadcast(protocol.Language{Language: r.room.Document.Language, Origin: c.ID}, nil)
		}

	case protocol.Chat:
		user := m.User
		if user == "" {
			user = r.room.Presence.Identity(c.ID)
		}
		entry := domain.NewChatMessage(user, m.Text, m.Time)
		r.room.Chat.Append(entry)
		r.broadcast(protocol.NewChatFromDomain(entry), c)

	case protocol.Output:
		r.broadcast(m, c)

	case protocol.Invite:
		if !r.authorized(c) {
			return true
		}
		if m.From == "" {
			m.From = r.room.Presence.Identity(c.ID)
		}
		if m.To == "" {
			m.To = protocol.InviteAll
		}
		r.broadcast(m, nil)

	case protocol.Terminate:
		if !r.authorized(c) {
			return true
		}
		r.terminate(c)
		return false

	default:
		// hub-to-client types are not accepted from clients
		r.hub.metrics.MessageDropped("unexpected_type")
	}

	return true
}

// authorized reports whether c may send admin actions.
func (r *roomActor) authorized(c *Client) bool {
	if !r.hub.opts.EnforceAdmin || r.room.Presence.IsAdmin(c.ID) {
		return true
	}
	r.hub.logger.Warn(logging.Room, logging.Dispatch, "admin action from non-admin ignored", map[logging.ExtraKey]any{
		logging.RoomID:    r.room.ID,
		logging.SessionID: c.ID,
	})
	return false
}

func (r *roomActor) join(c *Client, m protocol.Join) {
	name, err := domain.NormalizeUsername(m.Username)
	if err != nil {
		name = domain.DefaultIdentity
	}

	identity, err := r.room.Presence.Join(c.ID, name)
	if err != nil {
		return
	}

	r.hub.logger.Info(logging.Room, logging.Presence, "member joined", map[logging.ExtraKey]any{
		logging.RoomID:    r.room.ID,
		logging.SessionID: c.ID,
		logging.Identity:  identity,
	})
	r.publish(domain.NewMemberJoinedEvent(r.room.ID, identity, r.room.Presence.Len()))

	r.broadcast(protocol.Users{List: r.room.Presence.Names()}, nil)

	chat := r.room.Chat.Snapshot()
	history := make([]protocol.Chat, 0, len(chat))
	for _, entry := range chat {
		history = append(history, protocol.NewChatFromDomain(entry))
	}

	r.sendTo(c, protocol.Init{
		SessionID: c.ID,
		Username:  identity,
		Admin:     r.room.Presence.IsAdmin(c.ID),
		Code:      r.room.Document.Code,
		Language:  r.room.Document.Language,
		Shapes:    r.room.Shapes.Snapshot(),
		Chat:      history,
	})
}

// leave removes c from the room. Its in-flight stroke is committed so the
// stroke history stays within the log.
func (r *roomActor) leave(c *Client) {
	if _, ok := r.clients[c.ID]; !ok {
		return
	}

	identity := r.room.Presence.Identity(c.ID)
	delete(r.clients, c.ID)
	c.closeSend()
	r.hub.metrics.ClientGone()

	r.room.Strokes.Forget(c.ID)
	wasAdmin, err := r.room.Presence.Leave(c.ID)
	if err != nil {
		return
	}

	r.hub.logger.Info(logging.Room, logging.Presence, "member left", map[logging.ExtraKey]any{
		logging.RoomID:    r.room.ID,
		logging.SessionID: c.ID,
		logging.Identity:  identity,
	})
	r.publish(domain.NewMemberLeftEvent(r.room.ID, identity, r.room.Presence.Len(), wasAdmin))

	r.broadcast(protocol.Users{List: r.room.Presence.Names()}, nil)

	if wasAdmin && r.hub.opts.PromoteOnAdminLeave {
		if next, ok := r.room.Presence.PromoteEarliest(); ok {
			r.publish(domain.NewAdminPromotedEvent(r.room.ID, next.Identity()))
			r.broadcast(protocol.Admin{User: next.Identity()}, nil)
		}
	}
}

func (r *roomActor) terminate(by *Client) {
	identity := r.room.Presence.Identity(by.ID)
	r.hub.logger.Info(logging.Room, logging.Lifecycle, "room terminated", map[logging.ExtraKey]any{
		logging.RoomID:    r.room.ID,
		logging.SessionID: by.ID,
		logging.Identity:  identity,
	})
	r.publish(domain.NewRoomTerminatedEvent(r.room.ID, identity, len(r.clients)))

	r.broadcast(protocol.Terminate{}, nil)
	for id, c := range r.clients {
		c.closeSend()
		delete(r.clients, id)
		r.hub.metrics.ClientGone()
	}
}

// broadcast sends msg to every client except skip. Clients whose buffer is
// full are disconnected rather than skipped, so no mirror misses a frame.
func (r *roomActor) broadcast(msg protocol.Message, skip *Client) {
	frame, err := protocol.Encode(msg)
	if err != nil {
		r.hub.logger.Error(logging.Room, logging.Dispatch, "encode failed", map[logging.ExtraKey]any{
			logging.RoomID:       r.room.ID,
			logging.MessageType:  msg.Type(),
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	var slow []*Client
	for _, c := range r.clients {
		if c == skip {
			continue
		}
		if !c.enqueue(frame) {
			slow = append(slow, c)
		}
	}

	for _, c := range slow {
		r.dropSlow(c)
	}
}

func (r *roomActor) sendTo(c *Client, msg protocol.Message) {
	frame, err := protocol.Encode(msg)
	if err != nil {
		return
	}
	if !c.enqueue(frame) {
		r.dropSlow(c)
	}
}

func (r *roomActor) dropSlow(c *Client) {
	if _, ok := r.clients[c.ID]; !ok {
		return
	}
	r.hub.metrics.SlowClient()
	r.hub.logger.Warn(logging.Websocket, logging.SlowClient, "send buffer full, disconnecting", map[logging.ExtraKey]any{
		logging.RoomID:    r.room.ID,
		logging.SessionID: c.ID,
	})
	r.leave(c)
}

func (r *roomActor) publish(event *domain.RoomEvent) {
	r.hub.metrics.RoomEvent(string(event.EventType))
	if err := r.hub.publisher.Publish(context.Background(), event); err != nil {
		r.hub.logger.Debug(logging.RabbitMQ, logging.Publish, "room event not published", map[logging.ExtraKey]any{
			logging.RoomID:       event.RoomID,
			logging.EventType:    event.EventType,
			logging.ErrorMessage: err.Error(),
		})
	}
}
