package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hilthontt/codeboard/internal/domain"
	"github.com/hilthontt/codeboard/internal/infrastructure/logging"
	"github.com/hilthontt/codeboard/internal/infrastructure/metrics"
	"github.com/hilthontt/codeboard/internal/infrastructure/tracing"
	"github.com/hilthontt/codeboard/internal/protocol"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrHubClosed   = errors.New("hub closed")
	ErrTooManyRoom = errors.New("too many rooms")
)

// Hub is the registry of live rooms. Each room runs as its own actor; the
// hub only creates, finds and forgets them.
type Hub struct {
	opts      Options
	logger    logging.Logger
	metrics   *metrics.Metrics
	publisher domain.RoomEventPublisher
	tracer    trace.Tracer
	upgrader  websocket.Upgrader

	rooms  map[string]*roomActor
	mu     sync.RWMutex
	closed bool
	quit   chan struct{}
	wg     sync.WaitGroup
}

func NewHub(opts Options, logger logging.Logger, m *metrics.Metrics, publisher domain.RoomEventPublisher) *Hub {
	opts = opts.withDefaults()

	h := &Hub{
		opts:      opts,
		logger:    logger,
		metrics:   m,
		publisher: publisher,
		tracer:    tracing.Tracer("ws"),
		rooms:     make(map[string]*roomActor),
		quit:      make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     opts.checkOrigin,
	}
	return h
}

// ServeWS upgrades the request and runs the connection for roomID until it
// closes. A connection to a missing room must open with create.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, roomID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(logging.Websocket, logging.Upgrade, "upgrade failed", map[logging.ExtraKey]any{
			logging.RoomID:       roomID,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	client := NewClient(conn, uuid.NewString(), roomID, h.opts.SendBuffer, h.opts.WriteWait)
	client.prepareRead(h)

	room, admin, err := h.resolve(client)
	if err != nil {
		notice := NoticeRoomMissing
		switch {
		case errors.Is(err, ErrTooManyRoom):
			notice = NoticeTooManyRoom
		case errors.Is(err, ErrHubClosed):
			notice = NoticeShutdown
		}
		client.reject(h, notice)
		return
	}

	if err := room.attach(client, admin); err != nil {
		notice := NoticeRoomMissing
		if errors.Is(err, domain.ErrRoomFull) {
			notice = NoticeRoomFull
		}
		client.reject(h, notice)
		return
	}

	go client.WritePump(h)
	client.ReadPump(h, room)
}

// resolve finds the client's room, creating it when the first frame is
// create. The creator of a new room is its admin.
func (h *Hub) resolve(c *Client) (*roomActor, bool, error) {
	if room, ok := h.lookup(c.RoomID); ok {
		return room, false, nil
	}

	msg, err := c.readMessage(h)
	if err != nil {
		return nil, false, err
	}
	if _, ok := msg.(protocol.Create); !ok {
		return nil, false, domain.ErrRoomNotFound
	}

	return h.getOrCreate(c.RoomID, c.ID)
}

func (h *Hub) lookup(roomID string) (*roomActor, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[roomID]
	return room, ok
}

func (h *Hub) getOrCreate(roomID, creatorID string) (*roomActor, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, false, ErrHubClosed
	}
	if room, ok := h.rooms[roomID]; ok {
		return room, false, nil
	}
	if h.opts.MaxRooms > 0 && len(h.rooms) >= h.opts.MaxRooms {
		return nil, false, ErrTooManyRoom
	}

	state, err := domain.NewRoom(roomID, h.opts.MaxMembers)
	if err != nil {
		return nil, false, err
	}

	room := newRoomActor(h, state)
	h.rooms[roomID] = room
	h.wg.Add(1)
	go room.run()

	h.metrics.RoomOpened()
	h.logger.Info(logging.Room, logging.Lifecycle, "room created", map[logging.ExtraKey]any{
		logging.RoomID: roomID,
	})
	room.publish(domain.NewRoomCreatedEvent(roomID, creatorID))

	return room, true, nil
}

// remove forgets room if it is still the registered actor for its id.
func (h *Hub) remove(room *roomActor) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.rooms[room.room.ID]; ok && current == room {
		delete(h.rooms, room.room.ID)
		h.metrics.RoomClosed()
	}
}

// Summary returns a snapshot of roomID taken by its actor.
func (h *Hub) Summary(ctx context.Context, roomID string) (domain.RoomSummary, error) {
	room, ok := h.lookup(roomID)
	if !ok {
		return domain.RoomSummary{}, domain.ErrRoomNotFound
	}
	return room.summary(ctx)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// Close disconnects every client and waits for all rooms to stop.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.quit)
	h.mu.Unlock()

	h.wg.Wait()
	h.logger.Info(logging.Websocket, logging.Shutdown, "hub stopped", nil)
}
