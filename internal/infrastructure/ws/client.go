package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hilthontt/codeboard/internal/infrastructure/logging"
	"github.com/hilthontt/codeboard/internal/protocol"
)

// Client is one participant connection. Its send buffer is drained by
// WritePump; only the room actor enqueues into it.
type Client struct {
	conn   *wsConn
	send   chan []byte
	ID     string
	RoomID string

	mu     sync.Mutex
	closed bool
}

func NewClient(conn *websocket.Conn, id, roomID string, buffer int, writeWait time.Duration) *Client {
	return &Client{
		conn:   newWSConn(conn, writeWait),
		send:   make(chan []byte, buffer),
		ID:     id,
		RoomID: roomID,
	}
}

// enqueue hands frame to the write pump without blocking. It reports false
// when the buffer is full.
func (c *Client) enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return true
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// closeSend lets the write pump flush what is queued and close the
// connection.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readMessage returns the next well-formed frame. Malformed frames and
// unknown types are skipped.
func (c *Client) readMessage(h *Hub) (protocol.Message, error) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warn(logging.Websocket, logging.ReadFrame, "unexpected close", map[logging.ExtraKey]any{
					logging.RoomID:       c.RoomID,
					logging.SessionID:    c.ID,
					logging.ErrorMessage: err.Error(),
				})
			}
			return nil, err
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			reason := "malformed"
			if errors.Is(err, protocol.ErrUnknownType) {
				reason = "unknown_type"
			}
			h.metrics.MessageDropped(reason)
			h.logger.Debug(logging.Websocket, logging.ReadFrame, "ignoring frame", map[logging.ExtraKey]any{
				logging.RoomID:       c.RoomID,
				logging.SessionID:    c.ID,
				logging.ErrorMessage: err.Error(),
			})
			continue
		}

		return msg, nil
	}
}

// ReadPump forwards decoded frames to the room until the connection drops
// or the room goes away.
func (c *Client) ReadPump(h *Hub, room *roomActor) {
	defer func() {
		room.submit(detachCmd{client: c})
		_ = c.conn.Close()
	}()

	for {
		msg, err := c.readMessage(h)
		if err != nil {
			return
		}
		if !room.submit(inboundCmd{client: c, msg: msg}) {
			return
		}
	}
}

// WritePump writes queued frames and keeps the connection alive with pings.
func (c *Client) WritePump(h *Hub) {
	ticker := time.NewTicker(h.opts.pingPeriod())
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				_ = c.conn.closeWith(websocket.CloseNormalClosure, "")
				return
			}
			if err := c.conn.writeText(frame); err != nil {
				h.logger.Debug(logging.Websocket, logging.WriteFrame, "write failed", map[logging.ExtraKey]any{
					logging.RoomID:       c.RoomID,
					logging.SessionID:    c.ID,
					logging.ErrorMessage: err.Error(),
				})
				return
			}

		case <-ticker.C:
			if err := c.conn.ping(); err != nil {
				return
			}
		}
	}
}

func (c *Client) prepareRead(h *Hub) {
	c.conn.armReadDeadline(h.opts.ReadLimit, h.opts.PongWait)
}

// reject writes a final error frame and closes the connection. Only valid
// before the write pump starts.
func (c *Client) reject(h *Hub, notice string) {
	_ = c.conn.writeText(errorFrame(notice))
	_ = c.conn.closeWith(websocket.ClosePolicyViolation, notice)
	_ = c.conn.Close()
}
