package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hilthontt/codeboard/internal/infrastructure/logging"
	"github.com/hilthontt/codeboard/internal/protocol"
)

var ErrNotConnected = errors.New("not connected")

// Transport delivers frames to the hub. Send never blocks: when the
// connection is not open the frame is dropped and Send reports false.
type Transport interface {
	Send(msg protocol.Message) bool
}

const writeWait = 10 * time.Second

// WSTransport is a Transport over a gorilla websocket connection.
type WSTransport struct {
	conn   *websocket.Conn
	out    chan []byte
	done   chan struct{}
	open   atomic.Bool
	once   sync.Once
	logger logging.Logger
}

// Dial connects to a room endpoint such as ws://host/ws/{roomId}.
func Dial(ctx context.Context, url string, logger logging.Logger) (*WSTransport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	t := &WSTransport{
		conn:   conn,
		out:    make(chan []byte, 256),
		done:   make(chan struct{}),
		logger: logger,
	}
	t.open.Store(true)
	return t, nil
}

func (t *WSTransport) Send(msg protocol.Message) bool {
	if !t.open.Load() {
		return false
	}

	frame, err := protocol.Encode(msg)
	if err != nil {
		return false
	}

	select {
	case t.out <- frame:
		return true
	default:
		t.logger.Warn(logging.Websocket, logging.WriteFrame, "outbound buffer full, dropping frame", map[logging.ExtraKey]any{
			logging.MessageType: msg.Type(),
		})
		return false
	}
}

// Run pumps frames in both directions until the connection ends or ctx is
// done. handle is called for every well-formed inbound frame, in order.
func (t *WSTransport) Run(ctx context.Context, handle func(protocol.Message)) error {
	go t.writeLoop()

	stop := context.AfterFunc(ctx, func() { _ = t.Close() })
	defer stop()
	defer t.Close()

	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			t.logger.Debug(logging.Websocket, logging.ReadFrame, "ignoring frame", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
			continue
		}
		handle(msg)
	}
}

func (t *WSTransport) writeLoop() {
	for {
		select {
		case frame := <-t.out:
			_ = t.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := t.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				_ = t.Close()
				return
			}
		case <-t.done:
			return
		}
	}
}

func (t *WSTransport) Close() error {
	var err error
	t.once.Do(func() {
		t.open.Store(false)
		close(t.done)
		err = t.conn.Close()
	})
	return err
}
