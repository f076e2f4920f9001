package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsConn is a websocket connection with serialized writes. gorilla allows
// one concurrent writer; reads stay with the read pump.
type wsConn struct {
	*websocket.Conn

	wmu  sync.Mutex
	wait time.Duration
}

func newWSConn(c *websocket.Conn, writeWait time.Duration) *wsConn {
	return &wsConn{Conn: c, wait: writeWait}
}

func (c *wsConn) writeText(frame []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if err := c.SetWriteDeadline(time.Now().Add(c.wait)); err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, frame)
}

func (c *wsConn) ping() error {
	return c.control(websocket.PingMessage, nil)
}

// closeWith sends a close frame; the caller still closes the connection.
func (c *wsConn) closeWith(code int, text string) error {
	return c.control(websocket.CloseMessage, websocket.FormatCloseMessage(code, text))
}

func (c *wsConn) control(messageType int, data []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	return c.WriteControl(messageType, data, time.Now().Add(c.wait))
}

// armReadDeadline bounds frame size and expects a pong within pongWait of
// every ping.
func (c *wsConn) armReadDeadline(limit int64, pongWait time.Duration) {
	c.SetReadLimit(limit)
	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})
}
