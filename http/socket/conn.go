package socket

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lindsaykwardell/http-wrapper/logger"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var (
	errClosed    = errors.New("connection closed")
	errQueueFull = errors.New("send queue full")
)

// A conn is one open connection and the queue of frames waiting to be written to it.
type conn struct {
	id      string
	ws      *websocket.Conn
	hub     *Hub
	limiter *rate.Limiter

	send chan []byte
	done chan struct{}
	once sync.Once
}

func newConn(id string, ws *websocket.Conn, h *Hub) *conn {
	return &conn{
		id:      id,
		ws:      ws,
		hub:     h,
		limiter: h.newLimiter(),
		send:    make(chan []byte, h.sendBuffer),
		done:    make(chan struct{}),
	}
}

// enqueue never blocks: a closed conn or a full queue return an error.
func (c *conn) enqueue(b []byte) error {
	select {
	case <-c.done:
		return errClosed
	default:
	}

	select {
	case c.send <- b:
		return nil
	case <-c.done:
		return errClosed
	default:
		return errQueueFull
	}
}

// close stops the writePump, which closes the underlying connection.
func (c *conn) close() {
	c.once.Do(func() { close(c.done) })
}

func (c *conn) readPump() {
	defer c.hub.disconnect(c)

	c.ws.SetReadLimit(c.hub.maxMessageSize)
	if err := c.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.hub.l.Warn("failed setting read deadline", &logger.LogContext{ConnID: c.id, Error: err})
		return
	}
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		typ, data, err := c.ws.ReadMessage()
		if err != nil {
			c.logReadError(err)
			return
		}

		c.handleFrame(typ, data)
	}
}

func (c *conn) handleFrame(typ int, data []byte) {
	m := c.hub.metrics
	if typ != websocket.TextMessage {
		m.FrameReceived("ignored")
		return
	}

	if c.limiter != nil && !c.limiter.Allow() {
		m.FrameReceived("limited")
		c.hub.l.Debug("discarding frame over rate limit", &logger.LogContext{ConnID: c.id})
		return
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		m.FrameReceived("malformed")
		c.hub.l.Debug("discarding malformed frame", &logger.LogContext{ConnID: c.id, Error: err})
		return
	}

	if msg.Event == "" {
		m.FrameReceived("ignored")
		return
	}

	fn := c.hub.handler(msg.Event)
	if fn == nil {
		m.FrameReceived("ignored")
		return
	}

	m.FrameReceived("dispatched")
	c.dispatch(fn, msg)
}

// dispatch runs fn, logging rather than propagating a panic so the connection stays open.
func (c *conn) dispatch(fn EventHandler, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			c.hub.l.Error("event handler panicked", &logger.LogContext{
				ConnID: c.id,
				Error:  fmt.Errorf("%v", r),
				Data:   map[string]any{"event": msg.Event},
			})
		}
	}()

	fn(msg, c.id)
}

func (c *conn) logReadError(err error) {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		return
	}

	if errors.Is(err, websocket.ErrReadLimit) {
		c.hub.l.Warn("frame exceeded max message size", &logger.LogContext{
			ConnID: c.id,
			Data:   map[string]any{"maxMessageSize": c.hub.maxMessageSize},
		})
		return
	}

	select {
	case <-c.done:
		return
	default:
	}

	c.hub.l.Debug("connection read failed", &logger.LogContext{ConnID: c.id, Error: err})
}

func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case b := <-c.send:
			if err := c.write(websocket.TextMessage, b); err != nil {
				c.hub.l.Debug("failed writing message", &logger.LogContext{ConnID: c.id, Error: err})
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.hub.l.Debug("failed writing ping", &logger.LogContext{ConnID: c.id, Error: err})
				return
			}
		case <-c.done:
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		}
	}
}

func (c *conn) write(typ int, b []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.ws.WriteMessage(typ, b)
}
