package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lindsaykwardell/http-wrapper/http/router"
	"github.com/lindsaykwardell/http-wrapper/logger"
	"github.com/lindsaykwardell/http-wrapper/metrics"
	"golang.org/x/time/rate"
)

const (
	defaultPath           = "/ws"
	defaultMaxMessageSize = 64 << 10
	defaultFrameRate      = rate.Limit(20)
	defaultFrameBurst     = 40
	defaultSendBuffer     = 256
)

// A Hub owns the open connections and the handlers of the events they send.
type Hub struct {
	l       logger.Logger
	metrics *metrics.Metrics

	path           string
	origins        []string
	maxMessageSize int64
	frameRate      rate.Limit
	frameBurst     int
	sendBuffer     int
	upgrader       websocket.Upgrader

	mu       sync.RWMutex
	conns    map[string]*conn
	handlers map[string]EventHandler
	closed   bool

	wg sync.WaitGroup
}

// NewHub constructs a *Hub.
func NewHub(opts ...Opt) *Hub {
	h := &Hub{
		path:           defaultPath,
		maxMessageSize: defaultMaxMessageSize,
		frameRate:      defaultFrameRate,
		frameBurst:     defaultFrameBurst,
		sendBuffer:     defaultSendBuffer,
		conns:          make(map[string]*conn),
		handlers:       make(map[string]EventHandler),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.l == nil {
		h.l = logger.New()
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if oc := newOriginChecker(h.origins, h.l); oc != nil {
		h.upgrader.CheckOrigin = oc.check
	}

	return h
}

// Path returns the path the Hub upgrades connections at.
func (h *Hub) Path() string { return h.path }

// Routes returns a *router.Router mounted at the Hub's path
// routing GET requests to ServeWS.
func (h *Hub) Routes() *router.Router {
	r := router.New(h.path)
	r.Get("/", router.Raw(h.ServeWS))
	return r
}

// ServeWS upgrades the request to a WebSocket connection and adds it to the Hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Warn("failed upgrading connection", &logger.LogContext{Error: err, Request: r})
		return
	}

	c := newConn(uuid.NewString(), ws, h)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
		_ = ws.Close()
		return
	}
	h.conns[c.id] = c
	h.wg.Add(2)
	h.mu.Unlock()

	h.metrics.ConnectionOpened()
	h.l.Debug("connection opened", &logger.LogContext{ConnID: c.id, Request: r})

	go func() {
		defer h.wg.Done()
		c.writePump()
	}()

	h.Broadcast(Message{From: c.id, Event: EventConnect, Body: fmt.Sprintf("%s has connected", c.id)})

	go func() {
		defer h.wg.Done()
		c.readPump()
	}()
}

// On registers fn for event, replacing any handler already registered for it.
func (h *Hub) On(event string, fn EventHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.handlers[event] = fn
}

// Emit sends a Message for event with body, to every connection unless addressed with To.
func (h *Hub) Emit(event string, body any, opts ...EmitOpt) {
	msg := Message{Event: event, Body: body}
	for _, opt := range opts {
		opt(&msg)
	}

	h.Broadcast(msg)
}

// Broadcast sends msg to msg.To or, when msg.To is empty, to every open connection.
//
// Broadcast does nothing if msg has no body or msg.To is not an open connection.
func (h *Hub) Broadcast(msg Message) {
	if !msg.hasBody() {
		return
	}

	b, err := json.Marshal(msg)
	if err != nil {
		h.l.Error("failed encoding message", &logger.LogContext{Error: err, Data: map[string]any{"event": msg.Event}})
		return
	}

	if msg.To != "" {
		h.mu.RLock()
		c, ok := h.conns[msg.To]
		h.mu.RUnlock()

		if ok {
			h.deliver(c, b)
		}
		return
	}

	for _, c := range h.snapshot() {
		h.deliver(c, b)
	}
}

// Len returns the number of open connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.conns)
}

// Connected reports whether id is an open connection.
func (h *Hub) Connected(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.conns[id]
	return ok
}

// Shutdown closes every connection, refuses new ones,
// and waits for their goroutines to finish or ctx to be done.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	conns := h.snapshot()
	for _, c := range conns {
		c.close()
	}
	h.l.Info("hub shutting down", &logger.LogContext{Data: map[string]any{"connections": len(conns)}})

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) deliver(c *conn, b []byte) {
	switch err := c.enqueue(b); err {
	case nil:
		h.metrics.MessageSent()
	case errQueueFull:
		h.metrics.MessageDropped("queue_full")
		h.l.Warn("dropped message", &logger.LogContext{ConnID: c.id, Error: err})
	default:
		h.metrics.MessageDropped("closed")
	}
}

// disconnect removes c and announces it once.
func (h *Hub) disconnect(c *conn) {
	h.mu.Lock()
	_, ok := h.conns[c.id]
	delete(h.conns, c.id)
	h.mu.Unlock()

	c.close()
	if !ok {
		return
	}

	h.metrics.ConnectionClosed()
	h.l.Debug("connection closed", &logger.LogContext{ConnID: c.id})
	h.Broadcast(Message{From: c.id, Event: EventDisconnect, Body: fmt.Sprintf("%s has disconnected", c.id)})
}

func (h *Hub) handler(event string) EventHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.handlers[event]
}

func (h *Hub) snapshot() []*conn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns := make([]*conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}

	return conns
}

func (h *Hub) newLimiter() *rate.Limiter {
	if h.frameRate <= 0 && h.frameBurst <= 0 {
		return nil
	}

	return rate.NewLimiter(h.frameRate, h.frameBurst)
}
