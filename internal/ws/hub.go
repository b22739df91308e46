// Package ws fans satviz events out to WebSocket subscribers.
// Each client gets its own buffered send queue and writer goroutine, so a
// slow browser tab is dropped instead of stalling everyone else.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 3 * time.Second
	pongWait   = 60 * time.Second
	pingEvery  = 20 * time.Second
	sendBuffer = 32
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks subscribers and broadcasts JSON frames to them. All client
// bookkeeping happens on the Run goroutine; other methods only use channels.
type Hub struct {
	clients  map[*client]struct{}
	join     chan *client
	leave    chan *client
	frames   chan []byte
	done     chan struct{}
	upgrader websocket.Upgrader

	greeting func() any
	onCount  func(int)
}

// Options customises a Hub. Greeting, if set, is sent to each new client.
// OnCount is called from the Run goroutine whenever the client count changes.
type Options struct {
	Greeting func() any
	OnCount  func(int)
}

// NewHub allocates a hub. Call Run in a goroutine to start the event loop.
func NewHub(opts Options) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		join:    make(chan *client, 16),
		leave:   make(chan *client, 16),
		frames:  make(chan []byte, 256),
		done:    make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		greeting: opts.Greeting,
		onCount:  opts.OnCount,
	}
}

// Run owns the client set until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.join:
			h.clients[c] = struct{}{}
			h.countChanged()
			if h.greeting != nil {
				if b, err := json.Marshal(h.greeting()); err == nil {
					h.offer(c, b)
				}
			}

		case c := <-h.leave:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}

		case msg := <-h.frames:
			for c := range h.clients {
				h.offer(c, msg)
			}
		}
	}
}

// offer queues msg for c, dropping the client if its queue is full.
func (h *Hub) offer(c *client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.drop(c)
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.countChanged()
}

func (h *Hub) countChanged() {
	if h.onCount != nil {
		h.onCount(len(h.clients))
	}
}

// Handler upgrades requests to WebSocket connections and subscribes them.
// Inbound messages are read and discarded; they only keep the connection alive.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already written an HTTP error.
			return
		}
		c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

		select {
		case h.join <- c:
		case <-h.done:
			_ = conn.Close()
			return
		}

		go c.writeLoop()
		go h.readLoop(c)
	})
}

func (c *client) writeLoop() {
	ping := time.NewTicker(pingEvery)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readLoop(c *client) {
	defer func() {
		select {
		case h.leave <- c:
		case <-h.done:
		}
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish marshals v and queues it for every subscriber. When the queue is
// full or the hub has stopped, the event is dropped rather than blocking.
func (h *Hub) Publish(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case <-h.done:
	case h.frames <- b:
	default:
	}
}
