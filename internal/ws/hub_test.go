package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startHub(t *testing.T, opts Options) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()
	h := NewHub(opts)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	srv := httptest.NewServer(h.Handler())
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return h, srv, cancel
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(msg, &m); err != nil {
		t.Fatalf("decode %s: %v", msg, err)
	}
	return m
}

func TestGreetingThenPublish(t *testing.T) {
	counts := make(chan int, 8)
	h, srv, _ := startHub(t, Options{
		Greeting: func() any { return map[string]any{"type": "hello"} },
		OnCount:  func(n int) { counts <- n },
	})

	conn := dial(t, srv)
	if got := readJSON(t, conn)["type"]; got != "hello" {
		t.Fatalf("first frame type = %v, want hello", got)
	}
	if n := <-counts; n != 1 {
		t.Errorf("OnCount = %d, want 1", n)
	}

	h.Publish(map[string]any{"type": "track", "name": "ISS (ZARYA)"})
	m := readJSON(t, conn)
	if m["type"] != "track" || m["name"] != "ISS (ZARYA)" {
		t.Errorf("published frame = %v", m)
	}
}

func TestClientLeaveUpdatesCount(t *testing.T) {
	counts := make(chan int, 8)
	_, srv, _ := startHub(t, Options{
		Greeting: func() any { return map[string]any{"type": "hello"} },
		OnCount:  func(n int) { counts <- n },
	})

	conn := dial(t, srv)
	readJSON(t, conn)
	<-counts
	conn.Close()

	select {
	case n := <-counts:
		if n != 0 {
			t.Errorf("count after close = %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not notice the closed client")
	}
}

func TestShutdownClosesClients(t *testing.T) {
	_, srv, cancel := startHub(t, Options{Greeting: func() any { return map[string]any{"type": "hello"} }})

	conn := dial(t, srv)
	readJSON(t, conn)
	cancel()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected connection to close after hub shutdown")
	}
}

func TestPublishAfterStopDoesNotBlock(t *testing.T) {
	h := NewHub(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Publish(map[string]int{"i": i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a stopped hub")
	}
}
