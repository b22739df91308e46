package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetLimiterPerIP(t *testing.T) {
	l := NewIPRateLimiter(60, 2)

	a := l.GetLimiter("10.0.0.1")
	if a != l.GetLimiter("10.0.0.1") {
		t.Error("same IP should reuse its limiter")
	}
	if a == l.GetLimiter("10.0.0.2") {
		t.Error("different IPs should not share a limiter")
	}
	if l.tracked() != 2 {
		t.Errorf("tracked = %d, want 2", l.tracked())
	}
}

func TestMiddlewareLimitsBurst(t *testing.T) {
	l := NewIPRateLimiter(1, 2)
	limited := 0
	h := Middleware(l, func(w http.ResponseWriter, r *http.Request) {
		limited++
		w.WriteHeader(http.StatusTooManyRequests)
	}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "192.0.2.7:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
	if limited != 1 {
		t.Errorf("onLimited called %d times", limited)
	}

	// A different client still has its full burst.
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "192.0.2.8:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("second client got %d", rec.Code)
	}
}

func TestMiddlewareNilLimiter(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := Middleware(nil, nil, next)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("code = %d", rec.Code)
	}
}

func TestSweepDropsIdleEntries(t *testing.T) {
	l := NewIPRateLimiter(60, 1)
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	l.GetLimiter("stale")
	clock = clock.Add(idleAfter + time.Minute)
	l.GetLimiter("fresh")

	l.mu.Lock()
	l.sweep(clock)
	l.mu.Unlock()

	if l.tracked() != 1 {
		t.Fatalf("tracked = %d after sweep, want 1", l.tracked())
	}
	l.mu.Lock()
	_, ok := l.ips["fresh"]
	l.mu.Unlock()
	if !ok {
		t.Error("fresh entry was swept")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"203.0.113.5:443", "203.0.113.5"},
		{"[2001:db8::1]:8080", "2001:db8::1"},
		{"no-port", "no-port"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tt.remote
		if got := ClientIP(r); got != tt.want {
			t.Errorf("ClientIP(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}
