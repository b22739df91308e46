// Package ratelimit applies a token bucket per client IP.
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	sweepThreshold = 4096
	idleAfter      = 10 * time.Minute
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one limiter per client IP.
type IPRateLimiter struct {
	mu  sync.Mutex
	ips map[string]*entry
	r   rate.Limit
	b   int
	now func() time.Time
}

// NewIPRateLimiter allows perMinute requests per IP with the given burst.
func NewIPRateLimiter(perMinute, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*entry),
		r:   rate.Limit(float64(perMinute) / 60),
		b:   burst,
		now: time.Now,
	}
}

// GetLimiter returns the limiter for ip, creating it on first use. Once the
// table grows past a few thousand IPs, idle entries are dropped.
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.ips[ip]
	if !ok {
		if len(l.ips) >= sweepThreshold {
			l.sweep(now)
		}
		e = &entry{limiter: rate.NewLimiter(l.r, l.b)}
		l.ips[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

// tracked reports how many IPs have a limiter.
func (l *IPRateLimiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ips)
}

func (l *IPRateLimiter) sweep(now time.Time) {
	for ip, e := range l.ips {
		if now.Sub(e.lastSeen) > idleAfter {
			delete(l.ips, ip)
		}
	}
}

// Middleware rejects requests over the limit by calling onLimited instead
// of next. A nil limiter disables limiting.
func Middleware(l *IPRateLimiter, onLimited http.HandlerFunc, next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.GetLimiter(ClientIP(r)).Allow() {
			onLimited(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP is the host part of the request's remote address. Proxy headers
// are ignored because they are trivially spoofed.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
