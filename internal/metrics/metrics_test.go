package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	c, err := NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	return c
}

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"/ws", "/ws"},
		{"/wp-admin", "other"},
		{"/health/extra", "other"},
		{"/favicon.ico", "other"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizeRoute(tt.path); got != tt.want {
				t.Errorf("normalizeRoute(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	c := newTestCollector(t)
	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := testutil.ToFloat64(c.HTTPRequests.WithLabelValues("/", "POST", "500")); got != 1 {
		t.Errorf("POST / 500 = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.HTTPRequests.WithLabelValues("/health", "GET", "200")); got != 2 {
		t.Errorf("GET /health 200 = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(c.HTTPDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestObserveLookup(t *testing.T) {
	c := newTestCollector(t)
	c.ObserveLookup("ISS (ZARYA)", ResultOK)
	c.ObserveLookup("ISS (ZARYA)", ResultOK)
	c.ObserveLookup("HST", ResultNotFound)
	c.ObserveLookup("", ResultLimited)

	if got := testutil.ToFloat64(c.Lookups.WithLabelValues("ISS (ZARYA)", ResultOK)); got != 2 {
		t.Errorf("ok lookups = %v", got)
	}
	if got := testutil.ToFloat64(c.Lookups.WithLabelValues("HST", ResultNotFound)); got != 1 {
		t.Errorf("not found lookups = %v", got)
	}
	if got := testutil.ToFloat64(c.Lookups.WithLabelValues("unknown", ResultLimited)); got != 1 {
		t.Errorf("unlabelled lookups = %v", got)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	c := newTestCollector(t)
	c.ObserveLookup("AQUA", ResultOK)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `satviz_track_requests_total{result="ok",satellite="AQUA"} 1`) {
		t.Errorf("exposition missing lookup counter:\n%s", rec.Body.String())
	}
}

func TestNewCollectorRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewCollector(reg); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCollector(reg); err == nil {
		t.Error("expected duplicate registration error")
	}
}
