// Package app wires the satviz HTTP surface: the track endpoint, health,
// metrics and the WebSocket event feed. It owns the daemon's lifecycle.
package app

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"

	"github.com/large-farva/satviz/internal/celestrak"
	"github.com/large-farva/satviz/internal/config"
	"github.com/large-farva/satviz/internal/metrics"
	"github.com/large-farva/satviz/internal/orbit"
	"github.com/large-farva/satviz/internal/proximity"
	"github.com/large-farva/satviz/internal/ratelimit"
	"github.com/large-farva/satviz/internal/resolve"
	"github.com/large-farva/satviz/internal/telemetry"
	"github.com/large-farva/satviz/internal/track"
	"github.com/large-farva/satviz/internal/tracker"
	"github.com/large-farva/satviz/internal/ws"
)

// Options holds everything the App needs from the caller. Fetcher, Load,
// Clock and Registerer are optional; tests use them to replace the network,
// the propagator, the wall clock and the global Prometheus registry.
type Options struct {
	Logger *log.Logger
	Cfg    config.Config
	Bind   string

	Fetcher    tracker.Fetcher
	Load       orbit.Loader
	Clock      func() time.Time
	Registerer prometheus.Registerer
}

// App is the top-level daemon process.
type App struct {
	log      *log.Logger
	cfg      config.Config
	bind     string
	server   *http.Server
	resolver *resolve.Resolver
	tracker  *tracker.Tracker
	limiter  *ratelimit.IPRateLimiter
	metrics  *metrics.Collector
	wsHub    *ws.Hub
}

// New builds an App from opts. It fails only if the metrics cannot be
// registered.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "satvizd ", log.LstdFlags|log.Lmicroseconds)
	}
	cfg := opts.Cfg

	m, err := metrics.NewCollector(opts.Registerer)
	if err != nil {
		return nil, err
	}

	resolver := resolve.New(resolveEntries(cfg.Satellites), cfg.DefaultSatellite)

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = celestrak.NewClient(cfg.Catalog.URLTemplate, time.Duration(cfg.Catalog.TimeoutSeconds)*time.Second)
	}

	a := &App{
		log:      logger,
		cfg:      cfg,
		bind:     opts.Bind,
		resolver: resolver,
		metrics:  m,
		tracker: tracker.New(tracker.Options{
			Logger:    logger,
			Extractor: resolver,
			Fetcher:   fetcher,
			Load:      opts.Load,
			Sampler: track.Sampler{
				Step:         time.Duration(cfg.Track.StepSeconds) * time.Second,
				Horizon:      time.Duration(cfg.Track.DurationMinutes) * time.Minute,
				DisplayScale: cfg.Track.DisplayScale,
			},
			Analyzer: proximity.New(proximityCities(cfg.Cities), cfg.Proximity.ThresholdDegrees, cfg.Proximity.KmPerDegree),
			Clock:    opts.Clock,
		}),
	}
	if cfg.RateLimit.RequestsPerMinute > 0 {
		a.limiter = ratelimit.NewIPRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}
	a.wsHub = ws.NewHub(ws.Options{
		Greeting: a.hello,
		OnCount:  func(n int) { m.WSClients.Set(float64(n)) },
	})
	return a, nil
}

// Handler returns the fully wrapped HTTP handler. Run serves it; tests can
// drive it directly.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /{$}", ratelimit.Middleware(a.limiter, a.handleLimited, http.HandlerFunc(a.handleTrack)))
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.Handle("GET /metrics", a.metrics.Handler())
	mux.Handle("GET /ws", a.wsHub.Handler())

	var h http.Handler = mux
	if a.cfg.Logging.Level == "debug" {
		h = a.requestLog(h)
	}
	h = a.recoverer(h)
	h = a.metrics.Middleware(h)
	h = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(h)
	return h
}

// Run starts the event hub and the HTTP server. It blocks until ctx is
// cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	bind := a.bind
	if bind == "" {
		bind = a.cfg.Server.Bind
	}
	if bind == "" {
		bind = config.Default().Server.Bind
	}

	a.server = &http.Server{
		Addr:              bind,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}

	a.log.Printf("satviz %s (%s, built %s)", Version, GoVersion, BuiltAt)
	a.log.Printf("listening on http://%s", bind)
	a.log.Printf("tracking %d keywords, %d reference cities", len(a.resolver.Keywords()), len(a.cfg.Cities))

	go a.wsHub.Run(ctx)

	go func() {
		<-ctx.Done()
		a.log.Printf("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.server.Shutdown(shutdownCtx)
	}()

	if err := a.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) hello() any {
	return telemetry.Hello{
		Event:      telemetry.Event{Type: telemetry.EventHello, TS: telemetry.NowTS()},
		Satellites: a.resolver.Keywords(),
	}
}

func resolveEntries(sats []config.Satellite) []resolve.Entry {
	out := make([]resolve.Entry, len(sats))
	for i, s := range sats {
		out[i] = resolve.Entry{Keyword: s.Keyword, Name: s.Name}
	}
	return out
}

func proximityCities(cities []config.City) []proximity.City {
	out := make([]proximity.City, len(cities))
	for i, c := range cities {
		out[i] = proximity.City{Name: c.Name, Lat: c.Lat, Lon: c.Lon}
	}
	return out
}
