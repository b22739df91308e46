package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/large-farva/satviz/internal/celestrak"
	"github.com/large-farva/satviz/internal/metrics"
	"github.com/large-farva/satviz/internal/report"
	"github.com/large-farva/satviz/internal/telemetry"
)

// maxPromptBytes caps the POST / body. Anything past it is ignored.
const maxPromptBytes = 64 << 10

// errRateLimited is surfaced in the 429 envelope.
var errRateLimited = errors.New("too many requests, slow down")

type healthResponse struct {
	Status     string   `json:"status"`
	Satellites []string `json:"satellites"`
}

// handleTrack answers POST / with the full visualization payload. The body
// is the raw prompt; an unreadable or empty body resolves to the default
// satellite like any other prompt with no known keyword.
func (a *App) handleTrack(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPromptBytes))
	if err != nil {
		a.log.Printf("read prompt from %s: %v", r.RemoteAddr, err)
	}
	prompt := string(body)

	res, err := a.tracker.Track(r.Context(), prompt)
	if err != nil {
		a.log.Printf("track %q (%s): %v", prompt, res.Resolved, err)
		a.metrics.ObserveLookup(res.Resolved, classify(err))
		a.wsHub.Publish(telemetry.NewTrackFailed(prompt, res.Resolved, err))
		writeJSON(w, http.StatusInternalServerError, report.Fail(err))
		return
	}

	a.metrics.ObserveLookup(res.Resolved, metrics.ResultOK)
	a.wsHub.Publish(telemetry.NewTrack(prompt, res.NoradID, res.Response))
	writeJSON(w, http.StatusOK, res.Response)
}

func (a *App) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Satellites: a.resolver.Keywords(),
	})
}

func (a *App) handleLimited(w http.ResponseWriter, _ *http.Request) {
	a.metrics.ObserveLookup("", metrics.ResultLimited)
	writeJSON(w, http.StatusTooManyRequests, report.Fail(errRateLimited))
}

// classify maps a pipeline error onto a lookup metric label.
func classify(err error) string {
	var nf *celestrak.NotFoundError
	var te *celestrak.TransportError
	switch {
	case errors.As(err, &nf):
		return metrics.ResultNotFound
	case errors.As(err, &te):
		return metrics.ResultTransport
	default:
		return metrics.ResultOther
	}
}

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// panicError adapts a recovered value for the failure envelope.
func panicError(v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("internal error: %w", err)
	}
	return fmt.Errorf("internal error: %v", v)
}
