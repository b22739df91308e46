// Package tracker runs the per-request pipeline: resolve the prompt to a
// catalog name, fetch its elements, propagate the current state, sample
// the trajectory, find nearby cities and assemble the payload.
//
// Nothing is cached between requests; every call re-fetches elements so a
// stale TLE can never silently persist.
package tracker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/large-farva/satviz/internal/celestrak"
	"github.com/large-farva/satviz/internal/orbit"
	"github.com/large-farva/satviz/internal/proximity"
	"github.com/large-farva/satviz/internal/report"
	"github.com/large-farva/satviz/internal/resolve"
	"github.com/large-farva/satviz/internal/track"
)

// Fetcher retrieves elements for a canonical object name.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (celestrak.Elements, error)
}

// Options holds the collaborators. Clock defaults to time.Now and Load to
// orbit.LoadSGP4.
type Options struct {
	Logger    *log.Logger
	Extractor resolve.NameExtractor
	Fetcher   Fetcher
	Load      orbit.Loader
	Sampler   track.Sampler
	Analyzer  *proximity.Analyzer
	Clock     func() time.Time
}

// Tracker is safe for concurrent use as long as its collaborators are.
type Tracker struct {
	log       *log.Logger
	extractor resolve.NameExtractor
	fetcher   Fetcher
	load      orbit.Loader
	sampler   track.Sampler
	analyzer  *proximity.Analyzer
	clock     func() time.Time
}

// Result describes one pipeline run. Resolved is the catalog name that was
// looked up, which may differ from the title the catalog returned. NoradID
// is zero when the propagator does not report one. On error only Prompt,
// Resolved and possibly NoradID are set.
type Result struct {
	Prompt   string
	Resolved string
	NoradID  int
	Response report.Response
}

// New creates a Tracker from opts.
func New(opts Options) *Tracker {
	t := &Tracker{
		log:       opts.Logger,
		extractor: opts.Extractor,
		fetcher:   opts.Fetcher,
		load:      opts.Load,
		sampler:   opts.Sampler,
		analyzer:  opts.Analyzer,
		clock:     opts.Clock,
	}
	if t.clock == nil {
		t.clock = time.Now
	}
	if t.load == nil {
		t.load = orbit.LoadSGP4
	}
	if t.analyzer == nil {
		t.analyzer = proximity.New(nil, proximity.DefaultThresholdDegrees, proximity.DefaultKmPerDegree)
	}
	return t
}

// Track runs the full pipeline for prompt. Either a complete payload or an
// error is returned, never a partial payload.
func (t *Tracker) Track(ctx context.Context, prompt string) (Result, error) {
	t.logf("received prompt: %q", prompt)

	name := t.extractor.Extract(prompt)
	t.logf("looking for satellite: %s", name)
	res := Result{Prompt: prompt, Resolved: name}

	el, err := t.fetcher.Fetch(ctx, name)
	if err != nil {
		return res, err
	}

	prop, err := t.load(el)
	if err != nil {
		return res, fmt.Errorf("load %s: %w", name, err)
	}
	if c, ok := prop.(orbit.Cataloged); ok {
		res.NoradID = c.NoradID()
		t.logf("propagating %s (NORAD %d)", el.Title, res.NoradID)
	}

	now := t.clock().UTC()
	st, err := prop.Propagate(now)
	if err != nil {
		return res, fmt.Errorf("current position of %s: %w", name, err)
	}
	ground := prop.GroundTrack(st)

	samples, err := t.sampler.Sample(prop, now)
	if err != nil {
		return res, fmt.Errorf("trajectory of %s: %w", name, err)
	}

	res.Response = report.Assemble(report.Input{
		Name:         el.Title,
		State:        st,
		Ground:       ground,
		DisplayScale: t.sampler.DisplayScale,
		Trajectory:   samples,
		Passes:       t.analyzer.Near(ground),
		Cities:       t.analyzer.Cities(),
	})

	return res, nil
}

func (t *Tracker) logf(format string, args ...any) {
	if t.log != nil {
		t.log.Printf("tracker: "+format, args...)
	}
}
