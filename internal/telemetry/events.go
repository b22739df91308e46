// Package telemetry defines the typed events satvizd pushes to WebSocket
// subscribers, so dashboards can follow lookups made by other clients.
package telemetry

import (
	"time"

	"github.com/large-farva/satviz/internal/proximity"
	"github.com/large-farva/satviz/internal/report"
)

// EventType identifies the kind of WebSocket event.
type EventType string

const (
	EventHello       EventType = "hello"
	EventTrack       EventType = "track"
	EventTrackFailed EventType = "track_failed"
)

// Event is the envelope shared by every event type.
type Event struct {
	Type EventType `json:"type"`
	TS   string    `json:"ts"`
}

// NowTS returns the current UTC time as an RFC 3339 nano string, matching the
// timestamp format used across all events.
func NowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Hello greets a newly connected client with the keyword table.
type Hello struct {
	Event
	Satellites []string `json:"satellites"`
}

// Track summarises a successful lookup. The trajectory is left out to keep
// frames small; clients wanting it call POST / themselves.
type Track struct {
	Event
	Prompt      string             `json:"prompt"`
	Name        string             `json:"name"`
	NoradID     int                `json:"noradId,omitempty"`
	GroundTrack report.GroundTrack `json:"groundTrack"`
	Stats       report.Stats       `json:"stats"`
	CityPasses  []proximity.Pass   `json:"cityPasses"`
}

// TrackFailed reports a lookup that ended in an error envelope.
type TrackFailed struct {
	Event
	Prompt   string `json:"prompt"`
	Resolved string `json:"resolved,omitempty"`
	Error    string `json:"error"`
}

// NewTrack builds a Track event from a success payload. A zero noradID is
// left out of the JSON.
func NewTrack(prompt string, noradID int, r report.Response) Track {
	return Track{
		Event:       Event{Type: EventTrack, TS: NowTS()},
		Prompt:      prompt,
		Name:        r.Name,
		NoradID:     noradID,
		GroundTrack: r.GroundTrack,
		Stats:       r.Stats,
		CityPasses:  r.CityPasses,
	}
}

// NewTrackFailed builds a TrackFailed event.
func NewTrackFailed(prompt, resolved string, err error) TrackFailed {
	return TrackFailed{
		Event:    Event{Type: EventTrackFailed, TS: NowTS()},
		Prompt:   prompt,
		Resolved: resolved,
		Error:    err.Error(),
	}
}
