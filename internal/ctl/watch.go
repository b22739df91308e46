package ctl

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/large-farva/satviz/internal/telemetry"
)

// WatchOptions controls the watch command behavior.
type WatchOptions struct {
	Filter []string // event types to show (empty = all)
	JSON   bool     // output raw JSON per event
}

// Watch connects to the daemon's WebSocket endpoint and streams lookup
// events to the terminal until interrupted.
func Watch(baseURL string, opts WatchOptions) error {
	wsURL, err := websocketURL(baseURL)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	if !opts.JSON {
		fmt.Println()
		fmt.Printf("  %s %s\n", colorize(green, "connected"), colorize(dim, wsURL))
		if len(opts.Filter) > 0 {
			fmt.Printf("  %s %s\n", colorize(dim, "filter:"), colorize(dim, strings.Join(opts.Filter, ", ")))
		}
		fmt.Println(colorize(dim, "  "+strings.Repeat("─", 50)))
		fmt.Println()
	}

	filterSet := make(map[string]bool, len(opts.Filter))
	for _, f := range opts.Filter {
		filterSet[f] = true
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if !wanted(filterSet, msg) {
				continue
			}
			if opts.JSON {
				fmt.Println(string(msg))
			} else {
				renderEvent(os.Stdout, msg)
			}
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sig:
		if !opts.JSON {
			fmt.Println()
			fmt.Println(colorize(dim, "  disconnecting..."))
		}
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(1*time.Second),
		)
		return nil
	case <-done:
		return nil
	}
}

// websocketURL maps the daemon's HTTP base URL onto its /ws endpoint.
func websocketURL(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme: %q", u.Scheme)
	}
	u.Path = "/ws"
	u.RawQuery = ""
	return u.String(), nil
}

// wanted applies the event type filter. An empty filter passes everything.
func wanted(filter map[string]bool, raw []byte) bool {
	if len(filter) == 0 {
		return true
	}
	var ev telemetry.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return true
	}
	return filter[string(ev.Type)]
}

// renderEvent prints one event in a human-friendly format, falling back to
// indented JSON for types it does not know.
func renderEvent(w io.Writer, raw []byte) {
	var ev telemetry.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		fmt.Fprintf(w, "  %s\n", string(raw))
		return
	}
	ts := formatEventTime(ev.TS)

	switch ev.Type {
	case telemetry.EventHello:
		var h telemetry.Hello
		_ = json.Unmarshal(raw, &h)
		fmt.Fprintf(w, "  %s %s  %s\n", colorize(dim, ts), colorize(yellow, "HELLO"), strings.Join(h.Satellites, ", "))

	case telemetry.EventTrack:
		var t telemetry.Track
		_ = json.Unmarshal(raw, &t)
		name := t.Name
		if t.NoradID != 0 {
			name = fmt.Sprintf("%s #%d", t.Name, t.NoradID)
		}
		fmt.Fprintf(w, "  %s %s  %s  %s  %s\n",
			colorize(dim, ts),
			colorize(green, "TRACK"),
			colorize(bold, name),
			formatLatLon(t.GroundTrack.Lat, t.GroundTrack.Lon),
			colorize(dim, fmt.Sprintf("%q", t.Prompt)),
		)
		for _, p := range t.CityPasses {
			fmt.Fprintf(w, "      %s %s\n", colorize(cyan, padRight(p.City, 14)), fmt.Sprintf("%.1f km", p.Distance))
		}

	case telemetry.EventTrackFailed:
		var f telemetry.TrackFailed
		_ = json.Unmarshal(raw, &f)
		fmt.Fprintf(w, "  %s %s  %s  %s\n",
			colorize(dim, ts),
			colorize(red, "FAIL "),
			f.Error,
			colorize(dim, fmt.Sprintf("%q", f.Prompt)),
		)

	default:
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			fmt.Fprintf(w, "  %s\n", string(raw))
			return
		}
		pretty, err := json.MarshalIndent(m, "  ", "  ")
		if err != nil {
			fmt.Fprintf(w, "  %s\n", string(raw))
			return
		}
		fmt.Fprintf(w, "  %s\n", string(pretty))
	}
}

// formatEventTime shortens an RFC 3339 timestamp to local wall-clock time.
func formatEventTime(ts string) string {
	if ts == "" {
		return "        "
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("15:04:05")
}
