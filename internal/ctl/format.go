// Package ctl implements the client-side commands for satvizctl.
// It talks to a running satvizd over HTTP and WebSocket and renders the results to the terminal.
package ctl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/large-farva/satviz/internal/proximity"
	"github.com/large-farva/satviz/internal/report"
)

// ANSI escape codes for terminal formatting.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// colorEnabled reports whether stdout is a terminal. When output is piped
// or redirected, ANSI escape codes are suppressed.
func colorEnabled() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// colorize wraps text with an ANSI color sequence.
// Returns the text unchanged when color output is disabled.
func colorize(color, text string) string {
	if !colorEnabled() {
		return text
	}
	return color + text + reset
}

// header returns a bold section header, or plain text when color is off.
func header(title string) string {
	if colorEnabled() {
		return bold + title + reset
	}
	return title
}

// padRight pads s with spaces to reach the given width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// formatLatLon renders a coordinate pair with hemisphere letters.
func formatLatLon(lat, lon float64) string {
	ns, ew := "N", "E"
	if lat < 0 {
		ns, lat = "S", -lat
	}
	if lon < 0 {
		ew, lon = "W", -lon
	}
	return fmt.Sprintf("%.2f°%s %.2f°%s", lat, ns, lon, ew)
}

// writeStats prints the observer statistics block.
func writeStats(w io.Writer, s report.Stats) {
	fmt.Fprintf(w, "    %s %.1f km\n", padRight("Altitude:", 12), s.Altitude)
	fmt.Fprintf(w, "    %s %.2f km/s\n", padRight("Velocity:", 12), s.Velocity)
	fmt.Fprintf(w, "    %s %.1f km\n", padRight("Distance:", 12), s.Distance)
	fmt.Fprintf(w, "    %s %.1f ms\n", padRight("Latency:", 12), s.Latency)
}

// writePasses prints the cities currently under the satellite, if any.
func writePasses(w io.Writer, passes []proximity.Pass) {
	if len(passes) == 0 {
		fmt.Fprintf(w, "    %s\n", colorize(dim, "no reference city nearby"))
		return
	}
	for _, p := range passes {
		fmt.Fprintf(w, "    %s %s\n", colorize(cyan, padRight(p.City, 14)), fmt.Sprintf("%.1f km", p.Distance))
	}
}
