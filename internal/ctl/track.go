package ctl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/large-farva/satviz/internal/report"
)

// TrackOptions controls the track command.
type TrackOptions struct {
	Prompt string
	JSON   bool
	Full   bool // with --json, keep the trajectory and city table
}

// Track sends the prompt to POST / and prints where the satellite is now.
func Track(baseURL string, opts TrackOptions) error {
	resp, err := fetchTrack(baseURL, opts.Prompt)
	if err != nil {
		return err
	}

	if opts.JSON {
		if !opts.Full {
			resp.Trajectory = nil
			resp.Cities = nil
		}
		return printJSON(resp)
	}

	writeTrack(os.Stdout, resp)
	return nil
}

func fetchTrack(baseURL, prompt string) (report.Response, error) {
	var resp report.Response
	if err := postText(baseURL, "/", prompt, &resp); err != nil {
		return report.Response{}, err
	}
	if !resp.Success {
		return report.Response{}, fmt.Errorf("daemon reported failure for %q", prompt)
	}
	return resp, nil
}

func writeTrack(w io.Writer, r report.Response) {
	gt := r.GroundTrack

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", header(r.Name))
	fmt.Fprintf(w, "    %s %s\n", padRight("Position:", 12), formatLatLon(gt.Lat, gt.Lon))
	writeStats(w, r.Stats)
	fmt.Fprintf(w, "    %s %d points\n", padRight("Trajectory:", 12), len(r.Trajectory))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", header("Nearby cities"))
	writePasses(w, r.CityPasses)
	fmt.Fprintln(w)
}

// JoinPrompt rebuilds a prompt from command-line words.
func JoinPrompt(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
