// Satvizctl is the command-line client for a running satvizd. It asks the
// daemon where a satellite is and streams the lookups other clients make.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/large-farva/satviz/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:5000", "satvizd base URL")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter track,track_failed)")
	)

	// Stop parsing global flags at the command name so prompt words that
	// look like flags reach the subcommand untouched.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	case "health":
		err = ctl.Health(*host, *jsonOut)

	case "track":
		opts := ctl.TrackOptions{JSON: *jsonOut}
		trackFlags := pflag.NewFlagSet("track", pflag.ContinueOnError)
		trackFlags.BoolVar(&opts.Full, "full", false, "With --json, include trajectory and city table")
		_ = trackFlags.Parse(subArgs)
		opts.Prompt = ctl.JoinPrompt(trackFlags.Args())
		err = ctl.Track(*host, opts)

	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{
			Filter: *filter,
			JSON:   *jsonOut,
		})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  satvizctl — satviz command-line client

  USAGE
    satvizctl [flags] <command> [command-flags] [args]

  COMMANDS
    health          Check the daemon and list known satellite keywords
    track PROMPT    Ask where a satellite is right now
    watch           Stream lookup events from the daemon (Ctrl-C to stop)

  GLOBAL FLAGS
    -H, --host URL      Daemon base URL (default: http://127.0.0.1:5000)
        --json          Output raw JSON instead of formatted text
        --filter TYPE   Event types to show in watch (comma-separated)

  COMMAND FLAGS
    track:
        --full              With --json, include trajectory and city table

  EXAMPLES
    satvizctl health
    satvizctl track where is the ISS right now
    satvizctl --json track hubble --full
    satvizctl --host http://10.0.0.5:5000 watch --filter track

`)
}
