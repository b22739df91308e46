package ctl

import (
	"fmt"
	"strings"
)

type healthResponse struct {
	Status     string   `json:"status"`
	Satellites []string `json:"satellites"`
}

// Health checks daemon liveness via GET /health and lists the keywords
// the daemon recognises.
func Health(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var h healthResponse
	err := getJSON(baseURL, "/health", &h)
	if err != nil {
		if jsonOutput {
			return printJSON(map[string]any{"healthy": false, "url": baseURL, "error": err.Error()})
		}
		return err
	}

	healthy := h.Status == "ok"

	if jsonOutput {
		return printJSON(map[string]any{"healthy": healthy, "url": baseURL, "satellites": h.Satellites})
	}

	fmt.Println()
	if healthy {
		fmt.Printf("  %s  satvizd is reachable at %s\n", colorize(green, "HEALTHY"), colorize(dim, baseURL))
	} else {
		fmt.Printf("  %s  satvizd reported status %q at %s\n", colorize(red, "UNHEALTHY"), h.Status, colorize(dim, baseURL))
	}
	fmt.Printf("  %s %s\n", colorize(dim, "keywords:"), strings.Join(h.Satellites, ", "))
	fmt.Println()

	return nil
}
