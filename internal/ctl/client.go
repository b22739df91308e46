package ctl

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/large-farva/satviz/internal/report"
)

// Track requests wait on a catalog fetch, so the timeout is generous.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// getJSON sends a GET request and decodes the JSON response into dst.
func getJSON(baseURL, path string, dst any) error {
	url := strings.TrimRight(baseURL, "/") + path
	resp, err := httpClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeJSON(resp, path, dst)
}

// postText sends body as a plain-text POST and decodes the JSON response.
func postText(baseURL, path, body string, dst any) error {
	url := strings.TrimRight(baseURL, "/") + path
	resp, err := httpClient.Post(url, "text/plain; charset=utf-8", strings.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeJSON(resp, path, dst)
}

// decodeJSON decodes a 200 response into dst. Anything else becomes an
// error, using the daemon's failure envelope when the body carries one.
func decodeJSON(resp *http.Response, path string, dst any) error {
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var f report.Failure
		if err := json.Unmarshal(b, &f); err == nil && f.Error != "" {
			if f.Message != "" {
				return fmt.Errorf("HTTP %s: %s (%s)", resp.Status, f.Error, f.Message)
			}
			return fmt.Errorf("HTTP %s: %s", resp.Status, f.Error)
		}
		msg := strings.TrimSpace(string(b))
		if msg != "" {
			return fmt.Errorf("HTTP %s: %s", resp.Status, msg)
		}
		return fmt.Errorf("HTTP %s from %s", resp.Status, path)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// printJSON prints v as indented JSON to stdout.
func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
