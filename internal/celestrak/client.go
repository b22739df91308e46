// Package celestrak fetches Two-Line Element sets for a single named object
// from the CelesTrak GP query service (or any server speaking the same
// plain-text format).
package celestrak

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultURLTemplate is the CelesTrak GP lookup by object name.
const DefaultURLTemplate = "https://celestrak.org/NORAD/elements/gp.php?NAME={name}&FORMAT=tle"

const (
	namePlaceholder = "{name}"
	maxBodyBytes    = 1 << 20
	userAgent       = "satviz/1 (+https://github.com/large-farva/satviz)"
)

// Client issues one GET per lookup. It never retries.
type Client struct {
	urlTemplate string
	httpClient  *http.Client
}

// NewClient returns a client that substitutes the object name into
// urlTemplate and gives up after timeout.
func NewClient(urlTemplate string, timeout time.Duration) *Client {
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	return &Client{
		urlTemplate: urlTemplate,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// LookupURL returns the request URL for name.
func (c *Client) LookupURL(name string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return strings.ReplaceAll(c.urlTemplate, namePlaceholder, escaped)
}

// Fetch downloads and validates the elements for name. Failures are either
// a *TransportError or a *NotFoundError.
func (c *Client) Fetch(ctx context.Context, name string) (Elements, error) {
	target := c.LookupURL(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Elements{}, &TransportError{Name: name, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Elements{}, &TransportError{Name: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Elements{}, &TransportError{Name: name, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return Elements{}, &TransportError{Name: name, Err: fmt.Errorf("reading response body: %w", err)}
	}
	if len(body) > maxBodyBytes {
		return Elements{}, &TransportError{Name: name, Err: fmt.Errorf("response exceeds %d byte limit", maxBodyBytes)}
	}

	el, err := ParseElements(string(body))
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			nf.Name = name
		}
		return Elements{}, err
	}
	return el, nil
}
