package celestrak

import (
	"fmt"
	"strings"
)

// Elements is one object's TLE in the 3-line form CelesTrak serves.
type Elements struct {
	Title string
	Line1 string
	Line2 string
}

// Text renders the elements back into newline-separated 3-line form.
func (e Elements) Text() string {
	return e.Title + "\n" + e.Line1 + "\n" + e.Line2
}

// ParseElements takes the first three non-empty lines of text as title,
// line 1 and line 2. Anything shorter is a *NotFoundError: CelesTrak answers
// unknown names with a single "No GP data found" line.
func ParseElements(text string) (Elements, error) {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
		if len(lines) == 3 {
			break
		}
	}

	if len(lines) < 3 {
		return Elements{}, &NotFoundError{Lines: len(lines)}
	}
	return Elements{Title: lines[0], Line1: lines[1], Line2: lines[2]}, nil
}

// NotFoundError means the catalog returned no usable elements.
type NotFoundError struct {
	Name  string
	Lines int // non-empty lines received
}

func (e *NotFoundError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("elements not found: got %d of 3 lines", e.Lines)
	}
	return fmt.Sprintf("satellite %q not found", e.Name)
}

// TransportError covers timeouts, connection failures and non-2xx replies.
type TransportError struct {
	Name       string
	StatusCode int // zero unless the server answered
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog lookup for %q returned HTTP %d", e.Name, e.StatusCode)
	}
	return fmt.Sprintf("catalog lookup for %q failed: %v", e.Name, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
