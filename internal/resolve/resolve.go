// Package resolve maps free-text prompts onto one of a fixed set of
// catalog object names using ordered keyword matching.
package resolve

import "strings"

// NameExtractor turns a user prompt into a canonical catalog object name.
type NameExtractor interface {
	Extract(prompt string) string
}

// Entry ties a keyword to the canonical object name it selects.
type Entry struct {
	Keyword string
	Name    string
}

// Resolver matches prompts against an ordered keyword table. It is
// immutable after construction and safe for concurrent use.
type Resolver struct {
	entries  []Entry
	match    []string // lower-cased keywords, parallel to entries
	fallback string
}

// New copies entries (order preserved) into a Resolver that answers
// fallback when nothing matches. Matching ignores case.
func New(entries []Entry, fallback string) *Resolver {
	cp := make([]Entry, len(entries))
	match := make([]string, len(entries))
	copy(cp, entries)
	for i, e := range entries {
		match[i] = strings.ToLower(e.Keyword)
	}
	return &Resolver{entries: cp, match: match, fallback: fallback}
}

// Extract returns the name mapped to the first keyword, in declaration
// order, that occurs anywhere in the lower-cased prompt.
func (r *Resolver) Extract(prompt string) string {
	lower := strings.ToLower(prompt)
	for i, kw := range r.match {
		if kw != "" && strings.Contains(lower, kw) {
			return r.entries[i].Name
		}
	}
	return r.fallback
}

// Keywords lists the known keywords as configured, in declaration order.
func (r *Resolver) Keywords() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Keyword
	}
	return out
}

