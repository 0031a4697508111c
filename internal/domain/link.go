// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Link is a single (label, URL) pair found in a Markdown document.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// LinkStatus is the outcome classification of a link check.
type LinkStatus string

const (
	LinkOK       LinkStatus = "ok"
	LinkRedirect LinkStatus = "redirect"
	LinkFailed   LinkStatus = "failed"
)

// LinkRecord holds the result of verifying a single link.
// StatusCode is zero when no HTTP response was received.
type LinkRecord struct {
	Text       string        `json:"text"`
	URL        string        `json:"url"`
	Status     LinkStatus    `json:"status"`
	StatusCode int           `json:"status_code,omitempty"`
	Message    string        `json:"message"`
	Elapsed    time.Duration `json:"elapsed"`
}

// HasStatusCode reports whether the check produced an HTTP status.
func (r LinkRecord) HasStatusCode() bool {
	return r.StatusCode != 0
}

// IsFailure reports whether the record counts against the exit code.
func (r LinkRecord) IsFailure() bool {
	return r.Status == LinkFailed
}
