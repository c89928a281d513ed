package model

import (
	"time"

	"github.com/google/uuid"
)

// ErrorKind classifies a per-URL crawl failure.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and aggregation. The String() method provides
// human-readable output when needed, and KindText carries it in JSON.
type ErrorKind int

const (
	// KindInvalidURL indicates a URL that could not be parsed or uses an
	// unsupported scheme.
	KindInvalidURL ErrorKind = iota

	// KindTimeout indicates the request exceeded its deadline, either the
	// per-request timeout or the overall crawl deadline.
	KindTimeout

	// KindConnection indicates a transport-level failure: DNS resolution,
	// refused connection, reset, or TLS handshake error.
	KindConnection

	// KindHTTPStatus indicates the server answered with a non-success
	// status code. The code is recorded on the CrawlError.
	KindHTTPStatus

	// KindParse indicates the response body could not be interpreted as
	// markup at all. Partial or malformed HTML does not produce this kind;
	// it degrades to empty extraction fields instead.
	KindParse
)

// String returns a human-readable representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindHTTPStatus:
		return "http_status"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// CrawlError records one per-URL failure. Errors are appended to the crawl
// result and never abort the crawl.
type CrawlError struct {
	// URL is the offending URL.
	URL string `json:"url"`

	// Kind is the failure classification.
	Kind ErrorKind `json:"kind"`

	// KindText is the string form of Kind for serialized output.
	KindText string `json:"kind_text"`

	// StatusCode is the HTTP status code for KindHTTPStatus failures.
	// Zero for all other kinds.
	StatusCode int `json:"status_code,omitempty"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`
}

// NewCrawlError creates a CrawlError with KindText populated.
func NewCrawlError(url string, kind ErrorKind, message string) CrawlError {
	return CrawlError{
		URL:      url,
		Kind:     kind,
		KindText: kind.String(),
		Message:  message,
	}
}

// NewHTTPStatusError creates a KindHTTPStatus CrawlError for the given code.
func NewHTTPStatusError(url string, statusCode int, message string) CrawlError {
	e := NewCrawlError(url, KindHTTPStatus, message)
	e.StatusCode = statusCode
	return e
}

// CrawlResult is the terminal result of a single crawl, returned exactly
// once per crawl.
//
// Invariant: PagesCrawled == len(Pages), PagesAttempted == len(Pages) +
// len(Errors), and PagesAttempted never exceeds PagesRequested.
type CrawlResult struct {
	// CrawlID uniquely identifies this crawl for log correlation.
	CrawlID string `json:"crawl_id"`

	// Success is true whenever the crawl completed, even with per-page
	// errors. It is false only when the crawl could not start at all.
	Success bool `json:"success"`

	// BaseURL is the seed URL the crawl started from.
	BaseURL string `json:"base_url"`

	// PagesRequested is the page budget from the request.
	PagesRequested int `json:"total_pages_requested"`

	// PagesCrawled is the number of pages successfully fetched and parsed.
	PagesCrawled int `json:"total_pages_crawled"`

	// PagesAttempted is the number of URLs dispatched for fetching.
	PagesAttempted int `json:"total_pages_attempted"`

	// Pages lists the crawled pages in completion order. Concurrent
	// fetches may complete out of discovery order.
	Pages []PageRecord `json:"pages"`

	// Errors lists per-URL failures in completion order.
	Errors []CrawlError `json:"errors"`

	// StartedAt is the wall-clock time the crawl began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the elapsed wall-clock time of the crawl.
	Duration time.Duration `json:"crawl_duration"`

	// TimedOut is true when the crawl was cut short by context
	// cancellation and the result is partial.
	TimedOut bool `json:"timed_out,omitempty"`
}

// NewCrawlResult creates a CrawlResult for the given seed and budget with
// a fresh crawl ID and the start time set to now.
func NewCrawlResult(seedURL string, budget int) *CrawlResult {
	return &CrawlResult{
		CrawlID:        uuid.NewString(),
		Success:        true,
		BaseURL:        seedURL,
		PagesRequested: budget,
		Pages:          make([]PageRecord, 0),
		Errors:         make([]CrawlError, 0),
		StartedAt:      time.Now(),
	}
}

// AddPage appends a page record and updates the counters.
// Not safe for concurrent use; the orchestrator serializes appends.
func (r *CrawlResult) AddPage(page PageRecord) {
	r.Pages = append(r.Pages, page)
	r.PagesCrawled = len(r.Pages)
}

// AddError appends a per-URL failure.
// Not safe for concurrent use; the orchestrator serializes appends.
func (r *CrawlResult) AddError(err CrawlError) {
	r.Errors = append(r.Errors, err)
}

// ErrorKindCounts returns the number of errors per kind.
// Used by report writers for aggregate views.
func (r *CrawlResult) ErrorKindCounts() map[ErrorKind]int {
	counts := make(map[ErrorKind]int)
	for _, e := range r.Errors {
		counts[e.Kind]++
	}
	return counts
}
