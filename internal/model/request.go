package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Request validation errors.
// These errors abort a crawl before any network work begins; all other
// failures are collected into the CrawlResult error list instead.
var (
	// ErrInvalidSeed is returned when the seed URL is not a well-formed
	// absolute HTTP(S) URL. A crawl with an invalid seed never starts.
	ErrInvalidSeed = errors.New("invalid seed URL: must be absolute http or https")

	// ErrInvalidBudget is returned when the page budget is outside the
	// allowed range [1, MaxAllowedPages].
	ErrInvalidBudget = errors.New("invalid page budget")
)

// CrawlRequest describes a single crawl: where to start, how many pages to
// attempt, and whether to leave the seed's domain.
//
// Design decision: The request is immutable once accepted. The orchestrator
// copies the values it needs at construction time, so callers can reuse or
// discard the request freely while a crawl runs.
type CrawlRequest struct {
	// SeedURL is the starting address of the crawl.
	// Must be an absolute http:// or https:// URL.
	SeedURL string `json:"seed_url"`

	// MaxPages is the page budget: the maximum number of pages this crawl
	// may attempt. Zero means "use the configured default".
	MaxPages int `json:"max_pages"`

	// FollowExternalLinks controls whether links outside the seed's domain
	// are eligible for crawling.
	FollowExternalLinks bool `json:"follow_external_links"`
}

// Validate checks that the request can start a crawl.
// defaultPages replaces a zero MaxPages; maxAllowed is the hard upper bound.
// It returns ErrInvalidSeed or ErrInvalidBudget (wrapped with detail) on
// failure and mutates MaxPages to the effective budget on success.
func (r *CrawlRequest) Validate(defaultPages, maxAllowed int) error {
	if _, err := ParseSeedURL(r.SeedURL); err != nil {
		return err
	}

	if r.MaxPages == 0 {
		r.MaxPages = defaultPages
	}
	if r.MaxPages < 1 || r.MaxPages > maxAllowed {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidBudget, r.MaxPages, maxAllowed)
	}

	return nil
}

// ParseSeedURL parses and validates a seed URL.
// It returns ErrInvalidSeed (wrapped with detail) if the URL is relative,
// malformed, or uses a scheme other than http or https.
func ParseSeedURL(seed string) (*url.URL, error) {
	trimmed := strings.TrimSpace(seed)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSeed)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSeed, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrInvalidSeed, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidSeed, trimmed)
	}

	return u, nil
}
