package crawler

import (
	"net/url"
	"strings"
)

// BoundaryPolicy decides whether a discovered link is eligible for
// enqueueing, given the crawl's base domain and the follow-external flag.
//
// Matching compares the host including any explicit port, so
// example.com:8443 is a different site from example.com. The scheme
// plays no part. The "www." prefix is stripped on both sides because
// www and bare hosts almost always serve the same content.
//
// Design decision: Subdomain inclusion (blog.example.com for a seed on
// example.com) is an explicit option rather than a hardcoded choice,
// because neither answer is right for every site.
type BoundaryPolicy struct {
	// baseHost is the normalized host of the seed URL, port included.
	baseHost string

	// baseHostname is baseHost without the port, for subdomain matching.
	baseHostname string

	// followExternal allows links to any host.
	followExternal bool

	// includeSubdomains widens the match to subdomains of baseHost.
	includeSubdomains bool
}

// BoundaryOption configures a BoundaryPolicy.
type BoundaryOption func(*BoundaryPolicy)

// WithFollowExternal allows links outside the base domain.
func WithFollowExternal(follow bool) BoundaryOption {
	return func(p *BoundaryPolicy) {
		p.followExternal = follow
	}
}

// WithIncludeSubdomains widens the domain boundary to subdomains.
func WithIncludeSubdomains(include bool) BoundaryOption {
	return func(p *BoundaryPolicy) {
		p.includeSubdomains = include
	}
}

// NewBoundaryPolicy creates a policy for a crawl rooted at seed.
func NewBoundaryPolicy(seed *url.URL, opts ...BoundaryOption) *BoundaryPolicy {
	p := &BoundaryPolicy{
		baseHost:     NormalizeHost(seed.Host),
		baseHostname: NormalizeHost(seed.Hostname()),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Eligible reports whether the candidate URL may be enqueued.
// Malformed URLs and non-HTTP(S) schemes are never eligible, so the
// orchestrator never enqueues dead links.
func (p *BoundaryPolicy) Eligible(candidate string) bool {
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return false
	}

	if p.followExternal {
		return true
	}

	if NormalizeHost(u.Host) == p.baseHost {
		return true
	}
	if p.includeSubdomains && strings.HasSuffix(NormalizeHost(u.Hostname()), "."+p.baseHostname) {
		return true
	}

	return false
}

// NormalizeHost lowercases a host and strips a leading "www." so that
// www.example.com and example.com compare equal.
func NormalizeHost(host string) string {
	host = strings.ToLower(host)
	return strings.TrimPrefix(host, "www.")
}
