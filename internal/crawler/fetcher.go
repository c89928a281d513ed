package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nao1215/sitecrawl/internal/model"
	"golang.org/x/net/html/charset"
)

// Fetcher performs single-page HTTP fetches with timeout, bounded retry,
// and failure classification.
//
// Design decision: We require an external http.Client rather than creating
// one internally because:
//  1. Transport configuration (proxies, TLS, redirect policy) belongs to
//     the caller
//  2. Connection pooling can be shared across crawls
//  3. Allows httptest clients in tests
type Fetcher struct {
	// client is the HTTP client used for all requests.
	client *http.Client

	// timeout is the per-request timeout, applied to each attempt
	// individually.
	timeout time.Duration

	// retryCount is the number of additional attempts after the first
	// failure. Retries happen only for transient failures (timeout,
	// connection error), never for definitive HTTP statuses or malformed
	// URLs.
	retryCount int

	// retryDelay is the base delay between attempts; doubled per attempt.
	retryDelay time.Duration

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// headers are extra headers sent with every request (per-site config).
	headers map[string]string

	// cookie is an optional Cookie header value (per-site config).
	cookie string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout sets the per-request timeout.
func WithFetchTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = timeout
	}
}

// WithRetries sets the retry count and the base delay between attempts.
// The delay doubles on each attempt (exponential backoff).
func WithRetries(count int, delay time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.retryCount = count
		f.retryDelay = delay
	}
}

// WithFetcherUserAgent sets a custom User-Agent header.
func WithFetcherUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithFetcherMaxBodySize sets the maximum response body size.
func WithFetcherMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithFetcherHeaders sets extra headers sent with every request.
// Used for per-site configuration (authentication headers and similar).
func WithFetcherHeaders(headers map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithFetcherCookie sets a Cookie header value sent with every request.
func WithFetcherCookie(cookie string) FetcherOption {
	return func(f *Fetcher) {
		f.cookie = cookie
	}
}

// NewFetcher creates a new Fetcher with the given HTTP client.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		timeout:     30 * time.Second,
		retryCount:  3,
		retryDelay:  2 * time.Second,
		userAgent:   "sitecrawl/1.0 (+https://github.com/nao1215/sitecrawl)",
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// FetchResult is the outcome of a successful fetch.
type FetchResult struct {
	// Body is the response body decoded to UTF-8.
	Body string

	// ContentType is the value of the Content-Type header.
	ContentType string

	// StatusCode is the HTTP response status code (always 2xx here).
	StatusCode int
}

// FetchError is a classified fetch failure.
// It implements error so the fetcher keeps the usual (value, error)
// contract, and converts to a model.CrawlError for result accumulation.
type FetchError struct {
	// URL is the offending URL.
	URL string

	// Kind is the failure classification.
	Kind model.ErrorKind

	// StatusCode is set for KindHTTPStatus failures.
	StatusCode int

	// Err is the underlying error, nil for pure status failures.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// CrawlError converts the failure into a model.CrawlError.
func (e *FetchError) CrawlError() model.CrawlError {
	if e.Kind == model.KindHTTPStatus {
		return model.NewHTTPStatusError(e.URL, e.StatusCode, e.Error())
	}
	return model.NewCrawlError(e.URL, e.Kind, e.Error())
}

// Fetch performs one HTTP GET with bounded retry and returns the decoded
// body, or a *FetchError classifying the failure.
//
// Retry policy: transient failures (timeout, connection error) are retried
// up to the configured count with exponentially increasing delay.
// Definitive failures (HTTP 4xx/5xx, malformed URL) are never retried; the
// server has answered, and asking again will not change the answer.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*FetchResult, error) {
	// Reject malformed URLs before touching the network.
	if _, err := url.Parse(pageURL); err != nil {
		return nil, &FetchError{URL: pageURL, Kind: model.KindInvalidURL, Err: err}
	}

	var lastErr *FetchError
	for attempt := 0; attempt <= f.retryCount; attempt++ {
		if attempt > 0 {
			// Exponential backoff: delay, 2*delay, 4*delay, ...
			wait := f.retryDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, &FetchError{URL: pageURL, Kind: model.KindTimeout, Err: ctx.Err()}
			case <-time.After(wait):
			}
		}

		result, fetchErr := f.fetchOnce(ctx, pageURL)
		if fetchErr == nil {
			return result, nil
		}

		lastErr = fetchErr
		if !isTransient(fetchErr.Kind) {
			return nil, fetchErr
		}
		// The crawl deadline dominates the retry budget.
		if ctx.Err() != nil {
			return nil, fetchErr
		}
	}

	return nil, lastErr
}

// fetchOnce performs a single HTTP GET attempt.
func (f *Fetcher) fetchOnce(ctx context.Context, pageURL string) (*FetchResult, *FetchError) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Kind: model.KindInvalidURL, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Kind: classifyTransportError(err), Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // Best-effort close on read path

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little so the connection can be reused, then classify.
		_, _ = io.CopyN(io.Discard, resp.Body, 512) //nolint:errcheck
		return nil, &FetchError{URL: pageURL, Kind: model.KindHTTPStatus, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")

	// Decode the body to UTF-8 honoring the declared or sniffed charset.
	// The open web still serves plenty of non-UTF-8 HTML.
	bodyReader := io.LimitReader(resp.Body, f.maxBodySize)
	decoded, err := charset.NewReader(bodyReader, contentType)
	if err != nil {
		// Unknown charset: fall back to the raw bytes.
		decoded = bodyReader
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Kind: classifyTransportError(err), Err: err}
	}

	return &FetchResult{
		Body:        string(body),
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
	}, nil
}

// isTransient reports whether a failure kind may succeed on retry.
func isTransient(kind model.ErrorKind) bool {
	return kind == model.KindTimeout || kind == model.KindConnection
}

// classifyTransportError maps a transport-level error to an ErrorKind.
func classifyTransportError(err error) model.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return model.KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.KindTimeout
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return model.KindTimeout
		}
		// url.Error wraps parse failures with op "parse".
		if strings.EqualFold(urlErr.Op, "parse") {
			return model.KindInvalidURL
		}
	}

	return model.KindConnection
}
