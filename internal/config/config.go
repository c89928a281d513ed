package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values mirror typical polite-crawler settings: small concurrency,
// generous per-request timeout, and conservative budgets.
const (
	// DefaultConcurrency is the number of in-flight fetches per crawl.
	// Five concurrent requests against a single site is enough to keep the
	// crawl moving without looking like abuse to the target server.
	DefaultConcurrency = 5

	// DefaultRequestTimeout applies to each individual HTTP request.
	// 30 seconds tolerates slow origins without letting one dead URL
	// stall a whole wave of fetches.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultRetryCount is the number of additional attempts after the
	// first failed fetch. Retries apply only to transient failures
	// (timeouts and connection errors), never to HTTP error statuses.
	DefaultRetryCount = 3

	// DefaultRetryDelay is the base delay between retry attempts.
	// The fetcher doubles it on each attempt (exponential backoff).
	DefaultRetryDelay = 2 * time.Second

	// DefaultCrawlDelay is the pause between dispatch waves.
	// This is a politeness setting to avoid overwhelming servers.
	DefaultCrawlDelay = 500 * time.Millisecond

	// DefaultSnippetLength is the content snippet cap in characters.
	DefaultSnippetLength = 200

	// DefaultMaxPages is the page budget applied when a request does not
	// specify one.
	DefaultMaxPages = 50

	// DefaultMaxAllowedPages is the hard upper bound on any page budget.
	// Requests above it are rejected before the crawl starts.
	DefaultMaxAllowedPages = 500

	// DefaultMaxBatchSize is the maximum number of seeds in one batch.
	DefaultMaxBatchSize = 10

	// DefaultBatchConcurrency is the number of crawls run in parallel
	// within a batch. Crawls are fully isolated, so this is bounded by
	// memory and bandwidth rather than correctness.
	DefaultBatchConcurrency = 3

	// DefaultMaxBodySize limits the response body size to read.
	// 5MB is sufficient for any sane HTML page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies sitecrawl in HTTP requests.
	// A descriptive User-Agent lets site operators identify crawler
	// traffic in their logs.
	DefaultUserAgent = "sitecrawl/1.0 (+https://github.com/nao1215/sitecrawl)"

	// AppName is the application name used for XDG directory paths.
	AppName = "sitecrawl"
)

// Config holds all configuration options for sitecrawl.
// This struct is populated from CLI flags and the optional config file and
// passed through the application via dependency injection rather than
// global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant
// benefit.
type Config struct {
	// Concurrency is the maximum number of in-flight fetches per crawl.
	// No more than this many requests are outstanding simultaneously for
	// one crawl.
	Concurrency int

	// RequestTimeout is the timeout for each HTTP request, including
	// retries' individual attempts.
	RequestTimeout time.Duration

	// RetryCount is the number of retry attempts for transient failures.
	RetryCount int

	// RetryDelay is the base delay between retries; doubled per attempt.
	RetryDelay time.Duration

	// CrawlDelay is the politeness pause between dispatch waves.
	// Zero disables the pause (useful in tests).
	CrawlDelay time.Duration

	// SnippetLength is the content snippet cap in characters.
	SnippetLength int

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// DefaultMaxPages is the budget used when a request leaves MaxPages
	// at zero.
	DefaultMaxPages int

	// MaxAllowedPages is the hard upper bound on any page budget.
	MaxAllowedPages int

	// MaxBatchSize is the maximum number of seeds accepted in one batch.
	// Larger batches are rejected before any crawl starts.
	MaxBatchSize int

	// BatchConcurrency is the number of crawls run in parallel in a batch.
	BatchConcurrency int

	// IncludeSubdomains widens the domain boundary so that links on
	// subdomains of the seed's host (e.g. blog.example.com for a seed on
	// example.com) are eligible. The "www." prefix is always equivalent
	// regardless of this setting.
	IncludeSubdomains bool

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated.
	MaxBodySize int64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file in addition to stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches the current directory, the XDG config directory, and
	// the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File

	// Seeds is the list of seed URLs to crawl.
	Seeds []string

	// FollowExternalLinks controls whether discovered links outside the
	// seed's domain are eligible for crawling.
	FollowExternalLinks bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout,
// concurrency). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Concurrency:      DefaultConcurrency,
		RequestTimeout:   DefaultRequestTimeout,
		RetryCount:       DefaultRetryCount,
		RetryDelay:       DefaultRetryDelay,
		CrawlDelay:       DefaultCrawlDelay,
		SnippetLength:    DefaultSnippetLength,
		UserAgent:        DefaultUserAgent,
		DefaultMaxPages:  DefaultMaxPages,
		MaxAllowedPages:  DefaultMaxAllowedPages,
		MaxBatchSize:     DefaultMaxBatchSize,
		BatchConcurrency: DefaultBatchConcurrency,
		MaxBodySize:      DefaultMaxBodySize,
	}
}

// XDGConfigDir returns the XDG config directory for sitecrawl.
// On Linux: ~/.config/sitecrawl
// On macOS: ~/Library/Application Support/sitecrawl
// On Windows: %APPDATA%\sitecrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeed
	}

	// Concurrency of zero would mean no fetching at all
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	// Zero timeout would cause immediate failures
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.RetryCount < 0 {
		return ErrInvalidRetryCount
	}

	if c.RetryDelay < 0 || c.CrawlDelay < 0 {
		return ErrInvalidDelay
	}

	if c.SnippetLength <= 0 {
		return ErrInvalidSnippetLength
	}

	if c.DefaultMaxPages < 1 || c.DefaultMaxPages > c.MaxAllowedPages {
		return ErrInvalidPageBudget
	}

	if c.MaxBatchSize <= 0 || c.BatchConcurrency <= 0 {
		return ErrInvalidBatchSize
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
