package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoSeed is returned when no seed URL is specified.
	ErrNoSeed = errors.New("no seed specified: provide one or more URLs as arguments")

	// ErrInvalidConcurrency is returned when the per-crawl concurrency
	// limit is not positive. Zero concurrency would mean no fetching.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when the request timeout is not
	// positive. A zero or negative timeout would cause immediate failures.
	ErrInvalidTimeout = errors.New("invalid request timeout: must be positive")

	// ErrInvalidRetryCount is returned when the retry count is negative.
	// Use 0 to disable retries.
	ErrInvalidRetryCount = errors.New("invalid retry count: must be non-negative")

	// ErrInvalidDelay is returned when the retry delay or crawl delay is
	// negative. Use 0 for no delay.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidSnippetLength is returned when the snippet length cap is
	// not positive.
	ErrInvalidSnippetLength = errors.New("invalid snippet length: must be positive")

	// ErrInvalidPageBudget is returned when the default page budget is
	// outside [1, MaxAllowedPages].
	ErrInvalidPageBudget = errors.New("invalid page budget: default must be within the allowed range")

	// ErrInvalidBatchSize is returned when the batch size limit or batch
	// concurrency is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is
	// negative. Use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a
	// time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
