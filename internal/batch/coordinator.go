// Package batch runs multiple independent crawls concurrently and merges
// their outcomes into a single report.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/sitecrawl/internal/crawler"
	"github.com/nao1215/sitecrawl/internal/model"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyBatch is returned when a batch contains no seed URLs.
var ErrEmptyBatch = errors.New("batch contains no seed URLs")

// ErrBatchTooLarge is returned when a batch exceeds the configured maximum.
var ErrBatchTooLarge = errors.New("batch exceeds the maximum number of seeds")

// Coordinator fans a batch of seed URLs out to independent crawls.
//
// Design decision: We use a separate Coordinator rather than adding batch
// functionality to the Spider because:
//  1. It keeps the Spider focused on single-crawl execution
//  2. Each crawl needs its own frontier and visited set
//  3. It provides cleaner separation of concerns
type Coordinator struct {
	// spiderFactory creates a fresh Spider for each seed.
	// A factory guarantees that crawl state never leaks between seeds and
	// lets the caller apply per-site settings per seed.
	spiderFactory func(seedURL string) *crawler.Spider

	// concurrency is the maximum number of crawls running at once.
	concurrency int

	// maxBatchSize caps the number of seeds per batch. Zero means no cap.
	maxBatchSize int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithConcurrency sets the maximum number of concurrent crawls.
func WithConcurrency(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithMaxBatchSize caps the number of seeds accepted per batch.
func WithMaxBatchSize(n int) Option {
	return func(c *Coordinator) {
		c.maxBatchSize = n
	}
}

// WithLogger sets a custom logger for batch processing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCoordinator creates a Coordinator.
//
// The spiderFactory is called once per seed to create a fresh Spider.
func NewCoordinator(spiderFactory func(seedURL string) *crawler.Spider, opts ...Option) *Coordinator {
	c := &Coordinator{
		spiderFactory: spiderFactory,
		concurrency:   3,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run crawls every request in the batch and returns the merged report.
// Crawls are independent: one seed's failure becomes its outcome entry and
// never removes another seed's results.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each seed gets its own goroutine, but only 'concurrency' goroutines run
// simultaneously.
func (c *Coordinator) Run(ctx context.Context, requests []model.CrawlRequest) (*model.BatchReport, error) {
	if len(requests) == 0 {
		return nil, ErrEmptyBatch
	}
	if c.maxBatchSize > 0 && len(requests) > c.maxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(requests), c.maxBatchSize)
	}

	c.logger.Info("batch started",
		slog.Int("seeds", len(requests)),
		slog.Int("concurrency", c.concurrency))

	start := time.Now()
	report := model.NewBatchReport(len(requests))

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, req := range requests {
		g.Go(func() error {
			outcome := c.crawlSeed(gctx, req)

			mu.Lock()
			report.Add(outcome)
			mu.Unlock()

			// Failures are recorded in the outcome, never returned, so
			// one seed cannot cancel its siblings.
			return nil
		})
	}
	_ = g.Wait()

	report.Elapsed = time.Since(start)

	c.logger.Info("batch finished",
		slog.Int("seeds", report.Requested),
		slog.Int("succeeded", report.Succeeded),
		slog.Duration("elapsed", report.Elapsed))

	return report, nil
}

// crawlSeed runs one crawl and wraps the result or failure in an outcome.
func (c *Coordinator) crawlSeed(ctx context.Context, req model.CrawlRequest) *model.SeedOutcome {
	spider := c.spiderFactory(req.SeedURL)

	result, err := spider.Crawl(ctx, req)
	if err != nil {
		c.logger.Warn("crawl failed to start",
			slog.String("seed", req.SeedURL),
			slog.String("error", err.Error()))
		return &model.SeedOutcome{
			SeedURL: req.SeedURL,
			Success: false,
			Error:   err.Error(),
		}
	}

	return &model.SeedOutcome{
		SeedURL: req.SeedURL,
		Success: result.Success,
		Result:  result,
	}
}
