package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/sitecrawl/internal/batch"
	"github.com/nao1215/sitecrawl/internal/config"
	"github.com/nao1215/sitecrawl/internal/crawler"
	"github.com/nao1215/sitecrawl/internal/log"
	"github.com/nao1215/sitecrawl/internal/model"
	"github.com/nao1215/sitecrawl/internal/report"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Crawl one or more websites and report their content",
		Long: `Crawl walks each given website breadth-first from its seed URL.

It fetches pages concurrently, stays inside the seed's domain by default,
and extracts the title, visible text, images, and links of every page.
Failures on individual pages are recorded in the report and never abort
the crawl.

Examples:
  # Crawl a single site with default settings
  sitecrawl crawl https://example.com

  # Crawl up to 100 pages with 10 concurrent requests
  sitecrawl crawl -p 100 -n 10 https://example.com

  # Crawl several sites at once and write a JSON report
  sitecrawl crawl --json -o report.json https://example.com https://example.org

  # Include subdomains of the seed host
  sitecrawl crawl --include-subdomains https://example.com

  # Use a custom configuration file
  sitecrawl crawl -c myconfig.yaml https://example.com

Configuration file (.sitecrawl) example:
  sites:
    staging.example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      maxPages: 100`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to attempt per site")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Maximum number of concurrent requests per crawl")
	cmd.Flags().DurationP("timeout", "t", config.DefaultRequestTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().Int("retries", config.DefaultRetryCount,
		"Retry attempts for timeouts and connection errors")
	cmd.Flags().Duration("retry-delay", config.DefaultRetryDelay,
		"Base delay between retries (doubled per attempt)")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Politeness pause between request waves")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")

	// Boundary flags
	cmd.Flags().Bool("follow-external", false,
		"Follow links outside the seed's domain")
	cmd.Flags().Bool("include-subdomains", false,
		"Treat subdomains of the seed host as in-boundary")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchConcurrency,
		"Number of sites crawled concurrently when multiple URLs are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitecrawl in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.New(os.Stderr, log.FormatText, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown.
	// Cancellation mid-crawl yields a partial result, not a lost one.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("received shutdown signal, finishing current pages...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.DefaultMaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.RequestTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.RetryCount, err = cmd.Flags().GetInt("retries")
	if err != nil {
		return nil, err
	}

	cfg.RetryDelay, err = cmd.Flags().GetDuration("retry-delay")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.FollowExternalLinks, err = cmd.Flags().GetBool("follow-external")
	if err != nil {
		return nil, err
	}

	cfg.IncludeSubdomains, err = cmd.Flags().GetBool("include-subdomains")
	if err != nil {
		return nil, err
	}

	cfg.BatchConcurrency, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are the seed URLs.
	cfg.Seeds = args

	return cfg, nil
}

// runCrawl executes the crawl for all configured seeds.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	requests, err := buildRequests(cfg)
	if err != nil {
		return err
	}

	logger.Info("starting crawl",
		slog.Int("seeds", len(requests)),
		slog.Int("concurrency", cfg.Concurrency))

	// A single seed skips the batch layer entirely.
	if len(requests) == 1 {
		return runSingleCrawl(ctx, cfg, logger, requests[0])
	}

	return runBatchCrawl(ctx, cfg, logger, requests)
}

// buildRequests validates each seed and produces crawl requests with the
// effective per-site page budget.
func buildRequests(cfg *config.Config) ([]model.CrawlRequest, error) {
	requests := make([]model.CrawlRequest, 0, len(cfg.Seeds))
	for _, seed := range cfg.Seeds {
		req := model.CrawlRequest{
			SeedURL:             seed,
			FollowExternalLinks: cfg.FollowExternalLinks,
		}

		// A per-site budget from the config file wins over the flag.
		if u, err := model.ParseSeedURL(seed); err == nil {
			site := cfg.SiteConfigs.GetSiteConfig(u.Hostname())
			if site.MaxPages > 0 {
				req.MaxPages = site.MaxPages
			}
		}

		if err := req.Validate(cfg.DefaultMaxPages, cfg.MaxAllowedPages); err != nil {
			return nil, fmt.Errorf("seed %q: %w", seed, err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// runSingleCrawl crawls one seed and writes its report.
func runSingleCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, req model.CrawlRequest) error {
	fmt.Fprintf(os.Stderr, "Crawling %s...\n", req.SeedURL)
	start := time.Now()

	spider := newSpiderForSeed(cfg, logger, req.SeedURL)
	result, err := spider.Crawl(ctx, req)
	if err != nil {
		return fmt.Errorf("crawl %s: %w", req.SeedURL, err)
	}

	fmt.Fprintf(os.Stderr, "Crawl completed in %s\n\n", time.Since(start).Round(time.Millisecond))

	return writeReport(cfg, func(w report.Writer) error {
		_, err := w.Write(result)
		return err
	})
}

// runBatchCrawl crawls all seeds concurrently and writes the merged report.
func runBatchCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, requests []model.CrawlRequest) error {
	fmt.Fprintf(os.Stderr, "Starting batch crawl of %d sites (concurrency: %d)...\n\n",
		len(requests), cfg.BatchConcurrency)

	coordinator := batch.NewCoordinator(
		func(seedURL string) *crawler.Spider {
			return newSpiderForSeed(cfg, logger, seedURL)
		},
		batch.WithConcurrency(cfg.BatchConcurrency),
		batch.WithMaxBatchSize(cfg.MaxBatchSize),
		batch.WithLogger(logger),
	)

	batchReport, err := coordinator.Run(ctx, requests)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Batch crawl completed in %s\n\n", batchReport.Elapsed.Round(time.Millisecond))

	return writeReport(cfg, func(w report.Writer) error {
		_, err := w.WriteBatch(batchReport)
		return err
	})
}

// newSpiderForSeed builds a Spider with the global settings plus any
// site-specific overrides for the seed's host.
func newSpiderForSeed(cfg *config.Config, logger *slog.Logger, seedURL string) *crawler.Spider {
	var site config.SiteConfig
	if u, err := model.ParseSeedURL(seedURL); err == nil {
		site = cfg.SiteConfigs.GetSiteConfig(u.Hostname())
	}

	userAgent := cfg.UserAgent
	if site.UserAgent != "" {
		userAgent = site.UserAgent
	}

	crawlDelay := cfg.CrawlDelay
	if site.Delay.Duration > 0 {
		crawlDelay = site.Delay.Duration
	}

	fetcherOpts := []crawler.FetcherOption{
		crawler.WithFetchTimeout(cfg.RequestTimeout),
		crawler.WithRetries(cfg.RetryCount, cfg.RetryDelay),
		crawler.WithFetcherUserAgent(userAgent),
		crawler.WithFetcherMaxBodySize(cfg.MaxBodySize),
	}
	if len(site.Headers) > 0 {
		fetcherOpts = append(fetcherOpts, crawler.WithFetcherHeaders(site.Headers))
	}
	if site.Cookie != "" {
		fetcherOpts = append(fetcherOpts, crawler.WithFetcherCookie(site.Cookie))
	}

	fetcher := crawler.NewFetcher(http.DefaultClient, fetcherOpts...)
	extractor := crawler.NewExtractor(crawler.WithSnippetLength(cfg.SnippetLength))

	return crawler.NewSpider(fetcher, extractor,
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithCrawlDelay(crawlDelay),
		crawler.WithSubdomains(cfg.IncludeSubdomains),
		crawler.WithLogger(logger),
	)
}

// writeReport builds the configured report writer and invokes write on it.
func writeReport(cfg *config.Config, write func(report.Writer) error) error {
	output := os.Stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	return write(w)
}
