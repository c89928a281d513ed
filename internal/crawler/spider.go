package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nao1215/sitecrawl/internal/model"
	"golang.org/x/sync/errgroup"
)

// Spider crawls a website breadth-first from a seed URL.
// It manages the frontier of URLs to visit and dispatches fetches in
// concurrency-bounded waves.
//
// Design decision: We call it "Spider" rather than "Crawler" because:
//  1. "Spider" is the traditional term for web crawlers
//  2. Distinguishes the component from the package name
//  3. Clearer in code: crawler.NewSpider() vs crawler.NewCrawler()
type Spider struct {
	// fetcher retrieves pages over HTTP.
	fetcher *Fetcher

	// extractor pulls title, text, images, and links out of HTML.
	extractor *Extractor

	// concurrency is the maximum number of in-flight fetches per wave.
	concurrency int

	// crawlDelay is the politeness pause between waves.
	crawlDelay time.Duration

	// includeSubdomains widens the domain boundary to subdomains.
	includeSubdomains bool

	// logger receives per-page progress events.
	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithConcurrency sets the maximum number of concurrent fetches.
func WithConcurrency(n int) SpiderOption {
	return func(s *Spider) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithCrawlDelay sets the politeness pause between dispatch waves.
func WithCrawlDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.crawlDelay = d
	}
}

// WithSubdomains widens the domain boundary to subdomains of the seed host.
func WithSubdomains(include bool) SpiderOption {
	return func(s *Spider) {
		s.includeSubdomains = include
	}
}

// WithLogger sets the logger for crawl progress events.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSpider creates a Spider that fetches with the given fetcher and
// extracts content with the given extractor.
//
// Design decision: We require the fetcher and extractor rather than
// building them internally because:
//  1. The fetcher carries per-site settings (headers, cookies, retries)
//  2. Allows for different configurations in tests
//  3. Keeps the Spider focused on frontier management
func NewSpider(fetcher *Fetcher, extractor *Extractor, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:     fetcher,
		extractor:   extractor,
		concurrency: 5,
		crawlDelay:  500 * time.Millisecond,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Crawl runs a breadth-first crawl from the request's seed URL and returns
// the aggregate result. Per-page failures are recorded on the result and
// never abort the crawl; an error is returned only when the crawl could not
// start at all.
//
// The page budget counts URLs dispatched for fetching, successful or not,
// so len(result.Pages)+len(result.Errors) equals result.PagesAttempted and
// never exceeds the budget. When ctx is cancelled mid-crawl the result is
// returned partial with TimedOut set.
func (s *Spider) Crawl(ctx context.Context, req model.CrawlRequest) (*model.CrawlResult, error) {
	seed, err := model.ParseSeedURL(req.SeedURL)
	if err != nil {
		return nil, err
	}

	boundary := NewBoundaryPolicy(seed,
		WithFollowExternal(req.FollowExternalLinks),
		WithIncludeSubdomains(s.includeSubdomains),
	)

	start := normalizeURL(seed.String())
	budget := req.MaxPages
	result := model.NewCrawlResult(start, budget)
	logger := s.logger.With(slog.String("crawl_id", result.CrawlID))

	// Frontier state is local to each crawl so a Spider can be reused
	// and concurrent crawls never share visited sets.
	frontier := []string{start}
	visited := map[string]bool{start: true}
	attempted := 0

	logger.Debug("crawl started",
		slog.String("seed", start),
		slog.Int("budget", budget))

	for len(frontier) > 0 && attempted < budget {
		if ctx.Err() != nil {
			result.TimedOut = true
			break
		}

		// Dispatch one wave: up to concurrency URLs, never past the budget.
		n := min(s.concurrency, len(frontier), budget-attempted)
		wave := frontier[:n]
		frontier = frontier[n:]
		attempted += n

		var (
			mu         sync.Mutex
			discovered []string
		)

		var g errgroup.Group
		for _, pageURL := range wave {
			g.Go(func() error {
				page, links, crawlErr := s.crawlPage(ctx, pageURL)

				mu.Lock()
				defer mu.Unlock()
				if crawlErr != nil {
					logger.Warn("page failed",
						slog.String("url", pageURL),
						slog.String("kind", crawlErr.Kind.String()),
						slog.String("error", crawlErr.Message))
					result.AddError(*crawlErr)
					return nil
				}

				logger.Debug("page crawled",
					slog.String("url", pageURL),
					slog.Int("links", len(links)))
				result.AddPage(*page)
				discovered = append(discovered, links...)
				return nil
			})
		}
		// Workers never return errors; failures land on the result.
		_ = g.Wait()

		// Enqueue newly discovered in-boundary links. Enqueueing is not
		// budget-limited; the budget gates dispatch above.
		for _, link := range discovered {
			if !boundary.Eligible(link) {
				continue
			}
			normalized := normalizeURL(link)
			if visited[normalized] {
				continue
			}
			visited[normalized] = true
			frontier = append(frontier, normalized)
		}

		// Politeness delay between waves.
		if s.crawlDelay > 0 && len(frontier) > 0 && attempted < budget {
			select {
			case <-ctx.Done():
				result.TimedOut = true
			case <-time.After(s.crawlDelay):
			}
		}
	}

	if ctx.Err() != nil {
		result.TimedOut = true
	}

	result.PagesAttempted = attempted
	result.Duration = time.Since(result.StartedAt)

	logger.Info("crawl finished",
		slog.String("seed", start),
		slog.Int("pages", result.PagesCrawled),
		slog.Int("errors", len(result.Errors)),
		slog.Bool("timed_out", result.TimedOut),
		slog.Duration("duration", result.Duration))

	return result, nil
}

// crawlPage fetches and extracts a single page. Exactly one of the page
// record or the crawl error is non-nil.
func (s *Spider) crawlPage(ctx context.Context, pageURL string) (*model.PageRecord, []string, *model.CrawlError) {
	fetched, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			ce := fe.CrawlError()
			return nil, nil, &ce
		}
		ce := model.NewCrawlError(pageURL, model.KindConnection, err.Error())
		return nil, nil, &ce
	}

	if !isHTMLContentType(fetched.ContentType) {
		ce := model.NewCrawlError(pageURL, model.KindParse,
			fmt.Sprintf("not an HTML page: %s", fetched.ContentType))
		return nil, nil, &ce
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		ce := model.NewCrawlError(pageURL, model.KindInvalidURL, err.Error())
		return nil, nil, &ce
	}

	extraction, err := s.extractor.Extract(base, strings.NewReader(fetched.Body))
	if err != nil {
		ce := model.NewCrawlError(pageURL, model.KindParse, err.Error())
		return nil, nil, &ce
	}

	page := &model.PageRecord{
		URL:            pageURL,
		Title:          extraction.Title,
		TextContent:    extraction.Text,
		ContentSnippet: extraction.Snippet,
		Images:         extraction.Images,
		ImagesCount:    len(extraction.Images),
		Links:          extraction.Links,
		CrawledAt:      time.Now(),
	}

	return page, extraction.Links, nil
}

// isHTMLContentType reports whether the Content-Type header names an HTML
// document. An empty header is treated as HTML because many small servers
// omit it.
func isHTMLContentType(contentType string) bool {
	if contentType == "" {
		return true
	}
	return strings.Contains(contentType, "text/html") ||
		strings.Contains(contentType, "application/xhtml+xml")
}

// normalizeURL normalizes a URL for deduplication.
//
// Design decision: We normalize URLs because:
//  1. Same page can have different URL representations
//  2. Fragment (#anchor) doesn't change content
//  3. http://example.com and http://example.com/ are the same page
func normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}
