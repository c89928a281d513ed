// Package crawler provides the core crawling engine for sitecrawl.
//
// # Architecture
//
// The package is designed around the Spider type, which owns the crawl
// frontier (a FIFO queue of discovered URLs) and the visited set, and
// drives concurrency-bounded fetch/extract waves until the frontier is
// exhausted or the page budget is reached.
//
// Design decision: We implement our own crawler rather than using a
// third-party library because:
//  1. The frontier/budget semantics (attempt counting, FIFO discovery
//     order, collect-don't-abort error handling) must be exact and testable
//  2. We need the concurrency limit to be a first-class parameter rather
//     than an implicit runtime behavior
//  3. Reduces external dependencies and potential security issues
//
// # Components
//
//   - Fetcher: One HTTP GET with timeout, bounded retry, and failure
//     classification
//   - Extractor: HTML parsing into title, visible text, images, and links
//   - BoundaryPolicy: Decides whether a discovered link stays in scope
//   - Spider: The orchestrator that ties the three together per crawl
//
// # Isolation
//
// Every Spider.Crawl call gets its own frontier and visited set. Nothing
// is shared across concurrent crawls, so a batch can run crawls in
// parallel without cross-crawl locking.
//
// # Usage
//
//	fetcher := crawler.NewFetcher(http.DefaultClient)
//	extractor := crawler.NewExtractor()
//	spider := crawler.NewSpider(fetcher, extractor, crawler.WithConcurrency(5))
//	result, err := spider.Crawl(ctx, model.CrawlRequest{SeedURL: "https://example.com", MaxPages: 50})
package crawler
