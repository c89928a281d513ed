// Package model defines the core data structures used throughout sitecrawl.
//
// This package contains the following main types:
//   - CrawlRequest: A validated request to crawl one site
//   - PageRecord: The structured result of fetching and parsing one page
//   - CrawlResult: The terminal result of a single crawl
//   - BatchReport: The merged outcome of a batch of independent crawls
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, batch, report) need to use these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output.
package model
