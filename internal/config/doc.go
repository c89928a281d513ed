// Package config provides configuration structures and utilities for
// sitecrawl. It defines the crawl tuning options (concurrency, timeouts,
// retries, budgets), report generation preferences, and the optional YAML
// configuration file with per-site overrides.
package config
