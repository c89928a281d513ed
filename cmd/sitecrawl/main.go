// Package main provides the entry point for the sitecrawl CLI.
//
// sitecrawl is a polite website crawler. Starting from a seed URL it walks
// a site breadth-first, extracts page content, and writes a structured
// report.
//
// Usage:
//
//	sitecrawl crawl https://example.com
//	sitecrawl crawl --max-pages 100 https://example.com https://example.org
//
// See --help for all available options.
package main

// main is the entry point for sitecrawl.
func main() {
	Execute()
}
