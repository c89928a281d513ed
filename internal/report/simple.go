package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sitecrawl/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables the full text content per page instead of snippets.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs a crawl result in human-readable format.
func (w *SimpleWriter) Write(result *model.CrawlResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writePages(&sb, result)
	w.writeErrors(&sb, result)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteBatch outputs a batch report in human-readable format.
func (w *SimpleWriter) WriteBatch(report *model.BatchReport) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       BATCH CRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Seeds Requested: %d\n", report.Requested))
	sb.WriteString(fmt.Sprintf("Seeds Succeeded: %d\n", report.Succeeded))
	sb.WriteString(fmt.Sprintf("Elapsed:         %s\n", report.Elapsed))
	sb.WriteString("\n")

	for _, seed := range report.SortedSeeds() {
		outcome := report.Outcomes[seed]
		if outcome.Success && outcome.Result != nil {
			sb.WriteString(fmt.Sprintf("  [+] %s (%d pages, %d errors)\n",
				seed, outcome.Result.PagesCrawled, len(outcome.Result.Errors)))
			continue
		}
		sb.WriteString(fmt.Sprintf("  [!] %s: %s\n", seed, outcome.Error))
	}
	sb.WriteString("\n")

	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with crawl information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.CrawlResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          CRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Base URL:        %s\n", result.BaseURL))
	sb.WriteString(fmt.Sprintf("Started At:      %s\n", result.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:        %s\n", result.Duration))
	sb.WriteString(fmt.Sprintf("Pages Crawled:   %d of %d requested\n", result.PagesCrawled, result.PagesRequested))
	sb.WriteString(fmt.Sprintf("Pages Attempted: %d\n", result.PagesAttempted))

	switch {
	case result.TimedOut:
		sb.WriteString("Status:          TIMED OUT (partial results)\n")
	case !result.Success:
		sb.WriteString("Status:          FAILED\n")
	default:
		sb.WriteString("Status:          Complete\n")
	}

	sb.WriteString("\n")
}

// writePages writes the crawled pages section.
func (w *SimpleWriter) writePages(sb *strings.Builder, result *model.CrawlResult) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(result.Pages) == 0 {
		sb.WriteString("  No pages crawled\n\n")
		return
	}

	for _, page := range result.Pages {
		sb.WriteString(fmt.Sprintf("  [+] %s\n", page.URL))
		if page.Title != "" {
			sb.WriteString(fmt.Sprintf("      Title:  %s\n", page.Title))
		}
		sb.WriteString(fmt.Sprintf("      Links:  %d, Images: %d\n", len(page.Links), page.ImagesCount))
		if w.verbose && page.TextContent != "" {
			sb.WriteString(fmt.Sprintf("      Text:   %s\n", page.TextContent))
		} else if page.ContentSnippet != "" {
			sb.WriteString(fmt.Sprintf("      Text:   %s\n", page.ContentSnippet))
		}
	}
	sb.WriteString("\n")
}

// writeErrors writes the per-page error section.
func (w *SimpleWriter) writeErrors(sb *strings.Builder, result *model.CrawlResult) {
	if len(result.Errors) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ERRORS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, e := range result.Errors {
		if e.StatusCode != 0 {
			sb.WriteString(fmt.Sprintf("  [!] %s (%s, HTTP %d)\n", e.URL, e.Kind, e.StatusCode))
		} else {
			sb.WriteString(fmt.Sprintf("  [!] %s (%s)\n", e.URL, e.Kind))
		}
		if w.verbose && e.Message != "" {
			sb.WriteString(fmt.Sprintf("      %s\n", e.Message))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by sitecrawl\n")
	sb.WriteString("https://github.com/nao1215/sitecrawl\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
