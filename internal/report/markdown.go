package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/sitecrawl/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs a crawl result in Markdown format.
func (w *MarkdownWriter) Write(result *model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Report")
	md.PlainText("")

	w.writeSummary(md, result)
	w.writePages(md, result)
	w.writeErrors(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteBatch outputs a batch report in Markdown format.
func (w *MarkdownWriter) WriteBatch(report *model.BatchReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Batch Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seeds Requested", strconv.Itoa(report.Requested)},
			{"Seeds Succeeded", strconv.Itoa(report.Succeeded)},
			{"Elapsed", report.Elapsed.String()},
		},
	})
	md.PlainText("")

	rows := make([][]string, 0, len(report.Outcomes))
	for _, seed := range report.SortedSeeds() {
		outcome := report.Outcomes[seed]
		status := "✅ ok"
		pages := "-"
		errs := "-"
		if outcome.Result != nil {
			pages = strconv.Itoa(outcome.Result.PagesCrawled)
			errs = strconv.Itoa(len(outcome.Result.Errors))
			if outcome.Result.TimedOut {
				status = "⚠️ timed out"
			}
		}
		if !outcome.Success {
			status = "❌ " + truncateString(outcome.Error, 50)
		}
		rows = append(rows, []string{"`" + seed + "`", status, pages, errs})
	}
	md.H2("Seeds")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Seed", "Status", "Pages", "Errors"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeSummary writes the crawl summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.CrawlResult) {
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Base URL", "`" + result.BaseURL + "`"},
			{"Started At", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", result.Duration.String()},
			{"Pages Requested", strconv.Itoa(result.PagesRequested)},
			{"Pages Crawled", strconv.Itoa(result.PagesCrawled)},
			{"Pages Attempted", strconv.Itoa(result.PagesAttempted)},
			{"Errors", strconv.Itoa(len(result.Errors))},
			{"Status", w.statusText(result)},
		},
	})
	md.PlainText("")

	switch {
	case result.TimedOut:
		md.Warningf("The crawl hit its deadline after %d of %d pages; results are partial.",
			result.PagesAttempted, result.PagesRequested)
	case len(result.Errors) > 0:
		md.Notef("%d page(s) could not be crawled. See the errors section below.",
			len(result.Errors))
	default:
		md.Tip("All attempted pages were crawled successfully.")
	}
	md.PlainText("")
}

// statusText returns the status cell based on result state.
func (w *MarkdownWriter) statusText(result *model.CrawlResult) string {
	if result.TimedOut {
		return "⚠️ Timed Out (partial results)"
	}
	if !result.Success {
		return "❌ Failed"
	}
	return "✅ Complete"
}

// writePages writes the crawled pages table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, result *model.CrawlResult) {
	md.H2("Pages")
	md.PlainText("")

	if len(result.Pages) == 0 {
		md.PlainText("No pages were crawled.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(result.Pages))
	for i, p := range result.Pages {
		title := p.Title
		if title == "" {
			title = "-"
		}
		rows[i] = []string{
			"`" + truncateString(p.URL, 60) + "`",
			truncateString(title, 40),
			strconv.Itoa(len(p.Links)),
			strconv.Itoa(p.ImagesCount),
			truncateString(p.ContentSnippet, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Title", "Links", "Images", "Snippet"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeErrors writes the per-page error table with a kind distribution chart.
func (w *MarkdownWriter) writeErrors(md *markdown.Markdown, result *model.CrawlResult) {
	md.H2("Errors")
	md.PlainText("")

	if len(result.Errors) == 0 {
		md.PlainText("No errors occurred.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(result.Errors))
	for i, e := range result.Errors {
		status := "-"
		if e.StatusCode != 0 {
			status = strconv.Itoa(e.StatusCode)
		}
		rows[i] = []string{
			"`" + truncateString(e.URL, 60) + "`",
			e.Kind.String(),
			status,
			truncateString(e.Message, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Kind", "Status", "Message"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeErrorChart(md, result)
}

// writeErrorChart writes a mermaid pie chart of error kinds.
func (w *MarkdownWriter) writeErrorChart(md *markdown.Markdown, result *model.CrawlResult) {
	counts := result.ErrorKindCounts()
	if len(counts) == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Error Kind Distribution"),
		piechart.WithShowData(true),
	)

	// Fixed kind order keeps the chart stable across runs.
	kinds := []model.ErrorKind{
		model.KindInvalidURL,
		model.KindTimeout,
		model.KindConnection,
		model.KindHTTPStatus,
		model.KindParse,
	}
	for _, kind := range kinds {
		if n := counts[kind]; n > 0 {
			chart.LabelAndIntValue(kind.String(), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [sitecrawl](https://github.com/nao1215/sitecrawl)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
