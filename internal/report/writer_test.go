package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/sitecrawl/internal/model"
)

// sampleResult builds a crawl result with one page and one error.
func sampleResult() *model.CrawlResult {
	result := model.NewCrawlResult("https://example.com/", 10)
	result.StartedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	result.Duration = 3 * time.Second

	result.AddPage(model.PageRecord{
		URL:            "https://example.com/",
		Title:          "Example Home",
		TextContent:    "Welcome to the example site.",
		ContentSnippet: "Welcome to the example site.",
		Images: []model.ImageRef{
			{URL: "https://example.com/logo.png", AltText: "logo"},
		},
		ImagesCount: 1,
		Links:       []string{"https://example.com/about"},
		CrawledAt:   time.Date(2026, 8, 1, 12, 0, 1, 0, time.UTC),
	})
	result.AddError(model.NewHTTPStatusError("https://example.com/missing", 404, "HTTP 404"))
	result.PagesAttempted = 2

	return result
}

// sampleBatchReport builds a batch report with one success and one failure.
func sampleBatchReport() *model.BatchReport {
	report := model.NewBatchReport(2)
	report.Add(&model.SeedOutcome{
		SeedURL: "https://example.com/",
		Success: true,
		Result:  sampleResult(),
	})
	report.Add(&model.SeedOutcome{
		SeedURL: "not-a-url",
		Success: false,
		Error:   "invalid seed URL: must be absolute http or https",
	})
	report.Elapsed = 5 * time.Second
	return report
}

// unorderedBatchReport builds a batch report with seeds added out of
// lexical order, for row-order assertions.
func unorderedBatchReport() *model.BatchReport {
	report := model.NewBatchReport(3)
	for _, seed := range []string{
		"https://c.example.com/",
		"https://a.example.com/",
		"https://b.example.com/",
	} {
		report.Add(&model.SeedOutcome{
			SeedURL: seed,
			Success: true,
			Result:  model.NewCrawlResult(seed, 5),
		})
	}
	return report
}

// assertSeedOrder checks that the seeds appear in output in the given order.
func assertSeedOrder(t *testing.T, output string, seeds []string) {
	t.Helper()

	last := -1
	for _, seed := range seeds {
		idx := strings.Index(output, seed)
		if idx < 0 {
			t.Fatalf("output missing seed %q", seed)
		}
		if idx < last {
			t.Errorf("seed %q rendered out of order", seed)
		}
		last = idx
	}
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewJSONWriter(&buf)

		n, err := writer.Write(sampleResult())
		if err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("Write() = %d bytes, buffer has %d", n, buf.Len())
		}

		var decoded model.CrawlResult
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.BaseURL != "https://example.com/" {
			t.Errorf("BaseURL = %q, want %q", decoded.BaseURL, "https://example.com/")
		}
		if decoded.PagesCrawled != 1 || len(decoded.Errors) != 1 {
			t.Errorf("decoded counts wrong: pages=%d errors=%d", decoded.PagesCrawled, len(decoded.Errors))
		}
	})

	t.Run("pretty print produces indented output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := writer.Write(sampleResult()); err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("expected indented JSON output")
		}
	})

	t.Run("writes batch reports", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewJSONWriter(&buf)

		if _, err := writer.WriteBatch(sampleBatchReport()); err != nil {
			t.Fatalf("WriteBatch() returned error: %v", err)
		}

		var decoded model.BatchReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Requested != 2 || decoded.Succeeded != 1 {
			t.Errorf("decoded counts wrong: requested=%d succeeded=%d", decoded.Requested, decoded.Succeeded)
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes crawl report sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewMarkdownWriter(&buf)

		if _, err := writer.Write(sampleResult()); err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Crawl Report",
			"## Pages",
			"## Errors",
			"Example Home",
			"http_status",
			"mermaid",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("omits error chart when there are no errors", func(t *testing.T) {
		t.Parallel()

		result := model.NewCrawlResult("https://example.com/", 5)
		result.PagesAttempted = 0

		var buf bytes.Buffer
		writer := NewMarkdownWriter(&buf)

		if _, err := writer.Write(result); err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "mermaid") {
			t.Error("expected no mermaid chart without errors")
		}
		if !strings.Contains(output, "No errors occurred.") {
			t.Error("expected empty errors section text")
		}
	})

	t.Run("writes batch report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewMarkdownWriter(&buf)

		if _, err := writer.WriteBatch(sampleBatchReport()); err != nil {
			t.Fatalf("WriteBatch() returned error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Batch Crawl Report",
			"## Seeds",
			"`https://example.com/`",
			"`not-a-url`",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("batch seed rows are sorted", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewMarkdownWriter(&buf)

		if _, err := writer.WriteBatch(unorderedBatchReport()); err != nil {
			t.Fatalf("WriteBatch() returned error: %v", err)
		}

		assertSeedOrder(t, buf.String(), []string{
			"https://a.example.com/",
			"https://b.example.com/",
			"https://c.example.com/",
		})
	})
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes crawl report sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewSimpleWriter(&buf)

		if _, err := writer.Write(sampleResult()); err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"CRAWL REPORT",
			"PAGES",
			"ERRORS",
			"https://example.com/",
			"Example Home",
			"HTTP 404",
			"Status:          Complete",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("marks timed out crawls", func(t *testing.T) {
		t.Parallel()

		result := sampleResult()
		result.TimedOut = true

		var buf bytes.Buffer
		writer := NewSimpleWriter(&buf)

		if _, err := writer.Write(result); err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}
		if !strings.Contains(buf.String(), "TIMED OUT (partial results)") {
			t.Error("expected timed out status line")
		}
	})

	t.Run("verbose includes error messages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewSimpleWriter(&buf, WithVerbose(true))

		if _, err := writer.Write(sampleResult()); err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}
		if !strings.Contains(buf.String(), "HTTP 404") {
			t.Error("expected verbose error detail")
		}
	})

	t.Run("writes batch report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewSimpleWriter(&buf)

		if _, err := writer.WriteBatch(sampleBatchReport()); err != nil {
			t.Fatalf("WriteBatch() returned error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "BATCH CRAWL REPORT") {
			t.Error("expected batch report header")
		}
		if !strings.Contains(output, "[+] https://example.com/") {
			t.Error("expected successful seed line")
		}
		if !strings.Contains(output, "[!] not-a-url") {
			t.Error("expected failed seed line")
		}
	})

	t.Run("batch seed rows are sorted", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewSimpleWriter(&buf)

		if _, err := writer.WriteBatch(unorderedBatchReport()); err != nil {
			t.Fatalf("WriteBatch() returned error: %v", err)
		}

		assertSeedOrder(t, buf.String(), []string{
			"https://a.example.com/",
			"https://b.example.com/",
			"https://c.example.com/",
		})
	})
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var jsonBuf, textBuf bytes.Buffer
		multi := NewMultiWriter(
			NewJSONWriter(&jsonBuf),
			NewSimpleWriter(&textBuf),
		)

		n, err := multi.Write(sampleResult())
		if err != nil {
			t.Fatalf("Write() returned error: %v", err)
		}
		if n != jsonBuf.Len()+textBuf.Len() {
			t.Errorf("Write() = %d bytes, buffers total %d", n, jsonBuf.Len()+textBuf.Len())
		}
		if jsonBuf.Len() == 0 || textBuf.Len() == 0 {
			t.Error("expected output in both writers")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		multi := NewMultiWriter(
			NewJSONWriter(failingWriter{}),
			NewJSONWriter(&buf),
		)

		if _, err := multi.Write(sampleResult()); err == nil {
			t.Fatal("expected error from failing writer")
		}
		if buf.Len() != 0 {
			t.Error("expected no output after the failing writer")
		}
	})
}

// failingWriter always fails, for error propagation tests.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}
