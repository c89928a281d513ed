package batch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/sitecrawl/internal/crawler"
	"github.com/nao1215/sitecrawl/internal/model"
)

// newTestFactory builds a spider factory with no politeness delay.
func newTestFactory(client *http.Client) func(string) *crawler.Spider {
	return func(_ string) *crawler.Spider {
		fetcher := crawler.NewFetcher(client,
			crawler.WithRetries(0, time.Millisecond),
		)
		return crawler.NewSpider(fetcher, crawler.NewExtractor(),
			crawler.WithCrawlDelay(0),
		)
	}
}

func TestCoordinatorRun(t *testing.T) {
	t.Parallel()

	t.Run("crawls all seeds and merges outcomes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><head><title>Page</title></head><body>text</body></html>`))
		}))
		defer server.Close()

		requests := []model.CrawlRequest{
			{SeedURL: server.URL + "/one", MaxPages: 2},
			{SeedURL: server.URL + "/two", MaxPages: 2},
			{SeedURL: server.URL + "/three", MaxPages: 2},
		}

		coordinator := NewCoordinator(newTestFactory(server.Client()))
		report, err := coordinator.Run(context.Background(), requests)
		if err != nil {
			t.Fatalf("Run() returned error: %v", err)
		}

		if report.Requested != 3 {
			t.Errorf("Requested = %d, want 3", report.Requested)
		}
		if report.Succeeded != 3 {
			t.Errorf("Succeeded = %d, want 3", report.Succeeded)
		}
		if len(report.Outcomes) != 3 {
			t.Fatalf("Outcomes = %d entries, want 3", len(report.Outcomes))
		}
		for _, req := range requests {
			outcome, ok := report.Outcomes[req.SeedURL]
			if !ok {
				t.Errorf("missing outcome for seed %q", req.SeedURL)
				continue
			}
			if !outcome.Success {
				t.Errorf("outcome for %q not successful: %s", req.SeedURL, outcome.Error)
			}
			if outcome.Result == nil || outcome.Result.PagesCrawled != 1 {
				t.Errorf("outcome for %q missing crawl result", req.SeedURL)
			}
		}
	})

	t.Run("one seed failure does not remove other outcomes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body>ok</body></html>`))
		}))
		defer server.Close()

		requests := []model.CrawlRequest{
			{SeedURL: server.URL, MaxPages: 2},
			{SeedURL: "not-a-url", MaxPages: 2},
		}

		coordinator := NewCoordinator(newTestFactory(server.Client()))
		report, err := coordinator.Run(context.Background(), requests)
		if err != nil {
			t.Fatalf("Run() returned error: %v", err)
		}

		if report.Succeeded != 1 {
			t.Errorf("Succeeded = %d, want 1", report.Succeeded)
		}

		good := report.Outcomes[server.URL]
		if good == nil || !good.Success {
			t.Error("valid seed should have a successful outcome")
		}

		bad := report.Outcomes["not-a-url"]
		if bad == nil {
			t.Fatal("failed seed should still have an outcome entry")
		}
		if bad.Success {
			t.Error("invalid seed should not be marked successful")
		}
		if bad.Error == "" {
			t.Error("failed outcome should carry an error message")
		}
		if bad.Result != nil {
			t.Error("failed outcome should not carry a crawl result")
		}
	})

	t.Run("rejects empty batches", func(t *testing.T) {
		t.Parallel()

		coordinator := NewCoordinator(newTestFactory(http.DefaultClient))
		if _, err := coordinator.Run(context.Background(), nil); err == nil {
			t.Fatal("Run() with no seeds should return an error")
		}
	})

	t.Run("rejects batches over the size limit", func(t *testing.T) {
		t.Parallel()

		requests := []model.CrawlRequest{
			{SeedURL: "https://example.com", MaxPages: 1},
			{SeedURL: "https://example.org", MaxPages: 1},
			{SeedURL: "https://example.net", MaxPages: 1},
		}

		coordinator := NewCoordinator(newTestFactory(http.DefaultClient),
			WithMaxBatchSize(2),
		)
		_, err := coordinator.Run(context.Background(), requests)
		if err == nil {
			t.Fatal("Run() over the batch limit should return an error")
		}
	})

	t.Run("respects the concurrency limit", func(t *testing.T) {
		t.Parallel()

		var (
			mu      sync.Mutex
			current int
			peak    int
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			current++
			if current > peak {
				peak = current
			}
			mu.Unlock()

			time.Sleep(30 * time.Millisecond)

			mu.Lock()
			current--
			mu.Unlock()

			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body>ok</body></html>`))
		}))
		defer server.Close()

		requests := make([]model.CrawlRequest, 0, 6)
		for _, path := range []string{"/a", "/b", "/c", "/d", "/e", "/f"} {
			requests = append(requests, model.CrawlRequest{SeedURL: server.URL + path, MaxPages: 1})
		}

		coordinator := NewCoordinator(newTestFactory(server.Client()),
			WithConcurrency(2),
		)
		report, err := coordinator.Run(context.Background(), requests)
		if err != nil {
			t.Fatalf("Run() returned error: %v", err)
		}

		if report.Succeeded != 6 {
			t.Errorf("Succeeded = %d, want 6", report.Succeeded)
		}

		mu.Lock()
		defer mu.Unlock()
		// Each crawl fetches a single page, so in-flight requests track
		// in-flight crawls.
		if peak > 2 {
			t.Errorf("peak concurrent crawls = %d, want at most 2", peak)
		}
	})
}
