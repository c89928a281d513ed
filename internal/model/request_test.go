package model

import (
	"errors"
	"testing"
)

// TestParseSeedURL tests seed URL validation.
func TestParseSeedURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		seed    string
		wantErr bool
	}{
		{"valid http", "http://example.com", false},
		{"valid https", "https://example.com/path?q=1", false},
		{"surrounding whitespace", "  https://example.com  ", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"relative path", "/just/a/path", true},
		{"missing scheme", "example.com", true},
		{"ftp scheme", "ftp://example.com/file", true},
		{"javascript scheme", "javascript:void(0)", true},
		{"scheme without host", "http://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u, err := ParseSeedURL(tt.seed)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got URL %v", tt.seed, u)
				}
				if !errors.Is(err, ErrInvalidSeed) {
					t.Errorf("expected ErrInvalidSeed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.seed, err)
			}
			if u.Host == "" {
				t.Errorf("expected non-empty host for %q", tt.seed)
			}
		})
	}
}

// TestCrawlRequestValidate tests request validation and budget defaulting.
func TestCrawlRequestValidate(t *testing.T) {
	t.Parallel()

	t.Run("accepts valid request", func(t *testing.T) {
		t.Parallel()

		req := CrawlRequest{SeedURL: "https://example.com", MaxPages: 10}
		if err := req.Validate(50, 500); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.MaxPages != 10 {
			t.Errorf("expected MaxPages 10, got %d", req.MaxPages)
		}
	})

	t.Run("zero budget uses default", func(t *testing.T) {
		t.Parallel()

		req := CrawlRequest{SeedURL: "https://example.com"}
		if err := req.Validate(50, 500); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.MaxPages != 50 {
			t.Errorf("expected default MaxPages 50, got %d", req.MaxPages)
		}
	})

	t.Run("rejects budget above maximum", func(t *testing.T) {
		t.Parallel()

		req := CrawlRequest{SeedURL: "https://example.com", MaxPages: 501}
		err := req.Validate(50, 500)
		if !errors.Is(err, ErrInvalidBudget) {
			t.Errorf("expected ErrInvalidBudget, got %v", err)
		}
	})

	t.Run("rejects negative budget", func(t *testing.T) {
		t.Parallel()

		req := CrawlRequest{SeedURL: "https://example.com", MaxPages: -1}
		err := req.Validate(50, 500)
		if !errors.Is(err, ErrInvalidBudget) {
			t.Errorf("expected ErrInvalidBudget, got %v", err)
		}
	})

	t.Run("rejects invalid seed before budget check", func(t *testing.T) {
		t.Parallel()

		req := CrawlRequest{SeedURL: "not a url", MaxPages: -1}
		err := req.Validate(50, 500)
		if !errors.Is(err, ErrInvalidSeed) {
			t.Errorf("expected ErrInvalidSeed, got %v", err)
		}
	})
}
