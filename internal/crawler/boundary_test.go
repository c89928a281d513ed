package crawler

import (
	"net/url"
	"testing"
)

func TestBoundaryPolicyEligible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		seed              string
		candidate         string
		followExternal    bool
		includeSubdomains bool
		want              bool
	}{
		{
			name:      "same host",
			seed:      "https://example.com",
			candidate: "https://example.com/about",
			want:      true,
		},
		{
			name:      "different host",
			seed:      "https://example.com",
			candidate: "https://other.com/page",
			want:      false,
		},
		{
			name:      "www prefix on candidate",
			seed:      "https://example.com",
			candidate: "https://www.example.com/about",
			want:      true,
		},
		{
			name:      "www prefix on seed",
			seed:      "https://www.example.com",
			candidate: "https://example.com/about",
			want:      true,
		},
		{
			name:      "scheme change stays in boundary",
			seed:      "https://example.com",
			candidate: "http://example.com/legacy",
			want:      true,
		},
		{
			name:      "different port leaves the boundary",
			seed:      "https://example.com",
			candidate: "https://example.com:8443/admin",
			want:      false,
		},
		{
			name:      "same explicit port stays in boundary",
			seed:      "https://example.com:8443",
			candidate: "https://example.com:8443/admin",
			want:      true,
		},
		{
			name:      "portless candidate rejected for ported seed",
			seed:      "https://example.com:8443",
			candidate: "https://example.com/about",
			want:      false,
		},
		{
			name:      "www prefix stripped with port",
			seed:      "https://www.example.com:8443",
			candidate: "https://example.com:8443/about",
			want:      true,
		},
		{
			name:      "subdomain rejected by default",
			seed:      "https://example.com",
			candidate: "https://blog.example.com/post",
			want:      false,
		},
		{
			name:              "subdomain accepted when enabled",
			seed:              "https://example.com",
			candidate:         "https://blog.example.com/post",
			includeSubdomains: true,
			want:              true,
		},
		{
			name:              "suffix lookalike rejected with subdomains",
			seed:              "https://example.com",
			candidate:         "https://notexample.com/post",
			includeSubdomains: true,
			want:              false,
		},
		{
			name:           "external host with follow external",
			seed:           "https://example.com",
			candidate:      "https://other.com/page",
			followExternal: true,
			want:           true,
		},
		{
			name:      "non-http scheme",
			seed:      "https://example.com",
			candidate: "ftp://example.com/file",
			want:      false,
		},
		{
			name:           "non-http scheme even with follow external",
			seed:           "https://example.com",
			candidate:      "ftp://other.com/file",
			followExternal: true,
			want:           false,
		},
		{
			name:      "relative URL without host",
			seed:      "https://example.com",
			candidate: "/about",
			want:      false,
		},
		{
			name:      "uppercase host",
			seed:      "https://example.com",
			candidate: "https://EXAMPLE.COM/About",
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			seed, err := url.Parse(tt.seed)
			if err != nil {
				t.Fatalf("failed to parse seed URL: %v", err)
			}

			policy := NewBoundaryPolicy(seed,
				WithFollowExternal(tt.followExternal),
				WithIncludeSubdomains(tt.includeSubdomains),
			)

			if got := policy.Eligible(tt.candidate); got != tt.want {
				t.Errorf("Eligible(%q) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestNormalizeHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		host string
		want string
	}{
		{name: "bare host", host: "example.com", want: "example.com"},
		{name: "www prefix", host: "www.example.com", want: "example.com"},
		{name: "uppercase", host: "WWW.Example.COM", want: "example.com"},
		{name: "www subdomain kept once", host: "www.www.example.com", want: "www.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeHost(tt.host); got != tt.want {
				t.Errorf("NormalizeHost(%q) = %q, want %q", tt.host, got, tt.want)
			}
		})
	}
}
