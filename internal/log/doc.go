// Package log provides structured logger construction for sitecrawl.
//
// All application logging goes through log/slog. This package only decides
// how records are rendered: human-readable colored text for terminals, or
// JSON for machine consumption. Components receive a *slog.Logger via
// dependency injection rather than using a package-level default.
package log
