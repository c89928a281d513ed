package model

import (
	"strings"
	"time"
)

// MaxTextLength is the maximum length in characters of the extracted text
// stored per page. We limit this to prevent memory issues with very large
// pages; the full body is never retained after extraction.
const MaxTextLength = 10000

// DefaultSnippetLength is the default length of the content snippet in
// characters. The effective value comes from configuration; this constant
// is the fallback when no configuration is supplied.
const DefaultSnippetLength = 200

// PageRecord represents one successfully fetched and parsed page.
//
// Design decision: Every extracted field has a defined zero default (empty
// string, empty slice) rather than being conditionally present. Markup on
// the open web is routinely malformed; a page without a <title> is still a
// valid page, not an error.
type PageRecord struct {
	// URL is the normalized absolute URL of the page.
	URL string `json:"url"`

	// Title is the page title from the first <title> tag, or the og:title
	// meta tag when no <title> exists. Empty when neither is present.
	Title string `json:"title,omitempty"`

	// TextContent is the visible text of the page with script and style
	// content excluded, whitespace-normalized, capped at MaxTextLength.
	TextContent string `json:"text_content"`

	// ContentSnippet is a bounded-length prefix of TextContent.
	// A trailing "..." marks truncation.
	ContentSnippet string `json:"content_snippet"`

	// Images lists the images referenced by the page in document order.
	Images []ImageRef `json:"images"`

	// ImagesCount is len(Images), kept explicit for serialized output.
	ImagesCount int `json:"images_count"`

	// Links contains the outbound link URLs discovered on the page,
	// resolved to absolute form and deduplicated. This includes links the
	// boundary policy later rejects; eligibility is the orchestrator's
	// concern, not the page's.
	Links []string `json:"links,omitempty"`

	// CrawledAt is the time the page was fetched.
	CrawledAt time.Time `json:"crawl_timestamp"`
}

// ImageRef is a reference to one image on a page.
type ImageRef struct {
	// URL is the absolute URL of the image.
	URL string `json:"url"`

	// AltText is the image's alt attribute. Empty when absent.
	AltText string `json:"alt_text,omitempty"`
}

// Snippet returns a prefix of text capped at limit characters, with "..."
// appended when the text was longer. A non-positive limit falls back to
// DefaultSnippetLength.
func Snippet(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultSnippetLength
	}

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

// TruncateText caps text at MaxTextLength characters.
func TruncateText(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxTextLength {
		return text
	}
	return string(runes[:MaxTextLength])
}
