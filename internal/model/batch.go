package model

import (
	"maps"
	"slices"
	"time"
)

// SeedOutcome is the per-seed entry in a batch report: either a completed
// CrawlResult or a failure summary for a crawl that could not start.
type SeedOutcome struct {
	// SeedURL is the seed this outcome belongs to.
	SeedURL string `json:"seed_url"`

	// Success mirrors Result.Success for completed crawls and is false
	// when the crawl never started.
	Success bool `json:"success"`

	// Result is the crawl result. Nil when the crawl could not start.
	Result *CrawlResult `json:"result,omitempty"`

	// Error is the failure summary for crawls that never started.
	Error string `json:"error,omitempty"`
}

// BatchReport merges the outcomes of a batch of independent crawls.
// One seed's failure never removes the other seeds' outcomes.
type BatchReport struct {
	// Outcomes maps each seed URL to its outcome. Every requested seed
	// has exactly one entry.
	Outcomes map[string]*SeedOutcome `json:"outcomes"`

	// Requested is the number of crawls in the batch.
	Requested int `json:"requested"`

	// Succeeded is the number of crawls that completed.
	Succeeded int `json:"succeeded"`

	// Elapsed is the wall-clock duration of the whole batch.
	Elapsed time.Duration `json:"elapsed"`
}

// NewBatchReport creates an empty BatchReport sized for n seeds.
func NewBatchReport(n int) *BatchReport {
	return &BatchReport{
		Outcomes:  make(map[string]*SeedOutcome, n),
		Requested: n,
	}
}

// SortedSeeds returns the seed URLs of all outcomes in sorted order so
// that report rows render in a stable order.
func (b *BatchReport) SortedSeeds() []string {
	return slices.Sorted(maps.Keys(b.Outcomes))
}

// Add records one seed's outcome and updates the success counter.
// Not safe for concurrent use; the coordinator serializes additions.
func (b *BatchReport) Add(outcome *SeedOutcome) {
	b.Outcomes[outcome.SeedURL] = outcome
	if outcome.Success {
		b.Succeeded++
	}
}
