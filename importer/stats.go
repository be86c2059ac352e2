package importer

import (
	"time"

	"github.com/google/uuid"
)

// Stats counts per-category outcomes for one run. Duplicates that get an
// image pushed onto them count in both their duplicate category and
// DuplicatesEnhanced.
type Stats struct {
	Total              int `json:"total"`
	Successful         int `json:"successful"`
	Duplicates         int `json:"duplicates"`
	DuplicatesEnhanced int `json:"duplicates_enhanced"`
	NameDuplicates     int `json:"name_duplicates"`
	FailedScrape       int `json:"failed_scrape"`
	FailedCreate       int `json:"failed_create"`
	RateLimited        int `json:"rate_limited"`
	InvalidURLs        int `json:"invalid_urls"`
	NonRecipeURLs      int `json:"non_recipe_urls"`
	ConnectionErrors   int `json:"connection_errors"`
}

// Failures retains the URL and reason behind every non-success outcome,
// grouped the way the final report presents them.
type Failures struct {
	InvalidURLs      []string  `json:"invalid_urls,omitempty"`
	NonRecipeURLs    []Failure `json:"non_recipe_urls,omitempty"`
	ConnectionErrors []Failure `json:"connection_errors,omitempty"`
	FailedScrapes    []Failure `json:"failed_scrape,omitempty"`
	FailedCreates    []Failure `json:"failed_create,omitempty"`
	NameDuplicates   []Failure `json:"name_duplicates,omitempty"`
}

// RunRecord is the complete result of one import run: identity, timing,
// counters and failure detail. It is what the report renders and what the
// archive uploads.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Attempted  int       `json:"attempted"`
	Stats      Stats     `json:"stats"`
	Failures   Failures  `json:"failures"`
}

// NewRunRecord starts an empty record stamped with a fresh run ID.
func NewRunRecord() *RunRecord {
	return &RunRecord{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

// record folds one attempt's outcome into the counters and failure lists.
// The URL-duplicate retagging rules live here so call sites stay single
// purpose: enhanced duplicates count under both Duplicates and
// DuplicatesEnhanced, name duplicates likewise under NameDuplicates.
func (rr *RunRecord) record(outcome Outcome, url, reason string) {
	switch outcome {
	case OutcomeSuccess:
		rr.Stats.Successful++
	case OutcomeDuplicate:
		rr.Stats.Duplicates++
	case OutcomeDuplicateEnhanced:
		rr.Stats.Duplicates++
		rr.Stats.DuplicatesEnhanced++
	case OutcomeNameDuplicate:
		rr.Stats.NameDuplicates++
		rr.Failures.NameDuplicates = append(rr.Failures.NameDuplicates, Failure{url, reason})
	case OutcomeNameDuplicateEnhanced:
		rr.Stats.NameDuplicates++
		rr.Stats.DuplicatesEnhanced++
		rr.Failures.NameDuplicates = append(rr.Failures.NameDuplicates, Failure{url, reason})
	case OutcomeNonRecipe:
		rr.Stats.NonRecipeURLs++
		rr.Failures.NonRecipeURLs = append(rr.Failures.NonRecipeURLs, Failure{url, reason})
	case OutcomeConnectionError:
		rr.Stats.ConnectionErrors++
		rr.Failures.ConnectionErrors = append(rr.Failures.ConnectionErrors, Failure{url, reason})
	case OutcomeFailedScrape:
		rr.Stats.FailedScrape++
		rr.Failures.FailedScrapes = append(rr.Failures.FailedScrapes, Failure{url, reason})
	case OutcomeFailedCreate:
		rr.Stats.FailedCreate++
		rr.Failures.FailedCreates = append(rr.Failures.FailedCreates, Failure{url, reason})
	case OutcomeRateLimited:
		rr.Stats.RateLimited++
	case OutcomeInvalidURL:
		rr.Stats.InvalidURLs++
		rr.Failures.InvalidURLs = append(rr.Failures.InvalidURLs, url)
	}
}

// TotalFailures sums the categories the report lists URLs for.
func (rr *RunRecord) TotalFailures() int {
	return rr.Stats.FailedScrape + rr.Stats.FailedCreate + rr.Stats.NonRecipeURLs +
		rr.Stats.ConnectionErrors + rr.Stats.InvalidURLs
}

// SuccessRate is the share of attempted URLs that imported cleanly, in
// percent. Attempted guards against division by zero on empty runs.
func (rr *RunRecord) SuccessRate() float64 {
	attempted := rr.Attempted
	if attempted < 1 {
		attempted = 1
	}
	return float64(rr.Stats.Successful) / float64(attempted) * 100
}
