package importer

// Outcome tags what happened to one URL on one attempt. Exactly one tag is
// assigned per attempt; a rate-limited attempt is retried once after the
// wait loop and the retry's tag replaces it.
type Outcome string

const (
	OutcomeSuccess               Outcome = "success"
	OutcomeDuplicate             Outcome = "duplicate"
	OutcomeDuplicateEnhanced     Outcome = "duplicate_enhanced"
	OutcomeNameDuplicate         Outcome = "name_duplicate"
	OutcomeNameDuplicateEnhanced Outcome = "name_duplicate_enhanced"
	OutcomeNonRecipe             Outcome = "non_recipe"
	OutcomeConnectionError       Outcome = "connection_error"
	OutcomeFailedScrape          Outcome = "failed_scrape"
	OutcomeFailedCreate          Outcome = "failed_create"
	OutcomeRateLimited           Outcome = "rate_limited"
	OutcomeInvalidURL            Outcome = "invalid_url"
)

// Failure pairs a URL with the reason it did not import.
type Failure struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}
