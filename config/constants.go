package config

import "time"

// Import Pacing Constants
const (
	// DefaultDelay is the pause between successive URL imports when
	// IMPORT_DELAY_SECONDS is unset.
	DefaultDelay = 30 * time.Second

	// MinDelaySeconds is the smallest accepted inter-import delay.
	MinDelaySeconds = 1

	// MaxDelaySeconds is the largest accepted inter-import delay.
	MaxDelaySeconds = 3600
)

// Rate Limit Recovery Constants
const (
	// RateLimitAttempts is how many status probes are made while waiting
	// for a 429 condition to clear before the run is stopped.
	RateLimitAttempts = 12

	// RateLimitInterval is the pause between rate-limit status probes.
	RateLimitInterval = 30 * time.Second
)

// Existing-Recipe Index Constants
const (
	// MaxIndexRecipes caps how many existing recipes are inspected when
	// building the source-URL index at startup.
	MaxIndexRecipes = 500

	// IndexTimeout caps the wall-clock time spent building the index.
	IndexTimeout = 30 * time.Second

	// IndexPageSize is the page size used for the recipe list while
	// indexing.
	IndexPageSize = 100

	// IndexMaxRetries bounds per-page retries on network or server errors.
	IndexMaxRetries = 2

	// IndexRetryBaseDelay seeds the exponential backoff between retries.
	IndexRetryBaseDelay = 1 * time.Second
)

// Duplicate Detection Constants
const (
	// NameSearchPageSize limits the server-side search used by the
	// name-based duplicate check.
	NameSearchPageSize = 50

	// MinSlugLength is the length a URL slug must exceed before
	// slug-equality duplicate matching applies. Short generic slugs
	// ("sauce") would collapse unrelated recipes.
	MinSlugLength = 5
)

// Field Limit Constants (destination schema limits)
const (
	// MaxRecipeNameLength is Tandoor's recipe name column size.
	MaxRecipeNameLength = 128

	// RecipeNameTruncateTo leaves room for the ellipsis marker.
	RecipeNameTruncateTo = 125

	// MaxKeywordLength is Tandoor's keyword name column size.
	MaxKeywordLength = 64

	// KeywordTruncateTo leaves room for the ellipsis marker.
	KeywordTruncateTo = 61
)

// Input File Constants
const (
	// MaxURLFileSize rejects absurdly large input files outright.
	MaxURLFileSize = 100 * 1024 * 1024

	// MaxURLLineLength skips single lines that cannot be a reasonable URL.
	MaxURLLineLength = 2048

	// MinURLLength is the shortest string accepted as a scrape candidate.
	MinURLLength = 15
)

// HTTP Constants
const (
	// HTTPTimeout is the per-call timeout for Tandoor API requests.
	HTTPTimeout = 30 * time.Second
)
