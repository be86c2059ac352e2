package tandoor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"tandoorimport/types"
)

// ScrapeKind tags the classified outcome of a scrape-from-source call.
type ScrapeKind int

const (
	// ScrapeOK means the server returned a usable draft.
	ScrapeOK ScrapeKind = iota
	// ScrapeDuplicate means the server's own duplicate checker matched an
	// existing recipe.
	ScrapeDuplicate
	// ScrapeRateLimited means the call hit a 429.
	ScrapeRateLimited
	// ScrapeNonRecipe means the page held no recipe at all.
	ScrapeNonRecipe
	// ScrapeConnectionError means the source site was unreachable.
	ScrapeConnectionError
	// ScrapeFailed covers every other scraping failure.
	ScrapeFailed
)

// ScrapeResult is the classified response of one scrape call. Exactly one
// kind applies; the populated fields depend on it.
type ScrapeResult struct {
	Kind ScrapeKind

	// Recipe is the scraped draft (ScrapeOK) or the draft accompanying a
	// duplicate signal, whose image data can still enhance the existing
	// record (ScrapeDuplicate).
	Recipe *types.Recipe

	// Images lists additional image URLs the scraper found.
	Images []string

	// Duplicate is the first existing recipe the server reported
	// (ScrapeDuplicate).
	Duplicate *types.DuplicateRef

	// Reason carries the failure explanation for the non-success kinds.
	Reason string
}

// scrapeEnvelope mirrors the scrape endpoint's response body.
type scrapeEnvelope struct {
	Error      bool                 `json:"error"`
	Msg        string               `json:"msg"`
	Recipe     *types.Recipe        `json:"recipe"`
	Images     []string             `json:"images"`
	Duplicates []types.DuplicateRef `json:"duplicates"`
}

// ScrapeFromSource asks the server to scrape url and classifies the
// response. The classification of error messages is string matching on the
// server's wording ("no usable data", "connection refused") — brittle by
// nature and documented as such; if upstream changes its messages these
// land in ScrapeFailed until the table is updated.
func (c *Client) ScrapeFromSource(ctx context.Context, url string) *ScrapeResult {
	var env scrapeEnvelope
	err := c.doJSON(ctx, http.MethodPost, "/api/recipe-from-source/", map[string]string{"url": url}, &env)
	if err != nil {
		if IsRateLimited(err) {
			return &ScrapeResult{Kind: ScrapeRateLimited, Reason: "rate_limited"}
		}
		var se *StatusError
		if errors.As(err, &se) {
			return &ScrapeResult{Kind: ScrapeFailed, Reason: fmt.Sprintf("http_%d", se.StatusCode)}
		}
		return classifyFailure(err.Error())
	}

	if env.Error {
		msg := env.Msg
		if msg == "" {
			msg = "Unknown error"
		}
		return classifyFailure(msg)
	}

	if len(env.Duplicates) > 0 {
		dup := env.Duplicates[0]
		return &ScrapeResult{
			Kind:      ScrapeDuplicate,
			Duplicate: &dup,
			Recipe:    env.Recipe,
			Images:    env.Images,
		}
	}

	if env.Recipe == nil {
		return &ScrapeResult{Kind: ScrapeFailed, Reason: "no_recipe_data"}
	}

	return &ScrapeResult{Kind: ScrapeOK, Recipe: env.Recipe, Images: env.Images}
}

// classifyFailure sorts an error message into the outcome buckets by its
// wording.
func classifyFailure(msg string) *ScrapeResult {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "no usable data") || strings.Contains(lower, "no recipe"):
		return &ScrapeResult{Kind: ScrapeNonRecipe, Reason: "non_recipe: " + msg}
	case strings.Contains(lower, "connection") || strings.Contains(lower, "refused"):
		return &ScrapeResult{Kind: ScrapeConnectionError, Reason: "connection: " + msg}
	default:
		return &ScrapeResult{Kind: ScrapeFailed, Reason: msg}
	}
}
