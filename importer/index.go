package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"tandoorimport/config"
	"tandoorimport/dedup"
	"tandoorimport/tandoor"
	"tandoorimport/types"
)

// buildIndex fetches existing recipes and collects their source URLs, both
// as stored and in canonical form. Bounded by a recipe cap and a wall-clock
// timeout: a huge instance must not stall startup, and staleness is
// accepted for the rest of the run. The paginated list lacks source_url, so
// each recipe costs one extra detail fetch.
func (imp *Importer) buildIndex(ctx context.Context) (*dedup.Index, error) {
	idx := dedup.NewIndex()
	log.Printf("🔍 Fetching up to %d existing recipes (timeout: %.0fs)...",
		config.MaxIndexRecipes, config.IndexTimeout.Seconds())

	start := time.Now()
	deadline := start.Add(config.IndexTimeout)
	fetched := 0
	page := 1

pages:
	for fetched < config.MaxIndexRecipes {
		listing, err := imp.fetchIndexPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(listing.Results) == 0 {
			break
		}

		for _, entry := range listing.Results {
			if time.Now().After(deadline) {
				log.Printf("   ⏱️ Timeout reached after %.0fs, stopping fetch", config.IndexTimeout.Seconds())
				break pages
			}
			if entry.ID == 0 || fetched >= config.MaxIndexRecipes {
				continue
			}

			detail, err := imp.api.GetRecipe(ctx, entry.ID)
			if err != nil {
				log.Printf("⚠️ Error fetching recipe during duplicate check: %v", err)
				continue
			}
			if u := strings.TrimSpace(detail.SourceURL); u != "" {
				idx.Add(u)
				if c := imp.canon.Canonicalize(u); c != u {
					idx.Add(c)
				}
			}
			fetched++
		}

		if time.Now().After(deadline) {
			break
		}
		if !listing.HasNext() || fetched >= config.MaxIndexRecipes {
			break
		}
		page++
	}

	log.Printf("📊 Fetched %d recipes in %.1fs, found %d source URLs",
		fetched, time.Since(start).Seconds(), idx.Len())
	return idx, nil
}

// fetchIndexPage lists one page of existing recipes, absorbing transient
// failures: 429 waits out the server's Retry-After, 5xx and transport
// errors retry with exponential backoff, auth failures and malformed
// responses are fatal.
func (imp *Importer) fetchIndexPage(ctx context.Context, page int) (*tandoor.RecipeListPage, error) {
	retries := 0
	for {
		listing, err := imp.api.ListRecipes(ctx, page, config.IndexPageSize, "")
		if err == nil {
			return listing, nil
		}

		var procErr *types.ProcessingError
		if errors.As(err, &procErr) {
			return nil, err
		}

		var se *tandoor.StatusError
		switch {
		case tandoor.IsRateLimited(err):
			retryAfter := 60
			if errors.As(err, &se) && se.RetryAfter > 0 {
				retryAfter = se.RetryAfter
			}
			log.Printf("⏳ Rate limited while fetching existing recipes, waiting %ds...", retryAfter)
			if serr := imp.sleep(ctx, time.Duration(retryAfter)*time.Second); serr != nil {
				return nil, &types.NetworkError{Msg: "interrupted while waiting out rate limit", Err: serr}
			}

		case tandoor.IsAuthFailure(err):
			errors.As(err, &se)
			if se.StatusCode == http.StatusUnauthorized {
				return nil, &types.NetworkError{Msg: "authentication failed, check your API token", Err: err}
			}
			return nil, &types.NetworkError{Msg: "access forbidden, check your API permissions", Err: err}

		case errors.As(err, &se) && se.StatusCode >= 500:
			retries++
			if retries > imp.retry.MaxRetries {
				return nil, &types.NetworkError{Msg: fmt.Sprintf("server error after %d retries", imp.retry.MaxRetries), Err: err}
			}
			wait := imp.retry.Backoff(retries)
			log.Printf("🔄 Server error (retry %d/%d), waiting %.0fs: %v", retries, imp.retry.MaxRetries, wait.Seconds(), err)
			if serr := imp.sleep(ctx, wait); serr != nil {
				return nil, &types.NetworkError{Msg: "interrupted during retry backoff", Err: serr}
			}

		case errors.As(err, &se):
			return nil, &types.NetworkError{Msg: "HTTP error fetching existing recipes", Err: err}

		default:
			retries++
			if retries > imp.retry.MaxRetries {
				return nil, &types.NetworkError{Msg: fmt.Sprintf("failed to connect to Tandoor after %d retries", imp.retry.MaxRetries), Err: err}
			}
			wait := imp.retry.Backoff(retries)
			log.Printf("🔄 Network error (retry %d/%d), waiting %.0fs: %v", retries, imp.retry.MaxRetries, wait.Seconds(), err)
			if serr := imp.sleep(ctx, wait); serr != nil {
				return nil, &types.NetworkError{Msg: "interrupted during retry backoff", Err: serr}
			}
		}
	}
}
