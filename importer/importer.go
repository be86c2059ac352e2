// Package importer drives the per-URL import pipeline against a Tandoor
// instance: canonicalize, duplicate-check, scrape, validate, name-check,
// create or enhance, record the outcome. Processing is strictly sequential
// with a configurable pause between URLs; a sustained rate limit stops the
// whole run early with partial results intact.
package importer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tandoorimport/canonical"
	"tandoorimport/config"
	"tandoorimport/dedup"
	"tandoorimport/quality"
	"tandoorimport/sources"
	"tandoorimport/tandoor"
	"tandoorimport/types"
)

// TandoorAPI is the slice of the Tandoor client the orchestrator drives.
type TandoorAPI interface {
	ListRecipes(ctx context.Context, page, pageSize int, query string) (*tandoor.RecipeListPage, error)
	GetRecipe(ctx context.Context, id int) (*types.RecipeDetail, error)
	SearchByName(ctx context.Context, query string) ([]types.RecipeListEntry, error)
	ScrapeFromSource(ctx context.Context, url string) *tandoor.ScrapeResult
	CreateRecipe(ctx context.Context, draft *types.Recipe) (*tandoor.CreatedRecipe, error)
	AttachImage(ctx context.Context, recipeID int, imageURL string) error
	RateLimitCleared(ctx context.Context) (bool, error)
}

// SeenCache remembers URLs handled by earlier runs so repeated batches skip
// them without a network round trip.
type SeenCache interface {
	Seen(ctx context.Context, url string) (bool, error)
	Mark(ctx context.Context, url string) error
}

// StartEvent announces the URL an attempt is about to process.
type StartEvent struct {
	Index int
	Total int
	URL   string
}

// ProgressEvent describes one processed URL for live observers such as the
// TUI. Stats is a snapshot taken after the outcome was recorded.
type ProgressEvent struct {
	Index   int
	Total   int
	URL     string
	Outcome Outcome
	Stats   Stats
}

// RunOptions narrows a run to a slice of the input list.
type RunOptions struct {
	// StartFrom skips the first N valid URLs.
	StartFrom int

	// MaxImports caps how many URLs are attempted; zero means no cap.
	MaxImports int
}

// Importer owns one run's state: the API client, the duplicate-detection
// machinery and the accumulated record. Not safe for concurrent use; a run
// is sequential end to end.
type Importer struct {
	api      TandoorAPI
	cfg      *config.Config
	canon    *canonical.Canonicalizer
	resolver *dedup.Resolver

	// Seen, when non-nil, suppresses URLs already handled by earlier runs
	// and records this run's handled URLs.
	Seen SeenCache

	// ResolveRedirect, when non-nil, maps a URL to the canonical form of
	// its final redirect target. Consulted only after the string rules find
	// no duplicate; costs one round trip per miss.
	ResolveRedirect func(ctx context.Context, rawURL string) string

	// OnStart, when non-nil, is called as every attempt begins.
	OnStart func(StartEvent)

	// OnProgress, when non-nil, is called after every processed URL.
	OnProgress func(ProgressEvent)

	retry RetryPolicy
	sleep sleepFunc
}

// New builds an importer around api using the given per-site URL rules.
func New(api TandoorAPI, cfg *config.Config, canon *canonical.Canonicalizer) *Importer {
	return &Importer{
		api:      api,
		cfg:      cfg,
		canon:    canon,
		resolver: dedup.NewResolver(canon),
		retry:    RetryPolicy{MaxRetries: config.IndexMaxRetries, BaseDelay: config.IndexRetryBaseDelay},
		sleep:    sleepCtx,
	}
}

// Run imports the given URLs in order. URL-level failures are recorded and
// the loop continues; only fatal conditions (index fetch failure, an
// unrecoverable rate limit, cancellation) end the run early. The returned
// record always reflects everything processed so far, including on error.
func (imp *Importer) Run(ctx context.Context, urls []string, opts RunOptions) (*RunRecord, error) {
	rr := NewRunRecord()
	defer func() { rr.FinishedAt = time.Now().UTC() }()

	valid, invalid := sources.Partition(urls)
	for _, u := range invalid {
		rr.record(OutcomeInvalidURL, u, "")
		log.Printf("🚫 Skipping invalid/non-recipe URL: %s", truncate(u, 60))
	}
	log.Printf("📊 Found %d valid URLs (%d invalid)", len(valid), len(invalid))

	if opts.StartFrom > 0 {
		if opts.StartFrom >= len(valid) {
			valid = nil
		} else {
			valid = valid[opts.StartFrom:]
		}
		log.Printf("📊 Starting from index %d, %d URLs remaining", opts.StartFrom, len(valid))
	}
	if opts.MaxImports > 0 && opts.MaxImports < len(valid) {
		valid = valid[:opts.MaxImports]
		log.Printf("📊 Limited to %d imports", opts.MaxImports)
	}

	rr.Stats.Total = len(valid)
	if len(valid) == 0 {
		log.Printf("❌ No valid URLs to import!")
		return rr, nil
	}

	idx, err := imp.buildIndex(ctx)
	if err != nil {
		return rr, err
	}

	total := len(valid)
	log.Printf("🚀 Starting import of %d recipes...", total)
	log.Printf("⏱️ Estimated time: %.1f minutes", float64(total)*imp.cfg.Delay.Seconds()/60)

	for i, url := range valid {
		if ctx.Err() != nil {
			log.Printf("🛑 Interrupted, stopping after %d/%d URLs", i, total)
			break
		}
		rr.Attempted++
		if imp.OnStart != nil {
			imp.OnStart(StartEvent{Index: i + 1, Total: total, URL: url})
		}

		outcome := imp.importOne(ctx, url, i+1, total, idx, rr)
		if outcome == OutcomeRateLimited {
			log.Printf("⏳ Hit rate limit, waiting for reset...")
			if imp.waitForRateLimitReset(ctx) {
				log.Printf("🔄 Retrying current recipe...")
				outcome = imp.importOne(ctx, url, i+1, total, idx, rr)
			} else {
				log.Printf("❌ Could not recover from rate limit, stopping import")
				imp.emit(i+1, total, url, outcome, rr)
				break
			}
		}
		imp.emit(i+1, total, url, outcome, rr)

		log.Printf("📊 Progress: %d/%d (%.1f%%) | Success rate: %.1f%%",
			i+1, total, float64(i+1)/float64(total)*100,
			float64(rr.Stats.Successful)/float64(i+1)*100)
		enhanced := ""
		if rr.Stats.DuplicatesEnhanced > 0 {
			enhanced = fmt.Sprintf("🎯%d ", rr.Stats.DuplicatesEnhanced)
		}
		log.Printf("📈 Stats: ✅%d ⚠️%d %s🚫%d 🌐%d ❌%d ⏳%d",
			rr.Stats.Successful, rr.Stats.Duplicates, enhanced,
			rr.Stats.NonRecipeURLs, rr.Stats.ConnectionErrors,
			rr.Stats.FailedScrape+rr.Stats.FailedCreate, rr.Stats.RateLimited)

		if i < total-1 {
			log.Printf("⏱️ Waiting %.0fs before next import...", imp.cfg.Delay.Seconds())
			if err := imp.sleep(ctx, imp.cfg.Delay); err != nil {
				log.Printf("🛑 Interrupted, stopping after %d/%d URLs", i+1, total)
				break
			}
		}
	}

	return rr, nil
}

// importOne runs the pipeline for a single URL and returns its outcome.
// Every path records exactly one outcome into rr.
func (imp *Importer) importOne(ctx context.Context, url string, index, total int, idx *dedup.Index, rr *RunRecord) Outcome {
	log.Printf("📝 [%d/%d] Importing: %s", index, total, url)

	parsed := imp.canon.PreParse(url)
	if parsed != url {
		log.Printf("   🔄 URL pre-parsed from: %s", url)
		log.Printf("   🔄 URL pre-parsed to:   %s", parsed)
	}

	if imp.Seen != nil {
		if seen, err := imp.Seen.Seen(ctx, imp.canon.Canonicalize(url)); err == nil && seen {
			log.Printf("   ⚠️ Skipping - imported in a previous run")
			rr.record(OutcomeDuplicate, url, "")
			return OutcomeDuplicate
		}
	}

	if imp.resolver.IsURLDuplicate(url, idx) {
		log.Printf("   ⚠️ Skipping - already exists in database")
		rr.record(OutcomeDuplicate, url, "")
		imp.markSeen(ctx, url)
		return OutcomeDuplicate
	}

	if imp.ResolveRedirect != nil {
		if final := imp.ResolveRedirect(ctx, url); final != "" && imp.resolver.IsURLDuplicate(final, idx) {
			log.Printf("   ⚠️ Skipping - redirect target already exists in database")
			rr.record(OutcomeDuplicate, url, "")
			imp.markSeen(ctx, url)
			return OutcomeDuplicate
		}
	}

	res := imp.api.ScrapeFromSource(ctx, parsed)
	switch res.Kind {
	case tandoor.ScrapeRateLimited:
		log.Printf("⏳ Rate limited during scrape")
		rr.record(OutcomeRateLimited, url, "")
		return OutcomeRateLimited

	case tandoor.ScrapeNonRecipe:
		log.Printf("🚫 Non-recipe URL: %s", res.Reason)
		rr.record(OutcomeNonRecipe, url, res.Reason)
		return OutcomeNonRecipe

	case tandoor.ScrapeConnectionError:
		log.Printf("🌐 Connection error: %s", res.Reason)
		rr.record(OutcomeConnectionError, url, res.Reason)
		return OutcomeConnectionError

	case tandoor.ScrapeFailed:
		log.Printf("❌ Scrape failed: %s", res.Reason)
		rr.record(OutcomeFailedScrape, url, res.Reason)
		return OutcomeFailedScrape

	case tandoor.ScrapeDuplicate:
		name := "Unknown"
		if res.Duplicate != nil {
			name = res.Duplicate.Name
		}
		if imp.tryEnhanceDuplicate(ctx, res.Duplicate, res.Recipe, res.Images) {
			log.Printf("✅ Enhanced duplicate: %s", name)
			rr.record(OutcomeDuplicateEnhanced, url, "")
			imp.markSeen(ctx, url)
			return OutcomeDuplicateEnhanced
		}
		log.Printf("⚠️ Duplicate: %s", name)
		rr.record(OutcomeDuplicate, url, "")
		imp.markSeen(ctx, url)
		return OutcomeDuplicate
	}

	draft := res.Recipe
	verdict := quality.Validate(draft, parsed)
	if !verdict.Valid {
		log.Printf("❌ Scrape failed: %s", verdict.Reason)
		rr.record(OutcomeFailedScrape, url, verdict.Reason)
		return OutcomeFailedScrape
	}
	if err := quality.Repair(draft, parsed); err != nil {
		log.Printf("❌ Scrape failed: unusable recipe data: %v", err)
		rr.record(OutcomeFailedScrape, url, "invalid_recipe_data")
		return OutcomeFailedScrape
	}

	log.Printf("   🔍 Checking for name-based duplicates: '%s'", draft.Name)
	if dup := imp.resolver.FindNameDuplicate(ctx, draft.Name, imp.api.SearchByName); dup != nil {
		info := fmt.Sprintf("Name match found: '%s' (ID: %d)", dup.Name, dup.ID)
		if imp.tryEnhanceDuplicate(ctx, dup, draft, res.Images) {
			log.Printf("   ✅ Enhanced name-based duplicate with image: %s", info)
			rr.record(OutcomeNameDuplicateEnhanced, url, "Name duplicate enhanced: "+info)
			imp.markSeen(ctx, url)
			return OutcomeNameDuplicateEnhanced
		}
		log.Printf("   🔄 Skipping - %s", info)
		rr.record(OutcomeNameDuplicate, url, "Name duplicate: "+info)
		imp.markSeen(ctx, url)
		return OutcomeNameDuplicate
	}

	// Future URL-based duplicate detection depends on source_url, so a
	// draft that arrived without one is stamped with the URL we scraped.
	if strings.TrimSpace(draft.SourceURL) == "" {
		draft.SourceURL = parsed
	}

	created, err := imp.api.CreateRecipe(ctx, draft)
	if err != nil {
		if tandoor.IsRateLimited(err) {
			log.Printf("⏳ Rate limited during creation")
			rr.record(OutcomeRateLimited, url, "")
			return OutcomeRateLimited
		}
		log.Printf("❌ Create failed: %v", err)
		rr.record(OutcomeFailedCreate, url, err.Error())
		return OutcomeFailedCreate
	}

	imp.uploadPrimaryImage(ctx, created.ID, draft, res.Images)
	imp.markSeen(ctx, url)

	log.Printf("✅ SUCCESS: '%s' (ID: %d)", draft.Name, created.ID)
	rr.record(OutcomeSuccess, url, "")
	return OutcomeSuccess
}

// tryEnhanceDuplicate pushes an image onto an existing duplicate that lacks
// one. Returns whether the existing record was actually updated; callers
// translate that into the _enhanced outcome. Any failure is logged and
// swallowed: enhancement is opportunistic and must never fail the run.
func (imp *Importer) tryEnhanceDuplicate(ctx context.Context, dup *types.DuplicateRef, draft *types.Recipe, images []string) bool {
	if dup == nil || dup.ID <= 0 {
		log.Printf("   ❌ Invalid duplicate recipe reference")
		return false
	}

	full, err := imp.api.GetRecipe(ctx, dup.ID)
	if err != nil || full == nil {
		log.Printf("   ❌ Could not fetch full recipe data for ID %d", dup.ID)
		return false
	}
	if full.HasImage() {
		log.Printf("   ℹ️ Duplicate recipe '%s' already has image, skipping enhancement", dup.Name)
		return false
	}

	primary := ""
	if draft != nil {
		primary = strings.TrimSpace(draft.ImageURL)
	}
	if primary == "" && len(images) > 0 {
		primary = images[0]
	}
	if primary == "" {
		log.Printf("   ℹ️ No images available to enhance duplicate recipe '%s'", dup.Name)
		return false
	}

	log.Printf("   🎯 Enhancing duplicate recipe '%s' (ID: %d) with image", dup.Name, dup.ID)
	log.Printf("   📸 Adding image: %s", truncate(primary, 60))
	if err := imp.api.AttachImage(ctx, dup.ID, primary); err != nil {
		log.Printf("   ⚠️ Failed to enhance duplicate recipe with image: %v", err)
		return false
	}
	log.Printf("   ✅ Successfully enhanced duplicate recipe with image!")
	return true
}

// uploadPrimaryImage attaches the best image candidate to a freshly created
// recipe, preferring the draft's own declared image URL over the scrape's
// images list. Upload failure does not fail the creation.
func (imp *Importer) uploadPrimaryImage(ctx context.Context, recipeID int, draft *types.Recipe, images []string) {
	primary := strings.TrimSpace(draft.ImageURL)
	if primary == "" && len(images) > 0 {
		primary = images[0]
	}
	if primary == "" || recipeID <= 0 {
		log.Printf("   ℹ️ No image URL found for upload")
		return
	}
	log.Printf("   📸 Uploading primary image: %s", truncate(primary, 60))
	if err := imp.api.AttachImage(ctx, recipeID, primary); err != nil {
		log.Printf("   ⚠️ Primary image upload failed: %v", err)
	}
}

// waitForRateLimitReset polls the API until the rate limit clears. Returns
// false when the attempt budget runs out or the run is cancelled.
func (imp *Importer) waitForRateLimitReset(ctx context.Context) bool {
	log.Printf("⏳ Waiting for rate limit to reset...")

	for attempt := 1; attempt <= config.RateLimitAttempts; attempt++ {
		cleared, err := imp.api.RateLimitCleared(ctx)
		if err != nil {
			log.Printf("⚠️ Error checking rate limit: %v", err)
		} else if cleared {
			log.Printf("✅ Rate limit appears to be reset!")
			return true
		} else {
			log.Printf("⏳ Still rate limited... waiting %.0fs (attempt %d/%d)",
				config.RateLimitInterval.Seconds(), attempt, config.RateLimitAttempts)
		}
		if err := imp.sleep(ctx, config.RateLimitInterval); err != nil {
			return false
		}
	}

	log.Printf("❌ Rate limit did not reset after %d attempts", config.RateLimitAttempts)
	return false
}

// markSeen stores the URL's canonical form; lookups canonicalize the same
// way, so protocol and slash variants of an imported URL hit the cache.
func (imp *Importer) markSeen(ctx context.Context, url string) {
	if imp.Seen == nil {
		return
	}
	if err := imp.Seen.Mark(ctx, imp.canon.Canonicalize(url)); err != nil {
		log.Printf("   ⚠️ Seen-cache update failed: %v", err)
	}
}

func (imp *Importer) emit(index, total int, url string, outcome Outcome, rr *RunRecord) {
	if imp.OnProgress == nil {
		return
	}
	imp.OnProgress(ProgressEvent{Index: index, Total: total, URL: url, Outcome: outcome, Stats: rr.Stats})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
