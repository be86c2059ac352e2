// Command dedupe-audit scans a Tandoor instance for recipes that look like
// copies of each other. The default mode fetches the whole recipe list and
// groups entries by normalized name; -search asks the server for a single
// term and prints each match with its stored source URL instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"tandoorimport/config"
	"tandoorimport/dedup"
	"tandoorimport/tandoor"
	"tandoorimport/types"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	search := flag.String("search", "", "server-side search term instead of a full scan")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := tandoor.New(cfg.TandoorURL, cfg.APIToken)
	fmt.Printf("✅ Connected to: %s\n", cfg.TandoorURL)

	if *search != "" {
		return searchMode(ctx, client, *search)
	}
	return scanMode(ctx, client)
}

// scanMode pulls every recipe and reports name groups with more than one
// member.
func scanMode(ctx context.Context, client *tandoor.Client) int {
	fmt.Println("🔍 Fetching all recipes to analyze duplicates...")

	entries, err := fetchAll(ctx, client)
	if err != nil {
		fmt.Printf("❌ Error fetching recipes: %v\n", err)
		return 1
	}
	fmt.Printf("📊 Total recipes in database: %d\n", len(entries))

	groups := groupEntries(entries)

	fmt.Println("\n🔍 Analyzing for duplicate recipe names...")
	duplicateGroups := 0
	for _, g := range groups {
		if len(g.entries) < 2 {
			continue
		}
		duplicateGroups++
		fmt.Printf("\n🚨 Potential duplicates for: '%s'\n", g.entries[0].Name)
		for _, e := range g.entries {
			fmt.Printf("   ID %d: '%s'\n", e.ID, e.Name)
		}
		if len(g.entries) > 2 {
			fmt.Printf("   ⚠️ %d copies found - manual cleanup recommended\n", len(g.entries))
		}
	}

	fmt.Println("\n📊 Summary:")
	fmt.Printf("   Total recipe groups: %d\n", len(groups))
	fmt.Printf("   Duplicate groups found: %d\n", duplicateGroups)
	fmt.Printf("   Unique recipes: %d\n", len(groups)-duplicateGroups)
	return 0
}

// searchMode lists the server's matches for one term, with the source URL
// from each detail record so same-name entries can be told apart.
func searchMode(ctx context.Context, client *tandoor.Client, term string) int {
	fmt.Printf("\n🔍 Searching for recipes containing: '%s'\n", term)

	entries, err := client.SearchByName(ctx, term)
	if err != nil {
		fmt.Printf("❌ Search failed: %v\n", err)
		return 1
	}
	fmt.Printf("📊 Found %d recipes matching '%s':\n", len(entries), term)

	for _, e := range entries {
		detail, err := client.GetRecipe(ctx, e.ID)
		if err != nil {
			fmt.Printf("   ID %d: '%s' (could not get details: %v)\n", e.ID, e.Name, err)
			continue
		}
		source := detail.SourceURL
		if source == "" {
			source = "No source URL"
		}
		fmt.Printf("   ID %d: '%s'\n", e.ID, e.Name)
		fmt.Printf("   Source: %s\n", source)
		fmt.Println()
	}
	return 0
}

// fetchAll walks the paginated recipe list to the end. Unlike the importer's
// startup index this is uncapped; an audit wants the whole table.
func fetchAll(ctx context.Context, client *tandoor.Client) ([]types.RecipeListEntry, error) {
	var entries []types.RecipeListEntry
	for page := 1; ; page++ {
		p, err := client.ListRecipes(ctx, page, config.IndexPageSize, "")
		if err != nil {
			return nil, err
		}
		if len(p.Results) == 0 {
			return entries, nil
		}
		entries = append(entries, p.Results...)
		fmt.Printf("   Fetched %d recipes so far...\n", len(entries))
		if !p.HasNext() {
			return entries, nil
		}
	}
}

// group is one normalized-name bucket, in first-seen order.
type group struct {
	key     string
	entries []types.RecipeListEntry
}

// groupEntries buckets entries by audit key, preserving the order in which
// keys first appear so output is stable across runs.
func groupEntries(entries []types.RecipeListEntry) []group {
	index := make(map[string]int)
	var groups []group
	for _, e := range entries {
		key := auditKey(e.Name)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key})
		}
		groups[i].entries = append(groups[i].entries, e)
	}
	return groups
}

// auditKey widens NormalizeName by dropping the word "recipe", so
// "Best Chili Recipe" and "Best Chili" land in the same bucket. The import
// path never does this; the audit casts a wider net.
func auditKey(name string) string {
	fields := strings.Fields(dedup.NormalizeName(name))
	kept := fields[:0]
	for _, f := range fields {
		if f != "recipe" && f != "recipes" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}
