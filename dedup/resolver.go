// Package dedup decides whether a candidate URL or recipe name already
// exists in the destination system. URL identity is checked against an index
// of known source URLs through a chain of increasingly aggressive
// normalizations; name identity is checked against the destination's own
// search, conservatively, after punctuation-insensitive normalization.
package dedup

import (
	"context"
	"log"
	"strings"
	"unicode"

	"tandoorimport/canonical"
	"tandoorimport/config"
	"tandoorimport/types"
)

// Index is the set of source URLs known to the destination at run start.
// Each recipe contributes its stored URL and the canonical form of it.
// Built once, read-only afterward; staleness during the run is accepted.
type Index struct {
	set  map[string]struct{}
	list []string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{set: make(map[string]struct{})}
}

// Add records a URL form. Duplicate forms collapse silently.
func (x *Index) Add(url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	if _, ok := x.set[url]; ok {
		return
	}
	x.set[url] = struct{}{}
	x.list = append(x.list, url)
}

// Contains reports exact membership.
func (x *Index) Contains(url string) bool {
	_, ok := x.set[url]
	return ok
}

// Len reports how many distinct URL forms are indexed.
func (x *Index) Len() int { return len(x.set) }

// All returns the indexed forms in insertion order, for cross-comparison.
func (x *Index) All() []string { return x.list }

// SearchFunc queries the destination's recipe list for a term. The resolver
// only needs id and name back.
type SearchFunc func(ctx context.Context, query string) ([]types.RecipeListEntry, error)

// Resolver applies the duplicate-detection rules.
type Resolver struct {
	canon *canonical.Canonicalizer
}

// NewResolver builds a resolver around the given canonicalizer.
func NewResolver(c *canonical.Canonicalizer) *Resolver {
	return &Resolver{canon: c}
}

// IsURLDuplicate reports whether rawURL already exists in the index. Checks
// short-circuit in order of cost:
//
//  1. exact match
//  2. canonical form
//  3. pre-parsed form as sent outbound
//  4. canonical form of the pre-parsed form
//  5. canonical of canonical, covering doubly-normalized index entries
//  6. cross-comparison: canonicalizing every index entry, covering entries
//     normalized on only one side at insertion time
//  7. slug equality against same-site entries, for sites with a
//     category-collapse rule
func (r *Resolver) IsURLDuplicate(rawURL string, idx *Index) bool {
	if idx == nil || idx.Len() == 0 {
		return false
	}

	if idx.Contains(rawURL) {
		return true
	}

	canonicalForm := r.canon.Canonicalize(rawURL)
	if idx.Contains(canonicalForm) {
		return true
	}

	preParsed := r.canon.PreParse(rawURL)
	if idx.Contains(preParsed) {
		return true
	}

	preParsedCanonical := r.canon.Canonicalize(preParsed)
	if idx.Contains(preParsedCanonical) {
		return true
	}

	if idx.Contains(r.canon.Canonicalize(canonicalForm)) {
		return true
	}

	for _, existing := range idx.All() {
		if existing == preParsed || r.canon.Canonicalize(existing) == preParsedCanonical {
			return true
		}
	}

	return r.slugMatch(rawURL, idx)
}

// slugMatch compares the candidate's recipe slug against every same-site
// index entry, for sites whose category paths vary. Only slugs longer than
// MinSlugLength count; short generic slugs would collapse unrelated recipes.
func (r *Resolver) slugMatch(rawURL string, idx *Index) bool {
	lower := strings.ToLower(rawURL)
	for _, host := range r.canon.CollapseHosts() {
		if !strings.Contains(lower, host) || !strings.Contains(lower, r.canon.CollapsePathFor(host)) {
			continue
		}
		slug := strings.ToLower(canonical.Slug(rawURL))
		if len(slug) <= config.MinSlugLength {
			continue
		}
		for _, existing := range idx.All() {
			if !strings.Contains(strings.ToLower(existing), host) {
				continue
			}
			if strings.ToLower(canonical.Slug(existing)) == slug {
				return true
			}
		}
	}
	return false
}

// NormalizeName reduces a recipe name to its comparison form: lower case,
// punctuation and symbols to spaces, whitespace collapsed. Deliberately
// conservative — no fuzzy matching and no word stripping, so recipes that
// share a base name ("Habanero Sauce" vs "Mild Habanero Sauce") stay
// distinct. The goal is catching exact duplicates, not similar recipes.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// FindNameDuplicate looks for an existing recipe whose normalized name
// exactly equals the candidate's, using the destination's own search to
// bound the comparison set. Fail-open: when the search itself fails the
// import proceeds as if no duplicate existed, with a warning — a failed
// helper check must not block the batch.
func (r *Resolver) FindNameDuplicate(ctx context.Context, name string, search SearchFunc) *types.DuplicateRef {
	normalized := NormalizeName(name)
	if normalized == "" {
		return nil
	}

	results, err := search(ctx, normalized)
	if err != nil {
		log.Printf("   ⚠️ Name duplicate check failed: %v", err)
		return nil
	}

	for _, entry := range results {
		if NormalizeName(entry.Name) == normalized {
			return &types.DuplicateRef{ID: entry.ID, Name: entry.Name}
		}
	}
	return nil
}
