package dedup

import (
	"context"
	"errors"
	"testing"

	"tandoorimport/canonical"
	"tandoorimport/types"
)

func newTestResolver() *Resolver {
	return NewResolver(canonical.New(nil))
}

func indexOf(urls ...string) *Index {
	idx := NewIndex()
	c := canonical.New(nil)
	for _, u := range urls {
		idx.Add(u)
		idx.Add(c.Canonicalize(u))
	}
	return idx
}

func TestIsURLDuplicateReflexive(t *testing.T) {
	r := newTestResolver()

	urls := []string{
		"https://example.com/recipes/bread",
		"HTTP://Example.com/X/",
		"https://www.kingarthurflour.com/r/bread/",
	}
	for _, u := range urls {
		idx := indexOf(u)
		if !r.IsURLDuplicate(u, idx) {
			t.Fatalf("expected %q to be a duplicate of itself", u)
		}
	}
}

func TestIsURLDuplicateVariants(t *testing.T) {
	r := newTestResolver()

	cases := []struct {
		name      string
		existing  string
		candidate string
		want      bool
	}{
		{
			"protocol variant",
			"https://example.com/recipes/bread",
			"http://example.com/recipes/bread",
			true,
		},
		{
			"trailing slash variant",
			"https://example.com/recipes/bread",
			"https://example.com/recipes/bread/",
			true,
		},
		{
			"rebranded domain",
			"https://www.kingarthurbaking.com/recipes/sourdough",
			"https://www.kingarthurflour.com/recipes/sourdough",
			true,
		},
		{
			"date restructure",
			"https://blog.com/banana-bread/",
			"https://blog.com/2012/08/01/banana-bread/",
			true,
		},
		{
			"unrelated url",
			"https://example.com/recipes/bread",
			"https://example.com/recipes/cake",
			false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			idx := indexOf(tc.existing)
			if got := r.IsURLDuplicate(tc.candidate, idx); got != tc.want {
				t.Fatalf("IsURLDuplicate(%q) against %q = %v; want %v", tc.candidate, tc.existing, got, tc.want)
			}
		})
	}
}

func TestIsURLDuplicateCategoryCollapse(t *testing.T) {
	r := newTestResolver()
	idx := indexOf("https://site.chilipeppermadness.com/chili-pepper-recipes/hot-sauces/ghost-pepper-sauce/")

	candidate := "https://site.chilipeppermadness.com/chili-pepper-recipes/ghost-pepper-sauce/"
	if !r.IsURLDuplicate(candidate, idx) {
		t.Fatalf("expected category-less variant %q to resolve as duplicate", candidate)
	}

	other := "https://site.chilipeppermadness.com/chili-pepper-recipes/habanero-salsa/"
	if r.IsURLDuplicate(other, idx) {
		t.Fatalf("expected different slug %q to resolve as new", other)
	}
}

func TestSlugMatchAcrossCollections(t *testing.T) {
	r := newTestResolver()

	// the existing record lives outside the collapsible collection, so only
	// the slug comparison can connect the two
	idx := indexOf("https://www.chilipeppermadness.com/recipes/ghost-pepper-sauce/")

	candidate := "https://www.chilipeppermadness.com/chili-pepper-recipes/hot-sauces/ghost-pepper-sauce/"
	if !r.IsURLDuplicate(candidate, idx) {
		t.Fatalf("expected same-slug candidate %q to resolve as duplicate", candidate)
	}
}

func TestSlugMatchRequiresLongSlug(t *testing.T) {
	r := newTestResolver()
	idx := indexOf("https://www.chilipeppermadness.com/recipes/salsa/")

	// slug "salsa" is five runes, not longer than the threshold
	candidate := "https://www.chilipeppermadness.com/chili-pepper-recipes/tacos/salsa/"
	if r.IsURLDuplicate(candidate, idx) {
		t.Fatalf("expected short slug %q not to match", candidate)
	}
}

func TestIsURLDuplicateEmptyIndex(t *testing.T) {
	r := newTestResolver()
	if r.IsURLDuplicate("https://example.com/recipes/bread", NewIndex()) {
		t.Fatal("empty index must never report duplicates")
	}
	if r.IsURLDuplicate("https://example.com/recipes/bread", nil) {
		t.Fatal("nil index must never report duplicates")
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Sweet Habanero Sauce!!", "sweet habanero sauce"},
		{"sweet habanero sauce", "sweet habanero sauce"},
		{"  Spaced   Out\tName ", "spaced out name"},
		{"Crème Brûlée", "crème brûlée"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Fatalf("NormalizeName(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeNameKeepsDistinctRecipesDistinct(t *testing.T) {
	if NormalizeName("Habanero Sauce") == NormalizeName("Mild Habanero Sauce") {
		t.Fatal("normalization must not collapse names that differ by a word")
	}
}

func TestFindNameDuplicate(t *testing.T) {
	r := newTestResolver()
	search := func(ctx context.Context, query string) ([]types.RecipeListEntry, error) {
		return []types.RecipeListEntry{
			{ID: 3, Name: "Mild Habanero Sauce"},
			{ID: 7, Name: "Sweet Habanero Sauce!!"},
		}, nil
	}

	ref := r.FindNameDuplicate(context.Background(), "sweet habanero sauce", search)
	if ref == nil {
		t.Fatal("expected a name duplicate")
	}
	if ref.ID != 7 || ref.Name != "Sweet Habanero Sauce!!" {
		t.Fatalf("unexpected match: %+v", ref)
	}

	if ref := r.FindNameDuplicate(context.Background(), "ghost pepper jam", search); ref != nil {
		t.Fatalf("expected no duplicate, got %+v", ref)
	}
}

func TestFindNameDuplicateFailsOpen(t *testing.T) {
	r := newTestResolver()
	search := func(ctx context.Context, query string) ([]types.RecipeListEntry, error) {
		return nil, errors.New("search exploded")
	}

	if ref := r.FindNameDuplicate(context.Background(), "sweet habanero sauce", search); ref != nil {
		t.Fatalf("search failure must resolve as no-match, got %+v", ref)
	}
}

func TestFindNameDuplicateBlankName(t *testing.T) {
	r := newTestResolver()
	called := false
	search := func(ctx context.Context, query string) ([]types.RecipeListEntry, error) {
		called = true
		return nil, nil
	}

	if ref := r.FindNameDuplicate(context.Background(), "  !! ", search); ref != nil {
		t.Fatalf("blank name must not match, got %+v", ref)
	}
	if called {
		t.Fatal("blank name must not hit the search at all")
	}
}
