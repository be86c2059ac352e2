package canonical

import (
	"testing"
)

func TestCanonicalizeRules(t *testing.T) {
	c := New(nil)

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "https://example.com/recipes/bread", "https://example.com/recipes/bread"},
		{"protocol and case", "HTTP://Example.com/X/", "https://example.com/x"},
		{"trailing slash", "https://example.com/pie/", "https://example.com/pie"},
		{"whitespace", "  https://example.com/pie \n", "https://example.com/pie"},
		{"rebrand bare domain", "https://kingarthurflour.com/r/bread", "https://kingarthurbaking.com/r/bread"},
		{"rebrand www domain", "http://www.kingarthurflour.com/r/bread/", "https://www.kingarthurbaking.com/r/bread"},
		{"date path", "https://blog.com/2012/08/01/banana-bread/", "https://blog.com/banana-bread"},
		{"category collapse", "https://www.chilipeppermadness.com/chili-pepper-recipes/hot-sauces/ghost-pepper-sauce/", "https://www.chilipeppermadness.com/chili-pepper-recipes/ghost-pepper-sauce"},
		{"malformed input", "not a url at all", "not a url at all"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Canonicalize(tc.in)
			if got != tc.want {
				t.Fatalf("Canonicalize(%q) = %q; want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	c := New(nil)

	inputs := []string{
		"https://example.com/recipes/bread",
		"HTTP://Example.com/X/",
		"https://www.kingarthurflour.com/r/bread/",
		"https://blog.com/2012/08/01/banana-bread/",
		"https://www.chilipeppermadness.com/chili-pepper-recipes/hot-sauces/ghost-pepper-sauce/",
		"not a url at all",
		"",
	}

	for _, in := range inputs {
		once := c.Canonicalize(in)
		twice := c.Canonicalize(once)
		if once != twice {
			t.Fatalf("Canonicalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestCanonicalizeEquivalences(t *testing.T) {
	c := New(nil)

	pairs := []struct {
		name string
		a, b string
	}{
		{"protocol and case", "HTTP://Example.com/X/", "https://example.com/x"},
		{"rebrand with www", "https://www.kingarthurflour.com/r/bread", "https://www.kingarthurbaking.com/r/bread"},
		{"rebrand without www", "https://kingarthurflour.com/r/bread", "https://kingarthurbaking.com/r/bread"},
		{"date restructure", "https://blog.com/2012/08/01/banana-bread/", "https://blog.com/banana-bread/"},
		{"category variant", "https://site.chilipeppermadness.com/chili-pepper-recipes/hot-sauces/ghost-pepper-sauce/", "https://site.chilipeppermadness.com/chili-pepper-recipes/ghost-pepper-sauce/"},
	}

	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			ca, cb := c.Canonicalize(p.a), c.Canonicalize(p.b)
			if ca != cb {
				t.Fatalf("expected %q and %q to canonicalize equal; got %q vs %q", p.a, p.b, ca, cb)
			}
		})
	}
}

func TestPreParsePreservesCase(t *testing.T) {
	c := New(nil)

	got := c.PreParse("http://www.KingArthurFlour.com/Recipes/Sourdough-Bread/")
	want := "https://www.kingarthurbaking.com/Recipes/Sourdough-Bread/"
	if got != want {
		t.Fatalf("PreParse = %q; want %q", got, want)
	}
}

func TestPreParseCollapsesOnlyAnchoredCategoryPaths(t *testing.T) {
	c := New(nil)

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"anchored category variant",
			"https://www.chilipeppermadness.com/chili-pepper-recipes/hot-sauces/ghost-pepper-sauce/",
			"https://www.chilipeppermadness.com/chili-pepper-recipes/ghost-pepper-sauce/",
		},
		{
			"no trailing slash stays untouched",
			"https://www.chilipeppermadness.com/chili-pepper-recipes/hot-sauces/ghost-pepper-sauce",
			"https://www.chilipeppermadness.com/chili-pepper-recipes/hot-sauces/ghost-pepper-sauce",
		},
		{
			"already collapsed",
			"https://www.chilipeppermadness.com/chili-pepper-recipes/ghost-pepper-sauce/",
			"https://www.chilipeppermadness.com/chili-pepper-recipes/ghost-pepper-sauce/",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.PreParse(tc.in); got != tc.want {
				t.Fatalf("PreParse(%q) = %q; want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPreParseStripsDatePaths(t *testing.T) {
	c := New(nil)

	got := c.PreParse("https://blog.com/2012/08/01/Banana-Bread/")
	want := "https://blog.com/Banana-Bread/"
	if got != want {
		t.Fatalf("PreParse = %q; want %q", got, want)
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://site.com/a/b/ghost-pepper-sauce/", "ghost-pepper-sauce"},
		{"https://site.com/a/b/ghost-pepper-sauce", "ghost-pepper-sauce"},
		{"https://site.com/", "site.com"},
		{"plain", "plain"},
	}

	for _, tc := range cases {
		if got := Slug(tc.in); got != tc.want {
			t.Fatalf("Slug(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
