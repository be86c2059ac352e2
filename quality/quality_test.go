package quality

import (
	"strings"
	"testing"

	"tandoorimport/types"
)

func TestValidateRejectsHollowDraft(t *testing.T) {
	r := &types.Recipe{}

	v := Validate(r, "https://www.somesite.com/recipes/thing/")
	if v.Valid {
		t.Fatal("expected hollow draft to be rejected")
	}
	if !strings.Contains(v.Reason, "www.somesite.com") {
		t.Fatalf("reason should name the domain, got %q", v.Reason)
	}
	if v.EmptyCriticalFields != 3 {
		t.Fatalf("EmptyCriticalFields = %d; want 3", v.EmptyCriticalFields)
	}
}

func TestValidateKnownProblematicDomain(t *testing.T) {
	r := &types.Recipe{}

	v := Validate(r, "https://www.foodnetwork.com/recipes/pie")
	if v.Valid {
		t.Fatal("expected rejection")
	}
	want := "Food Network requires special handling that Tandoor cannot provide"
	if v.Reason != want {
		t.Fatalf("Reason = %q; want %q", v.Reason, want)
	}
}

func TestValidateAcceptsNameAndStep(t *testing.T) {
	r := &types.Recipe{
		Name: "Ghost Pepper Sauce",
		Steps: []types.Step{
			{Instruction: "Blend everything."},
		},
	}

	v := Validate(r, "https://example.com/sauce")
	if !v.Valid {
		t.Fatalf("expected acceptance, got reason %q", v.Reason)
	}
}

func TestValidateMeaningfulStepOutweighsBlankFields(t *testing.T) {
	// all three critical fields blank, but one step has ingredients
	r := &types.Recipe{
		Steps: []types.Step{
			{Ingredients: []types.Ingredient{{Food: &types.Food{Name: "flour"}}}},
		},
	}

	if v := Validate(r, "https://example.com/x"); !v.Valid {
		t.Fatalf("expected acceptance, got reason %q", v.Reason)
	}
}

func TestValidateHollowStepsDoNotCount(t *testing.T) {
	r := &types.Recipe{
		Steps: []types.Step{
			{Instruction: "   "},
			{},
		},
	}

	if v := Validate(r, "https://example.com/x"); v.Valid {
		t.Fatal("steps without instructions or ingredients must not rescue a draft")
	}
}

func TestValidateSurvivesNilRecipe(t *testing.T) {
	// a nil draft trips the recover path, which fails open
	if v := Validate(nil, "https://example.com/x"); !v.Valid {
		t.Fatal("validator errors must fail open")
	}
}

func TestRepairSynthesizesNameFromURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"plain slug", "https://example.com/recipes/sourdough-bread/", "Sourdough Bread"},
		{"recipe suffix", "https://example.com/ghost-pepper-sauce-recipe/", "Ghost Pepper Sauce"},
		{"html suffix", "https://example.com/banana_bread.html", "Banana Bread"},
		{"no path", "https://example.com/", "Recipe from example.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &types.Recipe{}
			if err := Repair(r, tc.url); err != nil {
				t.Fatalf("Repair: %v", err)
			}
			if r.Name != tc.want {
				t.Fatalf("Repair name from %q = %q; want %q", tc.url, r.Name, tc.want)
			}
		})
	}
}

func TestRepairTruncatesLongName(t *testing.T) {
	r := &types.Recipe{Name: strings.Repeat("x", 200)}
	if err := Repair(r, "https://example.com/x"); err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if got := len([]rune(r.Name)); got != 128 {
		t.Fatalf("truncated name length = %d; want 128", got)
	}
	if !strings.HasSuffix(r.Name, "...") {
		t.Fatalf("truncated name should end with ellipsis, got %q", r.Name)
	}
}

func TestRepairDefaultsServings(t *testing.T) {
	for _, servings := range []types.Servings{0, -3} {
		r := &types.Recipe{Name: "Bread", Servings: servings}
		if err := Repair(r, "https://example.com/x"); err != nil {
			t.Fatalf("Repair: %v", err)
		}
		if r.Servings != 1 {
			t.Fatalf("Servings = %d; want 1", r.Servings)
		}
	}

	r := &types.Recipe{Name: "Bread", Servings: 6}
	if err := Repair(r, "https://example.com/x"); err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if r.Servings != 6 {
		t.Fatalf("valid servings must survive, got %d", r.Servings)
	}
}

func TestRepairTruncatesKeywords(t *testing.T) {
	r := &types.Recipe{
		Name: "Bread",
		Keywords: []types.Keyword{
			{Name: strings.Repeat("k", 80)},
			{Name: "short"},
		},
	}
	if err := Repair(r, "https://example.com/x"); err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if got := len([]rune(r.Keywords[0].Name)); got != 64 {
		t.Fatalf("keyword length = %d; want 64", got)
	}
	if r.Keywords[1].Name != "short" {
		t.Fatalf("short keyword must survive, got %q", r.Keywords[1].Name)
	}
}
