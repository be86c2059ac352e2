package types

import (
	"bytes"
	"strconv"
	"strings"
)

// Recipe is the draft payload exchanged with the Tandoor API: the scrape
// endpoint returns one inside its response envelope and the create endpoint
// accepts one as its request body. Field tags mirror Tandoor's JSON.
type Recipe struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Servings    Servings  `json:"servings"`
	ImageURL    string    `json:"image_url,omitempty"`
	SourceURL   string    `json:"source_url,omitempty"`
	WorkingTime int       `json:"working_time,omitempty"`
	WaitingTime int       `json:"waiting_time,omitempty"`
	Steps       []Step    `json:"steps"`
	Keywords    []Keyword `json:"keywords,omitempty"`
}

// Step is a single instruction block with its ingredient list.
type Step struct {
	Instruction string       `json:"instruction"`
	Ingredients []Ingredient `json:"ingredients"`
}

// Ingredient references a food and unit by name, the way the scrape endpoint
// emits them (nested objects, not IDs).
type Ingredient struct {
	Food   *Food   `json:"food"`
	Unit   *Unit   `json:"unit"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note,omitempty"`
}

// Food names an ingredient.
type Food struct {
	Name string `json:"name"`
}

// Unit names a measurement unit.
type Unit struct {
	Name string `json:"name"`
}

// Keyword is a recipe tag.
type Keyword struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Servings tolerates the loose typing of scraped data: sites emit servings as
// a number, a numeric string ("4"), free text ("serves four") or null. Any
// form that does not parse cleanly decodes to zero and is repaired downstream.
type Servings int

// UnmarshalJSON accepts numbers, strings and null.
func (s *Servings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*s = 0
		return nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		*s = Servings(n)
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*s = Servings(int(f))
		return nil
	}
	*s = 0
	return nil
}

// DuplicateRef identifies an existing recipe the server flagged as a
// collision during scraping. It carries no image or body data; callers must
// re-fetch the full record by ID to inspect its current state.
type DuplicateRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RecipeListEntry is one row of the paginated recipe list. The list endpoint
// omits source_url; a detail fetch is needed to read it.
type RecipeListEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RecipeDetail is the full record returned by the recipe detail endpoint,
// reduced to the fields the importer inspects.
type RecipeDetail struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	SourceURL string `json:"source_url"`
	Image     string `json:"image"`
}

// HasImage reports whether the stored record already carries an image.
func (d *RecipeDetail) HasImage() bool {
	return strings.TrimSpace(d.Image) != ""
}
