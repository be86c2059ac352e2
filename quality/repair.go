package quality

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"unicode"

	"tandoorimport/config"
	"tandoorimport/types"
)

// Repair fixes the recoverable defects of a draft that passed validation:
// a blank name is synthesized from the source URL, over-length fields are
// truncated to the destination's column limits and a missing or nonsensical
// servings count defaults to one. Mutates the draft in place; the returned
// error means the draft is unusable after all.
func Repair(r *types.Recipe, sourceURL string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("recipe data fixes failed: %v", p)
		}
	}()

	if strings.TrimSpace(r.Name) == "" {
		name := nameFromURL(sourceURL)
		log.Printf("   ⚠️ Empty recipe name detected, using fallback: '%s'", name)
		r.Name = name
	} else {
		r.Name = strings.TrimSpace(r.Name)
	}

	if runes := []rune(r.Name); len(runes) > config.MaxRecipeNameLength {
		r.Name = string(runes[:config.RecipeNameTruncateTo]) + "..."
		log.Printf("   ⚠️ Recipe name truncated to %d characters", config.MaxRecipeNameLength)
	}

	if r.Servings <= 0 {
		r.Servings = 1
		log.Printf("   ℹ️ Invalid servings value, defaulting to 1")
	}

	for i := range r.Keywords {
		name := r.Keywords[i].Name
		if runes := []rune(name); len(runes) > config.MaxKeywordLength {
			truncated := string(runes[:config.KeywordTruncateTo]) + "..."
			r.Keywords[i].Name = truncated
			log.Printf("   ⚠️ Keyword name truncated: '%.30s...' → '%s'", name, truncated)
		}
	}

	return nil
}

// nameFromURL synthesizes a display name from the last meaningful path
// segment: dashes and underscores become spaces, words are title-cased and
// filler suffixes are dropped.
func nameFromURL(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil {
		u = &url.URL{}
	}

	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" && p != "recipes" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Recipe from " + u.Host
	}

	name := parts[len(parts)-1]
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	name = titleCase(name)
	name = strings.ReplaceAll(name, ".Html", "")
	name = strings.ReplaceAll(name, ".Php", "")
	name = strings.ReplaceAll(name, " Recipe", "")
	return name
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest, so "ghost-pepper.html" becomes "Ghost-Pepper.Html"
// and the suffix replacements above can find their title-cased forms.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
