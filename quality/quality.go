// Package quality classifies freshly scraped recipe drafts as usable or as
// the husk of a failed scrape, and repairs the small defects scraped data
// commonly carries before it is handed to the create endpoint.
package quality

import (
	"fmt"
	"log"
	"strings"

	"tandoorimport/types"
)

// Known problematic domains: sites that actively resist scraping. When a
// draft from one of these comes back empty, the reason names the real cause
// instead of a generic message.
var problematicDomains = map[string]string{
	"www.foodnetwork.com": "Food Network requires special handling that Tandoor cannot provide",
	"www.food.com":        "Food.com has anti-scraping measures",
	"www.allrecipes.com":  "AllRecipes may have updated their structure",
}

// Verdict is the result of a quality check.
type Verdict struct {
	Valid bool
	// Reason explains a rejection in operator terms.
	Reason string
	// EmptyCriticalFields counts blanks among name, description, image URL.
	EmptyCriticalFields int
	// MeaningfulSteps reports whether any step carried an instruction or
	// ingredients.
	MeaningfulSteps bool
}

// Validate decides whether a scraped draft holds meaningful content. A draft
// fails when at least two of the three critical fields (name, description,
// image URL) are blank and no step carries an instruction or ingredient —
// the signature of a scraper that got an empty or hostile page. Fail-open:
// if the check itself blows up, the draft passes; filtering must never cost
// an importable recipe.
func Validate(r *types.Recipe, sourceURL string) (v Verdict) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("   ❌ Error validating recipe quality: %v", p)
			v = Verdict{Valid: true}
		}
	}()

	emptyCount := 0
	for _, field := range []string{r.Name, r.Description, r.ImageURL} {
		if strings.TrimSpace(field) == "" {
			emptyCount++
		}
	}

	meaningful := false
	for _, step := range r.Steps {
		if strings.TrimSpace(step.Instruction) != "" || len(step.Ingredients) > 0 {
			meaningful = true
			break
		}
	}

	if emptyCount >= 2 && !meaningful {
		domain := domainOf(sourceURL)
		reason, ok := problematicDomains[domain]
		if !ok {
			reason = fmt.Sprintf("Website %s returned no usable recipe data", domain)
		}
		return Verdict{Valid: false, Reason: reason, EmptyCriticalFields: emptyCount, MeaningfulSteps: meaningful}
	}

	return Verdict{Valid: true, EmptyCriticalFields: emptyCount, MeaningfulSteps: meaningful}
}

// domainOf extracts the authority segment the way the reason table keys it.
func domainOf(sourceURL string) string {
	parts := strings.Split(sourceURL, "/")
	if len(parts) > 2 && parts[2] != "" {
		return parts[2]
	}
	return "unknown"
}
