package sources

import (
	"strings"

	"tandoorimport/config"
)

// skipPatterns marks URLs that can never be recipe pages: direct media
// files, social photo/status links, reddit and imgur media, file hosting.
// YouTube links pass; Tandoor imports those natively.
var skipPatterns = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp",
	".mp4", ".mov", ".avi", ".wmv", ".flv", ".webm",
	".pdf", ".doc", ".docx", ".txt", ".csv",
	".zip", ".rar", ".tar", ".gz",
	"facebook.com/photo", "instagram.com/p/", "twitter.com/status",
	"i.redd.it", "v.redd.it", "reddit.com/gallery",
	"i.imgur.com",
	"dropbox.com/s/", "drive.google.com/file",
}

// IsLikelyRecipeURL reports whether a URL is worth handing to the scraper.
// The filter is deliberately permissive: anything that is a plausible web
// page passes, and the scraper sorts out the rest.
func IsLikelyRecipeURL(raw string) bool {
	u := strings.TrimSpace(raw)
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return false
	}
	if len(u) < config.MinURLLength || !strings.Contains(u, ".") {
		return false
	}
	lower := strings.ToLower(u)
	for _, p := range skipPatterns {
		if strings.Contains(lower, p) {
			return false
		}
	}
	return true
}

// Partition splits urls into scrape candidates and rejected entries,
// preserving input order within each group.
func Partition(urls []string) (valid, invalid []string) {
	for _, u := range urls {
		if IsLikelyRecipeURL(u) {
			valid = append(valid, u)
		} else {
			invalid = append(invalid, u)
		}
	}
	return valid, invalid
}
