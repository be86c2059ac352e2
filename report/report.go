// Package report renders the end-of-run summary for the console and the
// log mirror, and archives finished run records to S3 when a bucket is
// configured.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tandoorimport/importer"
)

// Color palette
const (
	colorTitle   = "#7D56F4"
	colorSuccess = "#04B575"
	colorWarn    = "#FFB454"
	colorError   = "#FF5F56"
	colorInfo    = "#626262"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorTitle))

	headerStyle = lipgloss.NewStyle().
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorWarn))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo))
)

// Styled renders the final report with terminal colors for the console.
func Styled(rec *importer.RunRecord) string { return render(rec, true) }

// Text renders the final report without styling, for the -output mirror.
func Text(rec *importer.RunRecord) string { return render(rec, false) }

func render(rec *importer.RunRecord, styled bool) string {
	var b strings.Builder
	put := func(st lipgloss.Style, line string) {
		if styled {
			b.WriteString(st.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	gap := func() { b.WriteByte('\n') }

	s := rec.Stats
	put(titleStyle, "🎉 BULK IMPORT COMPLETE!")
	put(headerStyle, "📊 Final Stats:")
	put(infoStyle, fmt.Sprintf("   Total processed: %d", s.Total))
	put(successStyle, fmt.Sprintf("   ✅ Successful imports: %d", s.Successful))
	put(warnStyle, fmt.Sprintf("   ⚠️ Duplicates skipped: %d", s.Duplicates))
	if s.DuplicatesEnhanced > 0 {
		put(successStyle, fmt.Sprintf("   🎯 Duplicates enhanced with images: %d", s.DuplicatesEnhanced))
	}
	if s.NameDuplicates > 0 {
		put(warnStyle, fmt.Sprintf("   🔄 Name duplicates skipped: %d", s.NameDuplicates))
	}
	put(errorStyle, fmt.Sprintf("   ❌ Failed scraping: %d", s.FailedScrape))
	put(errorStyle, fmt.Sprintf("   ❌ Failed creation: %d", s.FailedCreate))
	put(warnStyle, fmt.Sprintf("   🚫 Non-recipe URLs: %d", s.NonRecipeURLs))
	put(warnStyle, fmt.Sprintf("   🌐 Connection errors: %d", s.ConnectionErrors))
	put(warnStyle, fmt.Sprintf("   ⏳ Rate limited: %d", s.RateLimited))
	put(warnStyle, fmt.Sprintf("   🚫 Invalid URLs: %d", s.InvalidURLs))

	total := s.Total
	if total < 1 {
		total = 1
	}
	put(infoStyle, fmt.Sprintf("   📈 Success rate: %.1f%%", float64(s.Successful)/float64(total)*100))

	f := rec.Failures
	section := func(st lipgloss.Style, header string, items []importer.Failure) {
		if len(items) == 0 {
			return
		}
		gap()
		put(st, fmt.Sprintf("%s (%d):", header, len(items)))
		for _, it := range items {
			put(infoStyle, fmt.Sprintf("   %s - %s", it.URL, it.Reason))
		}
	}

	if total := rec.TotalFailures(); total > 0 {
		gap()
		put(errorStyle, fmt.Sprintf("❌ FAILED URLS (%d total):", total))
		if len(f.InvalidURLs) > 0 {
			gap()
			put(warnStyle, fmt.Sprintf("🚫 Invalid URLs (%d):", len(f.InvalidURLs)))
			for _, u := range f.InvalidURLs {
				put(infoStyle, "   "+u)
			}
		}
		section(warnStyle, "🚫 Non-recipe URLs", f.NonRecipeURLs)
		section(warnStyle, "🌐 Connection errors", f.ConnectionErrors)
		section(errorStyle, "❌ Failed scraping", f.FailedScrapes)
		section(errorStyle, "❌ Failed creation", f.FailedCreates)
	} else {
		gap()
		put(successStyle, "✅ No failed URLs!")
	}

	// Name duplicates are skips rather than failures; list them separately
	// so the match details stay visible without inflating the failure total.
	section(warnStyle, "🔄 Name duplicates", f.NameDuplicates)

	return b.String()
}
