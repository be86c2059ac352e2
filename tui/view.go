package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tandoorimport/importer"
	"tandoorimport/report"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(m.Title))
	b.WriteString("\n\n")

	switch m.State {
	case StateComplete:
		if m.Record != nil {
			b.WriteString(BoxStyle.Render(strings.TrimRight(report.Text(m.Record), "\n")))
			b.WriteString("\n\n")
		}
		b.WriteString(InfoStyle.Render(TextFooterDone))
		return b.String()
	case StateError:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("❌ Import failed: %v", m.Err)))
		b.WriteString("\n\n")
	default:
		b.WriteString(m.statusLine())
		b.WriteString("\n\n")
	}

	if len(m.Lines) > 0 {
		b.WriteString(InfoStyle.Render("📝 Recent activity:"))
		b.WriteString("\n")
		for _, line := range m.Lines {
			b.WriteString(renderLine(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.Done > 0 {
		b.WriteString(m.counters())
		b.WriteString("\n\n")
	}

	b.WriteString(InfoStyle.Render(TextFooterRunning))
	return b.String()
}

// statusLine describes what the importer is doing right now.
func (m Model) statusLine() string {
	if m.Current != "" {
		return StatusStyle.Render(fmt.Sprintf("⏳ [%d/%d] Importing: %s", m.Done+1, m.Total, m.Current))
	}
	if m.Total == 0 {
		return StatusStyle.Render("🔍 Building the existing-recipe index...")
	}
	return StatusStyle.Render(fmt.Sprintf("⏱️ [%d/%d] Waiting before next import...", m.Done, m.Total))
}

// counters is the live stat line, in the same glyph order as the console
// importer's progress output.
func (m Model) counters() string {
	s := m.Stats
	enhanced := ""
	if s.DuplicatesEnhanced > 0 {
		enhanced = fmt.Sprintf("🎯%d ", s.DuplicatesEnhanced)
	}
	return InfoStyle.Render(fmt.Sprintf("📈 Stats: ✅%d ⚠️%d %s🚫%d 🌐%d ❌%d ⏳%d",
		s.Successful, s.Duplicates, enhanced,
		s.NonRecipeURLs, s.ConnectionErrors,
		s.FailedScrape+s.FailedCreate, s.RateLimited))
}

// renderLine colors one finished URL by its outcome.
func renderLine(line Line) string {
	st, glyph := outcomeBadge(line.Outcome)
	return st.Render(fmt.Sprintf("   %s [%d/%d] %s", glyph, line.Index, line.Total, line.URL))
}

// outcomeBadge maps an outcome to its display style and glyph, matching the
// glyphs the console importer logs.
func outcomeBadge(o importer.Outcome) (lipgloss.Style, string) {
	switch o {
	case importer.OutcomeSuccess:
		return StatusStyle, "✅"
	case importer.OutcomeDuplicate, importer.OutcomeNameDuplicate:
		return WarnStyle, "⚠️"
	case importer.OutcomeDuplicateEnhanced, importer.OutcomeNameDuplicateEnhanced:
		return WarnStyle, "🎯"
	case importer.OutcomeNonRecipe, importer.OutcomeInvalidURL:
		return ErrorStyle, "🚫"
	case importer.OutcomeConnectionError:
		return ErrorStyle, "🌐"
	case importer.OutcomeRateLimited:
		return WarnStyle, "⏳"
	default:
		return ErrorStyle, "❌"
	}
}
