// Package tui is a terminal monitor for one import run: a status line for
// the URL in flight, an outcome-colored activity list, live counters and a
// final summary screen. It owns no import logic; the importer goroutine
// drives it entirely through messages.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"tandoorimport/importer"
)

// State represents the monitor's state machine
type State string

const (
	StateRunning  State = "running"
	StateComplete State = "complete"
	StateError    State = "error"
)

// Line is one finished URL as shown in the activity list.
type Line struct {
	Index   int
	Total   int
	URL     string
	Outcome importer.Outcome
}

// Model holds the screen state for one run.
type Model struct {
	Title string

	State   State
	Current string
	Total   int
	Done    int
	Stats   importer.Stats
	Lines   []Line

	Record *importer.RunRecord
	Err    error

	// Cancel stops the importer when the user quits mid-run.
	Cancel func()
}

// NewModel creates a run monitor. cancel is invoked on quit so the
// importer's context dies with the screen.
func NewModel(title string, cancel func()) Model {
	return Model{
		Title:  title,
		State:  StateRunning,
		Cancel: cancel,
	}
}

// Init implements tea.Model. Everything arrives via Program.Send, so there
// is nothing to kick off here.
func (m Model) Init() tea.Cmd { return nil }
