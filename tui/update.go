package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// maxLines bounds the activity list so long runs do not push the counters
// off screen.
const maxLines = 12

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case StartedMsg:
		return m.handleStarted(msg)
	case ProgressMsg:
		return m.handleProgress(msg)
	case RunDoneMsg:
		return m.handleRunDone(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.Cancel != nil {
			m.Cancel()
		}
		return m, tea.Quit
	}
	return m, nil
}

// handleStarted marks the URL now in flight
func (m Model) handleStarted(msg StartedMsg) (tea.Model, tea.Cmd) {
	m.Current = msg.URL
	m.Total = msg.Total
	return m, nil
}

// handleProgress folds one finished URL into the list and counters
func (m Model) handleProgress(msg ProgressMsg) (tea.Model, tea.Cmd) {
	m.Current = ""
	m.Total = msg.Total
	m.Done = msg.Index
	m.Stats = msg.Stats
	m.Lines = append(m.Lines, Line{Index: msg.Index, Total: msg.Total, URL: msg.URL, Outcome: msg.Outcome})
	if len(m.Lines) > maxLines {
		m.Lines = m.Lines[len(m.Lines)-maxLines:]
	}
	return m, nil
}

// handleRunDone switches to the summary or error screen
func (m Model) handleRunDone(msg RunDoneMsg) (tea.Model, tea.Cmd) {
	m.Record = msg.Record
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.State = StateComplete
	return m, nil
}
