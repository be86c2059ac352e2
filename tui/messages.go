package tui

import "tandoorimport/importer"

// Messages for the tea program. The importer runs in its own goroutine and
// feeds these in through Program.Send.

// StartedMsg announces the URL now being processed.
type StartedMsg importer.StartEvent

// ProgressMsg reports one completed URL with the stats snapshot behind it.
type ProgressMsg importer.ProgressEvent

// RunDoneMsg carries the final record once the importer returns.
type RunDoneMsg struct {
	Record *importer.RunRecord
	Err    error
}
