package tui

// UI Text Constants
const (
	TextFooterRunning = "Press 'q' or Ctrl+C to stop the run"
	TextFooterDone    = "Press 'q' or Ctrl+C to exit"
)
