package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/revscan/revscan/internal/types"
)

// Run starts the findings browser over a fresh analysis result.
func Run(res types.AnalysisResult, root string, rescanFunc func() (types.AnalysisResult, error)) error {
	m := NewModel(res, root, rescanFunc)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// RunCached starts the browser over a previously saved result.
func RunCached(res types.AnalysisResult, root string, rescanFunc func() (types.AnalysisResult, error), timestamp time.Time) error {
	m := NewModel(res, root, rescanFunc)
	if !timestamp.IsZero() {
		m.statusMessage = fmt.Sprintf("Viewing analysis from %s | r: re-analyze | q: quit",
			timestamp.Format("Jan 2, 15:04"))
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
