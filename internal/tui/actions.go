package tui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// copyLocation copies the current finding's path:line to the clipboard.
func (m Model) copyLocation() tea.Cmd {
	r, ok := m.selectedRow()
	if !ok {
		return func() tea.Msg { return statusMsg("No finding selected") }
	}
	loc := fmt.Sprintf("%s:%d", r.Path, r.Line)
	if err := clipboard.WriteAll(loc); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Clipboard error: %v", err)) }
	}
	return func() tea.Msg { return statusMsg(fmt.Sprintf("Copied: %s", loc)) }
}

// openInEditor suspends the TUI and opens the finding in $EDITOR at its line.
func (m Model) openInEditor() tea.Cmd {
	r, ok := m.selectedRow()
	if !ok {
		return nil
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}
	editorBase := editor
	if idx := strings.LastIndex(editor, "/"); idx != -1 {
		editorBase = editor[idx+1:]
	}

	abs := filepath.Join(m.root, r.Path)
	var args []string
	switch editorBase {
	case "code", "code-insiders":
		args = []string{"-g", fmt.Sprintf("%s:%d", abs, r.Line)}
	case "subl", "sublime", "sublime_text":
		args = []string{fmt.Sprintf("%s:%d", abs, r.Line)}
	case "emacs", "emacsclient":
		args = []string{fmt.Sprintf("+%d", r.Line), abs}
	case "nano":
		args = []string{fmt.Sprintf("+%d", r.Line), abs}
	default:
		args = []string{fmt.Sprintf("+%d", r.Line), abs}
	}

	c := exec.Command(editor, args...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			return statusMsg(fmt.Sprintf("Error opening editor: %v", err))
		}
		return statusMsg("Editor closed")
	})
}
