package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/revscan/revscan/internal/types"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if m.searchMode {
			switch msg.String() {
			case "enter":
				m.searchQuery = m.searchInput.Value()
				m.searchMode = false
				m.searchInput.Blur()
				return m, nil
			case "esc":
				m.searchMode = false
				m.searchInput.Blur()
				m.searchInput.SetValue(m.searchQuery)
				m.applyFilters()
				return m, nil
			default:
				m.searchInput, cmd = m.searchInput.Update(msg)
				m.searchQuery = m.searchInput.Value()
				m.applyFilters()
				return m, cmd
			}
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "/":
			if len(m.rows) > 0 {
				m.searchMode = true
				m.searchInput.SetValue(m.searchQuery)
				m.searchInput.Focus()
				return m, textinput.Blink
			}
		case "s":
			m.cycleSeverityFilter()
			if m.severityFilter == "" {
				m.setStatus("Showing all severities")
			} else {
				m.setStatus(fmt.Sprintf("Showing %s only (Esc to clear)", severityText(m.severityFilter)))
			}
			return m, nil
		case "esc":
			m.clearFilters()
			m.setStatus("Filters cleared")
			return m, nil
		case "c":
			return m, m.copyLocation()
		case "o":
			return m, m.openInEditor()
		case "r":
			if !m.scanning && m.rescanFunc != nil {
				m.scanning = true
				return m, tea.Batch(m.spinner.Tick, m.rescan())
			}
			return m, nil
		case "+", "=":
			if m.contextLines < 15 {
				m.contextLines++
				m.updateViewportContent()
			}
			return m, nil
		case "-", "_":
			if m.contextLines > 0 {
				m.contextLines--
				m.updateViewportContent()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.updateViewportContent()
		return m, nil

	case resultMsg:
		m.scanning = false
		m.result = types.AnalysisResult(msg)
		m.rows = flatten(m.result)
		m.applyFilters()
		m.setStatus(fmt.Sprintf("Analysis complete: score %d/100, %d findings",
			m.result.SecurityScore, len(m.rows)))
		return m, nil

	case statusMsg:
		m.scanning = false
		m.setStatus(string(msg))
		return m, nil

	case spinner.TickMsg:
		if m.scanning {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.statusTimeout != nil && time.Now().After(*m.statusTimeout) {
		m.statusTimeout = nil
		m.statusMessage = ""
	}

	prevCursor := m.table.Cursor()
	m.table, cmd = m.table.Update(msg)
	if m.table.Cursor() != prevCursor {
		m.updateViewportContent()
	}
	return m, cmd
}

// layout splits the terminal between table and detail pane.
func (m *Model) layout() {
	tableHeight := m.height / 2
	if tableHeight < 5 {
		tableHeight = 5
	}
	m.table.SetHeight(tableHeight - 3)
	m.table.SetWidth(m.width - 2)

	detailHeight := m.height - tableHeight - 5
	if detailHeight < 3 {
		detailHeight = 3
	}
	if m.viewport.Width == 0 {
		m.viewport = viewport.New(m.width-2, detailHeight)
	} else {
		m.viewport.Width = m.width - 2
		m.viewport.Height = detailHeight
	}
}
