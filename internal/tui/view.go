package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/revscan/revscan/internal/types"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	if m.scanning {
		msgContent := fmt.Sprintf("%s  Re-analyzing...\n\nPlease wait", m.spinner.View())
		popupBox := popupStyle.
			Width(55).
			Align(lipgloss.Center).
			Render(msgContent)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupBox)
	}

	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			popupStyle.Render(helpText()))
	}

	display := m.displayRows()
	var critCount, highCount, medCount, lowCount int
	for _, r := range display {
		switch r.Severity {
		case types.SevCritical:
			critCount++
		case types.SevHigh:
			highCount++
		case types.SevMedium:
			medCount++
		case types.SevLow:
			lowCount++
		}
	}

	var statsContent string
	if len(m.rows) == 0 {
		statsContent = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).
			Render(fmt.Sprintf("[OK] No security findings  |  Score: %d/100 (%s)",
				m.result.SecurityScore, m.result.RiskLevel))
	} else {
		var filterInfo string
		if m.searchQuery != "" || m.severityFilter != "" {
			var parts []string
			if m.searchQuery != "" {
				parts = append(parts, fmt.Sprintf("search:'%s'", m.searchQuery))
			}
			if m.severityFilter != "" {
				parts = append(parts, fmt.Sprintf("sev:%s", severityText(m.severityFilter)))
			}
			filterInfo = fmt.Sprintf("  [FILTER: %s]", strings.Join(parts, ", "))
		}
		statsContent = fmt.Sprintf(
			"Score: %d/100 (%s)  |  Showing: %d/%d  |  %s %-3d %s %-3d %s %-3d %s %-3d%s",
			m.result.SecurityScore,
			m.result.RiskLevel,
			len(display),
			len(m.rows),
			sevCritStyle.Render("Crit:"), critCount,
			sevHighStyle.Render("High:"), highCount,
			sevMedStyle.Render("Med:"), medCount,
			sevLowStyle.Render("Low:"), lowCount,
			filterInfo,
		)
	}

	statsHeader := lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 2).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("237")).
		Render(statsContent)

	tableRender := tableBorderStyle.
		Width(m.width - 2).
		Render(m.table.View())

	var detailContent string
	if len(display) == 0 {
		var emptyMsg string
		if len(m.rows) == 0 {
			emptyMsg = "Nothing to review.\n\nPress 'r' to re-analyze\nPress '?' for help"
		} else {
			emptyMsg = "No findings match filter.\n\nPress 'Esc' to clear filter"
		}
		detailContent = lipgloss.Place(
			m.width-2,
			m.viewport.Height,
			lipgloss.Center,
			lipgloss.Center,
			emptyTextStyle.Render(emptyMsg),
		)
	} else {
		detailContent = m.viewport.View()
	}
	detailRender := detailPaneBorderStyle.
		Width(m.width - 2).
		Render(detailContent)

	var statusBar string
	if m.searchMode {
		statusBar = m.searchInput.View()
	} else {
		statusBar = statusStyle.Width(m.width).Padding(0, 1).Render(m.statusMessage)
	}

	return lipgloss.JoinVertical(lipgloss.Left, statsHeader, tableRender, detailRender, statusBar)
}

func helpText() string {
	return strings.Join([]string{
		titleStyle.Render("Keys"),
		"",
		"  j/k, up/down   navigate findings",
		"  /              search path, finding, description",
		"  s              cycle severity filter",
		"  esc            clear filters",
		"  c              copy path:line to clipboard",
		"  o              open file in $EDITOR",
		"  +/-            grow/shrink source context",
		"  r              re-run the analysis",
		"  q              quit",
	}, "\n")
}
