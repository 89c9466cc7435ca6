// Package tui is an interactive browser for analysis results: a findings
// table on top, a detail pane with highlighted source context below.
package tui

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/revscan/revscan/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(1, 4)

	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	markLineStyle = lipgloss.NewStyle().Background(lipgloss.Color("236"))

	sevCritStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	sevHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sevMedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sevLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// severityText returns plain text for severity (ANSI codes break table truncation).
func severityText(s types.Severity) string {
	switch s {
	case types.SevCritical:
		return "CRIT"
	case types.SevHigh:
		return "HIGH"
	case types.SevMedium:
		return "MED"
	case types.SevLow:
		return "LOW"
	default:
		return string(s)
	}
}

// row is one browsable finding: either a vulnerability or a policy violation
// flattened into a common display shape.
type row struct {
	Kind        string // "vulnerability" or "violation"
	Label       string // pattern class or policy name
	Severity    types.Severity
	Path        string
	Line        int
	Description string
	LineContent string
	Confidence  float64
	PolicyID    string
	RuleType    string
}

func flatten(res types.AnalysisResult) []row {
	rows := make([]row, 0, len(res.Vulnerabilities)+len(res.Violations))
	for _, v := range res.Vulnerabilities {
		rows = append(rows, row{
			Kind:        "vulnerability",
			Label:       v.Class,
			Severity:    v.Severity,
			Path:        v.FilePath,
			Line:        v.LineNumber,
			Description: v.Description,
			LineContent: v.LineContent,
			Confidence:  v.Confidence,
		})
	}
	for _, v := range res.Violations {
		rows = append(rows, row{
			Kind:        "violation",
			Label:       v.PolicyName,
			Severity:    v.Severity,
			Path:        v.FilePath,
			Line:        v.LineNumber,
			Description: v.Description,
			LineContent: v.LineContent,
			PolicyID:    v.PolicyID,
			RuleType:    v.RuleType,
		})
	}
	return rows
}

// Model is the top-level bubbletea state for the findings browser.
type Model struct {
	table    table.Model
	viewport viewport.Model
	spinner  spinner.Model

	result   types.AnalysisResult
	root     string
	rows     []row
	filtered []row // nil when no filter is active

	rescanFunc func() (types.AnalysisResult, error)

	ready         bool
	quitting      bool
	scanning      bool
	showHelp      bool
	width         int
	height        int
	statusMessage string
	statusTimeout *time.Time

	searchMode     bool
	searchInput    textinput.Model
	searchQuery    string
	severityFilter types.Severity

	contextLines int
}

type resultMsg types.AnalysisResult

type statusMsg string

// NewModel builds the browser over one analysis result. rescanFunc may be nil
// when re-running the analysis is not possible (viewing cached results).
func NewModel(res types.AnalysisResult, root string, rescanFunc func() (types.AnalysisResult, error)) Model {
	columns := []table.Column{
		{Title: "Sev", Width: 6},
		{Title: "Kind", Width: 13},
		{Title: "Finding", Width: 26},
		{Title: "Path", Width: 36},
		{Title: "Line", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)
	s.Cell = lipgloss.NewStyle().
		Padding(0, 1)
	t.SetStyles(s)

	// Line spinner avoids Braille characters that render poorly on some terminals
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.Placeholder = "Search path, finding, or description..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	m := Model{
		table:        t,
		spinner:      sp,
		result:       res,
		root:         root,
		rows:         flatten(res),
		rescanFunc:   rescanFunc,
		searchInput:  ti,
		contextLines: 3,
	}
	m.rebuildTableRows()

	if len(m.rows) == 0 {
		m.statusMessage = "q: quit | r: re-analyze"
	} else {
		m.statusMessage = "q: quit | ?: help | j/k: navigate | /: search | s: severity | c: copy | r: re-analyze"
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) rescan() tea.Cmd {
	return func() tea.Msg {
		if m.rescanFunc == nil {
			return statusMsg("Re-analysis not available")
		}
		res, err := m.rescanFunc()
		if err != nil {
			return statusMsg(fmt.Sprintf("Analysis error: %v", err))
		}
		return resultMsg(res)
	}
}

func (m *Model) displayRows() []row {
	if m.filtered != nil {
		return m.filtered
	}
	return m.rows
}

func (m *Model) applyFilters() {
	if m.searchQuery == "" && m.severityFilter == "" {
		m.filtered = nil
		m.rebuildTableRows()
		return
	}
	q := strings.ToLower(m.searchQuery)
	filtered := make([]row, 0, len(m.rows))
	for _, r := range m.rows {
		if m.severityFilter != "" && r.Severity != m.severityFilter {
			continue
		}
		if q != "" {
			hay := strings.ToLower(r.Path + " " + r.Label + " " + r.Description)
			if !strings.Contains(hay, q) {
				continue
			}
		}
		filtered = append(filtered, r)
	}
	m.filtered = filtered
	m.rebuildTableRows()
}

func (m *Model) clearFilters() {
	m.searchQuery = ""
	m.severityFilter = ""
	m.searchInput.SetValue("")
	m.filtered = nil
	m.rebuildTableRows()
}

// cycleSeverityFilter steps all -> critical -> high -> medium -> low -> all.
func (m *Model) cycleSeverityFilter() {
	order := []types.Severity{"", types.SevCritical, types.SevHigh, types.SevMedium, types.SevLow}
	for i, sev := range order {
		if m.severityFilter == sev {
			m.severityFilter = order[(i+1)%len(order)]
			break
		}
	}
	m.applyFilters()
}

func (m *Model) rebuildTableRows() {
	display := m.displayRows()
	rows := make([]table.Row, len(display))
	for i, r := range display {
		rows[i] = table.Row{
			severityText(r.Severity),
			r.Kind,
			r.Label,
			r.Path,
			fmt.Sprintf("%d", r.Line),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
	m.updateViewportContent()
}

func (m *Model) selectedRow() (row, bool) {
	display := m.displayRows()
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(display) {
		return row{}, false
	}
	return display[idx], true
}

func (m *Model) setStatus(msg string) {
	m.statusMessage = msg
	t := time.Now().Add(4 * time.Second)
	m.statusTimeout = &t
}

func (m *Model) updateViewportContent() {
	r, ok := m.selectedRow()
	if !ok {
		m.viewport.SetContent("")
		return
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s\n\n", titleStyle.Render("Finding Details")))
	b.WriteString(fmt.Sprintf("%s %s\n", keyStyle.Render("Path:"), r.Path))
	b.WriteString(fmt.Sprintf("%s %d\n", keyStyle.Render("Line:"), r.Line))
	if r.Kind == "violation" {
		b.WriteString(fmt.Sprintf("%s %s (%s)\n", keyStyle.Render("Policy:"), r.Label, r.PolicyID))
		b.WriteString(fmt.Sprintf("%s %s\n", keyStyle.Render("Rule:"), r.RuleType))
	} else {
		b.WriteString(fmt.Sprintf("%s %s\n", keyStyle.Render("Class:"), r.Label))
		b.WriteString(fmt.Sprintf("%s %.1f\n", keyStyle.Render("Confidence:"), r.Confidence))
	}
	b.WriteString(fmt.Sprintf("%s %s\n", keyStyle.Render("Severity:"), r.Severity))
	b.WriteString(fmt.Sprintf("%s %s\n", keyStyle.Render("Description:"), r.Description))

	contextHint := fmt.Sprintf(" (+/- to expand/contract, showing %d lines)", m.contextLines*2+1)
	b.WriteString(fmt.Sprintf("\n%s%s\n", keyStyle.Render("Context:"), hintStyle.Render(contextHint)))

	abs := filepath.Join(m.root, r.Path)
	lines, startLine, err := readFileContext(abs, r.Line, m.contextLines)
	if err == nil && len(lines) > 0 {
		lineNumStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		for i, line := range lines {
			lineNum := startLine + i
			lineNumStr := lineNumStyle.Render(fmt.Sprintf("%4d ", lineNum))
			highlighted := highlightLine(line, r.Path)
			if lineNum == r.Line {
				b.WriteString(lineNumStr + markLineStyle.Render(highlighted) + "\n")
			} else {
				b.WriteString(lineNumStr + highlighted + "\n")
			}
		}
	} else if r.LineContent != "" {
		b.WriteString(highlightLine(r.LineContent, r.Path) + "\n")
	}

	m.viewport.SetContent(b.String())
}

func readFileContext(path string, targetLine, contextLines int) ([]string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	startLine := targetLine - contextLines
	if startLine < 1 {
		startLine = 1
	}
	endLine := targetLine + contextLines

	var lines []string
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}
	return lines, startLine, scanner.Err()
}

func highlightLine(line, filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		ext := filepath.Ext(filename)
		if ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer == nil {
		return line
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return line
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return line
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
