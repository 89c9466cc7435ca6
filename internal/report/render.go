// Package report renders an analysis result for humans and machines:
// plain text, bordered tables, JSON and SARIF.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/revscan/revscan/internal/types"
)

var (
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	highStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
)

type PrintOptions struct {
	NoColor bool
	// Width truncates long line content in text output. Zero means no limit.
	Width int
}

func severityLabel(s types.Severity, noColor bool) string {
	if noColor {
		return string(s)
	}
	switch s {
	case types.SevCritical:
		return criticalStyle.Render(string(s))
	case types.SevHigh:
		return highStyle.Render(string(s))
	case types.SevMedium:
		return mediumStyle.Render(string(s))
	default:
		return lowStyle.Render(string(s))
	}
}

func heading(s string, noColor bool) string {
	if noColor {
		return s
	}
	return headingStyle.Render(s)
}

// PrintText writes the columnar plain-text report.
func PrintText(w io.Writer, res types.AnalysisResult, opts PrintOptions) {
	if len(res.Vulnerabilities) == 0 && len(res.Violations) == 0 {
		fmt.Fprintln(w, "No security findings ✅")
	}

	if len(res.Vulnerabilities) > 0 {
		fmt.Fprintf(w, "%s %d\n", heading("Vulnerabilities:", opts.NoColor), len(res.Vulnerabilities))
		maxClass := 4
		for _, v := range res.Vulnerabilities {
			if l := len(v.Class); l > maxClass {
				maxClass = l
			}
		}
		for _, v := range res.Vulnerabilities {
			sev := severityLabel(v.Severity, opts.NoColor)
			fmt.Fprintf(w, "%-8s %-*s %s:%d  %s\n",
				sev, maxClass, v.Class, v.FilePath, v.LineNumber, clip(v.LineContent, opts.Width))
		}
	}

	if len(res.Violations) > 0 {
		if len(res.Vulnerabilities) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %d\n", heading("Policy violations:", opts.NoColor), len(res.Violations))
		for _, v := range res.Violations {
			sev := severityLabel(v.Severity, opts.NoColor)
			fmt.Fprintf(w, "%-8s %s  %s:%d  %s\n",
				sev, v.PolicyName, v.FilePath, v.LineNumber, clip(v.Description, opts.Width))
		}
	}

	if len(res.Recommendations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, heading("Recommendations:", opts.NoColor))
		for _, r := range res.Recommendations {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}

	printSummary(w, res, opts)
}

// PrintTable writes the bordered-table report.
func PrintTable(w io.Writer, res types.AnalysisResult, opts PrintOptions) {
	if len(res.Vulnerabilities) == 0 && len(res.Violations) == 0 {
		fmt.Fprintln(w, "No security findings ✅")
		printSummary(w, res, opts)
		return
	}

	if len(res.Vulnerabilities) > 0 {
		fmt.Fprintf(w, "%s %d\n", heading("Vulnerabilities:", opts.NoColor), len(res.Vulnerabilities))
		tbl := tablewriter.NewTable(w)
		tbl.Header("Severity", "Type", "Location", "Confidence", "Description")
		for _, v := range res.Vulnerabilities {
			tbl.Append([]string{
				severityLabel(v.Severity, opts.NoColor),
				v.Class,
				fmt.Sprintf("%s:%d", v.FilePath, v.LineNumber),
				strconv.FormatFloat(v.Confidence, 'f', 1, 64),
				clip(v.Description, opts.Width),
			})
		}
		tbl.Render()
	}

	if len(res.Violations) > 0 {
		fmt.Fprintf(w, "%s %d\n", heading("Policy violations:", opts.NoColor), len(res.Violations))
		tbl := tablewriter.NewTable(w)
		tbl.Header("Severity", "Policy", "Rule", "Location", "Description")
		for _, v := range res.Violations {
			tbl.Append([]string{
				severityLabel(v.Severity, opts.NoColor),
				v.PolicyName,
				v.RuleType,
				fmt.Sprintf("%s:%d", v.FilePath, v.LineNumber),
				clip(v.Description, opts.Width),
			})
		}
		tbl.Render()
	}

	if len(res.Recommendations) > 0 {
		fmt.Fprintln(w, heading("Recommendations:", opts.NoColor))
		for _, r := range res.Recommendations {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}

	printSummary(w, res, opts)
}

func printSummary(w io.Writer, res types.AnalysisResult, opts PrintOptions) {
	counts := types.SeverityCounts(res.Vulnerabilities)
	for _, v := range res.Violations {
		counts[v.Severity]++
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Security score: %d/100 (risk: %s)\n",
		res.SecurityScore, severityRisk(res.RiskLevel, opts.NoColor))
	fmt.Fprintf(w, "Findings: %d (critical: %d, high: %d, medium: %d, low: %d)\n",
		len(res.Vulnerabilities)+len(res.Violations),
		counts[types.SevCritical], counts[types.SevHigh], counts[types.SevMedium], counts[types.SevLow])
	if res.Duration > 0 {
		fmt.Fprintf(w, "Analysis duration: %.2fs\n", res.Duration.Seconds())
	}
	if res.FilesAnalyzed > 0 || res.FilesSkipped > 0 {
		fmt.Fprintf(w, "Files analyzed: %d (skipped: %d)\n", res.FilesAnalyzed, res.FilesSkipped)
	}
}

func severityRisk(level types.RiskLevel, noColor bool) string {
	if noColor {
		return string(level)
	}
	switch level {
	case types.RiskCritical:
		return criticalStyle.Render(string(level))
	case types.RiskHigh:
		return highStyle.Render(string(level))
	case types.RiskMedium:
		return mediumStyle.Render(string(level))
	default:
		return lowStyle.Render(string(level))
	}
}

func clip(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	if width <= 1 {
		return s[:width]
	}
	return strings.TrimSpace(s[:width-1]) + "…"
}
