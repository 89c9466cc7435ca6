package tui

import (
	"testing"

	"github.com/revscan/revscan/internal/types"
)

func sampleAnalysis() types.AnalysisResult {
	return types.AnalysisResult{
		SecurityScore: 55,
		RiskLevel:     types.RiskHigh,
		Vulnerabilities: []types.Vulnerability{
			{ID: "a", Class: "sql_injection", Severity: types.SevCritical, FilePath: "db.py", LineNumber: 3,
				Description: "Potential SQL injection vulnerability", Confidence: 0.7},
			{ID: "b", Class: "xss", Severity: types.SevMedium, FilePath: "web.py", LineNumber: 8,
				Description: "Potential XSS vulnerability", Confidence: 0.5},
		},
		Violations: []types.Violation{
			{PolicyID: "SEC-001", PolicyName: "SQL Injection Prevention", Severity: types.SevCritical,
				FilePath: "db.py", RuleType: "pattern_match", LineNumber: 3, Description: "Prohibited pattern found"},
		},
	}
}

func TestFlatten_MergesVulnerabilitiesAndViolations(t *testing.T) {
	rows := flatten(sampleAnalysis())
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Kind != "vulnerability" || rows[0].Label != "sql_injection" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[2].Kind != "violation" || rows[2].PolicyID != "SEC-001" {
		t.Fatalf("unexpected violation row: %+v", rows[2])
	}
}

func TestNewModel_TableRows(t *testing.T) {
	m := NewModel(sampleAnalysis(), ".", nil)
	if len(m.table.Rows()) != 3 {
		t.Fatalf("expected 3 table rows, got %d", len(m.table.Rows()))
	}
	if m.statusMessage == "" {
		t.Fatal("expected a key hint in the status bar")
	}
}

func TestApplyFilters_SearchAndSeverity(t *testing.T) {
	m := NewModel(sampleAnalysis(), ".", nil)

	m.searchQuery = "web.py"
	m.applyFilters()
	if len(m.displayRows()) != 1 || m.displayRows()[0].Path != "web.py" {
		t.Fatalf("search filter failed: %+v", m.displayRows())
	}

	m.searchQuery = ""
	m.severityFilter = types.SevCritical
	m.applyFilters()
	if len(m.displayRows()) != 2 {
		t.Fatalf("severity filter should keep 2 critical rows, got %d", len(m.displayRows()))
	}

	m.clearFilters()
	if len(m.displayRows()) != 3 {
		t.Fatalf("clearing filters should restore all rows, got %d", len(m.displayRows()))
	}
}

func TestCycleSeverityFilter(t *testing.T) {
	m := NewModel(sampleAnalysis(), ".", nil)
	want := []types.Severity{types.SevCritical, types.SevHigh, types.SevMedium, types.SevLow, ""}
	for _, sev := range want {
		m.cycleSeverityFilter()
		if m.severityFilter != sev {
			t.Fatalf("expected filter %q, got %q", sev, m.severityFilter)
		}
	}
}

func TestSeverityText(t *testing.T) {
	cases := map[types.Severity]string{
		types.SevCritical: "CRIT",
		types.SevHigh:     "HIGH",
		types.SevMedium:   "MED",
		types.SevLow:      "LOW",
	}
	for sev, want := range cases {
		if got := severityText(sev); got != want {
			t.Errorf("severityText(%s) = %q, want %q", sev, got, want)
		}
	}
}
