package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/revscan/revscan/internal/types"
)

func TestRecordAndHistory(t *testing.T) {
	dir := t.TempDir()
	log := NewLog(dir)

	first := NewRecord(dir, types.AnalysisResult{
		ReviewID:      "r1",
		Timestamp:     time.Now(),
		SecurityScore: 90,
		RiskLevel:     types.RiskLow,
		FilesAnalyzed: 2,
	})
	second := NewRecord(dir, types.AnalysisResult{
		ReviewID:      "r2",
		Timestamp:     time.Now(),
		SecurityScore: 40,
		RiskLevel:     types.RiskCritical,
		FilesAnalyzed: 3,
	})
	if err := log.Record(first); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := log.Record(second); err != nil {
		t.Fatalf("record: %v", err)
	}

	records, err := log.History()
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Newest first.
	if records[0].ReviewID != "r2" || records[1].ReviewID != "r1" {
		t.Fatalf("unexpected order: %s, %s", records[0].ReviewID, records[1].ReviewID)
	}
	if records[0].SecurityScore != 40 || records[0].RiskLevel != "critical" {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestNewRecord_SummarizesWithoutLineContent(t *testing.T) {
	res := types.AnalysisResult{
		ReviewID: "r3",
		Vulnerabilities: []types.Vulnerability{
			{ID: "a", Class: "sql_injection", Severity: types.SevCritical, FilePath: "db.py", LineNumber: 9,
				LineContent: `query = "SELECT * FROM t WHERE id=" + uid`},
		},
		Violations: []types.Violation{
			{PolicyID: "SEC-001", Severity: types.SevHigh, FilePath: "db.py", LineNumber: 9},
		},
	}
	rec := NewRecord("/repo", res)
	if rec.Vulnerabilities != 1 || rec.Violations != 1 {
		t.Fatalf("unexpected counts: %+v", rec)
	}
	if rec.SeverityCounts["critical"] != 1 || rec.SeverityCounts["high"] != 1 {
		t.Fatalf("unexpected severity counts: %#v", rec.SeverityCounts)
	}
	if len(rec.TopFindings) != 1 || rec.TopFindings[0].Class != "sql_injection" {
		t.Fatalf("unexpected top findings: %+v", rec.TopFindings)
	}
}

func TestRecord_UsesGitDirWhenPresent(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	log := NewLog(dir)
	if err := log.Record(AnalysisRecord{ReviewID: "r1"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".git", "revscan_audit.jsonl")); err != nil {
		t.Fatalf("expected audit log under .git: %v", err)
	}
}

func TestHistory_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	log := NewLog(dir)
	if err := log.Record(AnalysisRecord{ReviewID: "good"}); err != nil {
		t.Fatal(err)
	}
	f, err := os.OpenFile(filepath.Join(dir, ".revscan_audit.jsonl"), os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("{not json}\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	records, err := log.History()
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 1 || records[0].ReviewID != "good" {
		t.Fatalf("expected the valid record only, got %+v", records)
	}
}
