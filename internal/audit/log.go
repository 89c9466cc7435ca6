// Package audit keeps an append-only JSONL history of analysis runs per
// scan root. Records carry summaries only; full results live in the cache.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/revscan/revscan/internal/types"
)

type AnalysisRecord struct {
	Timestamp       time.Time        `json:"timestamp"`
	ReviewID        string           `json:"review_id"`
	Root            string           `json:"root"`
	SecurityScore   int              `json:"security_score"`
	RiskLevel       string           `json:"risk_level"`
	Vulnerabilities int              `json:"vulnerabilities"`
	Violations      int              `json:"policy_violations"`
	SeverityCounts  map[string]int   `json:"severity_counts"`
	FilesAnalyzed   int              `json:"files_analyzed"`
	Duration        string           `json:"duration"`
	TopFindings     []FindingSummary `json:"top_findings,omitempty"`
}

type FindingSummary struct {
	Path     string `json:"path"`
	Class    string `json:"class"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
}

type Log struct {
	logPath string
}

func NewLog(root string) *Log {
	gitDir := filepath.Join(root, ".git")
	logPath := filepath.Join(root, ".revscan_audit.jsonl")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		logPath = filepath.Join(gitDir, "revscan_audit.jsonl")
	}
	return &Log{logPath: logPath}
}

// History returns prior records, newest first. Malformed lines are skipped.
func (a *Log) History() ([]AnalysisRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []AnalysisRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record AnalysisRecord
		if err := decoder.Decode(&record); err != nil {
			continue
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Record appends one record. Permissions are owner-only since records carry
// finding locations.
func (a *Log) Record(record AnalysisRecord) error {
	if record.ReviewID == "" {
		record.ReviewID = fmt.Sprintf("review_%d", time.Now().Unix())
	}

	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// NewRecord summarizes an analysis result into an audit record. Line content
// never enters the log; only file, line and class.
func NewRecord(root string, res types.AnalysisResult) AnalysisRecord {
	severityCounts := make(map[string]int)
	for _, v := range res.Vulnerabilities {
		severityCounts[string(v.Severity)]++
	}
	for _, v := range res.Violations {
		severityCounts[string(v.Severity)]++
	}

	topFindings := make([]FindingSummary, 0, 10)
	for i, v := range res.Vulnerabilities {
		if i >= 10 {
			break
		}
		topFindings = append(topFindings, FindingSummary{
			Path:     v.FilePath,
			Class:    v.Class,
			Severity: string(v.Severity),
			Line:     v.LineNumber,
		})
	}

	return AnalysisRecord{
		Timestamp:       res.Timestamp,
		ReviewID:        res.ReviewID,
		Root:            root,
		SecurityScore:   res.SecurityScore,
		RiskLevel:       string(res.RiskLevel),
		Vulnerabilities: len(res.Vulnerabilities),
		Violations:      len(res.Violations),
		SeverityCounts:  severityCounts,
		FilesAnalyzed:   res.FilesAnalyzed,
		Duration:        res.Duration.String(),
		TopFindings:     topFindings,
	}
}
