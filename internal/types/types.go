package types

import "time"

// Severity is a coarse-grained rating for a single finding or policy.
type Severity string

const (
	SevLow      Severity = "low"
	SevMedium   Severity = "medium"
	SevHigh     Severity = "high"
	SevCritical Severity = "critical"
)

// RiskLevel is the four-point ordinal derived from the numeric security score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Vulnerability is one pattern-matched security concern tied to a file/line.
// ID is a deterministic hash of (file path, line number, class) so repeated
// scans of unchanged content produce identical ids.
type Vulnerability struct {
	ID             string   `json:"id"`
	Class          string   `json:"type"`
	Severity       Severity `json:"severity"`
	Description    string   `json:"description"`
	FilePath       string   `json:"file_path"`
	LineNumber     int      `json:"line_number"`
	LineContent    string   `json:"line_content"`
	MatchedPattern string   `json:"pattern_matched"`
	Confidence     float64  `json:"confidence"`
}

// Violation is produced by evaluating one policy rule against one file.
type Violation struct {
	PolicyID    string   `json:"policy_id"`
	PolicyName  string   `json:"policy_name"`
	Severity    Severity `json:"severity"`
	FilePath    string   `json:"file_path"`
	RuleType    string   `json:"violation_type"`
	LineNumber  int      `json:"line_number"`
	LineContent string   `json:"line_content,omitempty"`
	Description string   `json:"description"`
}

// AnalysisResult is the single output record of one scan invocation.
// It is owned by the caller; the engine keeps no reference to it.
type AnalysisResult struct {
	ReviewID        string          `json:"review_id"`
	Timestamp       time.Time       `json:"timestamp"`
	SecurityScore   int             `json:"security_score"`
	RiskLevel       RiskLevel       `json:"risk_level"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Violations      []Violation     `json:"policy_violations"`
	Recommendations []string        `json:"recommendations"`
	FilesAnalyzed   int             `json:"files_analyzed"`
	FilesSkipped    int             `json:"files_skipped,omitempty"`
	Duration        time.Duration   `json:"analysis_duration"`
}

// SeverityCounts tallies vulnerabilities per severity tier.
func SeverityCounts(vulns []Vulnerability) map[Severity]int {
	counts := make(map[Severity]int)
	for _, v := range vulns {
		counts[v.Severity]++
	}
	return counts
}
