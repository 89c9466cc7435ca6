package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/revscan/revscan/internal/types"
)

// Baseline records previously accepted findings so repeat scans can report
// only what is new. Vulnerabilities key by their deterministic id; policy
// violations key by (policy, rule, file, line).
type Baseline struct {
	Items map[string]bool `json:"items"`
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	buf, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(buf, &b); err != nil {
		return b, fmt.Errorf("parse baseline %s: %w", path, err)
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

func SaveBaseline(path string, res types.AnalysisResult) error {
	b := Baseline{Items: map[string]bool{}}
	for _, v := range res.Vulnerabilities {
		b.Items[v.ID] = true
	}
	for _, v := range res.Violations {
		b.Items[violationKey(v)] = true
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

// FilterNew drops findings already present in the baseline and returns the
// trimmed result. Score, risk level and recommendations are left untouched;
// they describe the full scan, not the delta.
func FilterNew(res types.AnalysisResult, base Baseline) types.AnalysisResult {
	var vulns []types.Vulnerability
	for _, v := range res.Vulnerabilities {
		if !base.Items[v.ID] {
			vulns = append(vulns, v)
		}
	}
	var viols []types.Violation
	for _, v := range res.Violations {
		if !base.Items[violationKey(v)] {
			viols = append(viols, v)
		}
	}
	res.Vulnerabilities = vulns
	res.Violations = viols
	return res
}

func violationKey(v types.Violation) string {
	return fmt.Sprintf("%s|%s|%s|%d", v.PolicyID, v.RuleType, v.FilePath, v.LineNumber)
}

var severityRank = map[types.Severity]int{
	types.SevLow:      1,
	types.SevMedium:   2,
	types.SevHigh:     3,
	types.SevCritical: 4,
}

// ShouldFail reports whether any finding meets or exceeds the fail-on
// threshold. An unrecognized threshold falls back to medium.
func ShouldFail(res types.AnalysisResult, failOn string) bool {
	th := severityRank[types.Severity(failOn)]
	if th == 0 {
		th = severityRank[types.SevMedium]
	}
	for _, v := range res.Vulnerabilities {
		if severityRank[v.Severity] >= th {
			return true
		}
	}
	for _, v := range res.Violations {
		if severityRank[v.Severity] >= th {
			return true
		}
	}
	return false
}
