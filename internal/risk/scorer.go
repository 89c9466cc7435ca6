// Package risk turns raw findings into the bounded security score, the
// derived risk level, and advisory per-finding risk weights.
package risk

import (
	"strings"

	"github.com/revscan/revscan/internal/types"
)

// severityWeights are the score deductions per vulnerability severity tier,
// scaled by the finding's confidence. Unknown severities deduct like low.
var severityWeights = map[types.Severity]float64{
	types.SevCritical: 25,
	types.SevHigh:     15,
	types.SevMedium:   8,
	types.SevLow:      3,
}

// violationPenalty is the flat deduction per policy violation.
const violationPenalty = 10

// Score aggregates vulnerabilities and violations into a security score in
// [0,100] and its risk level. The running total starts at 100, is truncated
// to an integer and then clamped; risk level is a pure function of the
// clamped score.
func Score(vulns []types.Vulnerability, violations []types.Violation) (int, types.RiskLevel) {
	base := 100.0
	for _, v := range vulns {
		w, ok := severityWeights[v.Severity]
		if !ok {
			w = severityWeights[types.SevLow]
		}
		base -= w * v.Confidence
	}
	base -= float64(len(violations)) * violationPenalty

	score := int(base)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, LevelFor(score)
}

// LevelFor maps a clamped score onto the four-point risk ordinal.
func LevelFor(score int) types.RiskLevel {
	switch {
	case score >= 90:
		return types.RiskLow
	case score >= 70:
		return types.RiskMedium
	case score >= 50:
		return types.RiskHigh
	default:
		return types.RiskCritical
	}
}

// severityFactors feed the per-finding risk weight.
var severityFactors = map[types.Severity]float64{
	types.SevCritical: 1.0,
	types.SevHigh:     0.8,
	types.SevMedium:   0.5,
	types.SevLow:      0.2,
}

// sensitiveBoost scales up findings that live in security-sensitive files.
const sensitiveBoost = 1.5

// Calculator computes an advisory 0..1 risk weight for a single
// vulnerability. The weight does not feed back into the aggregate score.
type Calculator struct {
	sensitiveSuffixes []string
}

// NewCalculator builds a calculator with the given security-sensitive
// filename markers; nil selects the defaults (authentication and security
// named files).
func NewCalculator(sensitiveSuffixes []string) *Calculator {
	if sensitiveSuffixes == nil {
		sensitiveSuffixes = []string{"auth.py", "login.py", "security.py"}
	}
	return &Calculator{sensitiveSuffixes: sensitiveSuffixes}
}

// RiskScore is severity factor × confidence, boosted for sensitive file
// paths and capped at 1.0.
func (c *Calculator) RiskScore(v types.Vulnerability) float64 {
	factor, ok := severityFactors[v.Severity]
	if !ok {
		factor = severityFactors[types.SevLow]
	}
	score := factor * v.Confidence
	for _, suffix := range c.sensitiveSuffixes {
		if strings.HasSuffix(v.FilePath, suffix) {
			score *= sensitiveBoost
			break
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
