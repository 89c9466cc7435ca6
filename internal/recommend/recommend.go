// Package recommend maps the vulnerability classes present in a scan onto
// canned remediation guidance. The mapping is pure and deterministic: the
// same finding set always yields the same strings in the same order.
package recommend

import (
	"github.com/revscan/revscan/internal/patterns"
	"github.com/revscan/revscan/internal/types"
)

// classGuidance pairs a vulnerability class with its remediation string.
// Order here fixes the output order.
var classGuidance = []struct {
	class  string
	advice string
}{
	{patterns.ClassSQLInjection, "Use parameterized queries or ORM to prevent SQL injection"},
	{patterns.ClassXSS, "Implement proper input sanitization and output encoding"},
	{patterns.ClassHardcodedSecrets, "Move secrets to environment variables or secure key management"},
	{patterns.ClassInsecureCrypto, "Use secure cryptographic algorithms (SHA-256, bcrypt)"},
	{patterns.ClassCommandInjection, "Avoid shelling out with concatenated input; pass argument vectors"},
	{patterns.ClassPathTraversal, "Resolve and validate file paths against an allowed base directory"},
}

// manyVulnsThreshold is the finding count above which process guidance is
// appended.
const manyVulnsThreshold = 5

// Recommend produces remediation guidance for the distinct vulnerability
// classes present, plus generic guidance when policy violations exist or
// the vulnerability count exceeds the threshold.
func Recommend(vulns []types.Vulnerability, violations []types.Violation) []string {
	present := make(map[string]bool, len(vulns))
	for _, v := range vulns {
		present[v.Class] = true
	}

	var out []string
	for _, g := range classGuidance {
		if present[g.class] {
			out = append(out, g.advice)
		}
	}

	if len(violations) > 0 {
		out = append(out,
			"Review and address security policy violations",
			"Implement automated policy checking in CI/CD pipeline")
	}
	if len(vulns) > manyVulnsThreshold {
		out = append(out, "Consider implementing a security code review process")
	}
	return out
}
