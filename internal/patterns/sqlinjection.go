package patterns

import "github.com/revscan/revscan/internal/types"

func sqlInjectionPatterns() []Pattern {
	return []Pattern{
		mustPattern(`execute\s*\(\s*["'].*\+.*["']\s*\)`, types.SevHigh,
			"Potential SQL injection via string concatenation"),
		mustPattern(`query\s*\(\s*f["'].*\{.*\}.*["']\s*\)`, types.SevMedium,
			"Potential SQL injection via f-string formatting"),
	}
}
