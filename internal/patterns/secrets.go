package patterns

import "github.com/revscan/revscan/internal/types"

func hardcodedSecretPatterns() []Pattern {
	return []Pattern{
		mustPattern(`password\s*=\s*["'][^"']{8,}["']`, types.SevCritical,
			"Hardcoded password detected"),
		mustPattern(`api_key\s*=\s*["'][A-Za-z0-9]{20,}["']`, types.SevCritical,
			"Hardcoded API key detected"),
		mustPattern(`secret\s*=\s*["'][^"']{10,}["']`, types.SevCritical,
			"Hardcoded secret detected"),
		mustPattern(`token\s*=\s*["'][A-Za-z0-9]{20,}["']`, types.SevCritical,
			"Hardcoded token detected"),
	}
}
