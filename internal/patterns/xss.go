package patterns

import "github.com/revscan/revscan/internal/types"

func xssPatterns() []Pattern {
	return []Pattern{
		mustPattern(`innerHTML\s*=\s*.*\+`, types.SevHigh,
			"Potential XSS via innerHTML manipulation"),
		mustPattern(`document\.write\s*\(\s*.*\+`, types.SevHigh,
			"Potential XSS via document.write"),
	}
}
