package patterns

import "github.com/revscan/revscan/internal/types"

func commandInjectionPatterns() []Pattern {
	return []Pattern{
		mustPattern(`os\.system\s*\(\s*.*\+`, types.SevHigh,
			"Potential command injection via os.system with concatenation"),
		mustPattern(`subprocess\.(?:call|run|Popen)\s*\(\s*.*\+`, types.SevHigh,
			"Potential command injection via subprocess with concatenation"),
		mustPattern(`\beval\s*\(`, types.SevHigh,
			"Use of eval on dynamic input"),
	}
}
