package patterns

import "github.com/revscan/revscan/internal/types"

func pathTraversalPatterns() []Pattern {
	return []Pattern{
		mustPattern(`open\s*\(\s*.*\+\s*.*\)`, types.SevMedium,
			"File opened with concatenated path component"),
		mustPattern(`\.\./\.\./`, types.SevMedium,
			"Relative parent-directory traversal sequence"),
	}
}
