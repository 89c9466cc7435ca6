package patterns

import "github.com/revscan/revscan/internal/types"

func insecureCryptoPatterns() []Pattern {
	return []Pattern{
		mustPattern(`md5\s*\(`, types.SevMedium,
			"Insecure MD5 hash function usage"),
		mustPattern(`sha1\s*\(`, types.SevMedium,
			"Insecure SHA1 hash function usage"),
	}
}
