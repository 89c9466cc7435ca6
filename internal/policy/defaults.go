package policy

import "github.com/revscan/revscan/internal/types"

// defaultPolicies returns the bundled policy set. These load first; external
// policy files may replace any of them by reusing the id.
func defaultPolicies() []SecurityPolicy {
	sourceTypes := []string{".py", ".js", ".java", ".php", ".rb", ".go"}
	return []SecurityPolicy{
		{
			ID:          "no_hardcoded_secrets",
			Name:        "No Hardcoded Secrets",
			Description: "Prevent hardcoded passwords, API keys, and other secrets",
			Severity:    types.SevCritical,
			Enabled:     true,
			Version:     "1.0.0",
			Rules: []Rule{{
				Type: RulePatternMatch,
				Patterns: []string{
					`password\s*=\s*["'][^"']{8,}["']`,
					`api_key\s*=\s*["'][A-Za-z0-9]{20,}["']`,
					`secret\s*=\s*["'][^"']{10,}["']`,
					`token\s*=\s*["'][A-Za-z0-9]{20,}["']`,
				},
			}},
			Metadata: Metadata{
				FileTypes:     sourceTypes,
				ExcludedPaths: []string{"test/", "tests/", "spec/"},
			},
		},
		{
			ID:          "sql_injection_prevention",
			Name:        "SQL Injection Prevention",
			Description: "Prevent SQL injection vulnerabilities",
			Severity:    types.SevHigh,
			Enabled:     true,
			Version:     "1.0.0",
			Rules: []Rule{{
				Type: RulePatternMatch,
				Patterns: []string{
					`execute\s*\(\s*["'].*\+.*["']\s*\)`,
					`query\s*\(\s*["'].*\+.*["']\s*\)`,
					`sql\s*=\s*["'].*\+.*["']`,
				},
			}},
			Metadata: Metadata{
				FileTypes: []string{".py", ".java", ".php", ".rb"},
			},
		},
		{
			ID:          "insecure_crypto",
			Name:        "Insecure Cryptography",
			Description: "Prevent use of insecure cryptographic functions",
			Severity:    types.SevMedium,
			Enabled:     true,
			Version:     "1.0.0",
			Rules: []Rule{{
				Type:      RuleFunctionCall,
				Functions: []string{"md5", "sha1", "des", "rc4"},
			}},
			Metadata: Metadata{
				FileTypes: sourceTypes,
			},
		},
		{
			ID:          "authentication_endpoints",
			Name:        "Authentication Required",
			Description: "Ensure authentication is required for sensitive endpoints",
			Severity:    types.SevHigh,
			Enabled:     true,
			Version:     "1.0.0",
			Rules: []Rule{{
				Type: RuleAuthRequired,
				EndpointPatterns: []string{
					`@app\.route\s*\(\s*["']/admin`,
					`@app\.route\s*\(\s*["']/api/user`,
					`@app\.route\s*\(\s*["']/dashboard`,
				},
			}},
			Metadata: Metadata{
				FileTypes: []string{".py", ".js", ".java", ".php", ".rb"},
			},
		},
	}
}
