package patterns

// Vulnerability class names. These appear verbatim in Vulnerability.Class
// and in policy/recommendation tables, so treat them as part of the output
// contract.
const (
	ClassSQLInjection     = "sql_injection"
	ClassXSS              = "xss"
	ClassHardcodedSecrets = "hardcoded_secrets"
	ClassInsecureCrypto   = "insecure_crypto"
	ClassCommandInjection = "command_injection"
	ClassPathTraversal    = "path_traversal"
)
