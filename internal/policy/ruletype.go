package policy

// RuleType is the closed set of policy rule kinds. Rule dispatch switches
// exhaustively over these values; adding a kind means extending the switch,
// not registering a string at runtime.
type RuleType string

const (
	RulePatternMatch      RuleType = "pattern_match"
	RuleFunctionCall      RuleType = "function_call"
	RuleImportRestriction RuleType = "import_restriction"
	RuleComplexityLimit   RuleType = "complexity_limit"
	RuleAuthRequired      RuleType = "authentication_required"
	RuleInputValidation   RuleType = "input_validation"
	RuleSecureHeaders     RuleType = "secure_headers"
	RuleCryptoStandards   RuleType = "crypto_standards"

	// RuleUnknown marks a tag that no validator recognizes. Evaluating it
	// produces zero violations and a debug log line; this free pass is a
	// documented contract, not a crash path.
	RuleUnknown RuleType = "unknown"
)

// ParseRuleType maps a config tag onto the closed enum. Unrecognized tags
// come back as RuleUnknown together with ok=false.
func ParseRuleType(tag string) (RuleType, bool) {
	switch RuleType(tag) {
	case RulePatternMatch, RuleFunctionCall, RuleImportRestriction,
		RuleComplexityLimit, RuleAuthRequired, RuleInputValidation,
		RuleSecureHeaders, RuleCryptoStandards:
		return RuleType(tag), true
	}
	return RuleUnknown, false
}
