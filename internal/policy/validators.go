package policy

import (
	"fmt"
	"strings"

	"github.com/revscan/revscan/internal/types"
)

// ruleMatch is one raw validator hit before policy attribution is attached.
type ruleMatch struct {
	line    int
	content string
	desc    string
}

// evaluate dispatches the rule to its validator. The switch is exhaustive
// over the closed rule kinds; RuleUnknown and the extension-point kinds
// return no matches by contract.
func (r *Rule) evaluate(lines []string) []ruleMatch {
	if r.invalid {
		return nil
	}
	switch r.Type {
	case RulePatternMatch:
		return r.matchPatterns(lines)
	case RuleFunctionCall:
		return r.matchFunctionCalls(lines)
	case RuleImportRestriction:
		return r.matchImports(lines)
	case RuleComplexityLimit:
		return r.matchComplexity(lines)
	case RuleAuthRequired:
		return r.matchAuthRequired(lines)
	case RuleInputValidation, RuleSecureHeaders, RuleCryptoStandards:
		// Extension points: deployments supply real logic by extending the
		// validators; the reference behavior reports nothing.
		return nil
	case RuleUnknown:
		return nil
	}
	return nil
}

func (r *Rule) matchPatterns(lines []string) []ruleMatch {
	var out []ruleMatch
	for i, re := range r.compiledPatterns {
		for n, line := range lines {
			if re.MatchString(line) {
				out = append(out, ruleMatch{
					line:    n + 1,
					content: strings.TrimSpace(line),
					desc:    fmt.Sprintf("Pattern match violation: %s", r.Patterns[i]),
				})
			}
		}
	}
	return out
}

func (r *Rule) matchFunctionCalls(lines []string) []ruleMatch {
	var out []ruleMatch
	for i, re := range r.compiledFunctions {
		for n, line := range lines {
			if re.MatchString(line) {
				out = append(out, ruleMatch{
					line:    n + 1,
					content: strings.TrimSpace(line),
					desc:    fmt.Sprintf("Restricted function call: %s", r.Functions[i]),
				})
			}
		}
	}
	return out
}

func (r *Rule) matchImports(lines []string) []ruleMatch {
	var out []ruleMatch
	for i, re := range r.compiledImports {
		for n, line := range lines {
			if re.MatchString(line) {
				out = append(out, ruleMatch{
					line:    n + 1,
					content: strings.TrimSpace(line),
					desc:    fmt.Sprintf("Restricted import: %s", r.Imports[i]),
				})
			}
		}
	}
	return out
}

// matchComplexity approximates cyclomatic complexity by counting branch
// keywords between one function definition and the next. A function is only
// checked once the next definition line is seen, so the last function in a
// file is never reported. Downstream consumers depend on this count; do not
// quietly extend it to the trailing function.
func (r *Rule) matchComplexity(lines []string) []ruleMatch {
	max := r.MaxComplexity
	if max <= 0 {
		max = 10
	}
	var out []ruleMatch
	current := ""
	complexity := 0
	for n, line := range lines {
		if m := r.compiledDef.FindStringSubmatch(line); m != nil {
			if current != "" && complexity > max {
				out = append(out, ruleMatch{
					line: n, // line before this definition, 1-based
					desc: fmt.Sprintf("Function complexity (%d) exceeds limit (%d)", complexity, max),
				})
			}
			current = m[len(m)-1]
			complexity = 0
		}
		for _, re := range r.compiledBranches {
			if re.MatchString(line) {
				complexity++
			}
		}
	}
	return out
}

// matchAuthRequired flags endpoint declarations with no authentication
// marker in a fixed window of five lines before through one line after.
// The window is clamped to the file and always spans the declaration line
// itself, so a marker on that line satisfies the rule even when the
// declaration is the last line of the file.
func (r *Rule) matchAuthRequired(lines []string) []ruleMatch {
	var out []ruleMatch
	for _, re := range r.compiledEndpoints {
		for n, line := range lines {
			if !re.MatchString(line) {
				continue
			}
			lineNum := n + 1
			lo := lineNum - 5
			if lo < 1 {
				lo = 1
			}
			hi := lineNum + 1
			if hi > len(lines) {
				hi = len(lines)
			}
			found := false
			for k := lo; k <= hi; k++ {
				if r.compiledAuth.MatchString(lines[k-1]) {
					found = true
					break
				}
			}
			if !found {
				out = append(out, ruleMatch{
					line:    lineNum,
					content: strings.TrimSpace(line),
					desc:    "Endpoint missing authentication requirement",
				})
			}
		}
	}
	return out
}

// violationsFor wraps raw rule matches with policy attribution.
func violationsFor(p *SecurityPolicy, r *Rule, filePath string, matches []ruleMatch) []types.Violation {
	out := make([]types.Violation, 0, len(matches))
	for _, m := range matches {
		out = append(out, types.Violation{
			PolicyID:    p.ID,
			PolicyName:  p.Name,
			Severity:    p.Severity,
			FilePath:    filePath,
			RuleType:    string(r.Type),
			LineNumber:  m.line,
			LineContent: m.content,
			Description: m.desc,
		})
	}
	return out
}
