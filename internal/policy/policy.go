package policy

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	semver "github.com/blang/semver/v4"
	"github.com/revscan/revscan/internal/types"
)

// Metadata carries a policy's applicability filters.
type Metadata struct {
	FileTypes     []string `yaml:"file_types" json:"file_types"`
	ExcludedPaths []string `yaml:"excluded_paths" json:"excluded_paths"`
}

// Rule is one typed rule of a policy. Regex parameters are compiled when the
// policy is loaded; a rule whose regexes fail to compile is kept but marked
// invalid so the rest of the policy still evaluates.
type Rule struct {
	Type    RuleType `yaml:"type" json:"type"`
	rawType string

	Patterns         []string `yaml:"patterns" json:"patterns"`
	Functions        []string `yaml:"functions" json:"functions"`
	Imports          []string `yaml:"imports" json:"imports"`
	MaxComplexity    int      `yaml:"max_complexity" json:"max_complexity"`
	EndpointPatterns []string `yaml:"endpoint_patterns" json:"endpoint_patterns"`
	AuthPatterns     []string `yaml:"auth_patterns" json:"auth_patterns"`
	FunctionDef      string   `yaml:"function_def" json:"function_def"`
	BranchKeywords   []string `yaml:"branch_keywords" json:"branch_keywords"`

	compiledPatterns  []*regexp.Regexp
	compiledFunctions []*regexp.Regexp
	compiledImports   []*regexp.Regexp
	compiledEndpoints []*regexp.Regexp
	compiledAuth      *regexp.Regexp
	compiledDef       *regexp.Regexp
	compiledBranches  []*regexp.Regexp
	invalid           bool
}

// SecurityPolicy is one named, versionable rule set with its own severity
// and applicability filters. Loaded once, read-only during scans.
type SecurityPolicy struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description" json:"description"`
	Severity    types.Severity `yaml:"severity" json:"severity"`
	Enabled     bool           `yaml:"enabled" json:"enabled"`
	Version     string         `yaml:"version" json:"version"`
	Rules       []Rule         `yaml:"rules" json:"rules"`
	Exceptions  []string       `yaml:"exceptions" json:"exceptions"`
	Metadata    Metadata       `yaml:"metadata" json:"metadata"`

	excludedRes []*regexp.Regexp
}

// Applicable reports whether the policy should be evaluated against the
// file at all. Disabled policies never apply. A non-empty file_types filter
// requires extension membership, and any excluded_paths match skips the
// policy for the whole file. Exceptions are carried but not consulted here.
func (p *SecurityPolicy) Applicable(filePath string) bool {
	if !p.Enabled {
		return false
	}
	if len(p.Metadata.FileTypes) > 0 {
		ext := strings.ToLower(filepath.Ext(filePath))
		found := false
		for _, ft := range p.Metadata.FileTypes {
			if strings.ToLower(ft) == ext {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, re := range p.excludedRes {
		if re.MatchString(filePath) {
			return false
		}
	}
	return true
}

// validate normalizes and compiles the policy in place. It returns an error
// for defects that make the whole policy unusable (missing id, malformed
// version or exclusion regex); rule-level regex failures only invalidate
// that rule.
func (p *SecurityPolicy) validate() error {
	if p.ID == "" {
		return fmt.Errorf("policy missing id")
	}
	switch p.Severity {
	case types.SevLow, types.SevMedium, types.SevHigh, types.SevCritical:
	case "":
		p.Severity = types.SevMedium
	default:
		return fmt.Errorf("policy %s: unknown severity %q", p.ID, p.Severity)
	}
	if p.Version != "" {
		if _, err := semver.ParseTolerant(p.Version); err != nil {
			return fmt.Errorf("policy %s: bad version %q: %w", p.ID, p.Version, err)
		}
	}
	p.excludedRes = p.excludedRes[:0]
	for _, pat := range p.Metadata.ExcludedPaths {
		re, err := regexp.Compile(pat)
		if err != nil {
			return fmt.Errorf("policy %s: bad excluded_paths pattern %q: %w", p.ID, pat, err)
		}
		p.excludedRes = append(p.excludedRes, re)
	}
	for i := range p.Rules {
		p.Rules[i].compile()
	}
	return nil
}

// compile precompiles every regex parameter of the rule. Any failure marks
// the rule invalid; evaluation then skips it, isolating the failure from
// the rest of the policy.
func (r *Rule) compile() {
	r.rawType = string(r.Type)
	if t, ok := ParseRuleType(r.rawType); ok {
		r.Type = t
	} else {
		r.Type = RuleUnknown
		return
	}
	fail := func() { r.invalid = true }

	r.compiledPatterns = r.compiledPatterns[:0]
	for _, pat := range r.Patterns {
		re, err := regexp.Compile("(?i)" + pat)
		if err != nil {
			fail()
			return
		}
		r.compiledPatterns = append(r.compiledPatterns, re)
	}

	r.compiledFunctions = r.compiledFunctions[:0]
	for _, fn := range r.Functions {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(fn) + `\s*\(`)
		if err != nil {
			fail()
			return
		}
		r.compiledFunctions = append(r.compiledFunctions, re)
	}

	r.compiledImports = r.compiledImports[:0]
	for _, imp := range r.Imports {
		q := regexp.QuoteMeta(imp)
		re, err := regexp.Compile(`(?i)import\s+` + q + `|from\s+` + q + `\s+import`)
		if err != nil {
			fail()
			return
		}
		r.compiledImports = append(r.compiledImports, re)
	}

	r.compiledEndpoints = r.compiledEndpoints[:0]
	for _, pat := range r.EndpointPatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			fail()
			return
		}
		r.compiledEndpoints = append(r.compiledEndpoints, re)
	}

	auth := strings.Join(r.AuthPatterns, "|")
	if auth == "" {
		auth = defaultAuthMarkers
	}
	re, err := regexp.Compile(auth)
	if err != nil {
		fail()
		return
	}
	r.compiledAuth = re

	def := r.FunctionDef
	if def == "" {
		def = defaultFunctionDef
	}
	if r.compiledDef, err = regexp.Compile(def); err != nil {
		fail()
		return
	}

	branches := r.BranchKeywords
	if len(branches) == 0 {
		branches = defaultBranchKeywords
	}
	r.compiledBranches = r.compiledBranches[:0]
	for _, pat := range branches {
		re, err := regexp.Compile(pat)
		if err != nil {
			fail()
			return
		}
		r.compiledBranches = append(r.compiledBranches, re)
	}
}

const (
	defaultAuthMarkers = `@login_required|@auth_required|@authenticate`
	defaultFunctionDef = `def\s+(\w+)`
)

var defaultBranchKeywords = []string{`\bif\b`, `\bfor\b`, `\bwhile\b`, `\belif\b`, `\bexcept\b`}
