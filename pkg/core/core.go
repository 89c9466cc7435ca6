package core

import (
	"context"

	"github.com/revscan/revscan/internal/engine"
	"github.com/revscan/revscan/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type (
	Config         = engine.Config
	AnalysisResult = types.AnalysisResult
	Vulnerability  = types.Vulnerability
	Violation      = types.Violation
	Severity       = types.Severity
	RiskLevel      = types.RiskLevel
)

// Analyze is the stable entrypoint for other programs. It runs one scan with
// the default pattern library and policy set.
func Analyze(ctx context.Context, cfg Config) (AnalysisResult, error) {
	return engine.New(nil, nil).Analyze(ctx, cfg)
}

// PatternClasses returns the vulnerability classes the default library detects.
// This is exposed for convenience to avoid importing internals directly.
func PatternClasses() []string {
	return engine.New(nil, nil).Library().Classes()
}

// PolicyIDs returns the identifiers of the built-in security policies.
func PolicyIDs() []string {
	var ids []string
	for _, p := range engine.New(nil, nil).Store().Policies() {
		ids = append(ids, p.ID)
	}
	return ids
}
