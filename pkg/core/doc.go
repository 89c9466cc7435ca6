// Package core provides a small, stable facade over Revscan's internal engine
// for external integrations. It deliberately re-exports a narrow API surface
// so CI systems and third-party tools can depend on a stable import path
// without exposing internal implementation packages.
//
// Example:
//
//	cfg := core.Config{Root: ".", Threads: 0}
//	result, err := core.Analyze(context.Background(), cfg)
//	if err != nil { /* handle */ }
//	_ = core.MarshalResult(os.Stdout, result)
package core
