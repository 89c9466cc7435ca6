// Package policy implements configurable organizational security policies:
// the policy model, the closed set of rule kinds with their validators, and
// the store that merges bundled defaults with external policy files.
// A store is read-only once built and safe for concurrent scans.
package policy
