// Package revscan provides the command-line interface for the Revscan tool.
// It configures subcommands (scan, policies, report, etc.), parses flags, and
// executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/revscan/revscan/cmd/revscan"
//	func main() { revscan.Execute() }
package revscan
