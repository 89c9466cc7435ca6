// Package engine contains the core scanning logic for Revscan. It walks a
// file set, runs the pattern library and policy store against each file, and
// assembles the scored analysis result. This package is internal; external
// consumers should use the stable facade in pkg/core.
package engine
