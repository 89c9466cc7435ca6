// Package patterns holds the immutable vulnerability signature library.
// Each class contributes a set of precompiled line-oriented regexes; the
// library reports zero or more vulnerabilities for a given file path and data.
package patterns
