package patterns

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/revscan/revscan/internal/types"
)

// Pattern is one vulnerability signature: a precompiled case-insensitive
// regex applied line by line, with the severity and description attached to
// every match it produces.
type Pattern struct {
	re          *regexp.Regexp
	source      string
	Severity    types.Severity
	Description string
}

// Source returns the pattern text as authored.
func (p Pattern) Source() string { return p.source }

func mustPattern(src string, sev types.Severity, desc string) Pattern {
	return Pattern{
		re:          regexp.MustCompile("(?i)" + src),
		source:      src,
		Severity:    sev,
		Description: desc,
	}
}

// Library is an immutable table of vulnerability signatures grouped by
// class. Build it once and share it freely across concurrent scans.
type Library struct {
	classes []string
	byClass map[string][]Pattern
}

// NewLibrary builds a Library from a class → patterns table. Class order is
// fixed by sorting so detection output is reproducible.
func NewLibrary(byClass map[string][]Pattern) *Library {
	classes := make([]string, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	copied := make(map[string][]Pattern, len(byClass))
	for c, ps := range byClass {
		copied[c] = append([]Pattern(nil), ps...)
	}
	return &Library{classes: classes, byClass: copied}
}

// Default returns the built-in signature table.
func Default() *Library {
	return NewLibrary(map[string][]Pattern{
		ClassSQLInjection:     sqlInjectionPatterns(),
		ClassXSS:              xssPatterns(),
		ClassHardcodedSecrets: hardcodedSecretPatterns(),
		ClassInsecureCrypto:   insecureCryptoPatterns(),
		ClassCommandInjection: commandInjectionPatterns(),
		ClassPathTraversal:    pathTraversalPatterns(),
	})
}

// Classes lists vulnerability classes in the library's fixed order.
func (l *Library) Classes() []string {
	return append([]string(nil), l.classes...)
}

// Patterns returns the signature list for one class.
func (l *Library) Patterns(class string) []Pattern {
	return append([]Pattern(nil), l.byClass[class]...)
}

// Detect scans file content line by line against every pattern of every
// class. Matches from different patterns on the same line are all kept;
// multiple findings per line are expected.
func (l *Library) Detect(path string, data []byte) []types.Vulnerability {
	lines := splitLines(data)
	var out []types.Vulnerability
	for _, class := range l.classes {
		for _, p := range l.byClass[class] {
			for i, line := range lines {
				if !p.re.MatchString(line) {
					continue
				}
				lineNum := i + 1
				out = append(out, types.Vulnerability{
					ID:             FindingID(path, lineNum, class),
					Class:          class,
					Severity:       p.Severity,
					Description:    p.Description,
					FilePath:       path,
					LineNumber:     lineNum,
					LineContent:    strings.TrimSpace(line),
					MatchedPattern: p.source,
					Confidence:     Confidence(p.source),
				})
			}
		}
	}
	return out
}

// FindingID derives the deterministic id for a finding at (path, line,
// class). Identical inputs always hash to the same id; the hash is for
// dedup across repeated scans, not for cryptographic uniqueness.
func FindingID(path string, line int, class string) string {
	sum := xxhash.Sum64String(fmt.Sprintf("%s:%d:%s", path, line, class))
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}

// Confidence estimates how specific a pattern is from its textual length
// alone. Longer patterns match narrower shapes and earn a higher score.
func Confidence(source string) float64 {
	switch {
	case len(source) > 50:
		return 0.9
	case len(source) > 30:
		return 0.7
	default:
		return 0.5
	}
}

func splitLines(data []byte) []string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}
