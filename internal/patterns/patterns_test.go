package patterns

import (
	"testing"

	"github.com/revscan/revscan/internal/types"
)

func TestDetect_HardcodedPassword(t *testing.T) {
	lib := Default()
	vulns := lib.Detect("app.py", []byte(`password = "supersecret123"`))
	if len(vulns) != 1 {
		t.Fatalf("expected 1 vulnerability, got %d", len(vulns))
	}
	v := vulns[0]
	if v.Class != ClassHardcodedSecrets {
		t.Fatalf("expected class %s, got %s", ClassHardcodedSecrets, v.Class)
	}
	if v.Severity != types.SevCritical {
		t.Fatalf("expected critical severity, got %s", v.Severity)
	}
	if v.LineNumber != 1 {
		t.Fatalf("expected line 1, got %d", v.LineNumber)
	}
	if v.LineContent != `password = "supersecret123"` {
		t.Fatalf("unexpected line content: %q", v.LineContent)
	}
}

func TestDetect_MultipleMatchesOnOneLineAreKept(t *testing.T) {
	lib := Default()
	// Matches both the md5 and sha1 signatures on the same line; both kept.
	vulns := lib.Detect("hash.py", []byte(`digest = md5(data) or sha1(data)`))
	if len(vulns) != 2 {
		t.Fatalf("expected 2 vulnerabilities on one line, got %d", len(vulns))
	}
	for _, v := range vulns {
		if v.Class != ClassInsecureCrypto {
			t.Fatalf("expected insecure_crypto, got %s", v.Class)
		}
	}
}

func TestDetect_CaseInsensitive(t *testing.T) {
	lib := Default()
	vulns := lib.Detect("x.js", []byte(`el.INNERHTML = "<b>" + user`))
	if len(vulns) != 1 {
		t.Fatalf("expected case-insensitive match, got %d findings", len(vulns))
	}
}

func TestDetect_CleanFile(t *testing.T) {
	lib := Default()
	vulns := lib.Detect("clean.go", []byte("package main\n\nfunc main() {}\n"))
	if len(vulns) != 0 {
		t.Fatalf("expected no findings, got %d", len(vulns))
	}
}

func TestFindingID_DeterministicAndSensitive(t *testing.T) {
	a := FindingID("a/b.py", 10, ClassXSS)
	b := FindingID("a/b.py", 10, ClassXSS)
	if a != b {
		t.Fatalf("id not stable: %s vs %s", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %q", a)
	}
	if FindingID("a/c.py", 10, ClassXSS) == a {
		t.Fatal("id did not change with file path")
	}
	if FindingID("a/b.py", 11, ClassXSS) == a {
		t.Fatal("id did not change with line number")
	}
	if FindingID("a/b.py", 10, ClassSQLInjection) == a {
		t.Fatal("id did not change with class")
	}
}

func TestDetect_IdempotentAcrossRuns(t *testing.T) {
	lib := Default()
	data := []byte("password = \"hunter2hunter2\"\nquery(f\"select {x}\")\n")
	first := lib.Detect("svc/db.py", data)
	second := lib.Detect("svc/db.py", data)
	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("finding %d differs between runs", i)
		}
	}
}

func TestConfidence_Tiers(t *testing.T) {
	cases := []struct {
		source string
		want   float64
	}{
		{`md5\s*\(`, 0.5},
		{`password\s*=\s*["'][^"']{8,}["']`, 0.7},
		{`subprocess\.(?:call|run|Popen)\s*\(\s*.*\+`, 0.7},
		{`this-is-a-very-long-pattern-exceeding-fifty-characters-total`, 0.9},
	}
	for _, c := range cases {
		if got := Confidence(c.source); got != c.want {
			t.Fatalf("Confidence(%q) = %v, want %v", c.source, got, c.want)
		}
	}
}
