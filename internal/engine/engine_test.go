package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/revscan/revscan/internal/types"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAnalyze_EmptyFileSet(t *testing.T) {
	e := New(nil, nil)
	res, err := e.Analyze(context.Background(), Config{Root: t.TempDir(), ReviewID: "r1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Vulnerabilities) != 0 || len(res.Violations) != 0 {
		t.Fatalf("expected no findings, got %d/%d", len(res.Vulnerabilities), len(res.Violations))
	}
	if res.SecurityScore != 100 {
		t.Fatalf("expected score 100, got %d", res.SecurityScore)
	}
	if res.RiskLevel != types.RiskLow {
		t.Fatalf("expected low risk, got %s", res.RiskLevel)
	}
	if res.ReviewID != "r1" {
		t.Fatalf("review id not carried: %q", res.ReviewID)
	}
}

func TestAnalyze_DetectsAndScores(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "password = \"supersecret123\"\n")
	writeFile(t, dir, "notes.txt", "password = \"supersecret123\"\n")

	e := New(nil, nil)
	res, err := e.Analyze(context.Background(), Config{Root: dir})
	if err != nil {
		t.Fatal(err)
	}
	if res.FilesAnalyzed != 1 {
		t.Fatalf("only .py should be analyzed, got %d files", res.FilesAnalyzed)
	}
	if len(res.Vulnerabilities) != 1 {
		t.Fatalf("expected 1 vulnerability, got %d", len(res.Vulnerabilities))
	}
	v := res.Vulnerabilities[0]
	if v.Class != "hardcoded_secrets" || v.Severity != types.SevCritical {
		t.Fatalf("unexpected finding: %+v", v)
	}
	if len(res.Violations) == 0 {
		t.Fatal("expected the hardcoded-secrets policy to fire too")
	}
	if res.SecurityScore >= 100 {
		t.Fatalf("score should drop below 100, got %d", res.SecurityScore)
	}
	if len(res.Recommendations) == 0 {
		t.Fatal("expected remediation guidance")
	}
}

func TestAnalyze_SortedAndIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b/second.py", "md5(x)\n")
	writeFile(t, dir, "a/first.py", "sha1(x)\nmd5(y)\n")

	e := New(nil, nil)
	run := func() types.AnalysisResult {
		res, err := e.Analyze(context.Background(), Config{Root: dir, Threads: 4})
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	first := run()
	second := run()

	if !reflect.DeepEqual(first.Vulnerabilities, second.Vulnerabilities) {
		t.Fatal("vulnerabilities differ between identical runs")
	}
	if !reflect.DeepEqual(first.Violations, second.Violations) {
		t.Fatal("violations differ between identical runs")
	}
	for i := 1; i < len(first.Vulnerabilities); i++ {
		prev, cur := first.Vulnerabilities[i-1], first.Vulnerabilities[i]
		if prev.FilePath > cur.FilePath ||
			(prev.FilePath == cur.FilePath && prev.LineNumber > cur.LineNumber) {
			t.Fatalf("findings not sorted at %d: %s:%d after %s:%d",
				i, cur.FilePath, cur.LineNumber, prev.FilePath, prev.LineNumber)
		}
	}
}

func TestAnalyze_UnreadableFileIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.py", "md5(x)\n")
	if err := os.Symlink(filepath.Join(dir, "missing-source.py"), filepath.Join(dir, "broken.py")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	e := New(nil, nil)
	res, err := e.Analyze(context.Background(), Config{Root: dir})
	if err != nil {
		t.Fatalf("one unreadable file must not abort the scan: %v", err)
	}
	if res.FilesAnalyzed != 1 {
		t.Fatalf("expected 1 analyzed file, got %d", res.FilesAnalyzed)
	}
	if res.FilesSkipped != 1 {
		t.Fatalf("expected 1 skipped file, got %d", res.FilesSkipped)
	}
	if len(res.Vulnerabilities) == 0 {
		t.Fatal("the readable file should still produce findings")
	}
}

func TestAnalyze_Cancellation(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 50; i++ {
		writeFile(t, dir, filepath.Join("src", string(rune('a'+i%26))+".py"), "x = 1\n")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(nil, nil)
	if _, err := e.Analyze(ctx, Config{Root: dir}); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestAnalyze_IgnoreFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.py", "md5(x)\n")
	writeFile(t, dir, "skip.py", "md5(x)\n")
	writeFile(t, dir, ".revscanignore", "skip.py\n")

	e := New(nil, nil)
	res, err := e.Analyze(context.Background(), Config{Root: dir})
	if err != nil {
		t.Fatal(err)
	}
	if res.FilesAnalyzed != 1 {
		t.Fatalf("expected ignore file to drop skip.py, analyzed %d", res.FilesAnalyzed)
	}
	for _, v := range res.Vulnerabilities {
		if v.FilePath == "skip.py" {
			t.Fatal("ignored file produced findings")
		}
	}
}

func TestAnalyze_ExcludeGlobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/app.py", "md5(x)\n")
	writeFile(t, dir, "migrations/m1.py", "md5(x)\n")

	e := New(nil, nil)
	res, err := e.Analyze(context.Background(), Config{Root: dir, ExcludeGlobs: "migrations/**"})
	if err != nil {
		t.Fatal(err)
	}
	if res.FilesAnalyzed != 1 {
		t.Fatalf("expected exclude glob to drop migrations, analyzed %d", res.FilesAnalyzed)
	}
}

func TestAnalyze_ProgressFromConcurrentWorkers(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 64; i++ {
		writeFile(t, dir, fmt.Sprintf("src/f%02d.py", i), "x = 1\n")
	}

	var calls atomic.Int64
	e := New(nil, nil)
	res, err := e.Analyze(context.Background(), Config{
		Root:     dir,
		Threads:  8,
		Progress: func() { calls.Add(1) },
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := calls.Load(); got != int64(res.FilesAnalyzed) {
		t.Fatalf("progress fired %d times for %d analyzed files", got, res.FilesAnalyzed)
	}
	if res.FilesAnalyzed != 64 {
		t.Fatalf("expected 64 analyzed files, got %d", res.FilesAnalyzed)
	}
}

type stubAnalyzer struct {
	called bool
}

func (s *stubAnalyzer) Narrative(_ context.Context, _ types.AnalysisResult) (string, error) {
	s.called = true
	return "narrative", nil
}

func TestNarrative_OptionalCapability(t *testing.T) {
	bare := New(nil, nil)
	text, err := bare.Narrative(context.Background(), types.AnalysisResult{})
	if err != nil || text != "" {
		t.Fatalf("absent analyzer must be a quiet no-op, got %q, %v", text, err)
	}

	stub := &stubAnalyzer{}
	e := New(nil, nil, WithAnalyzer(stub))
	text, err = e.Narrative(context.Background(), types.AnalysisResult{})
	if err != nil || text != "narrative" {
		t.Fatalf("expected stub narrative, got %q, %v", text, err)
	}
	if !stub.called {
		t.Fatal("stub analyzer was not invoked")
	}
}
