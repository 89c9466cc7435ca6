package core

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestAnalyze_Smoke(t *testing.T) {
	dir := t.TempDir()
	src := `password = "supersecret123"` + "\n"
	if err := os.WriteFile(filepath.Join(dir, "app.py"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Analyze(context.Background(), Config{Root: dir})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if len(res.Vulnerabilities) == 0 {
		t.Fatal("expected a hardcoded-secret finding")
	}
	if res.SecurityScore >= 100 {
		t.Fatalf("expected degraded score, got %d", res.SecurityScore)
	}

	if len(PatternClasses()) == 0 {
		t.Fatal("expected non-empty pattern classes")
	}
	if len(PolicyIDs()) == 0 {
		t.Fatal("expected non-empty policy ids")
	}
}

func TestMarshalUnmarshalResult(t *testing.T) {
	res := AnalysisResult{ReviewID: "r1", SecurityScore: 80}
	var buf bytes.Buffer
	if err := MarshalResult(&buf, res); err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalResult(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.ReviewID != "r1" || got.SecurityScore != 80 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
