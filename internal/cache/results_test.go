package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/revscan/revscan/internal/types"
)

func TestSaveLoadResult(t *testing.T) {
	dir := t.TempDir()
	res := types.AnalysisResult{
		ReviewID:      "r42",
		Timestamp:     time.Now().UTC().Truncate(time.Second),
		SecurityScore: 85,
		RiskLevel:     types.RiskMedium,
		Vulnerabilities: []types.Vulnerability{
			{ID: "id1", Class: "xss", Severity: types.SevMedium, FilePath: "web.py", LineNumber: 2},
		},
		FilesAnalyzed: 5,
	}
	if err := SaveResult(dir, res); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".revscan_last_analysis.json")); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	got, err := LoadResult(dir)
	if err != nil {
		t.Fatalf("load after save: %v", err)
	}
	if got.ReviewID != "r42" || got.SecurityScore != 85 || got.RiskLevel != types.RiskMedium {
		t.Fatalf("unexpected result: %+v", got)
	}
	if len(got.Vulnerabilities) != 1 || got.Vulnerabilities[0].ID != "id1" {
		t.Fatalf("vulnerabilities not preserved: %+v", got.Vulnerabilities)
	}
}

func TestSaveResult_PrefersGitDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := SaveResult(dir, types.AnalysisResult{ReviewID: "r1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".git", "revscan_last_analysis.json")); err != nil {
		t.Fatalf("expected cache under .git: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".revscan_last_analysis.json")); err == nil {
		t.Fatal("cache must not also land in the repo root")
	}
}

func TestLoadResult_Missing(t *testing.T) {
	if _, err := LoadResult(t.TempDir()); err == nil {
		t.Fatal("expected error for missing cache")
	}
}
