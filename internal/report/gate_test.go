package report

import (
	"path/filepath"
	"testing"

	"github.com/revscan/revscan/internal/types"
)

func TestShouldFail_Thresholds(t *testing.T) {
	res := types.AnalysisResult{
		Vulnerabilities: []types.Vulnerability{{Severity: types.SevMedium}},
	}
	if !ShouldFail(res, "low") {
		t.Fatal("medium finding must trip a low threshold")
	}
	if !ShouldFail(res, "medium") {
		t.Fatal("medium finding must trip a medium threshold")
	}
	if ShouldFail(res, "high") {
		t.Fatal("medium finding must not trip a high threshold")
	}
	if ShouldFail(res, "critical") {
		t.Fatal("medium finding must not trip a critical threshold")
	}
}

func TestShouldFail_ViolationsCountToo(t *testing.T) {
	res := types.AnalysisResult{
		Violations: []types.Violation{{Severity: types.SevCritical}},
	}
	if !ShouldFail(res, "critical") {
		t.Fatal("critical violation must trip the gate")
	}
}

func TestShouldFail_UnknownThresholdDefaultsToMedium(t *testing.T) {
	low := types.AnalysisResult{Vulnerabilities: []types.Vulnerability{{Severity: types.SevLow}}}
	med := types.AnalysisResult{Vulnerabilities: []types.Vulnerability{{Severity: types.SevMedium}}}
	if ShouldFail(low, "bogus") {
		t.Fatal("low finding should not trip the default threshold")
	}
	if !ShouldFail(med, "bogus") {
		t.Fatal("medium finding should trip the default threshold")
	}
}

func TestBaseline_RoundTripAndFilter(t *testing.T) {
	res := sampleResult()
	path := filepath.Join(t.TempDir(), "baseline.json")
	if err := SaveBaseline(path, res); err != nil {
		t.Fatal(err)
	}
	base, err := LoadBaseline(path)
	if err != nil {
		t.Fatal(err)
	}

	filtered := FilterNew(res, base)
	if len(filtered.Vulnerabilities) != 0 || len(filtered.Violations) != 0 {
		t.Fatalf("baselined findings should be filtered out, got %d/%d",
			len(filtered.Vulnerabilities), len(filtered.Violations))
	}

	fresh := res
	fresh.Vulnerabilities = append([]types.Vulnerability{}, res.Vulnerabilities...)
	fresh.Vulnerabilities = append(fresh.Vulnerabilities, types.Vulnerability{
		ID: "new-finding", Class: "xss", Severity: types.SevHigh, FilePath: "web/app.py", LineNumber: 3,
	})
	filtered = FilterNew(fresh, base)
	if len(filtered.Vulnerabilities) != 1 || filtered.Vulnerabilities[0].ID != "new-finding" {
		t.Fatalf("only the new finding should survive, got %+v", filtered.Vulnerabilities)
	}
}

func TestLoadBaseline_MissingFile(t *testing.T) {
	_, err := LoadBaseline(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected an error for a missing baseline file")
	}
}
