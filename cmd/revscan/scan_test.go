package revscan

import (
	"strings"
	"testing"
)

// resetOutputFlags restores the output flag vars after a test mutates them.
func resetOutputFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		flagJSON, flagSARIF, flagTUI, flagText, flagTable = false, false, false, false, false
	})
}

func TestOutputFormat_DefaultsToTable(t *testing.T) {
	resetOutputFlags(t)
	format, err := outputFormat()
	if err != nil {
		t.Fatal(err)
	}
	if format != "table" {
		t.Fatalf("expected table default, got %q", format)
	}
}

func TestOutputFormat_SingleFlag(t *testing.T) {
	resetOutputFlags(t)
	for flag, set := range map[string]func(){
		"json":  func() { flagJSON = true },
		"sarif": func() { flagSARIF = true },
		"tui":   func() { flagTUI = true },
		"text":  func() { flagText = true },
		"table": func() { flagTable = true },
	} {
		flagJSON, flagSARIF, flagTUI, flagText, flagTable = false, false, false, false, false
		set()
		format, err := outputFormat()
		if err != nil {
			t.Fatalf("%s: %v", flag, err)
		}
		if format != flag {
			t.Fatalf("expected %q, got %q", flag, format)
		}
	}
}

func TestOutputFormat_ConflictingFlagsRejected(t *testing.T) {
	resetOutputFlags(t)
	flagTable = true
	flagText = true
	_, err := outputFormat()
	if err == nil {
		t.Fatal("expected an error for --table --text")
	}
	if !strings.Contains(err.Error(), "--text") || !strings.Contains(err.Error(), "--table") {
		t.Fatalf("error should name both flags: %v", err)
	}
}

func TestRunScan_SaveBaselineWithoutPath(t *testing.T) {
	resetOutputFlags(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	flagPath = t.TempDir()
	flagSaveBaseline = true
	flagBaseline = ""
	t.Cleanup(func() {
		flagPath = "."
		flagSaveBaseline = false
	})

	err := runScan(nil, nil)
	if err == nil {
		t.Fatal("expected a usage error when --save-baseline has no baseline path")
	}
	if !strings.Contains(err.Error(), "--baseline") {
		t.Fatalf("error should point at --baseline: %v", err)
	}
}
