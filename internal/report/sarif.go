package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/revscan/revscan/internal/types"
)

type sarif struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

func sevToLevel(s types.Severity) string {
	switch s {
	case types.SevCritical, types.SevHigh:
		return "error"
	case types.SevMedium:
		return "warning"
	default:
		return "note"
	}
}

func location(path string, line int) []sarifLoc {
	return []sarifLoc{{
		PhysicalLocation: sarifPhys{
			ArtifactLocation: sarifArt{URI: path},
			Region:           sarifRegion{StartLine: line},
		},
	}}
}

// WriteSARIF writes the analysis result as SARIF 2.1.0. Vulnerabilities map
// to their pattern class as ruleId; policy violations map to "policyID/ruleType".
func WriteSARIF(w io.Writer, res types.AnalysisResult, version string) error {
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: "revscan", Version: version}},
		Results: []sarifResult{},
	}
	for _, v := range res.Vulnerabilities {
		run.Results = append(run.Results, sarifResult{
			RuleID:    v.Class,
			Level:     sevToLevel(v.Severity),
			Message:   sarifMessage{Text: v.Description},
			Locations: location(v.FilePath, v.LineNumber),
		})
	}
	for _, v := range res.Violations {
		run.Results = append(run.Results, sarifResult{
			RuleID:    fmt.Sprintf("%s/%s", v.PolicyID, v.RuleType),
			Level:     sevToLevel(v.Severity),
			Message:   sarifMessage{Text: v.Description},
			Locations: location(v.FilePath, v.LineNumber),
		})
	}
	doc := sarif{
		Version: "2.1.0",
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteJSON writes the analysis result as indented JSON.
func WriteJSON(w io.Writer, res types.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
