package core

import (
	"encoding/json"
	"io"
)

// MarshalResult pretty-prints an analysis result as JSON for humans or pipelines.
func MarshalResult(w io.Writer, res AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// UnmarshalResult decodes an analysis result, useful for ingestion tests.
func UnmarshalResult(r io.Reader) (AnalysisResult, error) {
	var res AnalysisResult
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return AnalysisResult{}, err
	}
	return res, nil
}
