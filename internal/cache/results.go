// Package cache persists the most recent analysis result per scan root so
// the report and browse commands can work without re-scanning. The engine
// itself never reads it; every scan is computed from scratch.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/revscan/revscan/internal/types"
)

func resultsPath(root string) string {
	// Prefer storing under .git to avoid accidental commits.
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "revscan_last_analysis.json")
	}
	return filepath.Join(root, ".revscan_last_analysis.json")
}

// SaveResult writes the analysis result for the given root.
func SaveResult(root string, res types.AnalysisResult) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(resultsPath(root), b, 0o644)
}

// LoadResult reads the last analysis result saved for the given root.
func LoadResult(root string) (types.AnalysisResult, error) {
	var res types.AnalysisResult
	f, err := os.ReadFile(resultsPath(root))
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal(f, &res); err != nil {
		return res, err
	}
	return res, nil
}
