package revscan

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/revscan/revscan/internal/audit"
	"github.com/revscan/revscan/internal/cache"
	"github.com/revscan/revscan/internal/engine"
	"github.com/revscan/revscan/internal/policy"
	"github.com/revscan/revscan/internal/report"
	"github.com/revscan/revscan/internal/tui"
	"github.com/revscan/revscan/internal/types"
)

var (
	flagReportPath string
	flagReportTUI  bool
)

func init() {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Render the last saved analysis without re-scanning",
		RunE:  runReport,
	}
	reportCmd.Flags().StringVarP(&flagReportPath, "path", "p", ".", "analyzed path")
	reportCmd.Flags().BoolVar(&flagReportTUI, "tui", false, "browse results interactively")
	rootCmd.AddCommand(reportCmd)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List prior analysis runs from the audit log",
		RunE:  runHistory,
	}
	historyCmd.Flags().StringVarP(&flagReportPath, "path", "p", ".", "analyzed path")
	rootCmd.AddCommand(historyCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	abs, _ := filepath.Abs(flagReportPath)
	res, err := cache.LoadResult(abs)
	if err != nil {
		return fmt.Errorf("no saved analysis for %s (run 'revscan scan' first): %w", abs, err)
	}

	switch {
	case flagSARIF:
		return report.WriteSARIF(os.Stdout, res, version)
	case flagJSON:
		return report.WriteJSON(os.Stdout, res)
	case flagReportTUI:
		rescan := func() (types.AnalysisResult, error) {
			return analyzeForReport(abs)
		}
		return tui.RunCached(res, abs, rescan, res.Timestamp)
	default:
		report.PrintTable(os.Stdout, res, report.PrintOptions{NoColor: flagNoColor, Width: terminalWidth()})
		return nil
	}
}

func analyzeForReport(abs string) (types.AnalysisResult, error) {
	eng := engine.New(nil, policy.NewStore(log), engine.WithLogger(log))
	cfg := engine.Config{
		Root:            abs,
		ReviewID:        fmt.Sprintf("review_%d", time.Now().Unix()),
		DefaultExcludes: true,
	}
	res, err := eng.Analyze(context.Background(), cfg)
	if err != nil {
		return types.AnalysisResult{}, err
	}
	if err := cache.SaveResult(abs, res); err != nil {
		log.Warnw("could not cache results", "err", err)
	}
	return res, nil
}

func runHistory(_ *cobra.Command, _ []string) error {
	abs, _ := filepath.Abs(flagReportPath)
	records, err := audit.NewLog(abs).History()
	if err != nil {
		return fmt.Errorf("no audit history for %s: %w", abs, err)
	}
	if len(records) == 0 {
		fmt.Println("No prior analysis runs.")
		return nil
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	tbl := tablewriter.NewTable(os.Stdout)
	tbl.Header("When", "Review", "Score", "Risk", "Vulns", "Violations", "Files")
	for _, r := range records {
		tbl.Append([]string{
			r.Timestamp.Format("2006-01-02 15:04"),
			r.ReviewID,
			strconv.Itoa(r.SecurityScore),
			r.RiskLevel,
			strconv.Itoa(r.Vulnerabilities),
			strconv.Itoa(r.Violations),
			strconv.Itoa(r.FilesAnalyzed),
		})
	}
	tbl.Render()
	return nil
}
