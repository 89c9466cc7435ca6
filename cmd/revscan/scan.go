package revscan

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/revscan/revscan/internal/audit"
	"github.com/revscan/revscan/internal/cache"
	"github.com/revscan/revscan/internal/config"
	"github.com/revscan/revscan/internal/engine"
	"github.com/revscan/revscan/internal/policy"
	"github.com/revscan/revscan/internal/report"
	"github.com/revscan/revscan/internal/tui"
	"github.com/revscan/revscan/internal/types"
)

var (
	flagPath         string
	flagReviewID     string
	flagInclude      string
	flagExclude      string
	flagExtensions   string
	flagPolicyFiles  []string
	flagMaxBytes     int64
	flagTable        bool
	flagText         bool
	flagTUI          bool
	flagBaseline     string
	flagSaveBaseline bool
	flagNoCache      bool
	flagNoAudit      bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Analyze a source tree for vulnerabilities and policy violations",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path to analyze")
	cmd.Flags().StringVar(&flagReviewID, "review-id", "", "identifier carried into the result (default: review_<unix>)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().StringVar(&flagExtensions, "extensions", "", "comma-separated file extensions to analyze (default: .py,.js,.java,.php,.rb,.go)")
	cmd.Flags().StringSliceVar(&flagPolicyFiles, "policies", nil, "extra policy files (YAML or JSON) merged over the built-in set")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 1<<20, "skip files larger than this")
	cmd.Flags().BoolVar(&flagTable, "table", false, "output in table format with borders (default)")
	cmd.Flags().BoolVar(&flagText, "text", false, "output in plain text columnar format")
	cmd.Flags().BoolVar(&flagTUI, "tui", false, "browse results interactively")
	cmd.Flags().StringVar(&flagBaseline, "baseline", "", "baseline file: report only findings not recorded in it")
	cmd.Flags().BoolVar(&flagSaveBaseline, "save-baseline", false, "write all findings to the baseline file and exit 0")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "do not save results for 'revscan report'")
	cmd.Flags().BoolVar(&flagNoAudit, "no-audit", false, "do not append this run to the audit log")
}

// outputFormat resolves the mutually exclusive output flags, rejecting
// combinations like --table --text.
func outputFormat() (string, error) {
	var selected []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"json", flagJSON},
		{"sarif", flagSARIF},
		{"tui", flagTUI},
		{"text", flagText},
		{"table", flagTable},
	} {
		if f.set {
			selected = append(selected, f.name)
		}
	}
	switch len(selected) {
	case 0:
		return "table", nil
	case 1:
		return selected[0], nil
	default:
		return "", fmt.Errorf("conflicting output flags: --%s", strings.Join(selected, " --"))
	}
}

func runScan(_ *cobra.Command, _ []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	abs, _ := filepath.Abs(flagPath)

	// Load configs: CLI > local > global
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(abs); err == nil {
		lcfg = c
	}

	store := policy.NewStore(log)
	policyFiles := flagPolicyFiles
	if len(policyFiles) == 0 {
		policyFiles = lcfg.PolicyFiles
	}
	if len(policyFiles) == 0 {
		policyFiles = gcfg.PolicyFiles
	}
	for _, pf := range policyFiles {
		if !filepath.IsAbs(pf) {
			pf = filepath.Join(abs, pf)
		}
		if err := store.LoadFile(pf); err != nil {
			return fmt.Errorf("load policies: %w", err)
		}
	}

	reviewID := flagReviewID
	if reviewID == "" {
		reviewID = fmt.Sprintf("review_%d", time.Now().Unix())
	}

	cfg := engine.Config{
		Root:            abs,
		ReviewID:        reviewID,
		Extensions:      splitList(pickString(flagExtensions, lcfg.Extensions, gcfg.Extensions)),
		IncludeGlobs:    pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs:    pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		MaxBytes:        pickInt64(flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
		Threads:         pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
		DefaultExcludes: flagDefaultExcludes,
	}
	noColor := pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor)
	failOn := pickString(flagFailOn, lcfg.FailOn, gcfg.FailOn)
	baselinePath := pickString(flagBaseline, lcfg.Baseline, gcfg.Baseline)
	if flagSaveBaseline && baselinePath == "" {
		return fmt.Errorf("--save-baseline requires --baseline (or a configured baseline path)")
	}

	machineOutput := format == "json" || format == "sarif"
	if !machineOutput {
		fmt.Fprintf(os.Stderr, "Analyzing %s (%d policies)...\n", abs, store.Summarize().Enabled)
		// Progress fires from the engine's worker goroutines.
		var analyzed atomic.Int64
		cfg.Progress = func() {
			if n := analyzed.Add(1); n%25 == 0 {
				fmt.Fprintf(os.Stderr, "\r%d files", n)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng := engine.New(nil, store, engine.WithLogger(log))
	res, err := eng.Analyze(ctx, cfg)
	if err != nil {
		return fmt.Errorf("analysis error: %w", err)
	}
	if !machineOutput {
		fmt.Fprint(os.Stderr, "\r")
	}

	if !flagNoCache {
		if err := cache.SaveResult(abs, res); err != nil {
			log.Warnw("could not cache results", "err", err)
		}
	}
	if !flagNoAudit {
		if err := audit.NewLog(abs).Record(audit.NewRecord(abs, res)); err != nil {
			log.Warnw("could not write audit record", "err", err)
		}
	}

	if baselinePath != "" && flagSaveBaseline {
		if err := report.SaveBaseline(baselinePath, res); err != nil {
			return fmt.Errorf("save baseline: %w", err)
		}
		fmt.Fprintf(os.Stderr, "baseline written: %s (%d findings)\n",
			baselinePath, len(res.Vulnerabilities)+len(res.Violations))
		return nil
	}
	if baselinePath != "" {
		if base, err := report.LoadBaseline(baselinePath); err == nil {
			res = report.FilterNew(res, base)
		} else {
			log.Warnw("could not read baseline", "path", baselinePath, "err", err)
		}
	}
	if res.Vulnerabilities == nil {
		res.Vulnerabilities = []types.Vulnerability{}
	} // no `null` in JSON
	if res.Violations == nil {
		res.Violations = []types.Violation{}
	}

	opts := report.PrintOptions{NoColor: noColor, Width: terminalWidth()}
	switch format {
	case "sarif":
		if err := report.WriteSARIF(os.Stdout, res, version); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case "json":
		if err := report.WriteJSON(os.Stdout, res); err != nil {
			return err
		}
	case "tui":
		rescan := func() (types.AnalysisResult, error) {
			return eng.Analyze(context.Background(), cfg)
		}
		if err := tui.Run(res, abs, rescan); err != nil {
			return err
		}
	case "text":
		report.PrintText(os.Stdout, res, opts)
	default:
		report.PrintTable(os.Stdout, res, opts)
	}

	if failOn != "" && report.ShouldFail(res, failOn) {
		os.Exit(1)
	}
	return nil
}
