package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/revscan/revscan/internal/ignore"
	"github.com/revscan/revscan/internal/patterns"
	"github.com/revscan/revscan/internal/policy"
	"github.com/revscan/revscan/internal/recommend"
	"github.com/revscan/revscan/internal/risk"
	"github.com/revscan/revscan/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config controls one scan invocation: scope, filters and parallelism.
type Config struct {
	Root            string
	ReviewID        string
	Extensions      []string
	IncludeGlobs    string
	ExcludeGlobs    string
	MaxBytes        int64
	Threads         int
	DefaultExcludes bool

	// Progress, when set, is called once per analyzed file from the worker
	// goroutines. Implementations must be safe for concurrent use.
	Progress func()
}

func (c Config) withDefaults() Config {
	if len(c.Extensions) == 0 {
		c.Extensions = DefaultExtensions
	}
	if c.Threads <= 0 {
		c.Threads = runtime.GOMAXPROCS(0)
	}
	if c.MaxBytes == 0 {
		c.MaxBytes = 1 << 20
	}
	return c
}

// Analyzer is an optional narrative-analysis collaborator. The engine never
// calls it during Analyze and never blocks on it; orchestration layers that
// want a narrative invoke Narrative themselves and merge the output.
type Analyzer interface {
	Narrative(ctx context.Context, result types.AnalysisResult) (string, error)
}

// Engine applies a pattern library and a policy store to file sets. It is
// immutable after New and safe for concurrent scans of independent reviews.
type Engine struct {
	lib      *patterns.Library
	store    *policy.Store
	analyzer Analyzer
	log      *zap.SugaredLogger
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(e *Engine) { e.log = log }
}

// WithAnalyzer injects the optional narrative analyzer capability.
func WithAnalyzer(a Analyzer) Option {
	return func(e *Engine) { e.analyzer = a }
}

// New builds an engine over the given pattern library and policy store.
// Nil arguments select the defaults.
func New(lib *patterns.Library, store *policy.Store, opts ...Option) *Engine {
	e := &Engine{lib: lib, store: store, log: zap.NewNop().Sugar()}
	if e.lib == nil {
		e.lib = patterns.Default()
	}
	if e.store == nil {
		e.store = policy.NewStore(nil)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store exposes the engine's policy store (read-only by construction).
func (e *Engine) Store() *policy.Store { return e.store }

// Library exposes the engine's pattern library.
func (e *Engine) Library() *patterns.Library { return e.lib }

// Analyze runs one full scan of cfg.Root and returns the analysis result.
// Each call is stateless: the result is owned by the caller and the engine
// retains nothing. Cancelling ctx aborts this scan only; concurrent scans
// for other reviews are unaffected.
func (e *Engine) Analyze(ctx context.Context, cfg Config) (types.AnalysisResult, error) {
	cfg = cfg.withDefaults()
	started := time.Now()

	if _, err := os.Stat(cfg.Root); err != nil {
		return types.AnalysisResult{}, fmt.Errorf("scan root: %w", err)
	}

	ign, err := ignore.Load(filepath.Join(cfg.Root, ".revscanignore"))
	if err != nil {
		e.log.Warnw("could not read ignore file", "root", cfg.Root, "err", err)
	}

	targets, err := collectTargets(ctx, cfg, ign)
	if err != nil {
		return types.AnalysisResult{}, err
	}

	var (
		mu       sync.Mutex
		vulns    []types.Vulnerability
		viols    []types.Violation
		analyzed int
		skipped  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Threads)
	for _, tgt := range targets {
		tgt := tgt
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(tgt.abs)
			if err != nil {
				// One unreadable file never aborts the scan.
				e.log.Warnw("skipping unreadable file", "file", tgt.rel, "err", err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}
			if looksBinary(data) {
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}
			fileVulns := e.lib.Detect(tgt.rel, data)
			fileViols := e.store.Evaluate(tgt.rel, data)
			mu.Lock()
			vulns = append(vulns, fileVulns...)
			viols = append(viols, fileViols...)
			analyzed++
			mu.Unlock()
			if cfg.Progress != nil {
				cfg.Progress()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.AnalysisResult{}, err
	}

	sortFindings(vulns, viols)
	score, level := risk.Score(vulns, viols)

	result := types.AnalysisResult{
		ReviewID:        cfg.ReviewID,
		Timestamp:       started,
		SecurityScore:   score,
		RiskLevel:       level,
		Vulnerabilities: vulns,
		Violations:      viols,
		Recommendations: recommend.Recommend(vulns, viols),
		FilesAnalyzed:   analyzed,
		FilesSkipped:    skipped,
		Duration:        time.Since(started),
	}
	e.log.Infow("analysis complete",
		"review", cfg.ReviewID,
		"score", score,
		"risk", level,
		"vulnerabilities", len(vulns),
		"violations", len(viols),
		"files", analyzed,
	)
	return result, nil
}

// Narrative invokes the injected analyzer, if any. Without one it returns
// an empty narrative; the engine itself never requires the capability.
func (e *Engine) Narrative(ctx context.Context, result types.AnalysisResult) (string, error) {
	if e.analyzer == nil {
		return "", nil
	}
	return e.analyzer.Narrative(ctx, result)
}

// sortFindings fixes output order to (file path, line number) so results
// are deterministic regardless of traversal or scheduling order.
func sortFindings(vulns []types.Vulnerability, viols []types.Violation) {
	sort.SliceStable(vulns, func(i, j int) bool {
		if vulns[i].FilePath != vulns[j].FilePath {
			return vulns[i].FilePath < vulns[j].FilePath
		}
		if vulns[i].LineNumber != vulns[j].LineNumber {
			return vulns[i].LineNumber < vulns[j].LineNumber
		}
		return vulns[i].Class < vulns[j].Class
	})
	sort.SliceStable(viols, func(i, j int) bool {
		if viols[i].FilePath != viols[j].FilePath {
			return viols[i].FilePath < viols[j].FilePath
		}
		if viols[i].LineNumber != viols[j].LineNumber {
			return viols[i].LineNumber < viols[j].LineNumber
		}
		return viols[i].PolicyID < viols[j].PolicyID
	})
}
