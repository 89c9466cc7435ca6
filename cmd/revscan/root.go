package revscan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/revscan/revscan/internal/logging"
)

var (
	flagJSON            bool
	flagSARIF           bool
	flagThreads         int
	flagFailOn          string
	flagNoColor         bool
	flagDefaultExcludes bool
	flagVerbose         bool

	version = "0.1.0"

	log = zap.NewNop().Sugar()
)

// rootCmd is the base Cobra command for the Revscan CLI.
var rootCmd = &cobra.Command{
	Use:           "revscan",
	Short:         "Analyze code for vulnerabilities and policy violations",
	Long:          "Revscan scans a source tree for vulnerability patterns, evaluates security policies against it, and reports a scored analysis with remediation guidance.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if l, err := logging.New(flagVerbose); err == nil {
			log = l
		}
	},
}

// Execute runs the Revscan CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().StringVar(&flagFailOn, "fail-on", "", "exit 1 on findings at low|medium|high|critical (empty = never fail)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVar(&flagDefaultExcludes, "default-excludes", true, "apply built-in exclude list (node_modules, dist, vendor, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}
