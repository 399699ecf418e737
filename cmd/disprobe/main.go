package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/butrejp/disprobe/internal/common/logger"
	"github.com/butrejp/disprobe/internal/common/output"
)

var (
	entriesFile    string
	probesFile     string
	csvOutput      string
	jsonOutput     string
	timeoutMS      int
	concurrency    int
	rssConcurrency int
	noBrowser      bool
	onlyUpdates    bool
	onlyAhead      bool
	onlyUnknown    bool
	urlsOnly       bool
	debug          bool
	debugFile      string
	verbose        bool
	quiet          bool
	noColor        bool
)

var rootCmd = &cobra.Command{
	Use:   "disprobe",
	Short: "Check tracked distributions for upstream releases",
	Long: `Resolve the latest upstream version of each tracked distribution via
DistroWatch feeds, custom RSS feeds, or direct page URLs, and compare
against the locally recorded versions.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
	},
	Run: runCheck,
}

func init() {
	rootCmd.Flags().StringVarP(&entriesFile, "file", "f", "", "Entries file (default distros.txt)")
	rootCmd.Flags().StringVar(&probesFile, "probes", "", "Per-entry overrides file (default probes.toml)")
	rootCmd.Flags().StringVar(&csvOutput, "csv", "", "Write CSV output to path")
	rootCmd.Flags().StringVar(&jsonOutput, "json", "", "Write JSON output to path")
	rootCmd.Flags().IntVar(&timeoutMS, "timeout", 0, "Per-fetch timeout in milliseconds (default 15000)")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Max entries resolved in parallel (default 8)")
	rootCmd.Flags().IntVar(&rssConcurrency, "rss-concurrency", 0, "Max feed fetches in flight (default 8)")
	rootCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Disable the rendered-page fallback")
	rootCmd.Flags().BoolVar(&onlyUpdates, "only-updates", false, "Show only entries with updates available")
	rootCmd.Flags().BoolVar(&onlyAhead, "only-ahead", false, "Show only entries where local is ahead")
	rootCmd.Flags().BoolVar(&onlyUnknown, "only-unknown", false, "Show only unresolved entries")
	rootCmd.Flags().BoolVar(&urlsOnly, "urls", false, "Print result URLs one per line instead of the table")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Emit debug events as JSON lines to stderr")
	rootCmd.Flags().StringVar(&debugFile, "debug-file", "", "Append debug JSON lines to file (requires --debug)")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
