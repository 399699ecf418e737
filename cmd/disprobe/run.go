package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/butrejp/disprobe/internal/common/config"
	"github.com/butrejp/disprobe/internal/common/logger"
	"github.com/butrejp/disprobe/internal/common/output"
	"github.com/butrejp/disprobe/internal/events"
	"github.com/butrejp/disprobe/internal/probe"
	"github.com/butrejp/disprobe/internal/render"
	"github.com/butrejp/disprobe/internal/transport"
)

func runCheck(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		output.PrintError("loading config: %v", err)
		os.Exit(int(probe.ExitConfig))
	}
	applyFlags(cfg)

	if debugFile != "" && !debug {
		output.PrintError("--debug-file requires --debug")
		os.Exit(int(probe.ExitConfig))
	}

	entries, warnings, err := probe.LoadEntriesFile(cfg.Probe.EntriesFile)
	for _, w := range warnings {
		output.PrintWarning("%s", w)
	}
	if err != nil {
		output.PrintError("reading %s: %v", cfg.Probe.EntriesFile, err)
		os.Exit(int(probe.ExitConfig))
	}

	overrides, err := probe.LoadOverrides(cfg.Probe.ProbesFile)
	if err != nil {
		output.PrintError("reading %s: %v", cfg.Probe.ProbesFile, err)
		os.Exit(int(probe.ExitConfig))
	}
	if err := probe.ApplyOverrides(entries, overrides); err != nil {
		output.PrintError("applying overrides: %v", err)
		os.Exit(int(probe.ExitConfig))
	}

	sink, closeSink, err := openSink()
	if err != nil {
		output.PrintError("%v", err)
		os.Exit(int(probe.ExitConfig))
	}
	defer closeSink()

	httpFetcher := transport.NewHTTPFetcher(cfg.Timeout())
	feedFetcher := transport.NewLimitFetcher(httpFetcher, cfg.Probe.RSSConcurrency)

	var renderer transport.Renderer
	if !cfg.Probe.NoBrowser {
		br := transport.NewBrowserRenderer(cfg.Timeout())
		defer br.Close()
		renderer = br
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := probe.NewOrchestratorWithFeedFetcher(httpFetcher, feedFetcher, renderer, sink)
	sched := probe.NewScheduler(orch, cfg.Probe.Concurrency, 0, sink)

	logger.Debug("resolving %d entries with concurrency %d", len(entries), cfg.Probe.Concurrency)
	result := sched.Run(ctx, entries)

	shown := filterOutcomes(result.Outcomes)
	code := probe.Aggregate(result.Outcomes, len(warnings))

	if urlsOnly {
		for _, o := range shown {
			if o.Link != "" {
				fmt.Println(o.Link)
			}
		}
		os.Exit(int(code))
	}

	table := render.NewTable(os.Stdout)
	for _, o := range shown {
		table.Add(o)
	}
	table.Render()

	if csvOutput != "" {
		if err := render.WriteCSVFile(csvOutput, shown); err != nil {
			output.PrintError("writing CSV: %v", err)
			os.Exit(int(probe.ExitFatal))
		}
	}
	if jsonOutput != "" {
		report := render.NewReport(shown, result, code)
		if err := render.WriteJSONFile(jsonOutput, report); err != nil {
			output.PrintError("writing JSON: %v", err)
			os.Exit(int(probe.ExitFatal))
		}
	}

	os.Exit(int(code))
}

// applyFlags folds explicitly set command-line flags over the loaded
// configuration. Flags always win over the config file.
func applyFlags(cfg *config.Config) {
	if entriesFile != "" {
		cfg.Probe.EntriesFile = entriesFile
	}
	if probesFile != "" {
		cfg.Probe.ProbesFile = probesFile
	}
	if timeoutMS > 0 {
		cfg.Probe.TimeoutMS = timeoutMS
	}
	if concurrency > 0 {
		cfg.Probe.Concurrency = concurrency
	}
	if rssConcurrency > 0 {
		cfg.Probe.RSSConcurrency = rssConcurrency
	}
	if noBrowser {
		cfg.Probe.NoBrowser = true
	}
	if cfg.Output.NoColor {
		output.NoColor()
	}
}

// openSink builds the debug event sink. Without --debug all events are
// dropped through a nil sink.
func openSink() (events.Sink, func(), error) {
	if !debug {
		return nil, func() {}, nil
	}
	if debugFile != "" {
		fs, err := events.NewFileSink(debugFile)
		if err != nil {
			return nil, nil, fmt.Errorf("opening debug file: %w", err)
		}
		return fs, func() { fs.Close() }, nil
	}
	return events.NewJSONLSink(os.Stderr), func() {}, nil
}

// filterOutcomes applies the --only-* flags. With none set everything
// passes; with any set, an outcome must match one of the enabled ones.
func filterOutcomes(outcomes []probe.Outcome) []probe.Outcome {
	if !onlyUpdates && !onlyAhead && !onlyUnknown {
		return outcomes
	}
	filtered := make([]probe.Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		switch {
		case onlyUpdates && o.Status == probe.StatusUpdateAvailable:
		case onlyAhead && o.Status == probe.StatusLocalAhead:
		case onlyUnknown && o.Status == probe.StatusUnknown:
		default:
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered
}
