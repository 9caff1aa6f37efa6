package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-analyzer/internal/analyzer"
	"github.com/jonathan/job-match-analyzer/internal/cache"
	"github.com/jonathan/job-match-analyzer/internal/config"
	"github.com/jonathan/job-match-analyzer/internal/db"
	"github.com/jonathan/job-match-analyzer/internal/fetch"
	"github.com/jonathan/job-match-analyzer/internal/observability"
	"github.com/jonathan/job-match-analyzer/internal/pipeline"
	"github.com/jonathan/job-match-analyzer/internal/taxonomy"
)

// app carries what every subcommand shares once the root command has loaded
// configuration
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "job_analyzer",
		Short: "Rule-based job posting analyzer",
		Long: "job_analyzer extracts structured requirements from job postings, scores them " +
			"against a candidate profile and recommends whether to apply.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to JSON config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text or json")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Print detailed debug information")

	root.AddCommand(
		newAnalyzeCmd(a),
		newExtractCmd(a),
		newTaxonomyCmd(a),
		newValidateCmd(a),
		newServeCmd(a),
		newWorkerCmd(a),
		newHistoryCmd(a),
	)
	return root
}

// load reads configuration and installs the logger. Flags win over the config
// file and environment.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	if a.verbose {
		cfg.Verbose = true
		cfg.LogLevel = "debug"
	}

	logger, err := observability.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	slog.SetDefault(logger)

	a.cfg = cfg
	a.logger = logger
	return nil
}

// runnerOptions controls which optional collaborators newRunner wires up
type runnerOptions struct {
	store    bool
	cache    cache.Store
	recorder analyzer.Recorder
}

// newRunner builds a pipeline runner from configuration. The returned cleanup
// closes the history store, if one was opened.
func (a *app) newRunner(ctx context.Context, opts runnerOptions) (*pipeline.Runner, func(), error) {
	tax, err := taxonomy.Load(a.cfg.TaxonomyPath)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var store db.Store
	if opts.store {
		store, err = db.Open(ctx, a.cfg.DatabaseURL, a.cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if store != nil {
			cleanup = func() {
				if err := store.Close(); err != nil {
					a.logger.Warn("failed to close history store", slog.Any("error", err))
				}
			}
		}
	}

	runner := pipeline.New(pipeline.Options{
		Taxonomy:   tax,
		Recorder:   opts.recorder,
		Store:      store,
		Cache:      opts.cache,
		Fetcher:    fetch.NewFetcher(opts.cache, nil),
		Logger:     a.logger,
		UseBrowser: a.cfg.UseBrowser,
	})
	return runner, cleanup, nil
}

// readProfile loads a profile document. An empty path is an empty profile.
func readProfile(path string) ([]byte, error) {
	if path == "" {
		return []byte("{}"), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	return data, nil
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
