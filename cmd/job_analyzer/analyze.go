package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-analyzer/internal/observability"
	"github.com/jonathan/job-match-analyzer/internal/pipeline"
	"github.com/jonathan/job-match-analyzer/internal/ranking"
)

// postingFlags name the postings a command reads
type postingFlags struct {
	jobs []string
	urls []string
	text string
}

func (f *postingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.jobs, "job", "j", nil, "Path to a job posting document (txt, md, html, pdf, docx); repeatable")
	cmd.Flags().StringSliceVarP(&f.urls, "url", "u", nil, "URL to fetch a job posting from; repeatable")
	cmd.Flags().StringVarP(&f.text, "text", "t", "", "Job posting text")
}

// sources resolves the flags into postings, falling back to the config file's
// job and job_url
func (f *postingFlags) sources(a *app) []pipeline.Source {
	var sources []pipeline.Source
	if f.text != "" {
		sources = append(sources, pipeline.Source{Text: f.text})
	}
	for _, path := range f.jobs {
		sources = append(sources, pipeline.Source{Path: path})
	}
	for _, u := range f.urls {
		sources = append(sources, pipeline.Source{URL: u})
	}

	if len(sources) == 0 {
		switch {
		case a.cfg.Job != "":
			sources = append(sources, pipeline.Source{Path: a.cfg.Job})
		case a.cfg.JobURL != "":
			sources = append(sources, pipeline.Source{URL: a.cfg.JobURL})
		}
	}
	return sources
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		postings    postingFlags
		profilePath string
		jsonOut     bool
		save        bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score job postings against a candidate profile",
		Long: "Analyze one or more job postings against a profile. A single posting prints the full " +
			"analysis; several postings are analyzed concurrently and printed as a ranking.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sources := postings.sources(a)
			if len(sources) == 0 {
				return fmt.Errorf("either --job, --url or --text must be provided")
			}

			if profilePath == "" {
				profilePath = a.cfg.Profile
			}
			rawProfile, err := readProfile(profilePath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, cleanup, err := a.newRunner(ctx, runnerOptions{store: save})
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if len(sources) == 1 {
				outcome, err := runner.Run(ctx, sources[0], rawProfile, nil)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(out, outcome.Result)
				}
				observability.NewPrinter(out).PrintAnalysis(outcome.Result)
				return nil
			}

			results, err := runner.AnalyzeAll(ctx, sources, rawProfile)
			if err != nil {
				return err
			}
			ranked := ranking.RankPostings(results)
			if jsonOut {
				return writeJSON(out, ranked)
			}
			observability.NewPrinter(out).PrintRanking(ranked)
			return nil
		},
	}

	postings.register(cmd)
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Path to candidate profile JSON")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON instead of a summary")
	cmd.Flags().BoolVar(&save, "save", false, "Persist results to the history store (DATABASE_URL or SQLITE_PATH)")
	return cmd
}
