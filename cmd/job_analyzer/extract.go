package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-analyzer/internal/ingestion"
	"github.com/jonathan/job-match-analyzer/internal/observability"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		postings postingFlags
		jsonOut  bool
		outDir   string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract structured data from a job posting",
		Long:  "Run only the extractor: title, company, skills, qualifications, responsibilities and benefits.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sources := postings.sources(a)
			if len(sources) != 1 {
				return fmt.Errorf("exactly one of --job, --url or --text must be provided")
			}

			runner, cleanup, err := a.newRunner(cmd.Context(), runnerOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			posting, err := runner.Ingest(cmd.Context(), sources[0])
			if err != nil {
				return err
			}
			extraction := runner.Analyzer().Extract(posting.Text)
			if outDir != "" {
				if err := ingestion.WriteArtifacts(outDir, posting.Text, posting.Metadata); err != nil {
					return err
				}
				a.logger.Info("wrote cleaned posting", slog.String("dir", outDir), slog.String("hash", posting.Metadata.Hash))
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, extraction)
			}
			observability.NewPrinter(out).PrintExtractedData(&extraction.Data)
			fmt.Fprintf(out, "Extraction confidence: %.2f\n", extraction.Confidence)
			return nil
		},
	}

	postings.register(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON instead of a summary")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Also write the cleaned posting and its metadata to this directory")
	return cmd
}
