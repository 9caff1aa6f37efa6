package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-analyzer/internal/db"
	"github.com/jonathan/job-match-analyzer/internal/observability"
)

var errNoHistory = errors.New("no history store configured: set DATABASE_URL or SQLITE_PATH")

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse stored analyses",
	}
	cmd.AddCommand(newHistoryListCmd(a), newHistoryShowCmd(a))
	return cmd
}

// openStore opens the configured history store; it is an error to have none
func (a *app) openStore(ctx context.Context) (db.Store, error) {
	store, err := db.Open(ctx, a.cfg.DatabaseURL, a.cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errNoHistory
	}
	return store, nil
}

func newHistoryListCmd(a *app) *cobra.Command {
	var (
		filter  db.ListFilter
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored analyses, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			analyses, err := store.ListAnalyses(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("failed to list analyses: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				if analyses == nil {
					analyses = []db.AnalysisSummary{}
				}
				return writeJSON(out, analyses)
			}
			if len(analyses) == 0 {
				fmt.Fprintln(out, "No analyses found")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSCORE\tACTION\tTITLE\tCOMPANY\tCREATED")
			for _, s := range analyses {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
					s.ID, s.Score, s.Action, s.Title, s.Company, s.CreatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&filter.Limit, "limit", db.DefaultListLimit, "Maximum number of analyses")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "Number of analyses to skip")
	cmd.Flags().IntVar(&filter.MinScore, "min-score", 0, "Only analyses scoring at least this")
	cmd.Flags().StringVar(&filter.Action, "action", "", "Only analyses with this recommendation")
	cmd.Flags().StringVar(&filter.Company, "company", "", "Only analyses for this company")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON")
	return cmd
}

func newHistoryShowCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			record, err := store.GetAnalysis(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get analysis: %w", err)
			}
			if record == nil {
				return fmt.Errorf("analysis not found: %s", args[0])
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, record)
			}
			observability.NewPrinter(out).PrintAnalysis(record.Result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON")
	return cmd
}
