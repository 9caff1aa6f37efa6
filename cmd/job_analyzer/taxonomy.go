package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-analyzer/internal/taxonomy"
)

func newTaxonomyCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Print the skill taxonomy",
		Long:  "Print the skill taxonomy in scan order: the built-in one, or the file named by TAXONOMY_PATH.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tax, err := taxonomy.Load(a.cfg.TaxonomyPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, tax.Categories())
			}

			fmt.Fprintf(out, "%d skills\n", tax.SkillCount())
			for _, c := range tax.Categories() {
				fmt.Fprintf(out, "\n%s (%s, weight %.1f)\n", c.Name, c.Kind, c.Weight)
				fmt.Fprintf(out, "  %s\n", strings.Join(c.Skills, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON")
	return cmd
}
