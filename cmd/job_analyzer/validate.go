package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-analyzer/internal/schemas"
	embedded "github.com/jonathan/job-match-analyzer/schemas"
)

// builtinSchemas maps short names accepted by --schema to embedded schema files
var builtinSchemas = map[string]string{
	"analysis_result":  embedded.AnalysisResult,
	"user_profile":     embedded.UserProfile,
	"analysis_request": embedded.AnalysisRequest,
}

func newValidateCmd(_ *app) *cobra.Command {
	var schemaArg, jsonPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a JSON document against a JSON Schema",
		Long: "Validate a JSON document against one of the built-in schemas (analysis_result, " +
			"user_profile, analysis_request) or a schema file on disk.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if name, ok := builtinSchemas[strings.TrimSuffix(schemaArg, ".schema.json")]; ok {
				var data []byte
				data, err = os.ReadFile(jsonPath)
				if err != nil {
					return fmt.Errorf("failed to read JSON file: %w", err)
				}
				err = schemas.ValidateBytes(name, data)
			} else {
				err = schemas.ValidateFile(schemaArg, jsonPath)
			}

			out := cmd.OutOrStdout()
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				fmt.Fprint(out, "Validation failed\n")
				fmt.Fprint(out, validationErr.Error())
				return fmt.Errorf("%s does not match schema %s", jsonPath, schemaArg)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Validation passed: %s\n", jsonPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&schemaArg, "schema", "s", "", "Built-in schema name or path to a schema file (required)")
	cmd.Flags().StringVarP(&jsonPath, "json", "j", "", "Path to JSON file to validate (required)")
	if err := cmd.MarkFlagRequired("schema"); err != nil {
		panic(fmt.Sprintf("failed to mark schema flag as required: %v", err))
	}
	if err := cmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}
	return cmd
}
