package commands

import (
	"fmt"

	scribe "github.com/reoring/scribe"
	"github.com/spf13/cobra"
)

// ValidateCmd creates the 'validate' command: drive a validate-only pass of
// a data file against a schema.
func ValidateCmd() *cobra.Command {
	var schemaFile string

	cmd := &cobra.Command{
		Use:   "validate DATA",
		Short: "Validate a data file (json/h5) against a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := scribe.SchemaFromFile(schemaFile)
			if err != nil {
				return err
			}
			if err := scribe.ValidateFile(args[0], schema); err != nil {
				if scribe.IsValidation(err) {
					return fmt.Errorf("validation FAILED: %w", err)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "validation OK")
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaFile, "schema", "", "schema file")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
