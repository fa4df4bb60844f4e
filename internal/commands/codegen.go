package commands

import (
	"fmt"

	scribe "github.com/reoring/scribe"
	"github.com/reoring/scribe/codegen"
	"github.com/spf13/cobra"
)

// CodegenCmd creates the 'codegen' command: emit Go record definitions for
// a schema to stdout.
func CodegenCmd() *cobra.Command {
	var schemaFile string
	var pkg string

	cmd := &cobra.Command{
		Use:   "codegen",
		Short: "Generate Go record types from a schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := scribe.SchemaFromFile(schemaFile)
			if err != nil {
				return err
			}
			src, err := codegen.Generate(schema, pkg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), src)
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaFile, "schema", "", "schema file")
	cmd.Flags().StringVar(&pkg, "package", "main", "package name for the generated file")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
