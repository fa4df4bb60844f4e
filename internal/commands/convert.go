package commands

import (
	scribe "github.com/reoring/scribe"
	"github.com/spf13/cobra"
)

// ConvertCmd creates the 'convert' command: read a data file as a Tome and
// write it out in the format implied by the output suffix.
func ConvertCmd() *cobra.Command {
	var schemaFile string

	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert a data file from one format to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := scribe.Schema{} // any, unless a schema is given
			if schemaFile != "" {
				loaded, err := scribe.SchemaFromFile(schemaFile)
				if err != nil {
					return err
				}
				schema = loaded
			}
			tome, err := scribe.ReadFile(args[0], schema)
			if err != nil {
				return err
			}
			return scribe.WriteFile(args[1], &tome, schema)
		},
	}

	cmd.Flags().StringVar(&schemaFile, "schema", "", "schema file (defaults to 'any')")
	return cmd
}
