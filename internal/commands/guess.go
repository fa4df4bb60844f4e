package commands

import (
	"fmt"

	scribe "github.com/reoring/scribe"
	"github.com/spf13/cobra"
)

// GuessSchemaCmd creates the 'guess-schema' command: read a data file under
// the 'any' schema and emit the narrowest schema it satisfies.
func GuessSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guess-schema DATA [SCHEMA_OUT]",
		Short: "Guess a schema from an existing data file",
		Long: `Read DATA under the 'any' schema and emit the narrowest schema it
satisfies. The guess is best-effort: heterogeneous array elements are not
unified beyond the first element.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tome, err := scribe.ReadFile(args[0], scribe.Schema{})
			if err != nil {
				return err
			}
			schema := scribe.GuessSchema(&tome)
			if len(args) == 2 {
				return scribe.WriteSchemaFile(args[1], schema)
			}
			doc, err := schema.MarshalJSON()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(doc))
			return nil
		},
	}
	return cmd
}
