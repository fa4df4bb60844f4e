// Package commands assembles the scribe command line: validate, convert,
// codegen and guess-schema over schema-governed data files.
package commands

import (
	"github.com/spf13/cobra"
)

// RootCmd creates and returns the root 'scribe' command.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scribe",
		Short: "Schema-governed data exchange for scientific payloads",
		Long: `Scribe validates, converts and inspects data files governed by a schema.

Data formats are inferred from the file suffix: .json for the text tree
format, .h5/.hdf5 for the hierarchical binary container. Schema documents
are JSON (comments allowed) or YAML.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	return cmd
}
