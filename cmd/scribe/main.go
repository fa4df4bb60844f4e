package main

import (
	"fmt"
	"os"

	scribe "github.com/reoring/scribe"
	"github.com/reoring/scribe/internal/commands"
)

func main() {
	rootCmd := commands.RootCmd()
	rootCmd.AddCommand(commands.ValidateCmd())
	rootCmd.AddCommand(commands.ConvertCmd())
	rootCmd.AddCommand(commands.CodegenCmd())
	rootCmd.AddCommand(commands.GuessSchemaCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		// schema violations exit 1; everything else exits 2
		if scribe.IsValidation(err) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
