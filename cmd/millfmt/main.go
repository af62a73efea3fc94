// Command millfmt lexes and reformats DSV and TOML documents through the
// textmill core, wiring the lexer/parser/formatter behind a cobra root
// command.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time via -ldflags.
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "millfmt",
		Short: "Tokenize and reformat DSV and TOML documents",
		Long: `millfmt drives the textmill streaming tokenizer and Pratt parser
over DSV (comma/tab/semicolon-separated) and TOML documents: it can dump
the raw token stream or parse-then-reformat a file through the pretty or
minified Format/serializer contract.`,
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(lexCmd)
	rootCmd.AddCommand(fmtCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
