package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inkmill/textmill/config"
	"github.com/inkmill/textmill/dsv"
	"github.com/inkmill/textmill/format"
	"github.com/inkmill/textmill/internal/diag"
	"github.com/inkmill/textmill/toml"
)

var (
	fmtFormat string
	fmtMinify bool
	fmtWrite  bool
	fmtConfig string
)

func init() {
	fmtCmd.Flags().StringVar(&fmtFormat, "format", "dsv", "Input format (dsv|toml)")
	fmtCmd.Flags().BoolVar(&fmtMinify, "minify", false, "Minify instead of pretty-print")
	fmtCmd.Flags().BoolVar(&fmtWrite, "write", false, "Write the formatted output back to the file instead of stdout")
	fmtCmd.Flags().StringVar(&fmtConfig, "config", "", "Path to a textmill.yml syntax profile")
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Parse and reformat a DSV or TOML file",
	Long:  "Parses a file through the Pratt parser into its expression tree, then re-renders it through the pretty or minified Format/serializer contract.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, sid := diag.Session("fmt")
		defer logger.Sync()

		path := args[0]
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		logger.Info("formatting",
			zap.String("session", sid.String()),
			zap.String("file", path),
			zap.String("format", fmtFormat),
			zap.Bool("minify", fmtMinify),
		)

		out, err := formatFile(fmtFormat, fmtConfig, source)
		if err != nil {
			return err
		}

		if fmtWrite {
			return os.WriteFile(path, []byte(out), 0644)
		}
		fmt.Print(out)
		return nil
	},
}

func formatFile(format_, configPath string, source []byte) (string, error) {
	switch format_ {
	case "dsv":
		syn := dsv.Default()
		if configPath != "" {
			loaded, _, err := config.LoadSyntax(configPath)
			if err != nil {
				return "", fmt.Errorf("loading config: %w", err)
			}
			syn = loaded
		}
		table, err := dsv.ParseTable(syn, source)
		if err != nil {
			return "", fmt.Errorf("parsing: %w", err)
		}
		sink := newSink()
		if err := table.Format(sink, syn); err != nil {
			return "", fmt.Errorf("formatting: %w", err)
		}
		return sink.Data().(string), nil
	case "toml":
		syn := toml.Default()
		if configPath != "" {
			_, loaded, err := config.LoadSyntax(configPath)
			if err != nil {
				return "", fmt.Errorf("loading config: %w", err)
			}
			syn = loaded
		}
		root, err := toml.Parse(syn, source)
		if err != nil {
			return "", fmt.Errorf("parsing: %w", err)
		}
		sink := newSink()
		if err := toml.WriteDocument(sink, syn, root); err != nil {
			return "", fmt.Errorf("formatting: %w", err)
		}
		return sink.Data().(string), nil
	default:
		return "", fmt.Errorf("unknown --format %q (valid: dsv, toml)", format_)
	}
}

func newSink() *format.StringSink {
	if fmtMinify {
		return format.NewMinifyStringSink(format.DefaultMinifyConfig())
	}
	return format.NewPrettyStringSink(format.DefaultPrettyConfig())
}
