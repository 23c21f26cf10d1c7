package cli

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/lexicon/internal/analyzer"
)

func newAnalyzeCmd() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Print the properties of a string",
		Long: `Analyze computes the properties lexicon stores for a string, without
storing it. The text is trimmed and lower-cased before analysis.

Example:
  lexicon analyze "Hello World"
  lexicon analyze --yaml racecar`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props := analyzer.Analyze(args[0])
			return printValue(cmd.OutOrStdout(), props, asYAML)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML instead of JSON")
	return cmd
}

// printValue writes v as indented JSON, or as YAML when asYAML is set.
func printValue(w io.Writer, v any, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return sysError(errors.Wrap(err, "encode yaml"))
		}
		if err := enc.Close(); err != nil {
			return sysError(errors.Wrap(err, "flush yaml"))
		}
		return nil
	}

	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(errors.Wrap(err, "encode json"))
	}
	out = append(out, '\n')
	if _, err := w.Write(out); err != nil {
		return sysError(errors.Wrap(err, "write output"))
	}
	return nil
}
