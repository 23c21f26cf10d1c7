package cli

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lexicon/internal/nlquery"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// interpretation is what the interpret command prints.
type interpretation struct {
	Original      string        `json:"original" yaml:"original"`
	ParsedFilters types.Filters `json:"parsed_filters" yaml:"parsed_filters"`
}

func newInterpretCmd() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "interpret <query...>",
		Short: "Show the filters a natural-language query parses to",
		Long: `Interpret runs the natural-language query parser used by
GET /strings/filter-by-natural-language and prints the resulting filters.
Arguments are joined with spaces.

Example:
  lexicon interpret single word palindromic strings
  lexicon interpret "strings longer than 10 characters"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			filters, err := nlquery.Interpret(query)
			if err != nil {
				return userError(errors.WithHint(err,
					`recognized phrases: "palindromic", "single word", "longer than N", "containing the letter x"`))
			}
			return printValue(cmd.OutOrStdout(), interpretation{Original: query, ParsedFilters: filters}, asYAML)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML instead of JSON")
	return cmd
}
