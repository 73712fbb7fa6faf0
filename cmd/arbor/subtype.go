package main

import (
	"github.com/spf13/cobra"

	"mercator-hq/arbor/pkg/cli"
	"mercator-hq/arbor/pkg/engine"
)

var subtypeFlags struct {
	grammar string
	format  string
}

var subtypeCmd = &cobra.Command{
	Use:   "subtype <A> <B>",
	Short: "Check whether type A is a subtype of type B",
	Long: `Check whether type A is a subtype of type B under a grammar.

Types are names or YAML flow mappings. Bare names are qualified with the
grammar's namespace; primitive names keep their "primitive." prefix.

The command exits with status 1 when A is not a subtype of B.

Examples:
  # Union membership
  arbor subtype --grammar grammars/lang.yaml BooleanLiteralTrue Expression

  # Structural covariance
  arbor subtype --grammar grammars/lang.yaml \
    "{type: primitive.List, parameters: [Identifier]}" \
    "{type: primitive.List, parameters: [Expression]}"`,
	Args: cobra.ExactArgs(2),
	RunE: checkSubtype,
}

func init() {
	rootCmd.AddCommand(subtypeCmd)

	subtypeCmd.Flags().StringVarP(&subtypeFlags.grammar, "grammar", "g", "", "grammar file (required)")
	subtypeCmd.Flags().StringVar(&subtypeFlags.format, "format", "text", "output format: text, json, csv")
	_ = subtypeCmd.MarkFlagRequired("grammar")
}

func checkSubtype(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(subtypeFlags.format)
	if err != nil {
		return cli.NewCommandError("subtype", err)
	}

	s, err := openSession("subtype", subtypeFlags.grammar)
	if err != nil {
		return err
	}
	defer s.Close()

	a, err := parseTypeArg(s.registry, args[0])
	if err != nil {
		return cli.NewCommandError("subtype", err)
	}
	b, err := parseTypeArg(s.registry, args[1])
	if err != nil {
		return cli.NewCommandError("subtype", err)
	}

	result := s.engine.CheckSubtype(cmd.Context(), a, b)
	results := []*engine.Result{result}
	if err := printResults(cmd.OutOrStdout(), format, results); err != nil {
		return err
	}
	if result.Err != nil {
		return cli.NewCommandError("subtype", result.Err)
	}
	return summarize(results)
}
