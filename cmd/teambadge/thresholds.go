package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/okian/teambadge/internal/domain/badge"
	"github.com/okian/teambadge/internal/domain/types"
)

func newThresholdsCmd(root *rootOptions) *cobra.Command {
	var (
		ruleset string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Print a ruleset's primary and secondary cutoffs",
		Long: `Print the threshold table rows in evaluation order.

Examples:
  teambadge thresholds
  teambadge thresholds --ruleset=wiaa
  teambadge thresholds --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := badge.Lookup(ruleset)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(types.ThresholdsResponse{
					Ruleset:  table.Name(),
					Fallback: table.Fallback(),
					Rules:    table.Rules(),
				})
			}
			root.printerTo(cmd.OutOrStdout()).Thresholds(table)
			return nil
		},
	}
	cmd.Flags().StringVar(&ruleset, "ruleset", badge.RulesetNCAA, "Threshold table (ncaa, wiaa)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the table as JSON")
	return cmd
}
