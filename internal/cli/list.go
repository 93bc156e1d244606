package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/apibench/internal/output"
	"github.com/wesleyorama2/apibench/internal/strategy"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the call strategies in benchmark order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")

			var rows []output.StrategyRow
			for _, s := range strategy.All(nil) {
				method := "GET"
				if s.IsPost() {
					method = "POST"
				}
				rows = append(rows, output.StrategyRow{Label: s.Label, Method: method, Description: s.Description})
			}
			return output.WriteStrategies(cmd.OutOrStdout(), rows, noColor)
		},
	}
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	return cmd
}
