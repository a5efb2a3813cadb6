package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ETFAdvisor/internal/notifier"
	"ETFAdvisor/internal/tier"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "List risk levels and their ETFs",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), notifier.FormatTiers(tier.Default))
		return err
	},
}

func init() {
	rootCmd.AddCommand(tiersCmd)
}
