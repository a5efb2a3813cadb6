package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ETFAdvisor/internal/notifier"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent picks",
	RunE:  runHistory,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of picks to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyLimit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}
	rec := openRecorder(cfg.Database.SQLitePath)
	defer rec.Close()

	picks, err := rec.RecentPicks(historyLimit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatHistory(picks))
	return nil
}
