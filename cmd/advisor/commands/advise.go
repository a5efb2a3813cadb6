package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ETFAdvisor/internal/console"
)

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Interactive console: best ETF for a risk level, one at a time",
	RunE:  runAdvise,
}

func init() {
	rootCmd.AddCommand(adviseCmd)
}

func runAdvise(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shell := console.New(a.selector, cmd.InOrStdin(), cmd.OutOrStdout(), a.recordPick)
	return shell.Run(ctx)
}
