package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ETFAdvisor/internal/scheduler"
)

var grabCmd = &cobra.Command{
	Use:   "grab",
	Short: "Download daily closes for every ETF into the data directory",
	Long: `Downloads daily closes between data.start and data.end from Yahoo Finance
and writes one <TICKER>.csv per ETF into data.dir. The command fails only
when every ticker fails.`,
	RunE: runGrab,
}

func init() {
	rootCmd.AddCommand(grabCmd)
}

func runGrab(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	col := a.newCollector()
	sched := scheduler.NewScheduler(ctx, col, nil, 0, a.notifier, a.recorder)
	res, err := sched.RunRefreshNow()
	if res != nil {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Updated %d of %d ETFs in %s (%s)\n", len(res.OK), len(col.Tickers), cfg.Data.Dir, res.Duration.Round(time.Millisecond))
		for _, t := range col.Tickers {
			if ferr, ok := res.Failed[t]; ok {
				fmt.Fprintf(out, "  %s: %v\n", t, ferr)
			}
		}
	}
	return err
}
