package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ETFAdvisor/internal/scheduler"
	"ETFAdvisor/internal/session"
	"ETFAdvisor/internal/tier"
	"ETFAdvisor/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web form, JSON API and scheduled data refresh",
	Long: `Serves the web form on web.addr together with the JSON API
(/api/tiers, /api/pick, /api/history), /health and /metrics.
Price history is refreshed on schedule.refresh_cron and idle sessions are
dropped after web.session_ttl.`,
	RunE: runServe,
}

var refreshOnStart bool

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&refreshOnStart, "refresh-on-start", false, "download fresh data before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ttl, err := cfg.SessionTTL()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewManager()
	sched := scheduler.NewScheduler(ctx, a.newCollector(), sessions, ttl, a.notifier, a.recorder)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.PruneCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if refreshOnStart {
		log.Info().Msg("refresh-on-start enabled, refreshing data now")
		go func() {
			if _, err := sched.RunRefreshNow(); err != nil {
				log.Error().Err(err).Msg("startup refresh")
			}
		}()
	}

	srv := web.NewServer(sessions, a.selector, tier.Default, a.recorder, a.recordPick)
	return srv.Run(ctx, cfg.Web.Addr)
}
