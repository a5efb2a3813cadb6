package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ETFAdvisor/internal/notifier"
	"ETFAdvisor/internal/scheduler"
	"ETFAdvisor/internal/session"
	"ETFAdvisor/internal/tier"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	Long: `Long-polls Telegram for commands. Every chat keeps its own risk level
and list of ETFs already shown. Requires telegram.bot_token.`,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.notifier.Enabled() {
		return errors.New("telegram.bot_token is not set")
	}
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

	bot := notifier.NewBot(sessions, a.selector, tier.Default, a.recordPick)
	log.Info().Msg("telegram polling started")
	a.notifier.StartPolling(ctx, bot.HandleCommand)
	return nil
}
